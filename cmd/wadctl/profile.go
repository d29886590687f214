package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/felixge/fgprof"
)

// profiles tracks the profiles started for one command invocation.
type profiles struct {
	cpu     *os.File
	fg      *os.File
	stopFG  func() error
	memPath string
}

// startProfiles starts CPU and wall-clock profiling. Empty paths disable the
// corresponding profile. The heap profile is written by stop.
func startProfiles(cpuPath, memPath, fgPath string) (*profiles, error) {
	p := &profiles{memPath: memPath}
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, fmt.Errorf("create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start cpu profile: %w", err)
		}
		p.cpu = f
	}
	if fgPath != "" {
		f, err := os.Create(fgPath)
		if err != nil {
			_ = p.stop()
			return nil, fmt.Errorf("create fgprof profile: %w", err)
		}
		p.fg = f
		p.stopFG = fgprof.Start(f, fgprof.FormatPprof)
	}
	return p, nil
}

func (p *profiles) stop() error {
	var errs []error
	if p.cpu != nil {
		pprof.StopCPUProfile()
		errs = append(errs, p.cpu.Close())
		p.cpu = nil
	}
	if p.stopFG != nil {
		errs = append(errs, p.stopFG(), p.fg.Close())
		p.stopFG = nil
	}
	if p.memPath != "" {
		errs = append(errs, writeHeapProfile(p.memPath))
		p.memPath = ""
	}
	return errors.Join(errs...)
}

func writeHeapProfile(path string) error {
	runtime.GC()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile: %w", err)
	}
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write mem profile: %w", err)
	}
	return f.Close()
}
