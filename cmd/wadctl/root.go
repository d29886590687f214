package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meigma/wad"
	"github.com/meigma/wad/build"
	"github.com/meigma/wad/cache/disk"
)

// app carries global flag values and state shared by subcommands.
type app struct {
	configPath string
	cacheDir   string
	verbose    bool
	cpuProfile string
	memProfile string
	fgProfile  string

	cfg      *Config
	logger   *slog.Logger
	profiles *profiles
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "wadctl",
		Short: "Inspect WAD load orders and manage derived artifacts",
		Long: `wadctl loads WAD archives in order into a single lump directory and
reports what the engine would see: which lump wins a name, which levels exist,
and which derived node and conversion companions were built or reused.`,
		Version:           "0.1.0",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&a.cacheDir, "cache-dir", "", "Derived-artifact cache directory")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&a.cpuProfile, "cpuprofile", "", "Write a CPU profile to file")
	flags.StringVar(&a.memProfile, "memprofile", "", "Write a heap profile to file")
	flags.StringVar(&a.fgProfile, "fgprof", "", "Write a wall-clock profile to file")

	cmd.AddCommand(
		newFilesCmd(a),
		newLumpsCmd(a),
		newLookupCmd(a),
		newExtractCmd(a),
		newLevelsCmd(a),
		newHashCmd(a),
		newPackCmd(a),
		newCacheCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.profiles, err = startProfiles(a.cpuProfile, a.memProfile, a.fgProfile)
	return err
}

func (a *app) teardown() error {
	if a.profiles == nil {
		return nil
	}
	return a.profiles.stop()
}

// cacheDirectory returns the cache directory: the flag, then the config
// file, then the library default.
func (a *app) cacheDirectory() string {
	switch {
	case a.cacheDir != "":
		return a.cacheDir
	case a.cfg != nil && a.cfg.CacheDir != "":
		return a.cfg.CacheDir
	default:
		return wad.DefaultCacheDir()
	}
}

// openCache opens the derived-artifact cache.
func (a *app) openCache() (*disk.Cache, error) {
	var maxBytes int64
	if a.cfg != nil {
		maxBytes = a.cfg.CacheMaxBytes
	}
	return disk.New(a.cacheDirectory(), disk.WithMaxBytes(maxBytes), disk.WithLogger(a.logger))
}

// open loads the configured load order followed by paths.
func (a *app) open(ctx context.Context, diag io.Writer, paths []string) (*wad.Directory, error) {
	load := append(append([]string(nil), a.cfg.Files...), paths...)
	if len(load) == 0 {
		return nil, errors.New("no archives: name them on the command line or under files in the config")
	}

	c, err := a.openCache()
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	opts := []wad.Option{
		wad.WithLogger(a.logger),
		wad.WithCache(c),
		wad.WithDiagnosticFunc(func(d wad.Diagnostic) {
			fmt.Fprintf(diag, "warning: %s: %s\n", d.Archive, d.Message)
		}),
	}
	if len(a.cfg.Builder) > 0 {
		b, err := build.Parse(a.cfg.Builder, build.WithLogger(a.logger))
		if err != nil {
			return nil, fmt.Errorf("builder: %w", err)
		}
		opts = append(opts, wad.WithIndexBuilder(b))
	}
	if len(a.cfg.Converter) > 0 {
		conv, err := build.Parse(a.cfg.Converter, build.WithLogger(a.logger))
		if err != nil {
			return nil, fmt.Errorf("converter: %w", err)
		}
		opts = append(opts, wad.WithConverter(build.NewConverter(conv)))
	}
	var external []wad.Subsystem
	for _, name := range a.cfg.ExternalDDF {
		if sub, ok := wad.SubsystemForName(wad.CanonicalName(name)); ok {
			external = append(external, sub)
		}
	}
	opts = append(opts, wad.WithExternalDDF(external...))

	d, err := wad.New(opts...)
	if err != nil {
		return nil, err
	}
	for _, path := range load {
		if _, err := d.AddFile(ctx, path); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	return d, nil
}

// withDirectory opens the load order, runs fn and closes the directory.
func (a *app) withDirectory(cmd *cobra.Command, paths []string, fn func(*wad.Directory) error) (err error) {
	d, err := a.open(cmd.Context(), cmd.ErrOrStderr(), paths)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.Close())
	}()
	return fn(d)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
