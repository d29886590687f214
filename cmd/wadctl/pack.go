package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/meigma/wad"
	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/hash"
)

func newPackCmd(a *app) *cobra.Command {
	var iwad bool
	cmd := &cobra.Command{
		Use:   "pack <output> <file...>",
		Short: "Pack files into a WAD",
		Long: `The pack command writes a new WAD from the given files, in order. A WAD
input contributes all of its lumps; any other file becomes one lump named
after it (things.ddf becomes DDFTHING, fix.deh becomes DEHACKED, titlepic.lmp
becomes TITLEPIC).

Example:
  wadctl pack mod.wad things.ddf weapons.ddf titlepic.lmp
  wadctl pack --iwad base.wad parts.wad extra.lmp`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lumps, err := collectLumps(args[1:])
			if err != nil {
				return err
			}
			if err := wad.WriteFile(args[0], lumps, wad.CreateWithIWAD(iwad)); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			a.logger.Info("packed archive", "path", args[0], "lumps", len(lumps))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d lumps\n", args[0], len(lumps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&iwad, "iwad", false, "Write an IWAD instead of a PWAD")
	return cmd
}

func collectLumps(paths []string) ([]wad.LumpData, error) {
	var lumps []wad.LumpData
	for _, path := range paths {
		kind := wad.KindFromPath(path)
		src, err := format.Open(path, kind, hash.Default)
		if err != nil {
			return nil, err
		}
		for _, rec := range src.Records {
			data := make([]byte, rec.Size)
			if _, err := io.ReadFull(io.NewSectionReader(src.File, rec.Offset, rec.Size), data); err != nil {
				_ = src.Close()
				return nil, fmt.Errorf("read %s from %s: %w", rec.Name, path, err)
			}
			lumps = append(lumps, wad.LumpData{Name: rec.Name.String(), Data: data})
		}
		if err := src.Close(); err != nil {
			return nil, fmt.Errorf("close %s: %w", path, err)
		}
	}
	return lumps, nil
}
