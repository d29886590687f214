package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/wad"
)

func newLookupCmd(a *app) *cobra.Command {
	var patch, all bool
	cmd := &cobra.Command{
		Use:   "lookup <name> [archive...]",
		Short: "Show which lump a name resolves to",
		Long: `The lookup command resolves a lump name the way the engine does and
prints the winning lump. With --all every lump of that name is listed, winner
first.

Example:
  wadctl lookup PLAYPAL doom2.wad mymod.wad
  wadctl lookup STEP1 doom2.wad --patch`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDirectory(cmd, args[1:], func(d *wad.Directory) error {
				return runLookup(cmd.OutOrStdout(), d, args[0], patch, all)
			})
		},
	}
	cmd.Flags().BoolVar(&patch, "patch", false, "Only consider lumps usable as texture patches")
	cmd.Flags().BoolVar(&all, "all", false, "List every lump with the name")
	return cmd
}

func runLookup(w io.Writer, d *wad.Directory, name string, patch, all bool) error {
	var ids []wad.LumpID
	switch {
	case all:
		ids = d.LumpsNamed(name)
	case patch:
		if id, ok := d.LookupAsPatch(name); ok {
			ids = append(ids, id)
		}
	default:
		if id, ok := d.LookupByName(name); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("lump %s: %w", wad.CanonicalName(name), wad.ErrNotFound)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tROLE\tPRIORITY\tPWAD\tARCHIVE")
	for _, id := range ids {
		l, _ := d.Lump(id)
		arch, _ := d.Archive(l.Archive)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%t\t%s\n",
			id, l.Name, l.Size, l.Role, l.Priority, !rootArchive(d, arch).IWAD(), arch.Path())
	}
	return tw.Flush()
}

// rootArchive follows derived companions back to the archive they came from.
func rootArchive(d *wad.Directory, arch *wad.Archive) *wad.Archive {
	for {
		p, ok := arch.Parent()
		if !ok {
			return arch
		}
		arch, _ = d.Archive(p)
	}
}

func newExtractCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "extract <name> [archive...]",
		Short: "Write the payload of the winning lump",
		Long: `The extract command writes the payload of the lump a name resolves to,
to a file or to standard output.

Example:
  wadctl extract PLAYPAL doom2.wad -o playpal.lmp
  wadctl extract DEHACKED mymod.wad > mymod.deh`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDirectory(cmd, args[1:], func(d *wad.Directory) error {
				return runExtract(cmd.OutOrStdout(), d, args[0], output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of standard output")
	return cmd
}

func runExtract(stdout io.Writer, d *wad.Directory, name, output string) error {
	id, ok := d.LookupByName(name)
	if !ok {
		return fmt.Errorf("lump %s: %w", wad.CanonicalName(name), wad.ErrNotFound)
	}
	r, err := d.LumpReader(id)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = io.Copy(stdout, r)
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	return f.Close()
}
