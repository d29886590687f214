package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/wad"
)

func newLumpsCmd(a *app) *cobra.Command {
	var archive int
	var overriding bool
	cmd := &cobra.Command{
		Use:   "lumps [archive...]",
		Short: "List lumps with their roles and priorities",
		Long: `The lumps command lists every lump in the directory in load order.

Example:
  wadctl lumps doom2.wad
  wadctl lumps doom2.wad mymod.wad --archive 1
  wadctl lumps doom2.wad mymod.wad --overriding`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDirectory(cmd, args, func(d *wad.Directory) error {
				return printLumps(cmd, d, archive, overriding)
			})
		},
	}
	cmd.Flags().IntVar(&archive, "archive", -1, "Only list lumps of this archive index")
	cmd.Flags().BoolVar(&overriding, "overriding", false, "Only list lumps that win their name")
	return cmd
}

func printLumps(cmd *cobra.Command, d *wad.Directory, archive int, overriding bool) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tARCHIVE\tPRIORITY\tROLE")
	for id, l := range d.Lumps() {
		if archive >= 0 && l.Archive != archive {
			continue
		}
		if overriding {
			if winner, _ := d.LookupByName(l.Name.String()); winner != id {
				continue
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", id, l.Name, l.Size, l.Archive, l.Priority, l.Role)
	}
	return tw.Flush()
}
