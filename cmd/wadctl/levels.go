package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/wad"
)

func newLevelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "levels [archive...]",
		Short: "List detected levels",
		Long: `The levels command lists every level marker detected in load order and
whether the winning definition of each level has GL nodes available.

Example:
  wadctl levels doom2.wad mymod.wad`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDirectory(cmd, args, func(d *wad.Directory) error {
				return printLevels(cmd, d)
			})
		},
	}
}

func printLevels(cmd *cobra.Command, d *wad.Directory) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "NAME\tARCHIVE\tGL\tNODES\tPATH")
	for _, arch := range d.Archives() {
		for _, lv := range arch.Levels() {
			nodes := "-"
			if !lv.GL {
				if _, ok := d.FindLevel(wad.GLPrefix + lv.Name.String()); ok {
					nodes = "yes"
				} else {
					nodes = "no"
				}
			}
			fmt.Fprintf(tw, "%s\t%d\t%t\t%s\t%s\n", lv.Name, lv.Archive, lv.GL, nodes, arch.Path())
		}
	}
	return tw.Flush()
}
