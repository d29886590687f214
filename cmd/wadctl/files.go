package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meigma/wad"
	"github.com/meigma/wad/internal/hash"
)

func newFilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files [archive...]",
		Short: "List loaded archives and their derived companions",
		Long: `The files command loads the archives in order and lists every archive in
the resulting directory, including node and conversion companions that were
attached automatically.

Example:
  wadctl files doom2.wad mymod.wad
  wadctl --config wads.yaml files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDirectory(cmd, args, func(d *wad.Directory) error {
				return printFiles(cmd, d)
			})
		},
	}
}

func printFiles(cmd *cobra.Command, d *wad.Directory) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "IDX\tKIND\tLUMPS\tPARENT\tNODES\tCONVERSION\tDIGEST\tPATH")
	for _, arch := range d.Archives() {
		kind := arch.Kind().String()
		if arch.IWAD() {
			kind = "iwad"
		}
		parent := "-"
		if p, ok := arch.Parent(); ok {
			parent = strconv.Itoa(p)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			arch.Index(), kind, arch.Len(), parent,
			arch.IndexState(), arch.ConversionState(),
			hash.Prefix(arch.Digest()), arch.Path())
	}
	return tw.Flush()
}
