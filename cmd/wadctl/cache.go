package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the derived-artifact cache",
	}
	cmd.AddCommand(newCacheSizeCmd(a), newCachePruneCmd(a))
	return cmd
}

func newCacheSizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Print the size of the derived-artifact cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openCache()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", c.Dir(), c.SizeBytes())
			return nil
		},
	}
}

func newCachePruneCmd(a *app) *cobra.Command {
	var target int64
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Evict the oldest artifacts until the cache fits",
		Long: `The prune command removes the least recently modified derived artifacts
until the cache is at or below the target size. Evicted artifacts are rebuilt
the next time their source archive is loaded.

Example:
  wadctl cache prune --target 0
  wadctl cache prune --target 104857600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openCache()
			if err != nil {
				return err
			}
			freed, err := c.Prune(target)
			if err != nil {
				return fmt.Errorf("prune %s: %w", c.Dir(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "freed %d bytes, %d bytes remain\n", freed, c.SizeBytes())
			return nil
		},
	}
	cmd.Flags().Int64Var(&target, "target", 0, "Target cache size in bytes")
	return cmd
}
