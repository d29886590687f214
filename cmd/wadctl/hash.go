package main

import (
	"fmt"
	"runtime"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/wad"
	"github.com/meigma/wad/cache"
	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/hash"
)

func newHashCmd(a *app) *cobra.Command {
	var algorithm string
	var workers int
	cmd := &cobra.Command{
		Use:   "hash <file...>",
		Short: "Print the identity digest of archives",
		Long: `The hash command prints the digest that keys each archive's derived
artifacts in the cache, together with the cache file names it would use.
Multi-record archives are identified by their directory, other files by
their whole content.

Example:
  wadctl hash doom2.wad plutonia.wad
  wadctl hash --algorithm sha512 *.wad`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg := digest.Algorithm(algorithm)
			if !alg.Available() {
				return fmt.Errorf("digest algorithm %q unavailable", algorithm)
			}
			digests, err := hashFiles(args, alg, workers)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "DIGEST\tNODES\tCONVERSION\tPATH")
			for i, path := range args {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", digests[i],
					cache.CentralName(path, digests[i], wad.IndexExtension),
					cache.CentralName(path, digests[i], wad.ConversionExtension),
					path)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", string(hash.Default), "Digest algorithm")
	cmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "Number of files hashed concurrently")
	return cmd
}

// hashFiles digests paths concurrently; results are in argument order.
func hashFiles(paths []string, alg digest.Algorithm, workers int) ([]digest.Digest, error) {
	out := make([]digest.Digest, len(paths))
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			src, err := format.Open(path, wad.KindFromPath(path), alg)
			if err != nil {
				return err
			}
			out[i] = src.Digest
			return src.Close()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
