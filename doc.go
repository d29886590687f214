// Package wad provides a layered lump directory over WAD-style resource archives.
//
// Archives are added one at a time in load order. Every lump of every archive
// stays in the directory; lookups by name return the lump from the most
// recently added archive, so later archives transparently override earlier
// ones:
//
//	d, err := wad.New(wad.WithCacheDir("/var/cache/wad"))
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//	if _, err := d.AddFile(ctx, "doom2.wad"); err != nil {
//	    return err
//	}
//	if _, err := d.AddFile(ctx, "mymod.wad"); err != nil {
//	    return err
//	}
//	id, ok := d.LookupByName("PLAYPAL")
//
// # Classification
//
// Each archive's directory is classified in file order: special lumps
// (PLAYPAL, PNAMES, TEXTURE1, ...) fill per-archive slots, lumps between
// S_START/S_END, F_START/F_END and similar markers form typed runs, and a
// lump followed by THINGS, LINEDEFS, SIDEDEFS, VERTEXES (or the GL_ node
// lumps) marks a level.
//
// # Derived artifacts
//
// An archive whose levels lack embedded GL nodes gets a companion GWA built
// by the configured [IndexBuilder]; an archive carrying DeHackEd data gets a
// companion HWA from the configured [Converter]. Artifacts are cached on disk
// keyed by a digest of the source directory and reused while they are not
// older than their source. A GWA shares its parent's priority; an HWA is
// loaded as a new top-most layer.
package wad
