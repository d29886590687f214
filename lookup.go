package wad

import (
	"github.com/meigma/wad/internal/index"
	"github.com/meigma/wad/internal/wadtype"
)

// LookupByName returns the overriding lump named name.
//
// The name is canonicalized the same way directory entries are, so lookups
// are case-insensitive. Among same-named lumps the one with the greatest
// priority wins, which is the lump from the most recently added archive
// unless its priority was pinned to a parent.
func (d *Directory) LookupByName(name string) (LumpID, bool) {
	e, ok := d.idx.Lookup(wadtype.CanonicalName(name))
	if !ok {
		return none, false
	}
	return LumpID(e.ID), true
}

// LookupAsPatch returns the highest-priority lump named name that may be
// used as a texture patch: a patch, a sprite or an ordinary lump. Flats and
// colormaps sharing the name are skipped.
func (d *Directory) LookupAsPatch(name string) (LumpID, bool) {
	e, ok := d.idx.First(wadtype.CanonicalName(name), func(e index.Entry) bool {
		return e.Role.PatchCompatible()
	})
	if !ok {
		return none, false
	}
	return LumpID(e.ID), true
}

// LumpsNamed returns every lump named name, overriding lump first.
func (d *Directory) LumpsNamed(name string) []LumpID {
	var out []LumpID
	for e := range d.idx.Group(wadtype.CanonicalName(name)) {
		out = append(out, LumpID(e.ID))
	}
	return out
}

// ListRunFor returns an archive's lumps in a typed run.
func (d *Directory) ListRunFor(archive int, kind RunKind) []LumpID {
	a, ok := d.Archive(archive)
	if !ok {
		return nil
	}
	return a.Run(kind)
}

// GetSpecialSlot returns an archive's lump filling a special slot.
func (d *Directory) GetSpecialSlot(archive int, kind SlotKind) (LumpID, bool) {
	a, ok := d.Archive(archive)
	if !ok {
		return none, false
	}
	return a.Slot(kind)
}

// DDFLump returns an archive's payload lump for a DDF subsystem.
func (d *Directory) DDFLump(archive int, sub Subsystem) (LumpID, bool) {
	a, ok := d.Archive(archive)
	if !ok {
		return none, false
	}
	return a.DDF(sub)
}

// FindLevel returns the overriding level marker named name.
func (d *Directory) FindLevel(name string) (Level, bool) {
	e, ok := d.idx.First(wadtype.CanonicalName(name), func(e index.Entry) bool {
		return e.Role == wadtype.RoleLevel
	})
	if !ok {
		return Level{}, false
	}
	a := d.archives[d.lumps[e.ID].Archive]
	for _, lv := range a.levels {
		if lv.Lump == LumpID(e.ID) {
			return lv, true
		}
	}
	return Level{}, false
}

// PaletteFor returns the palette that applies to a lump: the PLAYPAL of the
// lump's own archive or the nearest earlier archive carrying one, falling
// back to the overriding PLAYPAL.
func (d *Directory) PaletteFor(id LumpID) (LumpID, bool) {
	l, ok := d.Lump(id)
	if !ok {
		return none, false
	}
	for i := l.Archive; i >= 0; i-- {
		if pal, ok := d.archives[i].Slot(SlotPalette); ok {
			return pal, true
		}
	}
	return d.LookupByName(SlotPalette.LumpName().String())
}

// IsLumpInPWAD reports whether the overriding lump named name comes from
// anything other than an IWAD. Derived companions answer for their parent.
func (d *Directory) IsLumpInPWAD(name string) bool {
	id, ok := d.LookupByName(name)
	if !ok {
		return false
	}
	a := d.archives[d.lumps[id].Archive]
	for a.parent != none {
		a = d.archives[a.parent]
	}
	return !a.iwad
}

// Skins returns an archive's S_SKIN lumps.
func (d *Directory) Skins(archive int) []LumpID {
	a, ok := d.Archive(archive)
	if !ok {
		return nil
	}
	return a.Skins()
}
