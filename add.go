package wad

import (
	"context"
	"errors"
	"fmt"

	"github.com/meigma/wad/internal/classify"
	"github.com/meigma/wad/internal/format"
	"github.com/meigma/wad/internal/wadtype"
)

// addRequest is one pending archive addition.
type addRequest struct {
	path   string
	kind   Kind
	parent int  // archive this one is derived from, or none
	pinned bool // lumps take the parent's priority
}

// batch stages the archives of one AddArchive call. Nothing is visible in
// the Directory until commit; on failure the staged files are closed and the
// Directory is unchanged.
type batch struct {
	d        *Directory
	archives []*Archive
	lumps    []Lump
}

func (b *batch) nextArchive() int {
	return len(b.d.archives) + len(b.archives)
}

func (b *batch) nextLump() int {
	return len(b.d.lumps) + len(b.lumps)
}

// staged returns a staged or committed archive by index.
func (b *batch) staged(i int) *Archive {
	if i < len(b.d.archives) {
		return b.d.archives[i]
	}
	return b.archives[i-len(b.d.archives)]
}

func (b *batch) abort() {
	for _, a := range b.archives {
		_ = a.close()
	}
}

func (b *batch) commit() {
	b.d.archives = append(b.d.archives, b.archives...)
	b.d.lumps = append(b.d.lumps, b.lumps...)
	b.d.rebuild()
}

// AddFile adds the archive at path, inferring its kind from the extension.
func (d *Directory) AddFile(ctx context.Context, path string) (*Archive, error) {
	return d.AddArchive(ctx, path, wadtype.KindFromPath(path))
}

// AddArchive opens path as a container of the given kind and appends its
// lumps to the directory.
//
// AddArchive does not return until any derived companions the archive needs
// have been resolved, built if necessary, and appended after it. On error the
// Directory is left as it was before the call.
func (d *Directory) AddArchive(ctx context.Context, path string, kind Kind) (*Archive, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("add %s: %w", path, wadtype.ErrUnknownKind)
	}

	b := &batch{d: d}
	queue := []addRequest{{path: path, kind: kind, parent: none}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			b.abort()
			return nil, err
		}
		req := queue[0]
		queue = queue[1:]

		a, res, err := b.stage(req)
		if err != nil {
			b.abort()
			return nil, err
		}
		follow, err := d.derive(ctx, a, res)
		if err != nil {
			b.abort()
			return nil, fmt.Errorf("add %s: %w", path, err)
		}
		queue = append(queue, follow...)
	}

	b.commit()
	top := b.archives[0]
	d.log().Info("archive added",
		"path", path,
		"kind", kind.String(),
		"index", top.index,
		"lumps", top.count,
		"companions", len(b.archives)-1,
	)
	return top, nil
}

// stage opens and classifies one archive and assigns it the next archive
// index and lump range.
func (b *batch) stage(req addRequest) (*Archive, *classify.Result, error) {
	d := b.d
	src, err := format.Open(req.path, req.kind, d.digestAlg)
	if err != nil {
		return nil, nil, err
	}

	res := classify.Classify(src.Records, classify.Options{
		Kind:     req.kind,
		External: func(s wadtype.Subsystem) bool { return d.external[s] },
	})

	a := &Archive{
		index:      b.nextArchive(),
		path:       req.path,
		kind:       req.kind,
		iwad:       src.IWAD(),
		digest:     src.Digest,
		src:        src,
		first:      b.nextLump(),
		count:      len(res.Lumps),
		parent:     req.parent,
		companion:  none,
		conversion: none,
	}
	priority := a.index
	if req.parent != none {
		parent := b.staged(req.parent)
		if req.pinned {
			priority = parent.index
		}
		switch req.kind {
		case KindGWA:
			parent.companion = a.index
		case KindHWA:
			parent.conversion = a.index
		}
	}

	id := func(local int) LumpID { return LumpID(a.first + local) }
	for _, l := range res.Lumps {
		b.lumps = append(b.lumps, Lump{
			Name:     l.Name,
			Offset:   l.Offset,
			Size:     l.Size,
			Archive:  a.index,
			Local:    l.Local,
			Priority: priority,
			Role:     l.Role,
		})
	}
	for k, run := range res.Runs {
		for _, local := range run {
			a.runs[k] = append(a.runs[k], id(local))
		}
	}
	for k, local := range res.Slots {
		a.slots[k] = none
		if local != classify.Absent {
			a.slots[k] = id(local)
		}
	}
	for k, local := range res.DDF {
		a.ddf[k] = none
		if local != classify.Absent {
			a.ddf[k] = id(local)
		}
	}
	for _, lv := range res.Levels {
		a.levels = append(a.levels, Level{Name: lv.Name, Archive: a.index, Lump: id(lv.Local), GL: lv.GL})
	}
	for _, local := range res.Skins {
		a.skins = append(a.skins, id(local))
	}
	for _, cd := range res.Diagnostics {
		d.report(a, cd)
	}

	b.archives = append(b.archives, a)
	d.log().Debug("archive classified",
		"path", req.path,
		"kind", req.kind.String(),
		"index", a.index,
		"priority", priority,
		"lumps", a.count,
		"levels", len(a.levels),
		"digest", a.digest.String(),
	)
	return a, res, nil
}

func (d *Directory) report(a *Archive, cd classify.Diagnostic) {
	diag := Diagnostic{
		Kind:    cd.Kind,
		Archive: a.path,
		Lump:    cd.Lump,
		Message: cd.Message,
	}
	a.diagnostics = append(a.diagnostics, diag)
	d.log().Warn(diag.Message, "archive", a.path, "kind", cd.Kind.String(), "lump", cd.Lump.String())
	if d.diagFunc != nil {
		d.diagFunc(diag)
	}
}

// errNoCollaborator is reported internally when a derivation is needed but
// nothing is configured to produce it.
var errNoCollaborator = errors.New("no collaborator configured")
