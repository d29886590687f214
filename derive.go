package wad

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/wad/internal/classify"
	"github.com/meigma/wad/internal/wadtype"
)

// derivation describes one kind of derived companion.
type derivation struct {
	name   string
	ext    string
	kind   Kind
	pinned bool
	fail   error
	build  func(ctx context.Context, target string) error // nil when no collaborator
}

// derive runs the derived-build coordinator for a freshly staged archive and
// returns the companion archives to add next. Only primary WADs and DeHackEd
// files are considered; companions never derive further.
func (d *Directory) derive(ctx context.Context, a *Archive, res *classify.Result) ([]addRequest, error) {
	if a.kind != KindWAD && a.kind != KindDehacked {
		return nil, nil
	}

	var follow []addRequest
	if a.kind == KindWAD && res.NeedsIndexBuild() {
		der := derivation{
			name:   "index",
			ext:    wadtype.IndexExtension,
			kind:   KindGWA,
			pinned: true,
			fail:   wadtype.ErrBuilderFailure,
		}
		if d.builder != nil {
			der.build = func(ctx context.Context, target string) error {
				return d.builder.Build(ctx, a.path, target)
			}
		}
		req, state, err := d.materialize(ctx, a, der)
		if err != nil {
			return nil, err
		}
		a.indexState = state
		if req != nil {
			follow = append(follow, *req)
		}
	}

	if a.kind == KindDehacked || res.Slots[wadtype.SlotDehacked] != classify.Absent {
		local := 0
		if a.kind != KindDehacked {
			local = res.Slots[wadtype.SlotDehacked]
		}
		der := derivation{
			name: "conversion",
			ext:  wadtype.ConversionExtension,
			kind: KindHWA,
			fail: wadtype.ErrConverterFailure,
		}
		if d.converter != nil {
			der.build = func(ctx context.Context, target string) error {
				data, err := readLocal(a, local)
				if err != nil {
					return err
				}
				return d.converter.Convert(ctx, data, target)
			}
		}
		req, state, err := d.materialize(ctx, a, der)
		if err != nil {
			return nil, err
		}
		a.convState = state
		if req != nil {
			follow = append(follow, *req)
		}
	}
	return follow, nil
}

// materialize resolves the cached artifact for a and builds it on a miss.
// It returns the request that attaches the artifact, or nil when the build
// was skipped for lack of a collaborator.
func (d *Directory) materialize(ctx context.Context, a *Archive, der derivation) (*addRequest, DeriveState, error) {
	c, err := d.artifactCache()
	if err != nil {
		return nil, DeriveNotNeeded, err
	}
	cand := c.Resolve(a.path, a.digest, der.ext)
	attach := func(path string) *addRequest {
		return &addRequest{path: path, kind: der.kind, parent: a.index, pinned: der.pinned}
	}
	if cand.Valid {
		d.log().Debug("derived artifact cache hit", "derivation", der.name, "source", a.path, "artifact", cand.Path)
		return attach(cand.Path), DeriveCacheHit, nil
	}

	if der.build == nil {
		d.log().Info("derived artifact needed but not built",
			"derivation", der.name, "source", a.path, "reason", errNoCollaborator)
		return nil, DeriveSkipped, nil
	}

	d.log().Info("building derived artifact", "derivation", der.name, "source", a.path, "target", cand.Path)
	w, err := c.Writer(cand.Path)
	if err != nil {
		return nil, DeriveNotNeeded, fmt.Errorf("%w: reserve %s: %w", der.fail, cand.Path, err)
	}
	if err := der.build(ctx, w.Path()); err != nil {
		_ = w.Discard()
		return nil, DeriveNotNeeded, fmt.Errorf("%w: %s: %w", der.fail, a.path, err)
	}
	if err := w.Commit(); err != nil {
		return nil, DeriveNotNeeded, fmt.Errorf("%w: commit %s: %w", der.fail, cand.Path, err)
	}
	return attach(cand.Path), DeriveBuilt, nil
}

// readLocal reads a lump of a staged archive by local index.
func readLocal(a *Archive, local int) ([]byte, error) {
	if local < 0 || local >= a.count {
		return nil, errors.New("lump index out of range")
	}
	rec := a.src.Records[local]
	buf := make([]byte, rec.Size)
	if _, err := io.ReadFull(io.NewSectionReader(a.src.File, rec.Offset, rec.Size), buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", rec.Name, err)
	}
	return buf, nil
}
