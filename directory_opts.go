package wad

import (
	"log/slog"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/wad/cache"
)

// Option configures a Directory.
type Option func(*Directory)

// WithLogger sets the logger for directory operations.
// Classification diagnostics are logged at Warn.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		d.logger = logger
	}
}

// WithCacheDir sets the central directory for derived artifacts.
// The directory is created on first use. Ignored when WithCache is set.
func WithCacheDir(dir string) Option {
	return func(d *Directory) {
		d.cacheDir = dir
	}
}

// WithCache sets the store used to resolve and commit derived artifacts.
func WithCache(c cache.Cache) Option {
	return func(d *Directory) {
		d.cache = c
	}
}

// WithIndexBuilder sets the collaborator that builds GWA companions.
//
// Without a builder, archives needing a companion index still attach a valid
// cached one; otherwise the build is skipped.
func WithIndexBuilder(b IndexBuilder) Option {
	return func(d *Directory) {
		d.builder = b
	}
}

// WithConverter sets the collaborator that converts DeHackEd data to HWA
// companions. Without one, conversions are attached only from the cache.
func WithConverter(c Converter) Option {
	return func(d *Directory) {
		d.converter = c
	}
}

// WithDiagnosticFunc installs a sink for non-fatal classification problems.
func WithDiagnosticFunc(fn func(Diagnostic)) Option {
	return func(d *Directory) {
		d.diagFunc = fn
	}
}

// WithExternalDDF marks subsystems as supplied from outside the archives.
// Primary WADs then do not register payload lumps for them.
func WithExternalDDF(subs ...Subsystem) Option {
	return func(d *Directory) {
		for _, s := range subs {
			d.external[s] = true
		}
	}
}

// WithDigestAlgorithm sets the algorithm used for archive digests.
// Defaults to SHA-256; unavailable algorithms fall back to the default.
func WithDigestAlgorithm(alg digest.Algorithm) Option {
	return func(d *Directory) {
		d.digestAlg = alg
	}
}
