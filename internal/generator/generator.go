// Package generator compiles catalog builders and writes the resulting
// stylesheets into the design-token build output directory.
package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/layera/stylegen/internal/catalog"
	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/logging"
	"github.com/layera/stylegen/internal/stylesheet"
)

// Options controls a generation run.
type Options struct {
	OutputDir string
	// Builders restricts the run to the named builders; empty means all.
	Builders []string
	// Aggregate also writes every selected builder into AggregateFile.
	Aggregate     bool
	AggregateFile string
	// Strict fails the run when any section has a shape violation.
	Strict bool
	// DryRun compiles and validates without touching the filesystem.
	DryRun bool
}

// FileResult describes one written stylesheet.
type FileResult struct {
	Builder  string
	Path     string
	Bytes    int
	Sections int
	Rules    int
	Valid    bool
}

// Result summarizes a generation run.
type Result struct {
	Files     []FileResult
	Aggregate *FileResult
	// Invalid is the combined shape error of every malformed section, or nil.
	Invalid error
}

// Valid reports whether every compiled section passed validation.
func (r *Result) Valid() bool {
	return r.Invalid == nil
}

// Generator writes compiled builders to disk.
type Generator struct {
	logger logging.Logger
}

// New creates a generator logging through logger.
func New(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Generator{logger: logger.WithComponent("generator")}
}

// Generate validates and compiles the selected builders of c.
//
// Validation is advisory unless opts.Strict is set: diagnostics are logged
// and the CSS is still written. Cancellation is checked between builders.
func (g *Generator) Generate(ctx context.Context, c *catalog.Catalog, opts Options) (*Result, error) {
	builders, err := c.Select(opts.Builders...)
	if err != nil {
		return nil, err
	}

	op := logging.StartOperation(g.logger, "generate")

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			op.EndWithError(ctx, err)
			return nil, stylerr.WrapIO(err, stylerr.ErrCodeWriteFailed, "cannot create output dir "+opts.OutputDir)
		}
	}

	result := &Result{Files: make([]FileResult, 0, len(builders))}
	var aggregate strings.Builder

	for _, b := range builders {
		if err := ctx.Err(); err != nil {
			op.EndWithError(ctx, err)
			return result, err
		}

		invalid := g.ValidateBuilder(ctx, b)
		result.Invalid = multierr.Append(result.Invalid, invalid)

		css := b.CSS()
		aggregate.WriteString(css)

		path := filepath.Join(opts.OutputDir, b.Name+".css")
		if !opts.DryRun {
			if err := writeFileAtomic(path, []byte(css)); err != nil {
				op.EndWithError(ctx, err)
				return result, stylerr.WrapBuild(err, stylerr.ErrCodeWriteFailed, "cannot write stylesheet", b.Name)
			}
		}

		result.Files = append(result.Files, FileResult{
			Builder:  b.Name,
			Path:     path,
			Bytes:    len(css),
			Sections: len(b.Sections),
			Rules:    b.RuleCount(),
			Valid:    invalid == nil,
		})
		g.logger.Debug(ctx, "Compiled builder", "builder", b.Name, "bytes", len(css), "path", path)
	}

	if opts.Aggregate && len(builders) > 0 {
		name := opts.AggregateFile
		if name == "" {
			name = "all.css"
		}
		path := filepath.Join(opts.OutputDir, name)
		css := aggregate.String()
		if !opts.DryRun {
			if err := writeFileAtomic(path, []byte(css)); err != nil {
				op.EndWithError(ctx, err)
				return result, stylerr.WrapIO(err, stylerr.ErrCodeWriteFailed, "cannot write aggregate stylesheet")
			}
		}
		result.Aggregate = &FileResult{
			Builder:  "",
			Path:     path,
			Bytes:    len(css),
			Sections: countSections(builders),
			Valid:    result.Invalid == nil,
		}
	}

	op.End(ctx, "builders", len(result.Files), "valid", result.Valid(), "dry_run", opts.DryRun)

	if opts.Strict && result.Invalid != nil {
		strictErr := stylerr.NewValidationError(stylerr.ErrCodeInvalidShape, "strict validation failed")
		strictErr.Cause = result.Invalid
		return result, strictErr
	}
	return result, nil
}

// ValidateBuilder checks every section of b, logging one diagnostic per
// malformed section. It returns the combined shape errors, or nil.
func (g *Generator) ValidateBuilder(ctx context.Context, b *catalog.Builder) error {
	var combined error
	for _, s := range b.Sections {
		sink := &logSink{ctx: ctx, logger: g.logger.With("builder", b.Name, "section", s.Title)}
		if stylesheet.Validate(s.Rules, sink) {
			continue
		}
		combined = multierr.Append(combined, stylerr.ErrInvalidShape(b.Name, s.Title, sink.err()))
	}
	return combined
}

// ValidateCatalog validates every builder of c.
func (g *Generator) ValidateCatalog(ctx context.Context, c *catalog.Catalog, names ...string) error {
	builders, err := c.Select(names...)
	if err != nil {
		return err
	}
	var combined error
	for _, b := range builders {
		combined = multierr.Append(combined, g.ValidateBuilder(ctx, b))
	}
	return combined
}

func countSections(builders []*catalog.Builder) int {
	n := 0
	for _, b := range builders {
		n += len(b.Sections)
	}
	return n
}

// writeFileAtomic writes data to a temp file next to path and renames it.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := multierr.Combine(werr, cerr); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
