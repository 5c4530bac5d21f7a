package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/layera/stylegen/internal/catalog"
	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/logging"
	"github.com/layera/stylegen/internal/stylesheet"
)

func testCatalog() *catalog.Catalog {
	c := catalog.New()
	c.Put(catalog.NewBuilder("buttons", "LAYERA BUTTONS", []catalog.Section{{
		Title:    "BUTTON VARIANTS",
		Category: "buttons",
		Rules: stylesheet.Section{
			{Selector: "layera-button-primary", Body: stylesheet.Block{
				{Property: "background", Value: "var(--live-primary-color)"},
				{Property: "color", Value: "white"},
			}},
		},
	}}, nil))
	c.Put(catalog.NewBuilder("tabs", "LAYERA TABS", []catalog.Section{{
		Title: "TABS",
		Rules: stylesheet.Section{
			{Selector: "layera-tab", Body: stylesheet.Block{{Property: "zIndex", Value: 2}}},
		},
	}}, nil))
	return c
}

func brokenCatalog() *catalog.Catalog {
	c := testCatalog()
	c.Put(catalog.NewBuilder("broken", "BROKEN", []catalog.Section{
		{Title: "NULL BLOCK", Rules: stylesheet.Section{{Selector: "button", Body: nil}}},
		{Title: "OK", Rules: stylesheet.Section{{Selector: "ok", Body: stylesheet.Block{{Property: "color", Value: "red"}}}}},
		{Title: "BAD VALUE", Rules: stylesheet.Section{{Selector: "card", Body: stylesheet.Block{{Property: "color", Value: stylesheet.Block{}}}}}},
	}, nil))
	return c
}

func captureLogger() (*bytes.Buffer, logging.Logger) {
	var buf bytes.Buffer
	return &buf, logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Output: &buf})
}

func TestGenerateWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist", "css")
	g := New(nil)

	result, err := g.Generate(context.Background(), testCatalog(), Options{
		OutputDir:     dir,
		Aggregate:     true,
		AggregateFile: "all.css",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid())
	require.Len(t, result.Files, 2)

	buttons, err := os.ReadFile(filepath.Join(dir, "buttons.css"))
	require.NoError(t, err)
	assert.Equal(t, "/* LAYERA BUTTONS */\n\n"+
		"/* BUTTON VARIANTS */\n"+
		".layera-button-primary {\n"+
		"  background: var(--live-primary-color);\n"+
		"  color: white;\n"+
		"}\n\n", string(buttons))
	assert.Equal(t, len(buttons), result.Files[0].Bytes)
	assert.Equal(t, 1, result.Files[0].Sections)
	assert.Equal(t, 1, result.Files[0].Rules)

	tabs, err := os.ReadFile(filepath.Join(dir, "tabs.css"))
	require.NoError(t, err)
	assert.Contains(t, string(tabs), "z-index: 2;")

	all, err := os.ReadFile(filepath.Join(dir, "all.css"))
	require.NoError(t, err)
	assert.Equal(t, string(buttons)+string(tabs), string(all))
	require.NotNil(t, result.Aggregate)
	assert.Equal(t, 2, result.Aggregate.Sections)

	info, err := os.Stat(filepath.Join(dir, "buttons.css"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files left behind")
}

func TestGenerateSelectedBuilders(t *testing.T) {
	dir := t.TempDir()
	result, err := New(nil).Generate(context.Background(), testCatalog(), Options{
		OutputDir: dir,
		Builders:  []string{"tabs"},
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "tabs", result.Files[0].Builder)
	assert.Nil(t, result.Aggregate)

	_, err = os.Stat(filepath.Join(dir, "buttons.css"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateUnknownBuilder(t *testing.T) {
	_, err := New(nil).Generate(context.Background(), testCatalog(), Options{
		OutputDir: t.TempDir(),
		Builders:  []string{"nope"},
	})
	require.Error(t, err)
	assert.Equal(t, stylerr.ErrCodeBuilderNotFound, err.(*stylerr.StyleError).Code)
}

func TestGenerateAdvisoryValidation(t *testing.T) {
	buf, logger := captureLogger()
	dir := t.TempDir()

	result, err := New(logger).Generate(context.Background(), brokenCatalog(), Options{OutputDir: dir})
	require.NoError(t, err)
	assert.False(t, result.Valid())
	assert.Len(t, multierr.Errors(result.Invalid), 2)

	require.Len(t, result.Files, 3)
	assert.True(t, result.Files[0].Valid)
	assert.False(t, result.Files[2].Valid)

	broken, err := os.ReadFile(filepath.Join(dir, "broken.css"))
	require.NoError(t, err)
	assert.Contains(t, string(broken), ".button {\n\n}\n\n")

	logs := buf.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "violation=invalid-block")
	assert.Contains(t, logs, "violation=invalid-value")
	assert.Contains(t, logs, "builder=broken")
}

func TestGenerateStrict(t *testing.T) {
	dir := t.TempDir()
	result, err := New(nil).Generate(context.Background(), brokenCatalog(), Options{
		OutputDir: dir,
		Strict:    true,
	})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.True(t, stylerr.IsType(err, stylerr.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "strict validation failed")
	assert.Contains(t, err.Error(), "section NULL BLOCK is malformed")
}

func TestGenerateDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	result, err := New(nil).Generate(context.Background(), testCatalog(), Options{
		OutputDir: dir,
		Aggregate: true,
		DryRun:    true,
	})
	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
	assert.Equal(t, filepath.Join(dir, "all.css"), result.Aggregate.Path)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(nil).Generate(ctx, testCatalog(), Options{OutputDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Files)
}

func TestGenerateOutputDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := New(nil).Generate(context.Background(), testCatalog(), Options{OutputDir: file})
	require.Error(t, err)
	assert.True(t, stylerr.IsType(err, stylerr.ErrorTypeIO))
}

func TestValidateCatalog(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.ValidateCatalog(context.Background(), testCatalog()))

	err := g.ValidateCatalog(context.Background(), brokenCatalog(), "broken")
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "broken", stylerr.GetBuilder(errs[0]))

	var shape *stylesheet.ShapeError
	require.ErrorAs(t, errs[1], &shape)
	assert.Equal(t, stylesheet.ViolationInvalidValue, shape.Diagnostic.Kind)
}

func TestValidateBuiltins(t *testing.T) {
	c, err := catalog.Builtin()
	require.NoError(t, err)
	assert.NoError(t, New(nil).ValidateCatalog(context.Background(), c))
}

func TestNewLogSink(t *testing.T) {
	buf, logger := captureLogger()
	sink := NewLogSink(context.Background(), logger)

	ok := stylesheet.Validate(stylesheet.Section{{Selector: "", Body: stylesheet.Block{}}}, sink)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "violation=empty-selector")
}
