package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv2 "gopkg.in/yaml.v2"

	stylerr "github.com/layera/stylegen/internal/errors"
)

// testProject writes a config file into a temporary directory and returns
// the directory and config path.
func testProject(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := "output:\n  dir: " + filepath.Join(dir, "out") + "\n" +
		"server:\n  port: 0\n" +
		"log:\n  level: error\n" + extra
	path := filepath.Join(dir, "stylegen.yml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return dir, path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	_, cfg := testProject(t, "")

	out, err := run(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	for _, name := range []string{"app-layout", "card-danger-cards", "components", "sidebar", "tabs", "typography"} {
		assert.Contains(t, out, name)
	}

	out, err = run(t, cfg, "list", "--format", "json")
	require.NoError(t, err)
	var summaries []builderSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 6)
	assert.Equal(t, "components", summaries[2].Name)
	assert.Contains(t, summaries[2].Categories, "buttonBase")
	assert.Equal(t, []string{"interactive", "status"}, summaries[2].Groups)

	_, err = run(t, cfg, "list", "--format", "xml")
	assert.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	dir, cfg := testProject(t, "")

	out, err := run(t, cfg, "build", "components", "tabs")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 stylesheet(s)")

	data, err := os.ReadFile(filepath.Join(dir, "out", "components.css"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "/* LAYERA COMPONENTS */"))
	assert.FileExists(t, filepath.Join(dir, "out", "tabs.css"))
	assert.FileExists(t, filepath.Join(dir, "out", "all.css"))
	assert.NoFileExists(t, filepath.Join(dir, "out", "sidebar.css"))
}

func TestBuildCommandFlags(t *testing.T) {
	dir, cfg := testProject(t, "")
	custom := filepath.Join(dir, "custom")

	out, err := run(t, cfg, "build", "-o", custom, "--all=false", "components")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 stylesheet(s)")
	assert.FileExists(t, filepath.Join(custom, "components.css"))
	assert.NoFileExists(t, filepath.Join(custom, "all.css"))

	out, err = run(t, cfg, "build", "--dry_run")
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 6 stylesheet(s)")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestBuildCommandUnknownBuilder(t *testing.T) {
	_, cfg := testProject(t, "")
	_, err := run(t, cfg, "build", "nope")
	require.Error(t, err)
	assert.True(t, stylerr.IsType(err, stylerr.ErrorTypeValidation))
}

func writeBroken(t *testing.T, dir string) string {
	t.Helper()
	src := filepath.Join(dir, "builders")
	require.NoError(t, os.MkdirAll(src, 0o755))
	doc := `name: broken
banner: BROKEN
sections:
  - title: BAD
    rules:
      good:
        color: red
      bad: solid
`
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.yml"), []byte(doc), 0o644))
	return src
}

func TestValidateCommand(t *testing.T) {
	_, cfg := testProject(t, "")
	out, err := run(t, cfg, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "6 builder(s) checked, 0 malformed")

	dir, cfg := testProject(t, "")
	src := writeBroken(t, dir)
	_, cfg = testProject(t, "sources:\n  dirs: ["+src+"]\n")

	out, err = run(t, cfg, "validate", "broken")
	require.Error(t, err)
	assert.Contains(t, out, "broken / BAD:")
	assert.Contains(t, out, "1 malformed")
}

func TestBuildStrict(t *testing.T) {
	dir, _ := testProject(t, "")
	src := writeBroken(t, dir)
	_, cfg := testProject(t, "sources:\n  dirs: ["+src+"]\n")

	out, err := run(t, cfg, "build", "broken")
	require.NoError(t, err)
	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, "1 malformed section(s)")

	_, err = run(t, cfg, "build", "--strict", "broken")
	assert.Error(t, err)
}

func TestCategoryCommand(t *testing.T) {
	_, cfg := testProject(t, "")

	out, err := run(t, cfg, "category", "components", "buttonBase")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "/* BUTTON BASE */\n"))
	assert.Contains(t, out, ".layera-button {")
	assert.Contains(t, out, "align-items: center;")

	_, err = run(t, cfg, "category", "components", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, stylerr.NewValidationError(stylerr.ErrCodeCategoryNotFound, ""))
	assert.NotErrorIs(t, err, stylerr.NewValidationError(stylerr.ErrCodeBuilderNotFound, ""))
	assert.Contains(t, err.Error(), "category not found: missing")
	assert.Equal(t, "components", stylerr.GetBuilder(err))

	_, err = run(t, cfg, "category", "components")
	assert.Error(t, err)
}

func TestGroupCommand(t *testing.T) {
	_, cfg := testProject(t, "")

	out, err := run(t, cfg, "group", "components", "status")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, "badge")
	}

	out, err = run(t, cfg, "group", "components", "unknown")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLintCommand(t *testing.T) {
	dir, cfg := testProject(t, "")

	out, err := run(t, cfg, "lint")
	require.NoError(t, err)
	assert.Contains(t, out, "finding(s)")

	path := filepath.Join(dir, "bad.css")
	require.NoError(t, os.WriteFile(path, []byte(".a { color: var(--x)10; }\n"), 0o644))
	out, err = run(t, cfg, "lint", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[var-suffix]")

	_, err = run(t, cfg, "lint", "--strict", path)
	assert.Error(t, err)

	_, err = run(t, cfg, "lint", filepath.Join(dir, "missing.css"))
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	_, cfg := testProject(t, "")

	out, err := run(t, cfg, "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = run(t, cfg, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "release")
}

func TestConfigShow(t *testing.T) {
	dir, cfg := testProject(t, "")

	out, err := run(t, cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dir: "+filepath.Join(dir, "out"))
	assert.Contains(t, out, "aggregate_file: all.css")

	t.Setenv("STYLEGEN_SERVER_PORT", "9191")
	out, err = run(t, cfg, "config", "show", "--format", "json")
	require.NoError(t, err)
	var shown struct {
		Server struct {
			Port int `json:"port"`
		} `json:"server"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, 9191, shown.Server.Port)
}

func TestInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("output: [\n"), 0o644))

	_, err := run(t, path, "list")
	require.Error(t, err)
	assert.True(t, stylerr.IsType(err, stylerr.ErrorTypeConfig))
}

func TestDoctorCommand(t *testing.T) {
	_, cfg := testProject(t, "")

	out, err := run(t, cfg, "doctor", "--format", "yaml")
	require.NoError(t, err)

	var report DoctorReport
	require.NoError(t, yamlv2.Unmarshal([]byte(out), &report))
	assert.Zero(t, report.Summary.Errors)
	assert.Equal(t, len(report.Results), report.Summary.Total)

	names := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"sources", "validation", "lint", "output", "server"}, names)

	out, err = run(t, cfg, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "[ok] sources:")
}

func TestDoctorReportsBrokenSources(t *testing.T) {
	dir, _ := testProject(t, "")
	src := filepath.Join(dir, "builders")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bad.yml"), []byte("name: [\n"), 0o644))
	_, cfg := testProject(t, "sources:\n  dirs: ["+src+"]\n")

	out, err := run(t, cfg, "doctor")
	require.Error(t, err)
	assert.Contains(t, out, "[error] sources:")
}
