package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/shapegen/am"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/version"
)

const sampleDoc = `{"name": "x", "address": {"city": "y"}, "points": [{"lat": 1.5}]}`

// workspace is a temp directory with an empty config file and an input.
type workspace struct {
	dir    string
	config string
	input  string
}

func newWorkspace(t *testing.T, config string) *workspace {
	t.Helper()
	dir := t.TempDir()
	w := &workspace{
		dir:    dir,
		config: filepath.Join(dir, am.ConfigFileName),
		input:  filepath.Join(dir, "default.json"),
	}
	require.NoError(t, os.WriteFile(w.config, []byte(config), 0o644))
	require.NoError(t, os.WriteFile(w.input, []byte(sampleDoc), 0o644))
	return w
}

func (w *workspace) path(name string) string { return filepath.Join(w.dir, name) }

func execute(t *testing.T, w *workspace, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", w.config}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

// =============================================================================
// gen
// =============================================================================

func TestGenWritesArtifact(t *testing.T) {
	w := newWorkspace(t, "")
	out := w.path("model.py")

	_, stderr, err := execute(t, w, "gen", w.input, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "class Default:")
	assert.Contains(t, string(content), "class Address:")
}

func TestRootRunsGen(t *testing.T) {
	w := newWorkspace(t, "")
	out := w.path("model.ts")

	_, _, err := execute(t, w, w.input, "-l", "ts", "-o", out)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "export class Default")
}

func TestGenDefaults(t *testing.T) {
	w := newWorkspace(t, "")
	t.Chdir(w.dir)

	_, _, err := execute(t, w)
	require.NoError(t, err)

	_, err = os.Stat(w.path("generated_class.py"))
	assert.NoError(t, err)
}

func TestGenMissingInputWritesNothing(t *testing.T) {
	w := newWorkspace(t, "")
	out := w.path("generated_class.py")

	_, _, err := execute(t, w, "gen", w.path("missing.json"), "-o", out)
	require.Error(t, err)
	assert.True(t, errors.IsSourceNotFound(err))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenToStdout(t *testing.T) {
	w := newWorkspace(t, "")

	stdout, _, err := execute(t, w, "gen", w.input, "-l", "go", "-o", "-", "--go-package", "types")
	require.NoError(t, err)
	assert.Contains(t, stdout, "package types")
	assert.Contains(t, stdout, "type Default struct")
}

func TestGenFlagsOverrideConfig(t *testing.T) {
	w := newWorkspace(t, "[generate]\nlanguage = \"go\"\nroot_name = \"customer\"\n\n[output]\npath = \"-\"\n")

	stdout, _, err := execute(t, w, "gen", w.input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "type Customer struct")

	stdout, _, err = execute(t, w, "gen", w.input, "-l", "python", "-n", "order")
	require.NoError(t, err)
	assert.Contains(t, stdout, "class Order:")
}

func TestGenInvalidLanguage(t *testing.T) {
	w := newWorkspace(t, "")
	_, _, err := execute(t, w, "gen", w.input, "-l", "cobol")
	assert.True(t, errors.Is(err, errors.ErrUnknownLanguage))
}

// =============================================================================
// check
// =============================================================================

func TestCheck(t *testing.T) {
	w := newWorkspace(t, "")
	out := w.path("generated_class.py")

	_, _, err := execute(t, w, "check", w.input, "-o", out)
	assert.True(t, errors.IsOutOfDate(err), "missing artifact is out of date")

	_, _, err = execute(t, w, "gen", w.input, "-o", out)
	require.NoError(t, err)

	_, stderr, err := execute(t, w, "check", w.input, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "up to date")

	require.NoError(t, os.WriteFile(w.input, []byte(`{"name": "x", "age": 3}`), 0o644))
	stdout, _, err := execute(t, w, "check", w.input, "-o", out)
	assert.True(t, errors.IsOutOfDate(err))
	assert.Contains(t, stdout, "+    age: int = 3")
}

// =============================================================================
// describe
// =============================================================================

func TestDescribe(t *testing.T) {
	w := newWorkspace(t, "")

	stdout, _, err := execute(t, w, "describe", w.input, "--sample")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Address  #")
	assert.Contains(t, stdout, "Default (root)  #")
	assert.Contains(t, stdout, "points   list[Point] = [{\"lat\":1.5}]")
	assert.Contains(t, stdout, "# Default()")
	assert.Contains(t, stdout, `"city": "y"`)
}

func TestDescribeJSON(t *testing.T) {
	w := newWorkspace(t, "")

	stdout, _, err := execute(t, w, "describe", w.input, "--json")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "Default", records[2]["name"])
}

// =============================================================================
// am and version
// =============================================================================

func TestAmShow(t *testing.T) {
	w := newWorkspace(t, "[generate]\nlanguage = \"typescript\"\n")

	stdout, _, err := execute(t, w, "am", "show", "--format", "json")
	require.NoError(t, err)

	var cfg am.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, "typescript", cfg.Generate.Language)
	assert.Equal(t, am.DefaultMaxDepth, cfg.Generate.MaxDepth)

	stdout, _, err = execute(t, w, "am", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "language = 'typescript'")

	_, _, err = execute(t, w, "am", "show", "--format", "ini")
	assert.Error(t, err)
}

func TestAmShowSources(t *testing.T) {
	w := newWorkspace(t, "[generate]\nlanguage = \"go\"\n")

	stdout, _, err := execute(t, w, "am", "show", "--sources")
	require.NoError(t, err)
	assert.Contains(t, stdout, "generate.language")
	assert.Contains(t, stdout, "project")
}

func TestAmInit(t *testing.T) {
	w := newWorkspace(t, "")
	target := w.path("new.toml")

	_, _, err := execute(t, w, "am", "init", target)
	require.NoError(t, err)

	cfg, err := am.LoadFromFile(target)
	require.NoError(t, err)
	assert.Equal(t, am.Default(), cfg)

	_, _, err = execute(t, w, "am", "init", target)
	assert.Error(t, err, "refuses to overwrite without --force")
}

func TestVersionJSON(t *testing.T) {
	w := newWorkspace(t, "")

	stdout, _, err := execute(t, w, "version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, version.Version, info.Version)
}
