package app

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonemaro/tplfmt/internal/config"
	"github.com/sonemaro/tplfmt/pkg/logger"
)

func newTestApp(t *testing.T, workDir string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{
		Workers: runtime.NumCPU(),
		Output:  "text",
		NoColor: true,
	}

	a := New(cfg, logger.Nop())
	a.workDir = workDir

	var out, errOut bytes.Buffer
	a.out = &out
	a.errOut = &errOut
	return a, &out, &errOut
}

func intPtr(v int) *int { return &v }

func TestRunFormatsDirectoryInPlace(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "views", "page.tpl")
	require.NoError(t, os.MkdirAll(filepath.Dir(good), 0755))
	require.NoError(t, os.WriteFile(good, []byte("<div>\n\t<p>hi</p>   \n</div>"), 0644))

	bad := filepath.Join(dir, "broken.tpl")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe}, 0644))

	a, out, errOut := newTestApp(t, dir)
	require.NoError(t, a.Run(dir, &Options{}))

	// Success path: rewritten in place.
	content, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "<div>\n    <p>hi</p>\n</div>\n", string(content))

	// Failure path: file untouched, reported individually.
	assert.Contains(t, out.String(), "✅ "+good)
	assert.Contains(t, out.String(), "❌ "+bad)
	assert.Contains(t, errOut.String(), "not valid UTF-8")
	assert.Contains(t, out.String(), "Formatted 2 files in")

	untouched, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe}, untouched)
}

func TestRunSecondPassIsNoOp(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page.tpl")
	require.NoError(t, os.WriteFile(file, []byte("a\n\n\n\nb"), 0644))

	a, _, _ := newTestApp(t, dir)
	require.NoError(t, a.Run(dir, &Options{}))

	first, err := os.ReadFile(file)
	require.NoError(t, err)

	a2, _, _ := newTestApp(t, dir)
	require.NoError(t, a2.Run(dir, &Options{}))

	second, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunOverridePrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tplfmt.toml"), []byte("tab_spaces = 2\n"), 0644))

	file := filepath.Join(dir, "page.tpl")
	require.NoError(t, os.WriteFile(file, []byte("\ta\n"), 0644))

	a, out, _ := newTestApp(t, dir)
	require.NoError(t, a.Run(file, &Options{TabSpaces: intPtr(8)}))

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "        a\n", string(content), "flag override must beat the config file")
	assert.Equal(t, 1, strings.Count(out.String(), "Discovered config at"))
}

func TestRunConfigFileApplies(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tplfmt.toml"), []byte("tab_spaces = 2\n"), 0644))

	file := filepath.Join(dir, "page.tpl")
	require.NoError(t, os.WriteFile(file, []byte("\ta\n"), 0644))

	a, _, _ := newTestApp(t, dir)
	require.NoError(t, a.Run(file, &Options{}))

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "  a\n", string(content))
}

func TestRunMalformedConfigIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tplfmt.toml"), []byte("max_width = = 1"), 0644))

	file := filepath.Join(dir, "page.tpl")
	require.NoError(t, os.WriteFile(file, []byte("before\n"), 0644))

	a, out, _ := newTestApp(t, dir)
	err := a.Run(file, &Options{})

	require.Error(t, err)
	assert.NotContains(t, out.String(), "Formatted", "no summary on fatal errors")

	content, readErr := os.ReadFile(file)
	require.NoError(t, readErr)
	assert.Equal(t, "before\n", string(content), "no file is touched on fatal errors")
}

func TestRunInvalidPatternIsFatal(t *testing.T) {
	dir := t.TempDir()

	a, out, _ := newTestApp(t, dir)
	err := a.Run(filepath.Join(dir, "[broken"), &Options{})

	require.Error(t, err)
	assert.NotContains(t, out.String(), "Formatted")
}

func TestRunEmptyMatchStillSummarizes(t *testing.T) {
	dir := t.TempDir()

	a, out, _ := newTestApp(t, dir)
	require.NoError(t, a.Run(dir, &Options{}))

	assert.Contains(t, out.String(), "Formatted 0 files in")
}
