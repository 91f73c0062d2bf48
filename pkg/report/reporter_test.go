package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/tplfmt/pkg/batch"
	"github.com/sonemaro/tplfmt/pkg/logger"
)

func newTextReporter(t *testing.T) (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	r, err := New(Config{Format: FormatText, NoColor: true}, &out, &errOut, logger.Nop())
	require.NoError(t, err)
	return r, &out, &errOut
}

func TestTextReportLinesAndSummary(t *testing.T) {
	r, out, errOut := newTextReporter(t)

	r.Report(batch.Outcome{Path: "views/a.tpl"})
	r.Report(batch.Outcome{Path: "views/b.tpl", Err: errors.New("unexpected token")})
	r.Report(batch.Outcome{Path: "views/c.tpl", Err: errors.New("formatter panicked: boom")})

	require.NoError(t, r.Finish(batch.Summary{Total: 3, Elapsed: 42 * time.Millisecond}))

	stdout := out.String()
	assert.Contains(t, stdout, "✅ views/a.tpl")
	assert.Contains(t, stdout, "❌ views/b.tpl")
	assert.Contains(t, stdout, "❌ views/c.tpl")
	assert.Contains(t, stdout, "Formatted 3 files in 42 ms")

	// One per-file line per outcome plus the summary line.
	assert.Len(t, strings.Split(strings.TrimRight(stdout, "\n"), "\n"), 4)

	// Diagnostics go to stderr, one per failure, with distinct messages.
	assert.Contains(t, errOut.String(), "\t\tunexpected token")
	assert.Contains(t, errOut.String(), "\t\tformatter panicked: boom")
	assert.Equal(t, 2, r.Failed())
}

func TestTextSummaryAfterAllLines(t *testing.T) {
	r, out, _ := newTextReporter(t)

	for i := 0; i < 5; i++ {
		r.Report(batch.Outcome{Path: fmt.Sprintf("f%d.tpl", i)})
	}
	require.NoError(t, r.Finish(batch.Summary{Total: 5}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[5], "Formatted 5 files"), "summary must be the last line")
}

func TestTextNoColorHasNoEscapeCodes(t *testing.T) {
	r, out, _ := newTextReporter(t)

	r.Report(batch.Outcome{Path: "a.tpl"})
	r.Report(batch.Outcome{Path: "b.tpl", Err: errors.New("bad")})

	assert.NotContains(t, out.String(), "\x1b[")
}

func TestJSONReportDocument(t *testing.T) {
	var out, errOut bytes.Buffer
	r, err := New(Config{Format: FormatJSON}, &out, &errOut, logger.Nop())
	require.NoError(t, err)

	r.Report(batch.Outcome{Path: "a.tpl"})
	r.Report(batch.Outcome{Path: "b.tpl", Err: errors.New("unexpected token")})
	require.NoError(t, r.Finish(batch.Summary{Total: 2, Elapsed: 7 * time.Millisecond}))

	// Nothing is written until Finish for structured formats.
	var doc struct {
		Files []struct {
			Path   string `json:"path"`
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"files"`
		Total     int   `json:"total"`
		Failed    int   `json:"failed"`
		ElapsedMS int64 `json:"elapsed_ms"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, 2, doc.Total)
	assert.Equal(t, 1, doc.Failed)
	assert.Equal(t, int64(7), doc.ElapsedMS)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "ok", doc.Files[0].Status)
	assert.Equal(t, "failed", doc.Files[1].Status)
	assert.Equal(t, "unexpected token", doc.Files[1].Error)
}

func TestYAMLReportDocument(t *testing.T) {
	var out bytes.Buffer
	r, err := New(Config{Format: FormatYAML}, &out, &bytes.Buffer{}, logger.Nop())
	require.NoError(t, err)

	r.Report(batch.Outcome{Path: "a.tpl"})
	require.NoError(t, r.Finish(batch.Summary{Total: 1}))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 1, doc["total"])
	assert.Equal(t, 0, doc["failed"])
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"}, &bytes.Buffer{}, &bytes.Buffer{}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestEmptyFormatDefaultsToText(t *testing.T) {
	var out bytes.Buffer
	r, err := New(Config{}, &out, &bytes.Buffer{}, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, r.Finish(batch.Summary{Total: 0}))
	assert.Contains(t, out.String(), "Formatted 0 files")
}
