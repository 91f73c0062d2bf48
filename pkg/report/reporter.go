/*
Package report emits per-file status lines and the final batch summary.

The text format streams one line per outcome as results arrive (completion
order, interleaving with other writers tolerated) and always prints the
summary strictly after the last per-file line. The json and yaml formats
collect outcomes and emit a single structured document at the end.
*/
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/tplfmt/pkg/batch"
	"github.com/sonemaro/tplfmt/pkg/logger"
)

// Format is the report output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config holds reporter configuration.
type Config struct {
	// Format selects text, json or yaml output.
	Format Format

	// NoColor disables colored status lines. Color is also disabled
	// automatically when stdout is not a terminal.
	NoColor bool
}

// Reporter consumes batch outcomes and renders the run report.
type Reporter struct {
	config Config
	out    io.Writer
	errOut io.Writer
	log    logger.Logger

	ok   *color.Color
	fail *color.Color

	records []record
	failed  int
}

type record struct {
	Path   string `json:"path" yaml:"path"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

type document struct {
	Files     []record `json:"files" yaml:"files"`
	Total     int      `json:"total" yaml:"total"`
	Failed    int      `json:"failed" yaml:"failed"`
	ElapsedMS int64    `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// New creates a Reporter writing per-file lines and the summary to out and
// failure diagnostics to errOut.
func New(config Config, out, errOut io.Writer, log logger.Logger) (*Reporter, error) {
	switch config.Format {
	case FormatText, FormatJSON, FormatYAML:
	case "":
		config.Format = FormatText
	default:
		return nil, fmt.Errorf("unsupported report format: %s", config.Format)
	}

	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	if config.NoColor || !isTerminal(out) {
		ok.DisableColor()
		fail.DisableColor()
	} else {
		ok.EnableColor()
		fail.EnableColor()
	}

	return &Reporter{
		config: config,
		out:    out,
		errOut: errOut,
		log:    log,
		ok:     ok,
		fail:   fail,
	}, nil
}

// Report consumes one outcome. Call order is completion order; no ordering
// among per-file lines is promised.
func (r *Reporter) Report(o batch.Outcome) {
	if o.Failed() {
		r.failed++
	}

	switch r.config.Format {
	case FormatText:
		if o.Failed() {
			fmt.Fprintln(r.out, r.fail.Sprintf("❌ %s", o.Path))
			fmt.Fprintf(r.errOut, "\t\t%s\n", o.Err)
		} else {
			fmt.Fprintln(r.out, r.ok.Sprintf("✅ %s", o.Path))
		}
	default:
		rec := record{Path: o.Path, Status: "ok"}
		if o.Failed() {
			rec.Status = "failed"
			rec.Error = o.Err.Error()
		}
		r.records = append(r.records, rec)
	}
}

// Finish renders the final summary. For text that is the one summary line;
// for json and yaml it is the whole collected document.
func (r *Reporter) Finish(s batch.Summary) error {
	r.log.WithFields(logger.Fields{
		"total":  s.Total,
		"failed": r.failed,
	}).Debug("Rendering summary")

	switch r.config.Format {
	case FormatJSON:
		return r.renderDocument(s, func(doc document) ([]byte, error) {
			return json.MarshalIndent(doc, "", "  ")
		})
	case FormatYAML:
		return r.renderDocument(s, func(doc document) ([]byte, error) {
			return yaml.Marshal(doc)
		})
	default:
		_, err := fmt.Fprintf(r.out, "Formatted %d files in %d ms\n", s.Total, s.Elapsed.Milliseconds())
		return err
	}
}

// Failed returns the number of failure outcomes seen so far.
func (r *Reporter) Failed() int { return r.failed }

func (r *Reporter) renderDocument(s batch.Summary, marshal func(document) ([]byte, error)) error {
	doc := document{
		Files:     r.records,
		Total:     s.Total,
		Failed:    r.failed,
		ElapsedMS: s.Elapsed.Milliseconds(),
	}

	data, err := marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
