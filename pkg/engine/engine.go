/*
Package engine defines the formatting engine contract and the built-in
whitespace normalizer.

The orchestration core treats the engine as opaque: it hands over a path and
the resolved Settings and gets back the full reformatted text or an error.
Engines are allowed to panic; the batch executor isolates that.
*/
package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/sonemaro/tplfmt/pkg/logger"
	"github.com/sonemaro/tplfmt/pkg/settings"
)

// Engine formats one source file.
type Engine interface {
	// Format reads the file at path and returns its reformatted content.
	// It must not write the file; the executor owns the write-back.
	Format(ctx context.Context, path string, s settings.Settings) (string, error)
}

// Normalizer is the built-in engine. It canonicalizes whitespace:
// leading tabs become TabSpaces spaces, trailing whitespace is trimmed,
// blank-line runs are capped at MaxBlankLines, and the file ends with exactly
// one newline when FinalNewline is set. The output is a fixed point: running
// it twice with the same Settings yields byte-identical text.
type Normalizer struct {
	fs  afero.Fs
	log logger.Logger
}

// NewNormalizer creates the built-in normalizer engine.
func NewNormalizer(fs afero.Fs, log logger.Logger) *Normalizer {
	return &Normalizer{fs: fs, log: log}
}

// Format implements Engine.
func (n *Normalizer) Format(ctx context.Context, path string, s settings.Settings) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := afero.ReadFile(n.fs, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: content is not valid UTF-8", path)
	}

	n.log.WithFields(logger.Fields{
		"path": path,
		"size": len(data),
	}).Debug("Normalizing file")

	return normalize(string(data), s), nil
}

func normalize(content string, s settings.Settings) string {
	lines := strings.Split(content, "\n")

	// A trailing newline in the input produces one empty trailing element;
	// drop it so blank-line accounting sees only real lines.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	indent := strings.Repeat(" ", s.TabSpaces)

	var b strings.Builder
	blankRun := 0
	for _, line := range lines {
		line = expandLeadingTabs(line, indent)
		line = strings.TrimRight(line, " \t\r")

		if line == "" {
			blankRun++
			if blankRun > s.MaxBlankLines {
				continue
			}
		} else {
			blankRun = 0
		}

		b.WriteString(line)
		b.WriteByte('\n')
	}

	out := b.String()
	if !s.FinalNewline {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

// expandLeadingTabs rewrites indentation tabs only; tabs after the first
// non-whitespace character are content and stay untouched.
func expandLeadingTabs(line, indent string) string {
	i := 0
	for i < len(line) && (line[i] == '\t' || line[i] == ' ') {
		i++
	}

	lead := strings.ReplaceAll(line[:i], "\t", indent)
	return lead + line[i:]
}
