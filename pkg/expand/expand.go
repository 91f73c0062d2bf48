// Package expand turns the single CLI input string into the concrete set of
// candidate file paths for a batch.
//
// An existing directory is rewritten to "dir/**/*.tpl" before evaluation;
// anything else is evaluated directly as a glob pattern. Invalid pattern syntax
// is fatal. A valid pattern with zero matches is an empty batch, not an error.
package expand

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/sonemaro/tplfmt/pkg/logger"
)

// SourceExtension is the template source extension matched when the input
// names a directory.
const SourceExtension = ".tpl"

// Entry is one candidate produced by expansion. A non-nil Err marks an
// enumeration error (for example a path that vanished between matching and
// stat); such entries become per-file failures downstream instead of
// aborting the batch.
type Entry struct {
	Path string
	Err  error
}

// Expander enumerates candidate files for an input pattern.
//
// Pattern evaluation runs against the operating system filesystem; the
// afero handle is used for the directory probe and per-match stat so those
// stay consistent with the rest of the application.
type Expander struct {
	fs  afero.Fs
	log logger.Logger
}

// New creates an Expander.
func New(fs afero.Fs, log logger.Logger) *Expander {
	return &Expander{fs: fs, log: log}
}

// Expand evaluates input and returns one Entry per matched file. The only
// fatal condition is syntactically invalid glob syntax.
func (e *Expander) Expand(input string) ([]Entry, error) {
	pattern := input
	if info, err := e.fs.Stat(input); err == nil && info.IsDir() {
		pattern = filepath.Join(input, "**", "*"+SourceExtension)
		e.log.WithFields(logger.Fields{
			"input":   input,
			"pattern": pattern,
		}).Debug("Directory input rewritten to recursive pattern")
	}

	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("evaluate glob pattern %q: %w", pattern, err)
	}

	entries := make([]Entry, 0, len(matches))
	for _, match := range matches {
		// Matches exist at enumeration time, but the batch may race
		// against concurrent deletes; a failed stat is carried as the
		// entry's error rather than dropped.
		if _, err := e.lstat(match); err != nil {
			entries = append(entries, Entry{Path: match, Err: fmt.Errorf("stat %s: %w", match, err)})
			continue
		}
		entries = append(entries, Entry{Path: match})
	}

	e.log.WithFields(logger.Fields{
		"pattern": pattern,
		"matches": len(entries),
	}).Debug("Expansion complete")

	return entries, nil
}

func (e *Expander) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := e.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return e.fs.Stat(path)
}
