package settings

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/sonemaro/tplfmt/pkg/logger"
)

// Resolver produces the effective Settings for a run.
type Resolver struct {
	fs      afero.Fs
	workDir string
	notice  io.Writer
	log     logger.Logger
}

// NewResolver creates a Resolver rooted at workDir. The discovery notice is
// written to notice (os.Stdout when nil).
func NewResolver(fs afero.Fs, workDir string, notice io.Writer, log logger.Logger) *Resolver {
	if notice == nil {
		notice = os.Stdout
	}

	return &Resolver{
		fs:      fs,
		workDir: workDir,
		notice:  notice,
		log:     log,
	}
}

// Resolve returns the effective Settings. An explicit config path bypasses
// discovery. Any failure to read or parse a resolved config file is fatal:
// the caller must abort before touching any file.
func (r *Resolver) Resolve(explicitPath string, overrides Overrides) (Settings, error) {
	path := explicitPath
	if path == "" {
		if discovered, ok := r.discover(); ok {
			path = discovered
		}
	}

	resolved := Default()

	if path != "" {
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config file %s: %w", path, err)
		}

		meta, err := toml.Decode(string(data), &resolved)
		if err != nil {
			return Settings{}, fmt.Errorf("parse config file %s: %w", path, err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return Settings{}, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}

		r.log.WithFields(logger.Fields{
			"path":     path,
			"explicit": explicitPath != "",
		}).Debug("Loaded config file")
	}

	overrides.apply(&resolved)

	r.log.WithFields(logger.Fields{
		"maxWidth":  resolved.MaxWidth,
		"tabSpaces": resolved.TabSpaces,
	}).Debug("Settings resolved")

	return resolved, nil
}
