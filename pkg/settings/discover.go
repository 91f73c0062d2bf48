package settings

import (
	"fmt"
	"path/filepath"

	"github.com/sonemaro/tplfmt/pkg/logger"
)

// discover walks the ancestor chain of the working directory looking for
// ConfigFileName. It returns the first match, printing the one-line
// discovery notice exactly once. Filesystem errors along the way are treated
// as not-found, never as failures.
//
// The loop is bounded by directory depth: filepath.Dir returns its input
// unchanged only at the root, which ends the walk.
func (r *Resolver) discover() (string, bool) {
	dir := r.workDir

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := r.fs.Stat(candidate); err == nil && !info.IsDir() {
			fmt.Fprintf(r.notice, "Discovered config at %s\n", candidate)
			r.log.WithFields(logger.Fields{"path": candidate}).Debug("Config file discovered")
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			r.log.Debug("No config file found in ancestor chain")
			return "", false
		}
		dir = parent
	}
}
