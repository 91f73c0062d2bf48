/*
Package settings resolves the effective formatting configuration for a run.

The precedence order is strict: explicit flag overrides beat the config file,
the config file beats built-in defaults. An explicit --config-file path
bypasses discovery entirely; otherwise the ancestor directories of the
working directory are searched for the conventional tplfmt.toml.

One Settings value is resolved per invocation and shared read-only by every
formatting task.
*/
package settings

// ConfigFileName is the conventional config file searched for in ancestor
// directories of the working directory.
const ConfigFileName = "tplfmt.toml"

// Built-in defaults applied when neither a config file nor a flag provides
// a value.
const (
	DefaultMaxWidth      = 100
	DefaultTabSpaces     = 4
	DefaultMaxBlankLines = 1
)

// Settings is the effective formatting configuration. It is immutable once
// resolved; tasks only read it.
type Settings struct {
	// MaxWidth is the maximum desired line width. The built-in normalizer
	// does not re-wrap; width-aware engines consume this.
	MaxWidth int `toml:"max_width" json:"max_width" yaml:"max_width"`

	// TabSpaces is the number of spaces per indentation level.
	TabSpaces int `toml:"tab_spaces" json:"tab_spaces" yaml:"tab_spaces"`

	// MaxBlankLines is the maximum run of consecutive blank lines kept.
	MaxBlankLines int `toml:"max_blank_lines" json:"max_blank_lines" yaml:"max_blank_lines"`

	// FinalNewline forces exactly one trailing newline.
	FinalNewline bool `toml:"final_newline" json:"final_newline" yaml:"final_newline"`
}

// Default returns the built-in Settings.
func Default() Settings {
	return Settings{
		MaxWidth:      DefaultMaxWidth,
		TabSpaces:     DefaultTabSpaces,
		MaxBlankLines: DefaultMaxBlankLines,
		FinalNewline:  true,
	}
}

// Overrides carries per-field flag overrides. A nil field means the flag
// was not given. Overrides are applied last and never fail.
type Overrides struct {
	MaxWidth  *int
	TabSpaces *int
}

func (o Overrides) apply(s *Settings) {
	if o.MaxWidth != nil {
		s.MaxWidth = *o.MaxWidth
	}
	if o.TabSpaces != nil {
		s.TabSpaces = *o.TabSpaces
	}
}
