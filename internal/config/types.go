package config

// OutputFormat represents the supported report formats.
type OutputFormat string

const (
	// OutputFormatText is the streaming per-file line format.
	OutputFormatText OutputFormat = "text"

	// OutputFormatJSON is the collected JSON report.
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML is the collected YAML report.
	OutputFormatYAML OutputFormat = "yaml"
)

const (
	// MaxWorkerMultiplier is the maximum multiple of CPU cores allowed for
	// the worker count.
	MaxWorkerMultiplier = 4
)

var defaultOutputFormat = OutputFormatText

// validOutputFormats contains the supported report formats.
var validOutputFormats = map[string]bool{
	string(OutputFormatText): true,
	string(OutputFormatJSON): true,
	string(OutputFormatYAML): true,
}
