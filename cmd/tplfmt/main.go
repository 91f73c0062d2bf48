package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sonemaro/tplfmt/cmd/tplfmt/app"
	"github.com/sonemaro/tplfmt/internal/config"
	"github.com/sonemaro/tplfmt/internal/version"
	"github.com/sonemaro/tplfmt/pkg/logger"
)

var (
	// Formatting flags
	cfgFile   string
	maxWidth  int
	tabSpaces int

	// Runtime flags
	workers      int
	rateLimit    int
	outputFormat string
	noColor      bool
	verbosity    int

	// Global logger instance
	log logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tplfmt [flags] <input_pattern>",
	Short: "A batch formatter for template source files",
	Long: `tplfmt v` + version.Version + `
========================================

Reformats template source files in place. The input may be a single file,
a directory (formatted recursively) or a glob pattern. Formatting settings
are resolved from flags, an explicit or discovered tplfmt.toml, and built-in
defaults, in that order of precedence.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(logger.Config{
			Verbosity: verbosity,
			Output:    os.Stderr,
		})
	},
	RunE: runFormat,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flag("full").Value.String() == "true" {
			fmt.Println(version.FullVersion())
		} else {
			fmt.Println(version.Version)
		}
	},
}

func init() {
	rootCmd.Flags().IntVarP(&maxWidth, "max-width", "m", 0, "maximum line width (overrides config file)")
	rootCmd.Flags().IntVarP(&tabSpaces, "tab-spaces", "t", 0, "spaces per indentation level (overrides config file)")
	rootCmd.Flags().StringVarP(&cfgFile, "config-file", "c", "", "explicit config file, bypasses discovery")

	rootCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of concurrent workers")
	rootCmd.Flags().IntVarP(&rateLimit, "rate-limit", "r", 0, "maximum files formatted per second")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "report format: text|json|yaml")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (can be used multiple times)")

	versionCmd.Flags().BoolP("full", "f", false, "show full version information")

	rootCmd.AddCommand(versionCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line flags override environment configuration.
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimit = rateLimit
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputFormat
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = noColor
	}
	cfg.Verbose = verbosity

	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := &app.Options{ConfigFile: cfgFile}
	if cmd.Flags().Changed("max-width") {
		opts.MaxWidth = &maxWidth
	}
	if cmd.Flags().Changed("tab-spaces") {
		opts.TabSpaces = &tabSpaces
	}

	log.WithFields(logger.Fields{
		"pattern": args[0],
		"workers": cfg.Workers,
		"output":  cfg.Output,
	}).Debug("Configuration resolved")

	return app.New(&cfg, log).Run(args[0], opts)
}
