package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joshuapare/riffkit/dissect/printer"
	"github.com/joshuapare/riffkit/internal/logging"
	"github.com/joshuapare/riffkit/pkg/riff"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string
	maxDepth   int
	limitsName string
)

var rootCmd = &cobra.Command{
	Use:   "riffctl",
	Short: "Dissect RIFF container files and captured payloads",
	Long: `riffctl identifies RIFF-family containers (WebP, WAVE, AVI and formats
declared in a config file), decodes their headers and chunk framing, and
reports anything malformed as annotations instead of failing.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	SilenceUsage: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logs")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&limitsName, "limits", "", "Limits preset: default, strict or relaxed")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "Override the nested dispatch budget")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config (or the defaults) and applies the global flags.
func loadConfig() (riff.Config, error) {
	cfg := riff.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = riff.LoadConfig(configPath); err != nil {
			return riff.Config{}, err
		}
	}
	if jsonOut {
		cfg.Output = string(printer.FormatJSON)
	}
	if limitsName != "" {
		if err := cfg.ApplyLimitsPreset(limitsName); err != nil {
			return riff.Config{}, err
		}
	}
	if maxDepth > 0 {
		cfg.MaxDepth = maxDepth
	}
	return cfg, cfg.Validate()
}

func initLogging() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	_, err = logging.Init(logging.Options{
		Enabled: !quiet && (verbose || cfg.LogDir != ""),
		Level:   level,
		LogDir:  cfg.LogDir,
	})
	return err
}

// newDissector builds a dissector from the effective configuration. tweak,
// when non-nil, applies command-specific flags before the engine is built.
func newDissector(opts riff.Options, tweak func(*riff.Config)) (*riff.Dissector, riff.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, riff.Config{}, err
	}
	if tweak != nil {
		tweak(&cfg)
	}
	l := logging.L
	opts.Logger = &l
	d, err := riff.New(cfg, opts)
	if err != nil {
		return nil, riff.Config{}, err
	}
	return d, cfg, nil
}

// newPrinter returns a printer on stdout honoring the configured output.
func newPrinter(cfg riff.Config, maxBytes int) (*printer.Printer, error) {
	f, err := printer.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	opts := printer.DefaultOptions()
	opts.Format = f
	if maxBytes >= 0 {
		opts.MaxValueBytes = maxBytes
	}
	return printer.New(os.Stdout, opts), nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
