// Package config loads runtime configuration from flags and DOCFIELD_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeScan  = "scan"
	ModeStdio = "stdio"

	// Default values
	DefaultRegion      = "US"
	DefaultYearPivot   = 50
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 16 * 1024 * 1024 // 16MB per upload
	DefaultWorkers     = 4
)

// Config holds all configuration for the docfield extractor.
type Config struct {
	// Run configuration
	Mode         string // "scan" one-shot batch, "stdio" MCP server
	PDFDirectory string
	CSVPath      string // scan mode: optional CSV output path
	SearchTerm   string // optional literal search emitted as `other` fields

	// Validation configuration
	Region    string // default phone region for numbers without country code
	YearPivot int    // two-digit years < pivot resolve to 20xx

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	Workers     int
	MaxFileSize int64
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeScan,
		PDFDirectory: currentDir,
		Region:       DefaultRegion,
		YearPivot:    DefaultYearPivot,
		Version:      "1.0.0",
		ServerName:   "docfield",
		LogLevel:     DefaultLogLevel,
		Workers:      DefaultWorkers,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DOCFIELD")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("csv", cfg.CSVPath)
	viper.SetDefault("search", cfg.SearchTerm)
	viper.SetDefault("region", cfg.Region)
	viper.SetDefault("yearpivot", cfg.YearPivot)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'scan' for a one-shot batch, 'stdio' for the MCP server")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing PDF files")
	pflag.String("csv", cfg.CSVPath, "CSV output path (scan mode; empty prints a table)")
	pflag.String("search", cfg.SearchTerm, "Literal search term reported as 'other' fields")
	pflag.String("region", cfg.Region, "Default phone region for numbers without country code")
	pflag.Int("yearpivot", cfg.YearPivot, "Two-digit years below the pivot resolve to 20xx")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int("workers", cfg.Workers, "Parallel documents per batch")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "dir", "csv", "search", "region",
		"yearpivot", "loglevel", "workers", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ndocfield - extract validated structured fields from PDF documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs                  # scan a directory, print a table\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs --csv=out.csv    # scan and export CSV\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/pdfs     # MCP server over stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_DIR          PDF directory\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_CSV          CSV output path\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_SEARCH       Literal search term\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_REGION       Default phone region\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_YEARPIVOT    Two-digit year pivot\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_WORKERS      Parallel documents per batch\n")
		fmt.Fprintf(os.Stderr, "  DOCFIELD_MAXFILESIZE  Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.CSVPath = viper.GetString("csv")
	cfg.SearchTerm = viper.GetString("search")
	cfg.Region = viper.GetString("region")
	cfg.YearPivot = viper.GetInt("yearpivot")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.Workers = viper.GetInt("workers")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeScan && c.Mode != ModeStdio {
		return errors.New("mode must be either 'scan' or 'stdio'")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}
	info, err := os.Stat(c.PDFDirectory)
	if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", c.PDFDirectory)
	}

	if len(c.Region) != 2 {
		return fmt.Errorf("invalid region %q: must be a two-letter country code", c.Region)
	}

	if c.YearPivot < 1 || c.YearPivot > 99 {
		return errors.New("year pivot must be between 1 and 99")
	}

	if c.Workers < 1 {
		return errors.New("workers must be positive")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true when running as an MCP server over stdio.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, PDFDirectory: %s, Region: %s, YearPivot: %d, Workers: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.PDFDirectory, c.Region, c.YearPivot, c.Workers, c.LogLevel, c.MaxFileSize)
}
