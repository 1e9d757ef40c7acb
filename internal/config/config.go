package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Flag names shared with the command definition.
const (
	FlagJobs        = "jobs"
	FlagDryRun      = "dry-run"
	FlagVerbose     = "verbose"
	FlagFileTimeout = "file-timeout"
	FlagExifTimes   = "exif-times"
	FlagTUI         = "tui"
	FlagNoLock      = "no-lock"
	FlagConfig      = "config"
)

type Config struct {
	SourceDir   string
	TargetDir   string
	Jobs        int
	FileTimeout time.Duration
	DryRun      bool
	Verbose     bool
	ExifTimes   bool
	TUI         bool
	NoLock      bool
}

func Default() Config {
	return Config{Jobs: 2 * runtime.NumCPU()}
}

// Input is what the command line provided. Changed reports whether a flag was
// set explicitly; only those override env and file values.
type Input struct {
	Args       []string
	Flags      Config
	Changed    func(name string) bool
	ConfigPath string
}

// Resolve layers defaults, config file, environment and flags, in that order,
// and validates the result.
func Resolve(in Input) (Config, error) {
	cfg := Default()

	path := in.ConfigPath
	if path == "" {
		path = envOrEmpty("EXTSORT_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyFlags(&cfg, in)

	if len(in.Args) > 0 {
		cfg.SourceDir = in.Args[0]
	}
	if len(in.Args) > 1 {
		cfg.TargetDir = in.Args[1]
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = envOrEmpty("EXTSORT_SOURCE_DIR")
	}
	if cfg.TargetDir == "" {
		cfg.TargetDir = envOrEmpty("EXTSORT_TARGET_DIR")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SourceDir == "" || c.TargetDir == "" {
		return errors.New("source and destination are required")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.FileTimeout < 0 {
		return fmt.Errorf("file timeout must not be negative, got %s", c.FileTimeout)
	}
	if c.DryRun && c.TUI {
		return errors.New("dry run and tui cannot be combined")
	}
	return nil
}

type fileConfig struct {
	Jobs        *int    `toml:"jobs" yaml:"jobs"`
	FileTimeout *string `toml:"file_timeout" yaml:"file_timeout"`
	DryRun      *bool   `toml:"dry_run" yaml:"dry_run"`
	Verbose     *bool   `toml:"verbose" yaml:"verbose"`
	ExifTimes   *bool   `toml:"exif_times" yaml:"exif_times"`
	TUI         *bool   `toml:"tui" yaml:"tui"`
	NoLock      *bool   `toml:"no_lock" yaml:"no_lock"`
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewDecoder(file).DisallowUnknownFields().Decode(&fc)
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		err = decoder.Decode(&fc)
	default:
		return fmt.Errorf("config %s: unsupported format, use .toml or .yaml", path)
	}
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if fc.Jobs != nil {
		cfg.Jobs = *fc.Jobs
	}
	if fc.FileTimeout != nil {
		timeout, err := time.ParseDuration(*fc.FileTimeout)
		if err != nil {
			return fmt.Errorf("parse config: file_timeout: %w", err)
		}
		cfg.FileTimeout = timeout
	}
	setBool(&cfg.DryRun, fc.DryRun)
	setBool(&cfg.Verbose, fc.Verbose)
	setBool(&cfg.ExifTimes, fc.ExifTimes)
	setBool(&cfg.TUI, fc.TUI)
	setBool(&cfg.NoLock, fc.NoLock)
	return nil
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}

func applyEnv(cfg *Config) error {
	if val := envOrEmpty("EXTSORT_JOBS"); val != "" {
		jobs, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("EXTSORT_JOBS: %w", err)
		}
		cfg.Jobs = jobs
	}
	if val := envOrEmpty("EXTSORT_FILE_TIMEOUT"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("EXTSORT_FILE_TIMEOUT: %w", err)
		}
		cfg.FileTimeout = timeout
	}
	if envTruthy("EXTSORT_VERBOSE") {
		cfg.Verbose = true
	}
	if envTruthy("EXTSORT_DRY_RUN") {
		cfg.DryRun = true
	}
	if envTruthy("EXTSORT_EXIF_TIMES") {
		cfg.ExifTimes = true
	}
	return nil
}

func applyFlags(cfg *Config, in Input) {
	if in.Changed == nil {
		return
	}
	if in.Changed(FlagJobs) {
		cfg.Jobs = in.Flags.Jobs
	}
	if in.Changed(FlagFileTimeout) {
		cfg.FileTimeout = in.Flags.FileTimeout
	}
	if in.Changed(FlagDryRun) {
		cfg.DryRun = in.Flags.DryRun
	}
	if in.Changed(FlagVerbose) {
		cfg.Verbose = in.Flags.Verbose
	}
	if in.Changed(FlagExifTimes) {
		cfg.ExifTimes = in.Flags.ExifTimes
	}
	if in.Changed(FlagTUI) {
		cfg.TUI = in.Flags.TUI
	}
	if in.Changed(FlagNoLock) {
		cfg.NoLock = in.Flags.NoLock
	}
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
