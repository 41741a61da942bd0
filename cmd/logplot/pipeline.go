package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/GKD-RM-Lab/logplot/src/config"
	"github.com/GKD-RM-Lab/logplot/src/logging"
	"github.com/GKD-RM-Lab/logplot/src/logparse"
	"github.com/GKD-RM-Lab/logplot/src/series"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

// rootOptions are the persistent flags; set flags win over the config file.
type rootOptions struct {
	configPath string
	file       string
	variant    string
	window     int
	outDir     string
	role       string
	logLevel   string
}

func (o *rootOptions) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "Path to a YAML or TOML config file")
	f.StringVarP(&o.file, "file", "f", "", "Log file to read (default: the variant's usual log path)")
	f.StringVarP(&o.variant, "variant", "v", "", "Line layout: fric, fric_set, trigger or a configured variant")
	f.IntVarP(&o.window, "window", "w", 0, "Detail window size in samples (default 100)")
	f.StringVarP(&o.outDir, "out-dir", "o", "", "Directory for rendered images (default: working directory)")
	f.StringVar(&o.role, "role", "", "Only use lines tagged with this logger role, e.g. fric")
	f.StringVar(&o.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
}

// loadConfig reads the config file and applies explicitly set flags on top.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), o.configPath)
	if err != nil {
		return nil, usageError{err}
	}
	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.LogFile = o.file
	}
	if flags.Changed("variant") {
		cfg.Variant = o.variant
	}
	if flags.Changed("window") {
		cfg.WindowSize = o.window
	}
	if flags.Changed("out-dir") {
		cfg.OutputDir = o.outDir
	}
	if flags.Changed("role") {
		cfg.Role = o.role
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, usageError{err}
	}
	logging.SetLogLevel(cfg.LogLevel)
	return cfg, nil
}

// dataset is an ingested log ready for plotting.
type dataset struct {
	cfg     *config.Config
	variant *variant.Variant
	logPath string
	set     *series.Set
}

// loadDataset resolves config, reads the log and builds the series set. FileNotFound and
// EmptyDataset come back as errors for the caller to report.
func (o *rootOptions) loadDataset(cmd *cobra.Command) (*dataset, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	v, err := cfg.ResolveVariant()
	if err != nil {
		return nil, usageError{err}
	}
	path := cfg.ResolveLogFile(v)
	if path == "" {
		return nil, usageError{fmt.Errorf("variant %s has no default log; pass --file", v.Name)}
	}
	start := time.Now()
	recs, err := logparse.ReadFile(path, v.Pattern, logparse.Options{Role: cfg.Role})
	if err != nil {
		return nil, err
	}
	set, err := series.Ingest(recs, v.FieldNames(), v.Table())
	if errors.Is(err, series.ErrEmptyDataset) {
		hint := v.Example
		if hint == "" {
			hint = v.Pattern.String()
		}
		return nil, fmt.Errorf("no data detected in %s, expected lines like %q: %w", path, hint, err)
	}
	if err != nil {
		return nil, err
	}
	logging.TimeTrack(start, "ingest "+path)
	logging.Infof("loaded %d samples of %s from %s", set.Len(), v.Name, path)
	return &dataset{cfg: cfg, variant: v, logPath: path, set: set}, nil
}
