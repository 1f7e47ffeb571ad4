package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jsema/internal/project"
)

// loadConfig reads --config or discovers jsema.toml from the working
// directory, then applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*project.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg *project.Config
	if path != "" {
		cfg, err = project.LoadConfig(path)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err = project.Discover(wd)
	}
	if err != nil {
		return nil, err
	}

	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiagnostics > 0 {
		cfg.Session.MaxDiagnostics = maxDiagnostics
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs > 0 {
		cfg.Session.Workers = jobs
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"trace", &cfg.Trace.Output},
		{"trace-level", &cfg.Trace.Level},
		{"trace-mode", &cfg.Trace.Mode},
		{"trace-format", &cfg.Trace.Format},
	}
	for _, f := range overrides {
		v, err := flags.GetString(f.flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", f.flag, err)
		}
		if v != "" {
			*f.dst = v
		}
	}
	// --trace без уровня включает фазы
	if flags.Changed("trace") && !flags.Changed("trace-level") && (cfg.Trace.Level == "" || cfg.Trace.Level == "off") {
		cfg.Trace.Level = "phase"
	}
	return cfg, nil
}
