package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"jsema/internal/trace"
)

// Config is the decoded jsema.toml.
//
//	[session]
//	workers = 4
//	max_diagnostics = 200
//
//	[trace]
//	level = "phase"
//	mode = "stream"
//	output = "trace.ndjson"
//
//	[classpath]
//	indexes = ["stubs/guava.toml"]
//	cache = ".jsema/cache"
type Config struct {
	// Path is the file the config was loaded from, empty for defaults.
	Path      string          `toml:"-"`
	Session   SessionConfig   `toml:"session"`
	Trace     TraceConfig     `toml:"trace"`
	Classpath ClasspathConfig `toml:"classpath"`
}

// SessionConfig is the [session] table.
type SessionConfig struct {
	// Workers bounds concurrent unit processing; 0 means one per CPU.
	Workers        int `toml:"workers"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// TraceConfig is the [trace] table.
type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// ClasspathConfig is the [classpath] table. Relative paths are relative to
// the directory of the config file.
type ClasspathConfig struct {
	Indexes []string `toml:"indexes"`
	Cache   string   `toml:"cache"`
	// NoPlatform leaves the embedded platform index out.
	NoPlatform bool `toml:"no_platform"`
}

var (
	// ErrInvalidConfig wraps every validation failure of LoadConfig.
	ErrInvalidConfig = errors.New("invalid jsema.toml")
)

const defaultMaxDiagnostics = 500

// Default returns the configuration used when no jsema.toml is found.
func Default() *Config {
	return &Config{
		Session: SessionConfig{MaxDiagnostics: defaultMaxDiagnostics},
		Trace:   TraceConfig{Level: "off", Mode: "stream", Output: "-"},
	}
}

// LoadConfig decodes and validates the config at path. Keys jsema does not
// know are rejected so typos do not go unnoticed.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the jsema.toml above startDir, or returns Default when
// there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadConfig(path)
}

func (c *Config) validate() error {
	if c.Session.Workers < 0 {
		return fmt.Errorf("%w: session.workers must not be negative", ErrInvalidConfig)
	}
	if c.Session.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: session.max_diagnostics must not be negative", ErrInvalidConfig)
	}
	if _, err := c.TracerConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, p := range c.Classpath.Indexes {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: classpath.indexes has an empty entry", ErrInvalidConfig)
		}
	}
	return nil
}

// Dir is the directory relative paths are resolved against.
func (c *Config) Dir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// IndexPaths returns the stub index files in declaration order.
func (c *Config) IndexPaths() []string {
	out := make([]string, len(c.Classpath.Indexes))
	for i, p := range c.Classpath.Indexes {
		out[i] = c.resolve(p)
	}
	return out
}

// CacheDir returns the index cache directory, empty when caching is off.
func (c *Config) CacheDir() string { return c.resolve(c.Classpath.Cache) }

// WorkerCount resolves session.workers.
func (c *Config) WorkerCount() int {
	if c.Session.Workers > 0 {
		return c.Session.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// TracerConfig converts the [trace] table for trace.New.
func (c *Config) TracerConfig() (trace.Config, error) {
	var out trace.Config
	level := c.Trace.Level
	if level == "" {
		level = "off"
	}
	lvl, err := trace.ParseLevel(level)
	if err != nil {
		return out, err
	}
	mode := c.Trace.Mode
	if mode == "" {
		mode = "stream"
	}
	m, err := trace.ParseMode(mode)
	if err != nil {
		return out, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return out, err
	}
	output := c.Trace.Output
	if output != "-" {
		output = c.resolve(output)
	}
	return trace.Config{Level: lvl, Mode: m, Format: format, OutputPath: output}, nil
}
