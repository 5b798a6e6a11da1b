package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/protoweave/pkg/languages"
	"gopkg.in/yaml.v3"
)

// FileNames are the config file names LoadConfigFromDir looks for, in order
var FileNames = []string{"protoweave.yaml", "protoweave.yml", ".protoweave.yaml", ".protoweave.yml"}

// Config holds all protoweave configuration
type Config struct {
	Version       string              `yaml:"version"`
	Proto         ProtoConfig         `yaml:"proto"`
	Sources       []SourceRoot        `yaml:"sources"`
	Plugins       []string            `yaml:"plugins"`
	Render        RenderConfig        `yaml:"render"`
	Observability ObservabilityConfig `yaml:"observability"`
	Watch         WatchConfig         `yaml:"watch"`
}

// ProtoConfig lists the directories holding .proto sources
type ProtoConfig struct {
	Roots []string `yaml:"roots"`
}

// SourceRoot is a directory of generated sources tagged with their language.
// Rendered files go to Target. Without a target they are written back into Path,
// which makes a second pass over the same root insert every fragment again.
type SourceRoot struct {
	Path     string `yaml:"path"`
	Target   string `yaml:"target,omitempty"`
	Language string `yaml:"language"`
}

// InPlace reports whether rendered files are written back into the source root
func (s SourceRoot) InPlace() bool {
	return s.Target == "" || filepath.Clean(s.Target) == filepath.Clean(s.Path)
}

// RenderConfig controls how insertions are indented and scheduled
type RenderConfig struct {
	IndentSize int            `yaml:"indent_size"`
	Levels     map[string]int `yaml:"levels"`
	Parallel   bool           `yaml:"parallel"`
}

// Level returns the configured indentation level for key, or def when unset
func (r RenderConfig) Level(key string, def int) int {
	if level, ok := r.Levels[key]; ok {
		return level
	}
	return def
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsAddr    string `yaml:"metrics_addr"`

	TracingEnabled  bool   `yaml:"tracing_enabled"`
	TracingEndpoint string `yaml:"tracing_endpoint"`
	TracingInsecure bool   `yaml:"tracing_insecure"`
}

// WatchConfig controls watch mode
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "v1",
		Proto: ProtoConfig{
			Roots: []string{"proto"},
		},
		Plugins: []string{"uuid", "annotation"},
		Render: RenderConfig{
			IndentSize: 4,
			Levels:     make(map[string]int),
		},
		Observability: ObservabilityConfig{
			LogLevel:        "info",
			LogFormat:       "text",
			MetricsAddr:     ":9090",
			TracingEndpoint: "localhost:4317",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from a file on top of the defaults, applies
// environment overrides and validates the result. Relative paths are resolved
// against the directory of the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyEnv()
	cfg.Resolve(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromDir searches for a config file in dir.
// Without one, the defaults with environment overrides are returned unvalidated
// so that flags can still fill in the gaps.
func LoadConfigFromDir(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	cfg.Resolve(dir)
	return cfg, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from PROTOWEAVE_* environment variables
func (c *Config) ApplyEnv() {
	if roots := getEnvList("PROTOWEAVE_PROTO_ROOTS"); len(roots) > 0 {
		c.Proto.Roots = roots
	}
	if plugins := getEnvList("PROTOWEAVE_PLUGINS"); len(plugins) > 0 {
		c.Plugins = plugins
	}

	c.Render.IndentSize = getEnvInt("PROTOWEAVE_INDENT_SIZE", c.Render.IndentSize)
	c.Render.Parallel = getEnvBool("PROTOWEAVE_PARALLEL", c.Render.Parallel)

	c.Observability.LogLevel = getEnv("PROTOWEAVE_LOG_LEVEL", c.Observability.LogLevel)
	c.Observability.LogFormat = getEnv("PROTOWEAVE_LOG_FORMAT", c.Observability.LogFormat)
	c.Observability.MetricsEnabled = getEnvBool("PROTOWEAVE_METRICS_ENABLED", c.Observability.MetricsEnabled)
	c.Observability.MetricsAddr = getEnv("PROTOWEAVE_METRICS_ADDR", c.Observability.MetricsAddr)
	c.Observability.TracingEnabled = getEnvBool("PROTOWEAVE_TRACING_ENABLED", c.Observability.TracingEnabled)
	c.Observability.TracingEndpoint = getEnv("PROTOWEAVE_TRACING_ENDPOINT", c.Observability.TracingEndpoint)
	c.Observability.TracingInsecure = getEnvBool("PROTOWEAVE_TRACING_INSECURE", c.Observability.TracingInsecure)

	c.Watch.Debounce = getEnvDuration("PROTOWEAVE_WATCH_DEBOUNCE", c.Watch.Debounce)
}

// Resolve makes relative proto and source roots relative to base
func (c *Config) Resolve(base string) {
	for i, root := range c.Proto.Roots {
		c.Proto.Roots[i] = resolvePath(base, root)
	}
	for i := range c.Sources {
		c.Sources[i].Path = resolvePath(base, c.Sources[i].Path)
		c.Sources[i].Target = resolvePath(base, c.Sources[i].Target)
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Validate checks the configuration for completeness
func (c *Config) Validate() error {
	if len(c.Proto.Roots) == 0 {
		return ErrNoProtoRoots
	}
	if len(c.Sources) == 0 {
		return ErrNoSourceRoots
	}

	registry := languages.NewDefaultRegistry()
	for i, src := range c.Sources {
		if src.Path == "" {
			return fmt.Errorf("%w: sources[%d] has no path", ErrInvalidSourceRoot, i)
		}
		if _, err := registry.Get(src.Language); err != nil {
			return fmt.Errorf("%w: sources[%d] language %q: %v", ErrInvalidSourceRoot, i, src.Language, err)
		}
	}

	if c.Render.IndentSize <= 0 {
		return fmt.Errorf("%w: indent size %d", ErrInvalidIndent, c.Render.IndentSize)
	}
	for key, level := range c.Render.Levels {
		if level < 0 {
			return fmt.Errorf("%w: level %s is %d", ErrInvalidIndent, key, level)
		}
	}

	if c.Watch.Debounce <= 0 {
		return ErrInvalidDebounce
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns the non-empty comma-separated items of an environment variable
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
