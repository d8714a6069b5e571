package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"gopkg.in/yaml.v3"

	"github.com/sergeknystautas/hgview/internal/version"
)

var (
	ErrConfigNotFound = errm.New("config file not found")
	ErrInvalidConfig  = errm.New("invalid config")
)

const (
	DefaultProgram      = "hg"
	DefaultEncoding     = "utf-8"
	DefaultTimeout      = 30 * time.Second
	DefaultHistoryLimit = 20
	DefaultWorkers      = 4
	DefaultDebounce     = 500 * time.Millisecond
	DefaultLogLevel     = "info"
	DefaultOutputFormat = "table"
	DefaultColor        = "auto"

	dirName  = ".hgview"
	fileName = "config.yaml"
)

var (
	logLevels     = []string{"trace", "debug", "info", "warn", "error"}
	outputFormats = []string{"table", "json", "yaml"}
	colorModes    = []string{"auto", "always", "never"}
)

// Config represents the application configuration. Every field can be
// overridden by its HGVIEW_* environment variable.
type Config struct {
	ConfigVersion string        `yaml:"config_version,omitempty"`
	Hg            HgConfig      `yaml:"hg"`
	History       HistoryConfig `yaml:"history"`
	Workers       int           `yaml:"workers" env:"HGVIEW_WORKERS"`
	Watch         WatchConfig   `yaml:"watch"`
	Log           LogConfig     `yaml:"log"`
	Output        OutputConfig  `yaml:"output"`

	path string
}

// HgConfig configures how the hg executable is run.
type HgConfig struct {
	Program    string        `yaml:"program" env:"HGVIEW_HG_PROGRAM"`
	MinVersion string        `yaml:"min_version,omitempty" env:"HGVIEW_HG_MIN_VERSION"`
	Encoding   string        `yaml:"encoding" env:"HGVIEW_HG_ENCODING"`
	Timeout    time.Duration `yaml:"timeout" env:"HGVIEW_HG_TIMEOUT"`
}

type HistoryConfig struct {
	DefaultLimit int `yaml:"default_limit" env:"HGVIEW_HISTORY_DEFAULT_LIMIT"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"HGVIEW_WATCH_DEBOUNCE"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"HGVIEW_LOG_LEVEL"`
}

type OutputConfig struct {
	// Format is table, json or yaml.
	Format string `yaml:"format" env:"HGVIEW_OUTPUT_FORMAT"`
	// Color is auto, always or never.
	Color string `yaml:"color" env:"HGVIEW_OUTPUT_COLOR"`
}

// DefaultPath returns ~/.hgview/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errm.Wrap(err, "get home directory")
	}
	return filepath.Join(homeDir, dirName, fileName), nil
}

// CreateDefault creates a default config with the given config file path.
// The path is stored so that subsequent Save() calls write to the same location.
func CreateDefault(configPath string) *Config {
	cfg := &Config{ConfigVersion: version.Version, path: configPath}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	c.Hg.Program = lang.Check(c.Hg.Program, DefaultProgram)
	c.Hg.Encoding = lang.Check(c.Hg.Encoding, DefaultEncoding)
	c.Hg.Timeout = lang.Check(c.Hg.Timeout, DefaultTimeout)
	c.History.DefaultLimit = lang.Check(c.History.DefaultLimit, DefaultHistoryLimit)
	c.Workers = lang.Check(c.Workers, DefaultWorkers)
	c.Watch.Debounce = lang.Check(c.Watch.Debounce, DefaultDebounce)
	c.Log.Level = lang.Check(c.Log.Level, DefaultLogLevel)
	c.Output.Format = lang.Check(c.Output.Format, DefaultOutputFormat)
	c.Output.Color = lang.Check(c.Output.Color, DefaultColor)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Hg.Program == "":
		return errm.Wrap(ErrInvalidConfig, "hg.program is required")
	case c.Hg.Timeout < 0:
		return errm.Wrap(ErrInvalidConfig, "hg.timeout must not be negative")
	case c.History.DefaultLimit <= 0:
		return errm.Wrap(ErrInvalidConfig, "history.default_limit must be > 0")
	case c.Workers <= 0:
		return errm.Wrap(ErrInvalidConfig, "workers must be > 0")
	case c.Watch.Debounce < 0:
		return errm.Wrap(ErrInvalidConfig, "watch.debounce must not be negative")
	case !slices.Contains(logLevels, c.Log.Level):
		return errm.Wrap(ErrInvalidConfig, fmt.Sprintf("log.level must be one of %v, got %q", logLevels, c.Log.Level))
	case !slices.Contains(outputFormats, c.Output.Format):
		return errm.Wrap(ErrInvalidConfig, fmt.Sprintf("output.format must be one of %v, got %q", outputFormats, c.Output.Format))
	case !slices.Contains(colorModes, c.Output.Color):
		return errm.Wrap(ErrInvalidConfig, fmt.Sprintf("output.color must be one of %v, got %q", colorModes, c.Output.Color))
	}
	return nil
}

// Load reads the YAML file at configPath and applies environment overrides.
// The path is stored so that subsequent Save() calls write to the same location.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, errm.Wrap(ErrConfigNotFound, configPath)
		}
		return nil, errm.Wrap(err, "read config", "path", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, errm.Wrap(ErrInvalidConfig, err.Error())
	}
	return finish(&cfg, configPath)
}

// LoadOrDefault is Load, falling back to defaults plus environment overrides
// when the file does not exist.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errm.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	cfg = &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errm.Wrap(ErrInvalidConfig, err.Error())
	}
	return finish(cfg, configPath)
}

func finish(cfg *Config, configPath string) (*Config, error) {
	cfg.SetDefaults()
	cfg.path = configPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config is saved to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the config to the path it was loaded from or created with.
func (c *Config) Save() error {
	if c.path == "" {
		return errm.New("config path not set: use Load() or CreateDefault() with a path")
	}

	c.ConfigVersion = version.Version

	dir := filepath.Dir(c.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errm.Wrap(err, "create config directory")
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errm.Wrap(err, "marshal config")
	}

	// Write to a temporary file first, then rename for atomicity
	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errm.Wrap(err, "write config")
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return errm.Wrap(err, "save config")
	}
	return nil
}

// Exists reports whether a config file exists at configPath.
func Exists(configPath string) bool {
	_, err := os.Stat(configPath)
	return err == nil
}

// Confirmer asks a yes/no question.
type Confirmer func(title, description string) (bool, error)

// PromptConfirm asks on the terminal.
func PromptConfirm(title, description string) (bool, error) {
	create := true
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes, create it").
		Negative("No").
		Value(&create).
		Run()
	if err != nil {
		return false, err
	}
	return create, nil
}

// EnsureExists checks if config exists, and offers to create a default one
// if not. Returns true if config exists or was created.
func EnsureExists(configPath string, confirm Confirmer) (bool, error) {
	if Exists(configPath) {
		return true, nil
	}

	ok, err := confirm("Create an hgview config?", "No config file found at "+configPath)
	if err != nil {
		return false, errm.Wrap(err, "read response")
	}
	if !ok {
		return false, nil
	}

	if err := CreateDefault(configPath).Save(); err != nil {
		return false, err
	}
	return true, nil
}
