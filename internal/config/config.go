package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsontree
type Config struct {
	Root     string     `yaml:"root"`
	Expanded bool       `yaml:"expanded"`
	MaxDepth int        `yaml:"max_depth"`
	Page     PageConfig `yaml:"page"`
	Verify   bool       `yaml:"verify"`
	Dev      DevConfig  `yaml:"dev"`
}

// PageConfig controls wrapping the fragment into a standalone HTML document
type PageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// DefaultTitle is the page title used when none is configured.
const DefaultTitle = "JSON"

// configNames are searched in order in each directory.
var configNames = []string{".jsontree.yml", ".jsontree.yaml", "jsontree.yml", "jsontree.yaml"}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Root:     render.DefaultRoot,
		Expanded: true,
		MaxDepth: parser.DefaultMaxDepth,
		Page: PageConfig{
			Enabled: false,
			Title:   DefaultTitle,
		},
		Verify: false,
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			return ""
		}
		dir = parentDir
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.NewConfigError("root label must not be empty", nil)
	}
	if c.MaxDepth <= 0 {
		return errors.NewConfigError(fmt.Sprintf("max_depth must be positive, got %d", c.MaxDepth), nil)
	}
	return nil
}

// RenderOptions returns the renderer options this config selects.
func (c *Config) RenderOptions() render.Options {
	return render.Options{Root: c.Root, Expanded: c.Expanded}
}

// Parser returns a parser bounded by the configured depth.
func (c *Config) Parser() *parser.Parser {
	return parser.NewParser(c.MaxDepth)
}

// Overrides are the command-line settings that take precedence over the
// config file. Zero values leave the file's setting alone; boolean flags can
// only switch a behavior on.
type Overrides struct {
	Root      string
	Collapsed bool
	Page      bool
	Title     string
	Verify    bool
	Debug     bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Root != "" {
		cfg.Root = cli.Root
	}
	if cli.Collapsed {
		cfg.Expanded = false
	}
	if cli.Page {
		cfg.Page.Enabled = true
	}
	if cli.Title != "" {
		cfg.Page.Title = cli.Title
	}
	if cli.Verify {
		cfg.Verify = true
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
