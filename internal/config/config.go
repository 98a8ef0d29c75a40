package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/imdix/pkg/imdix"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Environment variables that override imdix.yaml.
const (
	EnvSchemaDir = "IMDIX_SCHEMA_DIR"
	EnvXMLLint   = "IMDIX_XMLLINT"
)

// ProjectConfig is the imdix.yaml of a project folder. Every field is
// optional; command-line flags override it.
type ProjectConfig struct {
	SchemaDir     string   `yaml:"schema_dir"`
	LanguageTable string   `yaml:"language_table"`
	Mode          string   `yaml:"mode"`
	Variant       string   `yaml:"variant"`
	Output        string   `yaml:"output"`
	Copy          *bool    `yaml:"copy"`
	Verify        bool     `yaml:"verify"`
	Concurrency   int      `yaml:"concurrency"`
	CopyTool      string   `yaml:"copy_tool"`
	Retries       *int     `yaml:"retries"`
	XMLLint       string   `yaml:"xmllint"`
	DebugDir      string   `yaml:"debug_dir"`
	Log           string   `yaml:"log"`
	Sessions      []string `yaml:"sessions"`
}

const ConfigFileName = "imdix.yaml"

// Load reads <projectDir>/imdix.yaml. Relative paths in the file are
// resolved against projectDir.
func Load(projectDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", configPath, err, imdix.ErrInvalidConfig)
	}
	cfg.resolvePaths(projectDir)
	return &cfg, nil
}

// LoadOptional is Load with a missing file treated as an empty config.
func LoadOptional(projectDir string) (*ProjectConfig, error) {
	cfg, err := Load(projectDir)
	if errors.Is(err, ErrConfigNotFound) {
		return &ProjectConfig{}, nil
	}
	return cfg, err
}

// ApplyEnv overrides fields from the environment. lookup is usually os.LookupEnv.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvSchemaDir); ok && v != "" {
		c.SchemaDir = v
	}
	if v, ok := lookup(EnvXMLLint); ok && v != "" {
		c.XMLLint = v
	}
}

// CopyEnabled reports the copy setting, defaulting to true.
func (c *ProjectConfig) CopyEnabled() bool {
	return c.Copy == nil || *c.Copy
}

// RetryCount reports the retry setting, defaulting to imdix.DefaultRetryMaxAttempts.
func (c *ProjectConfig) RetryCount() int {
	if c.Retries == nil {
		return imdix.DefaultRetryMaxAttempts
	}
	return *c.Retries
}

// Validate checks the values that can be checked without the filesystem.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if _, err := imdix.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := imdix.LookupVariant(c.Variant); err != nil {
		errs = append(errs, err)
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency cannot be negative: %w", imdix.ErrInvalidConfig))
	}
	if c.Retries != nil && *c.Retries < 0 {
		errs = append(errs, fmt.Errorf("retries cannot be negative: %w", imdix.ErrInvalidConfig))
	}
	switch c.CopyTool {
	case "", "auto", "rsync", "cp":
	default:
		errs = append(errs, fmt.Errorf("unknown copy_tool %q (expected auto, rsync or cp): %w", c.CopyTool, imdix.ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

func (c *ProjectConfig) resolvePaths(base string) {
	for _, p := range []*string{&c.SchemaDir, &c.LanguageTable, &c.Output, &c.DebugDir, &c.Log} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}
