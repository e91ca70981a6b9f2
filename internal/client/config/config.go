package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/transync/transync/internal/utils"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName    = ".transync.yml"
	DefaultServerURL   = "https://api.transync.io"
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second
	maxConcurrency     = 32
)

var (
	ErrNoAPIKey = errors.New("api key is required")
)

// UploadOptions are sent verbatim with every push. Unset options are not sent.
type UploadOptions struct {
	Merge         bool   `yaml:"merge,omitempty" mapstructure:"merge"`
	IgnoreMissing bool   `yaml:"ignore_missing,omitempty" mapstructure:"ignore_missing"`
	Label         string `yaml:"label,omitempty" mapstructure:"label"`
	LowPriority   bool   `yaml:"low_priority,omitempty" mapstructure:"low_priority"`
	MinorChanges  bool   `yaml:"minor_changes,omitempty" mapstructure:"minor_changes"`
	RenameOthers  bool   `yaml:"rename_others,omitempty" mapstructure:"rename_others"`
}

// Params renders the options as multipart form fields.
func (o UploadOptions) Params() map[string]string {
	params := make(map[string]string)
	if o.Merge {
		params["merge"] = "true"
	}
	if o.IgnoreMissing {
		params["ignore_missing"] = "true"
	}
	if o.Label != "" {
		params["label"] = o.Label
	}
	if o.LowPriority {
		params["low_priority"] = "true"
	}
	if o.MinorChanges {
		params["minor_changes"] = "true"
	}
	if o.RenameOthers {
		params["rename_others"] = "true"
	}
	return params
}

type Config struct {
	APIKey        string        `yaml:"api_key" mapstructure:"api_key"`
	ServerURL     string        `yaml:"server_url,omitempty" mapstructure:"server_url"`
	ProjectDir    string        `yaml:"project_dir,omitempty" mapstructure:"project_dir"`
	Concurrency   int           `yaml:"concurrency,omitempty" mapstructure:"concurrency"`
	Timeout       time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	JournalPath   string        `yaml:"journal_path,omitempty" mapstructure:"journal_path"`
	IgnoreLocales []string      `yaml:"ignore_locales,omitempty" mapstructure:"ignore_locales"`
	NeededLocales []string      `yaml:"needed_locales,omitempty" mapstructure:"needed_locales"`
	IgnoreFiles   []string      `yaml:"ignore_files,omitempty" mapstructure:"ignore_files"`
	Upload        UploadOptions `yaml:"upload,omitempty" mapstructure:"upload"`
	Path          string        `yaml:"-" mapstructure:"-"`
}

// Validate fills in defaults, resolves paths and rejects unusable values.
func (c *Config) Validate() error {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.APIKey == "" {
		return ErrNoAPIKey
	}

	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.ServerURL)
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")

	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.ProjectDir, err = utils.ResolvePath(c.ProjectDir); err != nil {
		return fmt.Errorf("invalid project dir: %w", err)
	}

	if c.Path != "" {
		if c.Path, err = utils.ResolvePath(c.Path); err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
	}

	if c.JournalPath != "" && !filepath.IsAbs(c.JournalPath) && !strings.HasPrefix(c.JournalPath, "~") {
		c.JournalPath = filepath.Join(c.ProjectDir, c.JournalPath)
	}
	if c.JournalPath != "" {
		if c.JournalPath, err = utils.ResolvePath(c.JournalPath); err != nil {
			return fmt.Errorf("invalid journal path: %w", err)
		}
	}

	switch {
	case c.Concurrency <= 0:
		c.Concurrency = DefaultConcurrency
	case c.Concurrency > maxConcurrency:
		c.Concurrency = maxConcurrency
	}

	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	} else if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	for _, pattern := range c.IgnoreFiles {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore_files pattern %q", pattern)
		}
	}

	c.IgnoreLocales = normLocales(c.IgnoreLocales)
	c.NeededLocales = normLocales(c.NeededLocales)

	return nil
}

// Save writes the config as yaml. The file holds the api key so it is only readable by the owner.
func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Path = path

	return &cfg, nil
}

func normLocales(locales []string) []string {
	out := locales[:0]
	for _, l := range locales {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
