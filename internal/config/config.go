package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultCommand is the distgit helper invoked when none is configured.
const DefaultCommand = "rhpkg"

// DefaultPreserve lists the non-hidden distgit entries that survive the
// selective clean when sync.preserve is not configured.
var DefaultPreserve = []string{"additional-tags"}

// Config represents the complete distsync configuration
type Config struct {
	Distgit DistgitConfig `yaml:"distgit"`
	Paths   PathsConfig   `yaml:"paths"`
	Images  ImagesConfig  `yaml:"images"`
	Sources SourcesConfig `yaml:"sources"`
	Sync    SyncConfig    `yaml:"sync"`
}

// DistgitConfig configures the external distgit helper
type DistgitConfig struct {
	Command string `yaml:"command"`
	Branch  string `yaml:"branch"`
	User    string `yaml:"user"`
}

// PathsConfig configures local filesystem paths
type PathsConfig struct {
	Workdir string `yaml:"workdir"`
}

// ImagesConfig configures where per-image metadata lives
type ImagesConfig struct {
	Dir    string   `yaml:"dir"`
	Global string   `yaml:"global"`
	Names  []string `yaml:"names"`
}

// SourcesConfig registers source aliases
type SourcesConfig struct {
	Aliases map[string]string `yaml:"aliases"`
}

// SyncConfig configures population behavior
type SyncConfig struct {
	Preserve []string `yaml:"preserve"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// expandEnv expands environment variables in all string fields
func (c *Config) expandEnv() {
	c.Distgit.Command = os.ExpandEnv(c.Distgit.Command)
	c.Distgit.Branch = os.ExpandEnv(c.Distgit.Branch)
	c.Distgit.User = os.ExpandEnv(c.Distgit.User)
	c.Paths.Workdir = os.ExpandEnv(c.Paths.Workdir)
	c.Images.Dir = os.ExpandEnv(c.Images.Dir)
	c.Images.Global = os.ExpandEnv(c.Images.Global)
	for alias, root := range c.Sources.Aliases {
		c.Sources.Aliases[alias] = os.ExpandEnv(root)
	}
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Distgit.Command == "" {
		c.Distgit.Command = DefaultCommand
	}
	if c.Sync.Preserve == nil {
		c.Sync.Preserve = append([]string(nil), DefaultPreserve...)
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Distgit.Branch == "" {
		return fmt.Errorf("distgit.branch is required")
	}

	if c.Paths.Workdir == "" {
		return fmt.Errorf("paths.workdir is required")
	}
	if !filepath.IsAbs(c.Paths.Workdir) {
		return fmt.Errorf("paths.workdir must be an absolute path: %s", c.Paths.Workdir)
	}

	if c.Images.Dir == "" {
		return fmt.Errorf("images.dir is required")
	}
	if !filepath.IsAbs(c.Images.Dir) {
		return fmt.Errorf("images.dir must be an absolute path: %s", c.Images.Dir)
	}

	for alias, root := range c.Sources.Aliases {
		if alias == "" {
			return fmt.Errorf("sources.aliases contains an empty alias name")
		}
		if !filepath.IsAbs(root) {
			return fmt.Errorf("sources.aliases[%s] must be an absolute path: %s", alias, root)
		}
	}

	return nil
}

// ImageDir returns the metadata directory for the named image
func (c *Config) ImageDir(name string) string {
	return filepath.Join(c.Images.Dir, name)
}

// DistgitDir returns the path where the named image's distgit clone lands
func (c *Config) DistgitDir(name string) string {
	return filepath.Join(c.Paths.Workdir, name)
}
