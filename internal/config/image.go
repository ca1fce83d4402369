package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openshift-eng/distsync/internal/errdefs"
)

// ImageConfigFile is the metadata file expected inside each image directory.
const ImageConfigFile = "config.yml"

// DefaultRepoType is the distgit namespace used when repo.type is absent.
const DefaultRepoType = "rpms"

// ImageConfig is the parsed per-image metadata. Optional sections are
// pointer-typed; a nil pointer means the section was absent, there is
// no attribute-miss fallback.
type ImageConfig struct {
	Name    string         `yaml:"-"`
	Repo    RepoConfig     `yaml:"repo"`
	Content *ContentConfig `yaml:"content"`
}

// RepoConfig selects the distgit namespace for the image
type RepoConfig struct {
	Type string `yaml:"type"`
}

// ContentConfig describes where the image content comes from
type ContentConfig struct {
	Source *SourceConfig `yaml:"source"`
}

// SourceConfig points at a registered source alias
type SourceConfig struct {
	Alias      string `yaml:"alias"`
	Path       string `yaml:"path"`
	Dockerfile string `yaml:"dockerfile"`
}

// LoadImage reads the metadata for one image. When globalPath is
// non-empty that document is decoded first and the image document
// decoded over it, so image values override global ones field by
// field.
func LoadImage(imagesDir, name, globalPath string) (*ImageConfig, error) {
	var cfg ImageConfig

	if globalPath != "" {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, errdefs.Filesystem("read global image config", globalPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errdefs.Configf("invalid global image config %s: %v", globalPath, err)
		}
	}

	path := filepath.Join(imagesDir, name, ImageConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdefs.Filesystem("read image config", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errdefs.Configf("invalid image config %s: %v", path, err)
	}

	cfg.Name = name
	return &cfg, nil
}

// HasSource reports whether the image pulls content from a source alias
func (c *ImageConfig) HasSource() bool {
	return c.Content != nil && c.Content.Source != nil
}

// QualifiedName returns the distgit repository name, e.g. "rpms/my-image"
func (c *ImageConfig) QualifiedName() string {
	repoType := c.Repo.Type
	if repoType == "" {
		repoType = DefaultRepoType
	}
	return repoType + "/" + c.Name
}
