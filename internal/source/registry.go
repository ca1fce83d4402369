// Package source resolves registered source aliases to the directories
// used to populate distgit working trees.
package source

import (
	"os"
	"path/filepath"

	"github.com/openshift-eng/distsync/internal/config"
	"github.com/openshift-eng/distsync/internal/errdefs"
)

// Registry maps source alias names to absolute source-root
// directories. It is populated before any image is processed and
// read-only afterwards.
type Registry struct {
	aliases map[string]string
}

// NewRegistry creates a registry from the configured alias map.
func NewRegistry(aliases map[string]string) *Registry {
	r := &Registry{aliases: make(map[string]string, len(aliases))}
	for alias, root := range aliases {
		r.aliases[alias] = root
	}
	return r
}

// Register adds or replaces an alias.
func (r *Registry) Register(alias, root string) {
	r.aliases[alias] = root
}

// Lookup returns the root directory for alias.
func (r *Registry) Lookup(alias string) (string, bool) {
	root, ok := r.aliases[alias]
	return root, ok
}

// SourcePath resolves the directory that should populate the image's
// distgit tree: the alias root, joined with content.source.path when
// present. Pure apart from the final existence check.
func (r *Registry) SourcePath(img *config.ImageConfig) (string, error) {
	if !img.HasSource() || img.Content.Source.Alias == "" {
		return "", errdefs.Configf("image %s has no source alias", img.Name)
	}

	alias := img.Content.Source.Alias
	root, ok := r.aliases[alias]
	if !ok {
		return "", errdefs.Configf("source alias %q is not registered for image %s", alias, img.Name)
	}

	path := root
	if sub := img.Content.Source.Path; sub != "" {
		path = filepath.Join(root, sub)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", errdefs.Filesystem("stat source path", path, err)
	}
	if !info.IsDir() {
		return "", errdefs.Filesystem("stat source path", path, os.ErrInvalid)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errdefs.Filesystem("resolve source path", path, err)
	}
	return abs, nil
}
