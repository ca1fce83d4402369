// Package populate rewrites a distgit working tree from a resolved
// source directory.
package populate

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cp "github.com/otiai10/copy"

	"github.com/openshift-eng/distsync/internal/errdefs"
)

// CanonicalDockerfile is the build file name the build system expects.
const CanonicalDockerfile = "Dockerfile"

// Populator overwrites distgit working trees with source content.
//
// Population is not transactional: a failure partway through leaves
// the tree in an intermediate state. Symlinks are copied as symlinks
// and file modes are propagated from the source.
type Populator struct {
	preserve map[string]bool
	logger   *slog.Logger
}

// New creates a Populator. preserve lists the non-hidden entry names
// that survive the selective clean (hidden entries always survive).
func New(preserve []string, logger *slog.Logger) *Populator {
	p := &Populator{
		preserve: make(map[string]bool, len(preserve)),
		logger:   logger,
	}
	for _, name := range preserve {
		p.preserve[name] = true
	}
	return p
}

// Populate rebuilds distgitDir from sourcePath, in order: selective
// clean, recursive overwrite, Dockerfile normalization, stray-variant
// cleanup. dockerfile is the configured build file name within the
// source content, empty when not configured. Each step's postcondition
// is the next step's precondition; any failure aborts the sequence.
func (p *Populator) Populate(distgitDir, sourcePath, dockerfile string) error {
	if err := p.clean(distgitDir); err != nil {
		return err
	}

	if err := p.overwrite(sourcePath, distgitDir); err != nil {
		return err
	}

	if err := p.normalizeDockerfile(distgitDir, dockerfile); err != nil {
		return err
	}

	return p.removeStrayVariants(distgitDir)
}

// clean removes every direct entry of dir except hidden entries
// (protects .git, .gitignore and friends) and the preserve set.
func (p *Populator) clean(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errdefs.Filesystem("read distgit dir", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()

		if strings.HasPrefix(name, ".") {
			continue
		}
		if p.preserve[name] {
			continue
		}

		p.logger.Debug("removing distgit entry", "name", name)
		if err := os.RemoveAll(filepath.Join(dir, name)); err != nil {
			return errdefs.Filesystem("remove distgit entry", filepath.Join(dir, name), err)
		}
	}

	return nil
}

// overwrite merge-copies the source tree into the distgit tree,
// overwriting existing files and creating directories as needed.
func (p *Populator) overwrite(src, dst string) error {
	opts := cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Shallow
		},
		OnDirExists: func(string, string) cp.DirExistsAction {
			return cp.Merge
		},
	}
	if err := cp.Copy(src, dst, opts); err != nil {
		return errdefs.Filesystem("copy source content", src, err)
	}
	return nil
}

// normalizeDockerfile renames the configured build file to the
// canonical name, displacing any Dockerfile copied from source.
func (p *Populator) normalizeDockerfile(dir, dockerfile string) error {
	if dockerfile == "" || dockerfile == CanonicalDockerfile {
		return nil
	}

	canonical := filepath.Join(dir, CanonicalDockerfile)
	if _, err := os.Stat(canonical); err == nil {
		if err := os.Remove(canonical); err != nil {
			return errdefs.Filesystem("remove existing Dockerfile", canonical, err)
		}
	}

	configured := filepath.Join(dir, dockerfile)
	p.logger.Debug("renaming build file", "from", dockerfile, "to", CanonicalDockerfile)
	if err := os.Rename(configured, canonical); err != nil {
		return errdefs.Filesystem("rename build file", configured, err)
	}

	return nil
}

// removeStrayVariants deletes leftover per-distro build files
// (Dockerfile.centos, Dockerfile.rhel, ...) so only the canonical
// Dockerfile remains.
func (p *Populator) removeStrayVariants(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errdefs.Filesystem("read distgit dir", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, CanonicalDockerfile+".") {
			continue
		}

		p.logger.Debug("removing stray build file", "name", name)
		if err := os.RemoveAll(filepath.Join(dir, name)); err != nil {
			return errdefs.Filesystem("remove stray build file", filepath.Join(dir, name), err)
		}
	}

	return nil
}
