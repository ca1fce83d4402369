package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/openshift-eng/distsync/internal/config"
	"github.com/openshift-eng/distsync/internal/distgit"
	"github.com/openshift-eng/distsync/internal/populate"
	"github.com/openshift-eng/distsync/internal/source"
)

// Engine orchestrates the sync process
type Engine struct {
	cfg       *config.Config
	distgit   distgit.Client
	registry  *source.Registry
	populator *populate.Populator
	logger    *slog.Logger
	dryRun    bool
}

// NewEngine creates a new sync engine
func NewEngine(cfg *config.Config, client distgit.Client, registry *source.Registry, logger *slog.Logger, dryRun bool) *Engine {
	return &Engine{
		cfg:       cfg,
		distgit:   client,
		registry:  registry,
		populator: populate.New(cfg.Sync.Preserve, logger),
		logger:    logger,
		dryRun:    dryRun,
	}
}

// Run processes the given images sequentially. When names is empty the
// configured image set is used (images.names, or discovery of
// images.dir). A failing image aborts only itself; the remaining
// images still run and the per-image errors are returned joined.
//
// A run assumes exclusive ownership of its working directory;
// concurrent runs against the same workdir are undefined.
func (e *Engine) Run(ctx context.Context, names []string) error {
	e.logger.Info("starting sync",
		"branch", e.cfg.Distgit.Branch,
		"workdir", e.cfg.Paths.Workdir,
		"dry_run", e.dryRun)

	if !e.dryRun {
		if err := os.MkdirAll(e.cfg.Paths.Workdir, 0755); err != nil {
			return fmt.Errorf("failed to create working directory: %w", err)
		}
	}

	if len(names) == 0 {
		var err error
		names, err = e.imageNames()
		if err != nil {
			return err
		}
	}
	e.logger.Info("processing images", "count", len(names))

	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.syncImage(ctx, name); err != nil {
			e.logger.Error("image sync failed", "image", name, "error", err)
			errs = append(errs, fmt.Errorf("image %s: %w", name, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	e.logger.Info("sync completed successfully")
	return nil
}

// syncImage clones and populates the distgit repository for one image
func (e *Engine) syncImage(ctx context.Context, name string) error {
	img, err := config.LoadImage(e.cfg.Images.Dir, name, e.cfg.Images.Global)
	if err != nil {
		return err
	}

	// Resolve the source up front so configuration problems surface
	// before anything touches the filesystem.
	sourcePath := ""
	if img.HasSource() {
		sourcePath, err = e.registry.SourcePath(img)
		if err != nil {
			return err
		}
	}

	if e.dryRun {
		e.logger.Info("dry-run: would sync image",
			"image", name,
			"repo", img.QualifiedName(),
			"source", sourcePath)
		return nil
	}

	distgitDir := e.cfg.DistgitDir(name)
	e.logger.Info("cloning distgit repository", "repo", img.QualifiedName(), "dest", distgitDir)
	if err := e.distgit.Clone(ctx, img.QualifiedName(), e.cfg.Paths.Workdir); err != nil {
		return err
	}

	if err := e.distgit.SwitchBranch(ctx, distgitDir, e.cfg.Distgit.Branch); err != nil {
		return err
	}

	// Without a content.source section the distgit tree is used as-is.
	if sourcePath == "" {
		e.logger.Info("image has no source content, leaving distgit tree untouched", "image", name)
		return nil
	}

	e.logger.Info("populating distgit tree", "image", name, "source", sourcePath)
	dockerfile := img.Content.Source.Dockerfile
	if err := e.populator.Populate(distgitDir, sourcePath, dockerfile); err != nil {
		return err
	}

	return nil
}

// imageNames returns the configured image list, falling back to
// discovering subdirectories of images.dir that contain a config file.
func (e *Engine) imageNames() ([]string, error) {
	if len(e.cfg.Images.Names) > 0 {
		return e.cfg.Images.Names, nil
	}

	entries, err := os.ReadDir(e.cfg.Images.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfgPath := filepath.Join(e.cfg.ImageDir(entry.Name()), config.ImageConfigFile)
		if _, err := os.Stat(cfgPath); err == nil {
			names = append(names, entry.Name())
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no image configurations found in %s", e.cfg.Images.Dir)
	}
	return names, nil
}
