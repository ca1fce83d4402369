package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openshift-eng/distsync/internal/config"
	"github.com/openshift-eng/distsync/internal/errdefs"
)

func imageWithSource(name, alias, path string) *config.ImageConfig {
	return &config.ImageConfig{
		Name: name,
		Content: &config.ContentConfig{
			Source: &config.SourceConfig{Alias: alias, Path: path},
		},
	}
}

func TestSourcePath_AliasRoot(t *testing.T) {
	root := t.TempDir()
	r := NewRegistry(map[string]string{"ose": root})

	got, err := r.SourcePath(imageWithSource("base", "ose", ""))
	if err != nil {
		t.Fatalf("SourcePath failed: %v", err)
	}
	if got != root {
		t.Errorf("expected registry root %s, got %s", root, got)
	}
}

func TestSourcePath_SubPath(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "images", "base")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(map[string]string{"ose": root})

	got, err := r.SourcePath(imageWithSource("base", "ose", "images/base"))
	if err != nil {
		t.Fatalf("SourcePath failed: %v", err)
	}
	if got != sub {
		t.Errorf("expected %s, got %s", sub, got)
	}
}

func TestSourcePath_MissingSubPath(t *testing.T) {
	root := t.TempDir()
	r := NewRegistry(map[string]string{"ose": root})

	_, err := r.SourcePath(imageWithSource("base", "ose", "does/not/exist"))
	if err == nil {
		t.Fatal("expected error for nonexistent sub-path")
	}
	if !errdefs.IsFilesystem(err) {
		t.Errorf("expected FilesystemError, got %T: %v", err, err)
	}
}

func TestSourcePath_FileNotDir(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notadir"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry(map[string]string{"ose": root})

	_, err := r.SourcePath(imageWithSource("base", "ose", "notadir"))
	if err == nil {
		t.Fatal("expected error for non-directory source path")
	}
	if !errdefs.IsFilesystem(err) {
		t.Errorf("expected FilesystemError, got %T: %v", err, err)
	}
}

func TestSourcePath_MissingAlias(t *testing.T) {
	r := NewRegistry(nil)

	tests := []struct {
		name string
		img  *config.ImageConfig
	}{
		{name: "no content section", img: &config.ImageConfig{Name: "base"}},
		{name: "no source section", img: &config.ImageConfig{Name: "base", Content: &config.ContentConfig{}}},
		{name: "empty alias", img: imageWithSource("base", "", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.SourcePath(tt.img)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errdefs.IsConfig(err) {
				t.Errorf("expected ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestSourcePath_UnregisteredAlias(t *testing.T) {
	r := NewRegistry(map[string]string{"ose": t.TempDir()})

	_, err := r.SourcePath(imageWithSource("base", "other", ""))
	if err == nil {
		t.Fatal("expected error for unregistered alias")
	}
	if !errdefs.IsConfig(err) {
		t.Errorf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestRegister(t *testing.T) {
	root := t.TempDir()
	r := NewRegistry(nil)
	r.Register("ose", root)

	got, ok := r.Lookup("ose")
	if !ok || got != root {
		t.Errorf("Lookup after Register = %s, %v", got, ok)
	}

	path, err := r.SourcePath(imageWithSource("base", "ose", ""))
	if err != nil {
		t.Fatalf("SourcePath failed: %v", err)
	}
	if path != root {
		t.Errorf("expected %s, got %s", root, path)
	}
}
