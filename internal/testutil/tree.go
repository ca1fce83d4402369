// Package testutil provides filesystem helpers shared by tests.
package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
)

// TreeSnapshot walks dir and returns a map of slash-separated relative
// paths to content hashes. Directories map to the empty string. Two
// directories with equal snapshots contain the same entries with the
// same file contents.
func TreeSnapshot(dir string) (map[string]string, error) {
	snapshot := make(map[string]string)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			snapshot[rel] = ""
			return nil
		}

		hash, err := FileHash(path)
		if err != nil {
			return err
		}
		snapshot[rel] = hash
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// FileHash computes the SHA256 hash of a file's content
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
