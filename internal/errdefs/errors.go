// Package errdefs defines the error categories surfaced by distsync.
// Every failure aborts processing of the current image; none of these
// are retried.
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError indicates a required configuration field is absent or
// semantically invalid (e.g. a missing or unregistered source alias).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// FilesystemError indicates a failed filesystem operation (missing
// path, delete/copy/rename failure).
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Filesystem wraps err with the operation and path that failed.
func Filesystem(op, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

// CommandError indicates a nonzero exit from the distgit helper. The
// captured combined output is kept for diagnosis.
type CommandError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("command %q failed: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("command %q failed: %v: %s", e.Cmd, e.Err, out)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsConfig reports whether err is a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsFilesystem reports whether err is a FilesystemError.
func IsFilesystem(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}

// IsCommand reports whether err is a CommandError.
func IsCommand(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
