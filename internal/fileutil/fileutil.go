// Package fileutil holds the file helpers shared by the CLI, the renderer
// and the diagram engine.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrNotDirectory           = errors.New("not a directory")
)

const (
	tempPrefix = "md2blog-"

	dirPerm  = 0o750
	pagePerm = 0o644 // generated pages are served to anyone
)

// writeTemp creates a file matching pattern in dir and fills it with data.
// On failure nothing is left behind.
func writeTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return name, nil
}

// WriteTempFile writes content to a new file in the system temp dir. The
// returned cleanup removes it.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}
	path, err = writeTemp("", tempPrefix+"*."+extension, []byte(content))
	if err != nil {
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// WriteFileAtomic replaces path with data through a sibling temp file and a
// rename, creating parent directories. Readers see the old or the new file,
// never a partial one.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := writeTemp(dir, "."+tempPrefix+"*", data)
	if err != nil {
		return err
	}
	if err := os.Chmod(tmp, pagePerm); err != nil { // #nosec G302 -- public pages
		_ = os.Remove(tmp)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// CheckWritableDir creates dir if needed and probes that files can be
// created in it.
func CheckWritableDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if !DirExists(dir) {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	probe, err := writeTemp(dir, "."+tempPrefix+"probe-*", nil)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	return os.Remove(probe)
}

// ValidateExtension rejects extensions that could move a temp file out of
// the temp dir.
func ValidateExtension(extension string) error {
	switch {
	case extension == "":
		return ErrExtensionEmpty
	case strings.ContainsAny(extension, "/\\\x00"):
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFilePath reports whether s reads as a path ("./custom.css", "a/b")
// rather than a bare name ("default").
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
