package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads user-provided assets from a directory.
type FilesystemLoader struct {
	treeLoader
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader opens the asset tree rooted at basePath, which must be
// a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	l := &FilesystemLoader{root: root}
	l.treeLoader = treeLoader{fsys: os.DirFS(root), guard: l.confine}
	return l, nil
}

// Root returns the resolved directory the loader reads from.
func (l *FilesystemLoader) Root() string {
	return l.root
}

// confine rejects p when it resolves, through symlinks, outside the root.
// Paths that do not exist pass; the read then reports them missing.
func (l *FilesystemLoader) confine(p string) error {
	full := filepath.Join(l.root, filepath.FromSlash(p))
	if real, err := filepath.EvalSymlinks(full); err == nil {
		full = real
	}
	if !strings.HasPrefix(full, l.root+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, p, l.root)
	}
	return nil
}

var _ Loader = (*FilesystemLoader)(nil)
