package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName       = "default"
	DefaultTemplateSetName = "default"

	ProgressScript = "progress"
	DiagramScript  = "diagram"
)

const (
	templatesDir        = "templates"
	articleTemplateFile = "article.html"
	indexTemplateFile   = "index.html"
)

// TemplateSet holds the html/template sources of the generated pages.
type TemplateSet struct {
	Name    string
	Article string // article page
	Index   string // listing, tag listing and not-found page
}

// Loader loads stylesheets, scripts and template sets by name.
type Loader interface {
	LoadStyle(name string) (string, error)
	LoadScript(name string) (string, error)
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// kind is one family of single-file assets.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind  = kind{"styles", ".css", ErrStyleNotFound}
	scriptKind = kind{"scripts", ".js", ErrScriptNotFound}
)

// ValidateAssetName rejects names that are empty or could address anything
// but a single file of the asset tree: separators, dots and NUL.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// treeLoader reads assets from an fs.FS holding the asset layout.
type treeLoader struct {
	fsys fs.FS

	// guard vets a slash path before it is read; nil trusts the tree.
	guard func(p string) error
}

func (l *treeLoader) read(p string) ([]byte, error) {
	if l.guard != nil {
		if err := l.guard(p); err != nil {
			return nil, err
		}
	}
	return fs.ReadFile(l.fsys, p)
}

func (l *treeLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	data, err := l.read(path.Join(k.dir, name+k.ext))
	switch {
	case err == nil:
		return string(data), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	case errors.Is(err, ErrPathTraversal):
		return "", err
	default:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
}

// LoadStyle returns styles/{name}.css.
func (l *treeLoader) LoadStyle(name string) (string, error) {
	return l.load(styleKind, name)
}

// LoadScript returns scripts/{name}.js.
func (l *treeLoader) LoadScript(name string) (string, error) {
	return l.load(scriptKind, name)
}

// LoadTemplateSet returns templates/{name}. A set with neither template is
// not found; a set with only one is incomplete.
func (l *treeLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	ts := &TemplateSet{Name: name}
	files := []struct {
		name string
		dst  *string
	}{
		{articleTemplateFile, &ts.Article},
		{indexTemplateFile, &ts.Index},
	}

	var missing []string
	for _, f := range files {
		data, err := l.read(path.Join(templatesDir, name, f.name))
		switch {
		case err == nil:
			*f.dst = string(data)
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, f.name)
		case errors.Is(err, ErrPathTraversal):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, f.name, err)
		}
	}

	switch len(missing) {
	case 0:
		return ts, nil
	case len(files):
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	default:
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, missing[0])
	}
}

// names lists the assets of kind k, sorted.
func (l *treeLoader) names(k kind) []string {
	entries, err := fs.ReadDir(l.fsys, k.dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), k.ext); ok && !e.IsDir() {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
