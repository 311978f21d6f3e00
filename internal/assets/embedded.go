package assets

import "embed"

//go:embed styles scripts templates
var builtin embed.FS

// EmbeddedLoader loads the assets compiled into the binary.
type EmbeddedLoader struct {
	treeLoader
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{treeLoader{fsys: builtin}}
}

// StyleNames lists the built-in styles.
func (e *EmbeddedLoader) StyleNames() []string {
	return e.names(styleKind)
}

var _ Loader = (*EmbeddedLoader)(nil)
