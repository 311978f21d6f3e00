package assets

import "errors"

var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrScriptNotFound        = errors.New("script not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetName      = errors.New("invalid asset name")
	ErrInvalidBasePath       = errors.New("invalid base path")
	ErrAssetRead             = errors.New("failed to read asset")
	ErrPathTraversal         = errors.New("path traversal detected")
)

// isNotFound reports whether a lookup may continue with the next loader.
func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrScriptNotFound) ||
		errors.Is(err, ErrTemplateSetNotFound)
}
