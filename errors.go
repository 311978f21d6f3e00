package md2blog

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrTemplateRender = errors.New("page template rendering failed")

	// Diagram errors.
	ErrDiagramNotFound = errors.New("diagram not found")
	ErrDiagramRender   = errors.New("diagram rendering failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrDiagramStore    = errors.New("diagram store unavailable")

	// Option validation errors.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
