package diagram

import "errors"

// Sentinel errors for diagram rendering.
var (
	ErrRender         = errors.New("diagram rendering failed")
	ErrEngineInit     = errors.New("diagram engine initialization failed")
	ErrEngineClosed   = errors.New("diagram engine closed")
	ErrNotFound       = errors.New("diagram not found")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load diagram host page")
	ErrEmptySource    = errors.New("diagram source is empty")
)
