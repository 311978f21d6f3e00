package diagram

import (
	"fmt"
	"html"
	"strings"
)

// ErrorText is the message shown in place of a diagram that failed to render.
const ErrorText = "Failed to render diagram"

// errorIcon is the inline alert icon of the error block.
const errorIcon = `<svg class="diagram-error-icon" viewBox="0 0 24 24" width="20" height="20" aria-hidden="true">` +
	`<path fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" ` +
	`d="M12 9v4m0 4h.01M10.29 3.86 1.82 18a2 2 0 0 0 1.71 3h16.94a2 2 0 0 0 1.71-3L13.71 3.86a2 2 0 0 0-3.42 0z"/></svg>`

// FigureHTML wraps rendered SVG markup for display in an article.
func FigureHTML(key, markup string) string {
	return fmt.Sprintf(`<figure class="diagram" data-diagram-key="%s">%s</figure>`, html.EscapeString(key), markup)
}

// ErrorHTML is the inline error block that replaces a failed diagram.
func ErrorHTML(key string) string {
	return fmt.Sprintf(`<div class="diagram-error" role="alert" data-diagram-key="%s">%s<span>%s</span></div>`,
		html.EscapeString(key), errorIcon, ErrorText)
}

// PlaceholderHTML is the markup of a diagram rendered on demand by the
// browser. endpoint is the URL prefix serving rendered diagrams by key.
func PlaceholderHTML(key, endpoint string) string {
	src := strings.TrimSuffix(endpoint, "/") + "/" + key
	return fmt.Sprintf(`<div class="diagram diagram-pending" data-diagram-key="%s" data-diagram-src="%s">`+
		`<div class="diagram-spinner" aria-hidden="true"></div></div>`,
		html.EscapeString(key), html.EscapeString(src))
}
