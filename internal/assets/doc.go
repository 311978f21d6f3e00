// Package assets loads the stylesheets, scripts and page templates of the
// generated blog.
//
// Assets live in a tree laid out as
//
//	styles/{name}.css
//	scripts/progress.js
//	scripts/diagram.js
//	templates/{name}/article.html
//	templates/{name}/index.html
//
// The default tree is compiled into the binary. A directory with the same
// layout can override any part of it; AssetResolver reads that directory
// first and falls back to the built-in tree for what it lacks.
//
// Names are plain identifiers. Reads from a directory are confined to it,
// symlinks included.
package assets
