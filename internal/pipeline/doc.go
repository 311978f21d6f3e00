// Package pipeline implements the markdown-to-HTML stages of article rendering.
//
// It covers:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Slug generation and outline extraction from raw markdown
//   - Markdown to HTML conversion via goldmark, with AST transformers for
//     heading anchors, scrollable tables, diagram blocks and presentation classes
//   - A simplified node tree built from the same parse
//   - HTML post-processing: CSS injection, outline navigation, placeholder
//     substitution and relative URL rewriting
//
// Diagram rendering is handled by internal/diagram. This package only locates
// diagram blocks and leaves placeholders for them.
package pipeline
