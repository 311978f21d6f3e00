// Package diagram renders fenced diagram definitions into inline SVG markup.
//
// A Renderer owns one Engine (a headless browser running the diagram
// library), a bounded Cache keyed by the content hash of each definition,
// and the bookkeeping that keeps concurrent requests cheap:
//   - the engine is initialized at most once per Renderer
//   - identical definitions rendered concurrently share one engine call
//   - a failed diagram never affects the others in the same document
//
// Instance models the lifecycle of one mounted diagram
// (pending, loading, rendered or errored) for callers that render lazily.
package diagram
