// Package server is the blog preview server: article pages, tag listings,
// the on-demand diagram endpoint used by lazily rendered pages, and the
// linked stylesheet and scripts.
//
// Routes:
//
//	GET /                  redirect to /blog
//	GET /blog              article listing, ?tag= filters by tag, ?q= searches
//	GET /blog/tags/{tag}   article listing for one tag, ?q= searches within it
//	GET /blog/{id}         article page, 404 page for unknown ids
//	GET /diagrams/{key}    rendered diagram: 200 figure, 404 unknown key,
//	                       422 inline error block when rendering failed
//	GET /assets/{name}     stylesheet and scripts
//	GET /healthz           liveness probe
package server
