// Package server provides HTTP routing, middleware, and the REST surface over
// the playlist store and catalog client.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// OPTIONS requests bypass the method filter so the [CORS] middleware can answer preflights.
//
// # Handlers
//
// [PlaylistHandler] exposes the playlist collection as REST resources. Every
// mutation returns the store outcome alongside the updated playlist, so a
// client can distinguish a committed write from a suppressed no-op (unknown
// id, duplicate item, no structural change).
//
// [CatalogHandler] proxies search and trending requests to the upstream
// catalog, passing next_href cursors through untouched. Trending degrades to
// an empty page on upstream failure; search reports the failure.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
