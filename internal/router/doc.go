// Package router decides which screen the client shows.
//
// Three routes exist: [Welcome] is public, [Movies] and [Profile] are protected. Empty and
// unknown paths redirect to [Welcome].
//
// The guard is a two-state machine. At each navigation the [Router] asks its [AuthSource]
// whether a token is stored and tags the [Request] [Authorized] or [Unauthorized]; [Guard]
// redirects unauthorized requests for protected routes to [Welcome]. Nothing is cached between
// navigations, so logging out takes effect on the next one.
//
// [Middleware] wraps handlers in reverse order (last added executes first), with the guard
// innermost.
package router
