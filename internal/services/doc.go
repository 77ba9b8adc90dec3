// Package services implements [MovieAPI] over HTTP for the movie catalogue service.
//
// # Authentication
//
// Every operation other than Register and Login requires a stored token. The token is read
// from the [session.Session] on each call and attached as "Authorization: Bearer <token>".
// With no token stored, strict mode fails with [shared.ErrNotAuthenticated] before any
// network I/O; lenient mode ([APIOptions.LenientAuth]) sends the request without credentials.
//
// Operations scoped to the current user resolve the username from the cached user record,
// falling back to the name stored at login, and fail with [shared.ErrNotLoggedIn] when neither
// is present.
//
// # Session Writes
//
// This package is the only writer of the token, username and user keys as the result of a
// remote call, and it writes only after the call succeeded:
//   - Register marks the session registered
//   - Login stores the token, username and returned user
//   - GetUser and UpdateUser cache the returned user
//   - GetFavourites, AddFavourite and RemoveFavourite keep the cached favourites in step
//
// # Error Handling
//
// Failed calls return [*APIError]. Its message is derived from the response body by
// [ParseBackendError]:
//   - a JSON string body is used verbatim
//   - an object's "message" wins next
//   - an "errors" mapping becomes one "field: message" line per key, in body order
//   - an "errors" list becomes one line per entry's "msg"
//   - everything else, including transport failures, is [GenericMessage]
//
// No call is retried.
package services
