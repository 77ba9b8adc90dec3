// Package session holds the client's persisted login state.
//
// # Store
//
// [Store] is a synchronous text key/value map over a [Backend]. Writes never return errors:
// backend failures are logged and swallowed so that a broken disk cannot fail a user action
// that already succeeded remotely.
//
// Backends:
//   - repositories.SessionRepository : SQLite file, survives restarts
//   - [MemoryBackend] : go-cache map with no expiry, lives as long as the process
//
// # Session
//
// [Session] gives the fixed keys a typed surface:
//
//	token         opaque bearer credential
//	username      name the user logged in with
//	user          JSON-encoded models.User mirror, including favourites
//	isRegistered  set after a successful sign-up
//
// Every read-modify-write of the cached user goes through [Session.UpdateUser], which holds
// one mutex and re-reads the stored record before applying the change, so concurrent callers
// cannot drop each other's updates. Plain key writes remain last-writer-wins.
package session
