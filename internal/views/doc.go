// Package views implements the client's screens as plain state machines, independent of how
// they are drawn.
//
// [MovieBrowser] is the paginated catalogue, [Details] opens movie, genre and director
// dialogs, [ProfileEditor] edits or deletes the account and [Navbar] reports login state and
// logs out. The bubbletea UI in internal/ui and the CLI commands both drive these types.
//
// # Notices
//
// Views report outcomes as [Notice] values on the channel in [Deps]. Sends never block: if no
// one is reading, the notice is dropped. Every failure is also logged.
//
// # Consistency
//
// A view changes its in-memory state only after the service accepted the change. Cached session
// data is written by the services layer, never by a view, except that account deletion clears
// the whole session.
package views
