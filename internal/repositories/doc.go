// Package repositories implements SQLite persistence for client-side state.
//
// Key Implementations:
//   - [SessionRepository] : Text key/value rows backing the session store
//
// Rows are upserted on write, so the latest writer wins for any key.
// The schema is created by the migration runner in the shared package.
package repositories
