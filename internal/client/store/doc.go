// Package store is the local entity store of the client.
//
// A Store wraps one SQLite database opened with a single connection. The
// schema is applied from the embedded goose migrations on Open. All writes
// for one logical operation go through Update, which runs the callback
// inside one transaction and serializes writers; View runs read-only
// callbacks against the latest committed state.
//
// Repositories handed to a callback are bound to that callback's
// transaction. They must not be retained after the callback returns, and
// the callback must not touch the Store itself: with a single connection
// that would block forever.
package store
