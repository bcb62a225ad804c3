// Package sqlite provides the SQLite-backed metadata-update journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The journal buffers the
// original bytes and upload parameters of a metadata update before its
// destructive delete step, so a failed re-import can be replayed.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.corpus/data/journal.db
//
// # Thread Safety
//
// All operations are thread-safe. The journal uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
