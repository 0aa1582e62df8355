// Package sqlite records ingestion runs in a local SQLite file,
// by default ~/.vecseed/data/ledger.db.
//
// modernc.org/sqlite is used so the binary needs no cgo. The schema comes
// from the numbered files in migrations/, applied once each and tracked in
// schema_migrations. The database runs in WAL mode with a busy timeout, so a
// watch loop and a history query can share it.
package sqlite
