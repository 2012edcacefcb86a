package ledger

// SQLite schema DDL constants

const schemaEntries = `
CREATE TABLE IF NOT EXISTS entries (
    rowid INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT UNIQUE NOT NULL,
    created_at TEXT NOT NULL,
    op TEXT NOT NULL,
    path TEXT NOT NULL,
    chunk_type TEXT NOT NULL,
    length INTEGER NOT NULL,
    crc INTEGER NOT NULL
)`

const indexEntriesPath = `CREATE INDEX IF NOT EXISTS idx_entries_path ON entries(path)`

const (
	pragmaWAL         = `PRAGMA journal_mode=WAL`
	pragmaBusyTimeout = `PRAGMA busy_timeout=5000`
	pragmaSynchronous = `PRAGMA synchronous=NORMAL`
)

func allPragmas() []string {
	return []string{
		pragmaWAL,
		pragmaBusyTimeout,
		pragmaSynchronous,
	}
}

func allSchemaStatements() []string {
	return []string{
		schemaEntries,
		indexEntriesPath,
	}
}
