package storage

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id      INTEGER PRIMARY KEY,
		name    TEXT NOT NULL,
		aliases TEXT NOT NULL DEFAULT '',
		lat     REAL NOT NULL,
		lon     REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sites_name ON sites(name COLLATE NOCASE)`,

	`CREATE TABLE IF NOT EXISTS saved_trips (
		id         TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		from_place TEXT NOT NULL,
		to_place   TEXT NOT NULL,
		pinned     INTEGER NOT NULL DEFAULT 0,
		position   INTEGER,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`,

	`CREATE TABLE IF NOT EXISTS addresses (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		address    TEXT NOT NULL,
		lat        REAL,
		lon        REAL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`,
}
