package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Open opens (and creates if absent) the SQLite database at the given path.
// The path is an explicit configuration value resolved by the caller; nothing
// here probes the filesystem for candidate locations.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_fk=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}
	// SQLite supports one writer at a time; keeping a single connection avoids
	// SQLITE_BUSY errors on concurrent handlers.
	db.SetMaxOpenConns(1)
	return db, nil
}

// migrations is the ordered schema history. Entries are applied exactly once,
// tracked in schema_migrations, so existing databases pick up new columns
// without runtime column probing.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clientes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL,
		apellidos TEXT NOT NULL DEFAULT '',
		edad INTEGER,
		peso REAL,
		telefono TEXT NOT NULL DEFAULT '',
		fecha_alta TEXT NOT NULL,
		fecha_vencimiento TEXT NOT NULL,
		activo INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS pagos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cliente_id INTEGER NOT NULL,
		fecha_pago TEXT NOT NULL,
		cantidad REAL NOT NULL,
		FOREIGN KEY (cliente_id) REFERENCES clientes(id)
	);`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	);`,
	`ALTER TABLE clientes ADD COLUMN estado TEXT NOT NULL DEFAULT '';`,
	`ALTER TABLE clientes ADD COLUMN fecha_ultimo_pago TEXT;`,
}

// Migrate applies any pending schema migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	);`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", version, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}
