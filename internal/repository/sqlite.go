package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SherlockH0olms/Lendly/internal/domain"
	_ "modernc.org/sqlite"
)

const defaultSQLitePath = "./lendly.db"

// sqlitePragmas tunes the embedded database for the API's access pattern:
// scoring reads dominate, with occasional profile and application writes.
// WAL lets readers proceed during a write, and the busy timeout covers
// writer contention from concurrent apply requests.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
	"foreign_keys(ON)",
}

func openSQLite(cfg domain.RepositoryConfig) (*sql.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = defaultSQLitePath
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=" + strings.Join(sqlitePragmas, "&_pragma=")
	return openVerified("sqlite", dsn)
}

// openVerified opens a database handle and confirms the backend is actually
// reachable. sql.Open alone validates nothing.
func openVerified(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}
