package turso

import (
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/codepulse/internal/infrastructure/config"
)

// NewDB opens a libsql connection. Local file: and :memory: URLs need no
// auth token; remote Turso URLs do.
func NewDB(cfg config.Database) (*sql.DB, error) {
	connStr := cfg.URL
	if cfg.AuthToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", cfg.URL, cfg.AuthToken)
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
