package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PaulBabatuyi/TrustSite/internal/config"
)

// Open connects the record store selected by cfg.Type.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case config.DatabaseTypePostgres:
		db, err := NewPostgresDB(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return db, nil
	case config.DatabaseTypeMySQL:
		return OpenMySQL(cfg.MySQLDSN)
	case config.DatabaseTypeMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DatabaseTypeSQLite, "":
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return OpenSQLite(cfg.Path)
	}
	return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
}
