package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresDB keeps every collection in one JSONB documents table.
type PostgresDB struct {
	db *sql.DB
}

const createDocumentsTable = `
    CREATE TABLE IF NOT EXISTS documents (
        collection TEXT NOT NULL,
        id         TEXT NOT NULL,
        data       JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        PRIMARY KEY (collection, id)
    )
`

func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, classifyPostgres(err)
	}

	return &PostgresDB{db: db}, nil
}

// Migrate creates the documents table if it is missing.
func (p *PostgresDB) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, createDocumentsTable)
	return classifyPostgres(err)
}

func (p *PostgresDB) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := checkFields(fields); err != nil {
		return "", err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	id := uuid.NewString()
	query := `
        INSERT INTO documents (collection, id, data, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
    `
	if _, err := p.db.ExecContext(ctx, query, collection, id, data); err != nil {
		return "", classifyPostgres(err)
	}
	return id, nil
}

func (p *PostgresDB) ListAll(ctx context.Context, collection string) ([]Document, error) {
	query := `
        SELECT id, data
        FROM documents
        WHERE collection = $1
    `
	rows, err := p.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, classifyPostgres(err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, classifyPostgres(err)
		}
		fields, err := decodeFields(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, classifyPostgres(rows.Err())
}

func (p *PostgresDB) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	query := `
        SELECT data
        FROM documents
        WHERE collection = $1 AND id = $2
    `
	var data []byte
	err := p.db.QueryRowContext(ctx, query, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classifyPostgres(err)
	}

	fields, err := decodeFields(data)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Fields: fields}, nil
}

// Update merges fields into the stored document (top-level keys only).
func (p *PostgresDB) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := checkFields(fields); err != nil {
		return err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	query := `
        UPDATE documents
        SET data = data || $3::jsonb, updated_at = NOW()
        WHERE collection = $1 AND id = $2
    `
	result, err := p.db.ExecContext(ctx, query, collection, id, data)
	if err != nil {
		return classifyPostgres(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresDB) Delete(ctx context.Context, collection, id string) error {
	query := `
        DELETE FROM documents
        WHERE collection = $1 AND id = $2
    `
	result, err := p.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return classifyPostgres(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresDB) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = $1`, collection).Scan(&n)
	return n, classifyPostgres(err)
}

func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func decodeFields(data []byte) (map[string]any, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fields, nil
}

// classifyPostgres maps driver failures onto the store error set.
func classifyPostgres(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "42501" || pqErr.Code.Class() == "28":
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		case pqErr.Code.Class() == "08" || pqErr.Code.Class() == "57":
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		case pqErr.Code.Class() == "22" || pqErr.Code.Class() == "23":
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return err
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
