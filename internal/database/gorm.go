package database

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// documentRow is the single table backing every collection.
type documentRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:64"`
	Data       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

// GormStore is a record store on any gorm dialect. SQLite is used for local
// runs and tests, MySQL for hosted deployments.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite database. Use ":memory:" for tests.
// SQLite serialises writers, and a single connection also keeps a ":memory:"
// database from splitting across connections.
func OpenSQLite(path string) (*GormStore, error) {
	return newGormStore(sqlite.Open(path), 1)
}

// OpenMySQL connects to MySQL with a go-sql-driver DSN.
func OpenMySQL(dsn string) (*GormStore, error) {
	return newGormStore(gormmysql.Open(dsn), 0)
}

// newGormStore opens the dialector and migrates the documents table. A
// positive maxConns caps the connection pool.
func newGormStore(dialector gorm.Dialector, maxConns int) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, classifyGorm(fmt.Errorf("open gorm database: %w", err))
	}

	if maxConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns)
	}

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, classifyGorm(fmt.Errorf("migrate documents: %w", err))
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := checkFields(fields); err != nil {
		return "", err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	row := documentRow{
		Collection: collection,
		ID:         uuid.NewString(),
		Data:       string(data),
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", classifyGorm(err)
	}
	return row.ID, nil
}

func (g *GormStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRow
	if err := g.db.WithContext(ctx).Where("collection = ?", collection).Find(&rows).Error; err != nil {
		return nil, classifyGorm(err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		fields, err := decodeFields([]byte(row.Data))
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: row.ID, Fields: fields})
	}
	return docs, nil
}

func (g *GormStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	var row documentRow
	err := g.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, classifyGorm(err)
	}

	fields, err := decodeFields([]byte(row.Data))
	if err != nil {
		return nil, err
	}
	return &Document{ID: row.ID, Fields: fields}, nil
}

// Update merges fields into the stored document inside a transaction.
func (g *GormStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := checkFields(fields); err != nil {
		return err
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		err := tx.Where("collection = ? AND id = ?", collection, id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		current, err := decodeFields([]byte(row.Data))
		if err != nil {
			return err
		}
		data, err := json.Marshal(mergeFields(current, fields))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}

		return tx.Model(&documentRow{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{"data": string(data), "updated_at": time.Now()}).Error
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return classifyGorm(err)
}

func (g *GormStore) Delete(ctx context.Context, collection, id string) error {
	result := g.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{})
	if result.Error != nil {
		return classifyGorm(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := g.db.WithContext(ctx).Model(&documentRow{}).Where("collection = ?", collection).Count(&n).Error
	return n, classifyGorm(err)
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MySQL access-denied error numbers.
var mysqlDenied = map[uint16]bool{
	1044: true, // ER_DBACCESS_DENIED_ERROR
	1045: true, // ER_ACCESS_DENIED_ERROR
	1142: true, // ER_TABLEACCESS_DENIED_ERROR
}

func classifyGorm(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrPermissionDenied) {
		return err
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if mysqlDenied[myErr.Number] {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return err
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
