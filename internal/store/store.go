// Package store wraps the relational persistence layer behind focused
// query methods.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/config"
	"github.com/Voldemort-Project/mta-sga-cs-service/internal/model"
)

// Store provides database access for all services.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an open gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and configures the connection pool.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLife)

	return db, nil
}

// Migrate creates or updates the schema. Besides AutoMigrate it installs the
// partial unique index that enforces at most one open session per guest.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Organization{},
		&model.Division{},
		&model.Role{},
		&model.User{},
		&model.Room{},
		&model.CheckinRoom{},
		&model.Session{},
		&model.Message{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderAssigner{},
		&model.OrderCounter{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_open_per_guest
		 ON sessions (guest_id)
		 WHERE status = 'open' AND deleted_at IS NULL`,
	).Error; err != nil {
		return fmt.Errorf("create open-session index: %w", err)
	}

	return nil
}

// InTx runs fn inside a database transaction, committing on nil and rolling
// back on error.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// forUpdate is a SELECT ... FOR UPDATE row lock.
func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// now is a seam for tests.
var now = time.Now
