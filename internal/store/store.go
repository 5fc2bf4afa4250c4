// Package store encapsulates PostgreSQL access through gorm and the
// repositories for the bot's five tables.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg_job_hunter_bot/internal/config"
	"tg_job_hunter_bot/internal/domain"
)

// openGorm is overridable for tests.
var openGorm = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

// Manager owns the database handle and hands out repositories.
type Manager struct {
	db *gorm.DB
}

// NewManager opens the database using the supplied configuration and verifies
// connectivity with a ping.
func NewManager(ctx context.Context, cfg config.Config) (*Manager, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	db, err := openGorm(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	m := &Manager{db: db}
	if err := m.Ping(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}

	return m, nil
}

// NewWithDB wraps an existing gorm handle. Used by tests.
func NewWithDB(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// DB returns the underlying gorm handle.
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// EnsureSchema creates or updates the five tables, their foreign keys, and
// unique indexes.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	if m == nil || m.db == nil {
		return errors.New("store manager is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	err := m.db.WithContext(ctx).AutoMigrate(
		&domain.User{},
		&domain.SearchFilter{},
		&domain.Vacancy{},
		&domain.UserVacancy{},
		&domain.GeneratedDocument{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}

// Ping verifies database connectivity.
func (m *Manager) Ping(ctx context.Context) error {
	if m == nil || m.db == nil {
		return errors.New("store manager is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (m *Manager) Close() error {
	if m == nil || m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}

	return sqlDB.Close()
}

// Users returns the user repository.
func (m *Manager) Users() *Users {
	return &Users{db: m.db}
}

// Filters returns the search filter repository.
func (m *Manager) Filters() *Filters {
	return &Filters{db: m.db}
}

// Vacancies returns the vacancy and delivery-link repository.
func (m *Manager) Vacancies() *Vacancies {
	return &Vacancies{db: m.db}
}

// Documents returns the generated document repository.
func (m *Manager) Documents() *Documents {
	return &Documents{db: m.db}
}

// Stats returns the diagnostics counter provider.
func (m *Manager) Stats() *StatsProvider {
	return &StatsProvider{db: m.db}
}
