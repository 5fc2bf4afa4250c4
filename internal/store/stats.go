package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tg_job_hunter_bot/internal/domain"
)

// StatsProvider exposes table counts for basic diagnostics without leaking
// gorm internals to callers.
type StatsProvider struct {
	db *gorm.DB
}

// CountUsers returns the number of registered users.
func (p *StatsProvider) CountUsers(ctx context.Context) (int64, error) {
	return p.count(ctx, &domain.User{}, "users")
}

// CountVacancies returns the number of stored postings.
func (p *StatsProvider) CountVacancies(ctx context.Context) (int64, error) {
	return p.count(ctx, &domain.Vacancy{}, "vacancies")
}

// CountDocuments returns the number of generated documents.
func (p *StatsProvider) CountDocuments(ctx context.Context) (int64, error) {
	return p.count(ctx, &domain.GeneratedDocument{}, "documents")
}

func (p *StatsProvider) count(ctx context.Context, model interface{}, label string) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.db == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", label, err)
	}

	return count, nil
}
