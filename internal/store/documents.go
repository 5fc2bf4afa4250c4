package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tg_job_hunter_bot/internal/domain"
)

// Documents persists generated documents. Records are immutable once written.
type Documents struct {
	db *gorm.DB
}

// Create inserts a generated document record.
func (r *Documents) Create(ctx context.Context, doc domain.GeneratedDocument) (domain.GeneratedDocument, error) {
	if r == nil || r.db == nil {
		return domain.GeneratedDocument{}, errors.New("document repository is not initialized")
	}
	if ctx == nil {
		return domain.GeneratedDocument{}, errors.New("context is required")
	}
	if doc.UserID == 0 {
		return domain.GeneratedDocument{}, errors.New("user id is required")
	}
	if doc.DocType == "" {
		return domain.GeneratedDocument{}, errors.New("document type is required")
	}

	if err := r.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return domain.GeneratedDocument{}, fmt.Errorf("insert document: %w", err)
	}

	return doc, nil
}

// TypesByVacancy reports which document types exist per vacancy for the user.
// Used by the history listing to show resume/cover presence flags.
func (r *Documents) TypesByVacancy(ctx context.Context, userID uint, vacancyIDs []uint) (map[uint]map[domain.DocumentType]bool, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("document repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	result := make(map[uint]map[domain.DocumentType]bool)
	if len(vacancyIDs) == 0 {
		return result, nil
	}

	var docs []domain.GeneratedDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND vacancy_id IN ?", userID, vacancyIDs).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	for _, doc := range docs {
		if doc.VacancyID == nil {
			continue
		}
		types, ok := result[*doc.VacancyID]
		if !ok {
			types = make(map[domain.DocumentType]bool)
			result[*doc.VacancyID] = types
		}
		types[doc.DocType] = true
	}

	return result, nil
}
