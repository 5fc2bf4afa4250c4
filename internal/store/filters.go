package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tg_job_hunter_bot/internal/domain"
)

// Filters persists one SearchFilter row per user.
type Filters struct {
	db *gorm.DB
}

// UserWithFilter pairs a user with their saved filter for the broadcast run.
type UserWithFilter struct {
	User   domain.User
	Filter domain.SearchFilter
}

// Upsert replaces the user's filter wholesale. All criteria fields are
// overwritten together; there is never more than one row per user.
func (r *Filters) Upsert(ctx context.Context, userID uint, filter domain.SearchFilter) (domain.SearchFilter, error) {
	if r == nil || r.db == nil {
		return domain.SearchFilter{}, errors.New("filter repository is not initialized")
	}
	if ctx == nil {
		return domain.SearchFilter{}, errors.New("context is required")
	}
	if userID == 0 {
		return domain.SearchFilter{}, errors.New("user id is required")
	}

	var existing domain.SearchFilter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.SearchFilter{}, fmt.Errorf("find filter: %w", err)
	}

	filter.ID = existing.ID
	filter.UserID = userID

	if err := r.db.WithContext(ctx).Save(&filter).Error; err != nil {
		return domain.SearchFilter{}, fmt.Errorf("upsert filter: %w", err)
	}

	return filter, nil
}

// GetByUserID fetches the user's saved filter. The second return value reports
// whether a filter exists.
func (r *Filters) GetByUserID(ctx context.Context, userID uint) (domain.SearchFilter, bool, error) {
	if r == nil || r.db == nil {
		return domain.SearchFilter{}, false, errors.New("filter repository is not initialized")
	}
	if ctx == nil {
		return domain.SearchFilter{}, false, errors.New("context is required")
	}

	var filter domain.SearchFilter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&filter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.SearchFilter{}, false, nil
	}
	if err != nil {
		return domain.SearchFilter{}, false, fmt.Errorf("find filter: %w", err)
	}

	return filter, true, nil
}

// ListUsersWithFilter returns every user that has a saved filter, in user id
// order. The broadcast run iterates this list sequentially.
func (r *Filters) ListUsersWithFilter(ctx context.Context) ([]UserWithFilter, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("filter repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var filters []domain.SearchFilter
	err := r.db.WithContext(ctx).
		Order("user_id").
		Find(&filters).Error
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}

	result := make([]UserWithFilter, 0, len(filters))
	for _, filter := range filters {
		var user domain.User
		err := r.db.WithContext(ctx).
			Where("id = ?", filter.UserID).
			First(&user).Error
		if err != nil {
			return nil, fmt.Errorf("load user %d for filter: %w", filter.UserID, err)
		}

		result = append(result, UserWithFilter{User: user, Filter: filter})
	}

	return result, nil
}
