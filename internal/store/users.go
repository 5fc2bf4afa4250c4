package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tg_job_hunter_bot/internal/domain"
)

// Users persists and retrieves user records.
type Users struct {
	db *gorm.DB
}

// ProfileUpdate carries the optional profile fields; nil fields are left
// untouched.
type ProfileUpdate struct {
	FullName        *string
	City            *string
	DesiredPosition *string
	Skills          *string
	BaseResume      *string
}

// GetOrCreate returns the user with the given Telegram id, creating an empty
// record on first contact.
func (r *Users) GetOrCreate(ctx context.Context, telegramID int64) (domain.User, error) {
	if r == nil || r.db == nil {
		return domain.User{}, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return domain.User{}, errors.New("context is required")
	}
	if telegramID == 0 {
		return domain.User{}, errors.New("telegram id is required")
	}

	var user domain.User
	err := r.db.WithContext(ctx).
		Where(domain.User{TelegramID: telegramID}).
		FirstOrCreate(&user).Error
	if err != nil {
		return domain.User{}, fmt.Errorf("get or create user: %w", err)
	}

	return user, nil
}

// GetByTelegramID fetches a user by Telegram id. The second return value
// reports whether the user exists.
func (r *Users) GetByTelegramID(ctx context.Context, telegramID int64) (domain.User, bool, error) {
	if r == nil || r.db == nil {
		return domain.User{}, false, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return domain.User{}, false, errors.New("context is required")
	}

	var user domain.User
	err := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("find user: %w", err)
	}

	return user, true, nil
}

// UpdateProfile applies the non-nil fields of the update to the user row.
func (r *Users) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) error {
	if r == nil || r.db == nil {
		return errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	if userID == 0 {
		return errors.New("user id is required")
	}

	values := map[string]interface{}{}
	if update.FullName != nil {
		values["full_name"] = *update.FullName
	}
	if update.City != nil {
		values["city"] = *update.City
	}
	if update.DesiredPosition != nil {
		values["desired_position"] = *update.DesiredPosition
	}
	if update.Skills != nil {
		values["skills"] = *update.Skills
	}
	if update.BaseResume != nil {
		values["base_resume"] = *update.BaseResume
	}
	if len(values) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(values).Error
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}
