// Package user provides helpers for user registration and profile updates.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/logging"
	"tg_job_hunter_bot/internal/store"
)

type userStore interface {
	GetOrCreate(ctx context.Context, telegramID int64) (domain.User, error)
	UpdateProfile(ctx context.Context, userID uint, update store.ProfileUpdate) error
}

// Profile is a parsed free-text profile message.
type Profile struct {
	FullName        string
	City            string
	DesiredPosition string
	Skills          string
}

// ErrProfileTooShort reports a profile message with fewer than the three
// required lines.
var ErrProfileTooShort = errors.New("profile needs at least full name, city, and position lines")

// ParseProfile splits a multi-line profile message: full name, city, desired
// position, then any further lines joined as skills.
func ParseProfile(text string) (Profile, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}

	if len(lines) < 3 || lines[0] == "" || lines[1] == "" || lines[2] == "" {
		return Profile{}, ErrProfileTooShort
	}

	profile := Profile{
		FullName:        lines[0],
		City:            lines[1],
		DesiredPosition: lines[2],
	}
	if len(lines) > 3 {
		profile.Skills = strings.Join(lines[3:], ",")
	}

	return profile, nil
}

// Registrar ensures users exist in the database and applies profile updates.
type Registrar struct {
	users  userStore
	logger *logrus.Entry
}

// NewRegistrar constructs a Registrar over the users repository.
func NewRegistrar(users userStore, logger *logrus.Entry) *Registrar {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Registrar{
		users:  users,
		logger: logger,
	}
}

// EnsureUser returns the user record for a Telegram id, creating an empty one
// on first contact.
func (r *Registrar) EnsureUser(ctx context.Context, telegramID int64) (domain.User, error) {
	if r == nil || r.users == nil {
		return domain.User{}, errors.New("user registrar is not initialized")
	}
	if ctx == nil {
		return domain.User{}, errors.New("context is required")
	}
	if telegramID == 0 {
		return domain.User{}, errors.New("telegram id is required")
	}

	user, err := r.users.GetOrCreate(ctx, telegramID)
	if err != nil {
		return domain.User{}, fmt.Errorf("ensure user: %w", err)
	}

	if user.FullName == "" && user.CreatedAt.Equal(user.UpdatedAt) {
		r.logger.WithFields(logging.Fields{
			"event":       "user_registered",
			"telegram_id": telegramID,
		}).Info("user registered")
	}

	return user, nil
}

// SaveProfile stores a parsed profile on the user's record.
func (r *Registrar) SaveProfile(ctx context.Context, userID uint, profile Profile) error {
	if r == nil || r.users == nil {
		return errors.New("user registrar is not initialized")
	}

	update := store.ProfileUpdate{
		FullName:        &profile.FullName,
		City:            &profile.City,
		DesiredPosition: &profile.DesiredPosition,
		Skills:          &profile.Skills,
	}
	if err := r.users.UpdateProfile(ctx, userID, update); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	r.logger.WithFields(logging.Fields{
		"event":   "profile_saved",
		"user_id": userID,
	}).Info("profile saved")

	return nil
}

// SaveBaseResume stores the user's base resume text.
func (r *Registrar) SaveBaseResume(ctx context.Context, userID uint, resume string) error {
	if r == nil || r.users == nil {
		return errors.New("user registrar is not initialized")
	}

	resume = strings.TrimSpace(resume)
	if resume == "" {
		return errors.New("resume text is empty")
	}

	if err := r.users.UpdateProfile(ctx, userID, store.ProfileUpdate{BaseResume: &resume}); err != nil {
		return fmt.Errorf("save base resume: %w", err)
	}

	r.logger.WithFields(logging.Fields{
		"event":   "base_resume_saved",
		"user_id": userID,
	}).Info("base resume saved")

	return nil
}
