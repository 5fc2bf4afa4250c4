package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tg_job_hunter_bot/internal/domain"
)

// Vacancies persists postings and the per-user delivery links.
type Vacancies struct {
	db *gorm.DB
}

// HistoryEntry pairs a delivery link with its posting for the history listing.
type HistoryEntry struct {
	Link    domain.UserVacancy
	Vacancy domain.Vacancy
}

// GetByHHID fetches a posting by its external id. The second return value
// reports whether the posting exists.
func (r *Vacancies) GetByHHID(ctx context.Context, hhID string) (domain.Vacancy, bool, error) {
	if r == nil || r.db == nil {
		return domain.Vacancy{}, false, errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return domain.Vacancy{}, false, errors.New("context is required")
	}

	var vacancy domain.Vacancy
	err := r.db.WithContext(ctx).
		Where("hh_id = ?", hhID).
		First(&vacancy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Vacancy{}, false, nil
	}
	if err != nil {
		return domain.Vacancy{}, false, fmt.Errorf("find vacancy: %w", err)
	}

	return vacancy, true, nil
}

// Get fetches a posting by primary key.
func (r *Vacancies) Get(ctx context.Context, id uint) (domain.Vacancy, bool, error) {
	if r == nil || r.db == nil {
		return domain.Vacancy{}, false, errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return domain.Vacancy{}, false, errors.New("context is required")
	}

	var vacancy domain.Vacancy
	err := r.db.WithContext(ctx).First(&vacancy, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Vacancy{}, false, nil
	}
	if err != nil {
		return domain.Vacancy{}, false, fmt.Errorf("find vacancy: %w", err)
	}

	return vacancy, true, nil
}

// Create inserts a new posting row.
func (r *Vacancies) Create(ctx context.Context, vacancy domain.Vacancy) (domain.Vacancy, error) {
	if r == nil || r.db == nil {
		return domain.Vacancy{}, errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return domain.Vacancy{}, errors.New("context is required")
	}
	if vacancy.HHID == "" {
		return domain.Vacancy{}, errors.New("hh id is required")
	}

	if err := r.db.WithContext(ctx).Create(&vacancy).Error; err != nil {
		return domain.Vacancy{}, fmt.Errorf("insert vacancy: %w", err)
	}

	return vacancy, nil
}

// EnsureLink guarantees exactly one delivery link for the (user, vacancy)
// pair. A missing link is created with status "new"; an existing link is left
// untouched, so re-fetching never resets a delivery status.
func (r *Vacancies) EnsureLink(ctx context.Context, userID, vacancyID uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return false, errors.New("context is required")
	}
	if userID == 0 || vacancyID == 0 {
		return false, errors.New("user id and vacancy id are required")
	}

	var link domain.UserVacancy
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND vacancy_id = ?", userID, vacancyID).
		First(&link).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("find link: %w", err)
	}

	link = domain.UserVacancy{
		UserID:    userID,
		VacancyID: vacancyID,
		Status:    domain.StatusNew,
	}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return false, fmt.Errorf("insert link: %w", err)
	}

	return true, nil
}

// UnsentForUser returns up to limit postings still in status "new" for the
// user, excluding skipped ones.
func (r *Vacancies) UnsentForUser(ctx context.Context, userID uint, limit int) ([]domain.Vacancy, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var vacancies []domain.Vacancy
	err := r.db.WithContext(ctx).
		Joins("JOIN user_vacancies ON user_vacancies.vacancy_id = vacancies.id").
		Where("user_vacancies.user_id = ? AND user_vacancies.status = ? AND user_vacancies.skipped = ?",
			userID, domain.StatusNew, false).
		Limit(limit).
		Find(&vacancies).Error
	if err != nil {
		return nil, fmt.Errorf("list unsent vacancies: %w", err)
	}

	return vacancies, nil
}

// MarkSent advances the listed links from "new" to "sent" and stamps sent_at.
// Links already past "new" are not touched; the status only moves forward.
func (r *Vacancies) MarkSent(ctx context.Context, userID uint, vacancyIDs []uint) error {
	if r == nil || r.db == nil {
		return errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	if len(vacancyIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&domain.UserVacancy{}).
		Where("user_id = ? AND vacancy_id IN ? AND status = ?", userID, vacancyIDs, domain.StatusNew).
		Updates(map[string]interface{}{
			"status":  domain.StatusSent,
			"sent_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("mark vacancies sent: %w", err)
	}

	return nil
}

// MarkSkipped sets the skip flag on the link. The flag is independent of the
// delivery status and may be set at any time.
func (r *Vacancies) MarkSkipped(ctx context.Context, userID, vacancyID uint) error {
	if r == nil || r.db == nil {
		return errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	err := r.db.WithContext(ctx).
		Model(&domain.UserVacancy{}).
		Where("user_id = ? AND vacancy_id = ?", userID, vacancyID).
		Update("skipped", true).Error
	if err != nil {
		return fmt.Errorf("mark vacancy skipped: %w", err)
	}

	return nil
}

// DeleteLinksForUser removes every delivery link of the user so that the next
// fetch re-evaluates all postings against the new filter.
func (r *Vacancies) DeleteLinksForUser(ctx context.Context, userID uint) error {
	if r == nil || r.db == nil {
		return errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	if userID == 0 {
		return errors.New("user id is required")
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.UserVacancy{}).Error
	if err != nil {
		return fmt.Errorf("delete links: %w", err)
	}

	return nil
}

// HistoryForUser returns the user's most recent delivery links with their
// postings, newest first.
func (r *Vacancies) HistoryForUser(ctx context.Context, userID uint, limit int) ([]HistoryEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("vacancy repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	var links []domain.UserVacancy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(links))
	for _, link := range links {
		var vacancy domain.Vacancy
		if err := r.db.WithContext(ctx).First(&vacancy, link.VacancyID).Error; err != nil {
			return nil, fmt.Errorf("load vacancy %d: %w", link.VacancyID, err)
		}

		entries = append(entries, HistoryEntry{Link: link, Vacancy: vacancy})
	}

	return entries, nil
}
