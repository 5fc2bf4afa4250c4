// Package vacancy fetches vacancies from the job board and links them to
// users without ever re-sending what a user has already seen.
package vacancy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/headhunter"
	"tg_job_hunter_bot/internal/logging"
)

type searchClient interface {
	Search(ctx context.Context, params url.Values, limit int) ([]headhunter.SearchItem, error)
}

type vacancyStore interface {
	GetByHHID(ctx context.Context, hhID string) (domain.Vacancy, bool, error)
	Create(ctx context.Context, vacancy domain.Vacancy) (domain.Vacancy, error)
	EnsureLink(ctx context.Context, userID, vacancyID uint) (bool, error)
}

// Fetcher pulls fresh vacancies for a user's filter into the database. The
// global vacancy pool is deduplicated by the board's vacancy id; per-user
// links are created at most once, so a vacancy's status survives re-fetches.
type Fetcher struct {
	search    searchClient
	vacancies vacancyStore
	logger    *logrus.Entry
	now       func() time.Time
}

// NewFetcher constructs a Fetcher.
func NewFetcher(search searchClient, vacancies vacancyStore, logger *logrus.Entry) *Fetcher {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Fetcher{
		search:    search,
		vacancies: vacancies,
		logger:    logger,
		now:       time.Now,
	}
}

// FetchForUser queries the board with the user's filter, stores unseen
// vacancies, and links every result to the user. It returns only the
// vacancies that are new for this user.
func (f *Fetcher) FetchForUser(ctx context.Context, user domain.User, filter domain.SearchFilter, limit int) ([]domain.Vacancy, error) {
	if f == nil || f.search == nil || f.vacancies == nil {
		return nil, errors.New("vacancy fetcher is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	params := headhunter.BuildParams(user, filter, f.now())
	items, err := f.search.Search(ctx, params, limit)
	if err != nil {
		return nil, fmt.Errorf("search vacancies: %w", err)
	}

	var fresh []domain.Vacancy
	for _, item := range items {
		if item.ID == "" {
			continue
		}

		stored, found, err := f.vacancies.GetByHHID(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("look up vacancy %s: %w", item.ID, err)
		}
		if !found {
			stored, err = f.vacancies.Create(ctx, toVacancy(item))
			if err != nil {
				return nil, fmt.Errorf("store vacancy %s: %w", item.ID, err)
			}
		}

		linked, err := f.vacancies.EnsureLink(ctx, user.ID, stored.ID)
		if err != nil {
			return nil, fmt.Errorf("link vacancy %s: %w", item.ID, err)
		}
		if linked {
			fresh = append(fresh, stored)
		}
	}

	f.logger.WithFields(logging.Fields{
		"event":   "vacancies_fetched",
		"user_id": user.ID,
		"found":   len(items),
		"fresh":   len(fresh),
	}).Info("vacancies fetched")

	return fresh, nil
}

func toVacancy(item headhunter.SearchItem) domain.Vacancy {
	return domain.Vacancy{
		HHID:        item.ID,
		Title:       item.Name,
		Company:     item.Employer,
		City:        item.Area,
		SalaryFrom:  item.SalaryFrom,
		SalaryTo:    item.SalaryTo,
		Currency:    item.Currency,
		URL:         item.AlternateURL,
		PublishedAt: item.PublishedAt,
		Raw:         datatypes.JSON(item.Raw),
	}
}
