// Package scheduler runs the daily vacancy broadcast.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"tg_job_hunter_bot/internal/config"
	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/logging"
	"tg_job_hunter_bot/internal/store"
)

const (
	broadcastFetchLimit   = 50
	broadcastDeliverLimit = 10
)

type messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type filterLister interface {
	ListUsersWithFilter(ctx context.Context) ([]store.UserWithFilter, error)
}

type vacancyStore interface {
	UnsentForUser(ctx context.Context, userID uint, limit int) ([]domain.Vacancy, error)
	MarkSent(ctx context.Context, userID uint, vacancyIDs []uint) error
}

type vacancyFetcher interface {
	FetchForUser(ctx context.Context, user domain.User, filter domain.SearchFilter, limit int) ([]domain.Vacancy, error)
}

// Broadcaster fetches fresh vacancies for every user with a saved filter once
// a day and sends each user one digest message.
type Broadcaster struct {
	filters   filterLister
	vacancies vacancyStore
	fetcher   vacancyFetcher
	messenger messenger
	logger    *logrus.Entry
	cron      *cron.Cron
}

// NewBroadcaster wires the broadcast dependencies and schedules the daily run
// at the configured hour in the configured timezone.
func NewBroadcaster(cfg config.Config, filters filterLister, vacancies vacancyStore, fetcher vacancyFetcher, m messenger, logger *logrus.Entry) (*Broadcaster, error) {
	switch {
	case filters == nil:
		return nil, errors.New("filter lister is required")
	case vacancies == nil:
		return nil, errors.New("vacancy store is required")
	case fetcher == nil:
		return nil, errors.New("vacancy fetcher is required")
	case m == nil:
		return nil, errors.New("messenger is required")
	}
	if logger == nil {
		logger = logging.Logger()
	}

	location, err := time.LoadLocation(cfg.BroadcastTZ)
	if err != nil {
		return nil, fmt.Errorf("load broadcast timezone: %w", err)
	}

	b := &Broadcaster{
		filters:   filters,
		vacancies: vacancies,
		fetcher:   fetcher,
		messenger: m,
		logger:    logger,
		cron:      cron.New(cron.WithLocation(location)),
	}

	spec := fmt.Sprintf("0 %d * * *", cfg.BroadcastHour)
	if _, err := b.cron.AddFunc(spec, func() {
		if err := b.RunOnce(context.Background()); err != nil {
			b.logger.WithField("event", "broadcast_failed").WithError(err).Error("daily broadcast failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule broadcast: %w", err)
	}

	return b, nil
}

// Start begins the cron loop.
func (b *Broadcaster) Start() {
	b.cron.Start()
	b.logger.WithField("event", "broadcast_scheduled").Info("daily broadcast scheduled")
}

// Stop halts the cron loop and waits for a running job to finish.
func (b *Broadcaster) Stop() {
	<-b.cron.Stop().Done()
	b.logger.WithField("event", "broadcast_stopped").Info("daily broadcast stopped")
}

// RunOnce performs one broadcast pass over every user with a saved filter.
// The first failing user aborts the pass so a systemic outage is not repeated
// once per user.
func (b *Broadcaster) RunOnce(ctx context.Context) error {
	if b == nil {
		return errors.New("broadcaster is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	pairs, err := b.filters.ListUsersWithFilter(ctx)
	if err != nil {
		return fmt.Errorf("list broadcast users: %w", err)
	}

	delivered := 0
	for _, pair := range pairs {
		sent, err := b.broadcastToUser(ctx, pair.User, pair.Filter)
		if err != nil {
			return fmt.Errorf("broadcast to user %d: %w", pair.User.ID, err)
		}
		if sent {
			delivered++
		}
	}

	b.logger.WithFields(logging.Fields{
		"event":     "broadcast_done",
		"users":     len(pairs),
		"delivered": delivered,
	}).Info("daily broadcast finished")

	return nil
}

func (b *Broadcaster) broadcastToUser(ctx context.Context, user domain.User, filter domain.SearchFilter) (bool, error) {
	if _, err := b.fetcher.FetchForUser(ctx, user, filter, broadcastFetchLimit); err != nil {
		return false, fmt.Errorf("fetch vacancies: %w", err)
	}

	vacancies, err := b.vacancies.UnsentForUser(ctx, user.ID, broadcastDeliverLimit)
	if err != nil {
		return false, fmt.Errorf("list unsent vacancies: %w", err)
	}
	if len(vacancies) == 0 {
		return false, nil
	}

	_, err = b.messenger.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    user.TelegramID,
		Text:      formatDigest(vacancies),
		ParseMode: models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: bot.True(),
		},
	})
	if err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}

	ids := make([]uint, 0, len(vacancies))
	for _, vacancy := range vacancies {
		ids = append(ids, vacancy.ID)
	}
	if err := b.vacancies.MarkSent(ctx, user.ID, ids); err != nil {
		return false, fmt.Errorf("mark vacancies sent: %w", err)
	}

	return true, nil
}

func formatDigest(vacancies []domain.Vacancy) string {
	parts := make([]string, 0, len(vacancies))
	for _, v := range vacancies {
		parts = append(parts, fmt.Sprintf("<b>%s</b>\n%s — %s\nЗарплата: %s\n<a href='%s'>Ссылка на hh.ru</a>\n",
			v.Title, v.Company, v.City, digestSalary(v), v.URL))
	}

	return "Вот новые вакансии для вас:\n\n" + strings.Join(parts, "\n")
}

func digestSalary(v domain.Vacancy) string {
	if v.SalaryFrom == nil && v.SalaryTo == nil {
		return "не указана"
	}

	var from, to string
	if v.SalaryFrom != nil {
		from = fmt.Sprintf("%d", *v.SalaryFrom)
	}
	if v.SalaryTo != nil {
		to = fmt.Sprintf("%d", *v.SalaryTo)
	}

	return strings.Trim(strings.TrimSpace(from+"–"+to+" "+v.Currency), "– ")
}
