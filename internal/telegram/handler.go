package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"tg_job_hunter_bot/internal/dialog"
	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/feature/user"
	"tg_job_hunter_bot/internal/logging"
	"tg_job_hunter_bot/internal/store"
)

type registrar interface {
	EnsureUser(ctx context.Context, telegramID int64) (domain.User, error)
	SaveProfile(ctx context.Context, userID uint, profile user.Profile) error
	SaveBaseResume(ctx context.Context, userID uint, resume string) error
}

type userStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (domain.User, bool, error)
}

type filterStore interface {
	Upsert(ctx context.Context, userID uint, filter domain.SearchFilter) (domain.SearchFilter, error)
	GetByUserID(ctx context.Context, userID uint) (domain.SearchFilter, bool, error)
}

type vacancyStore interface {
	Get(ctx context.Context, id uint) (domain.Vacancy, bool, error)
	UnsentForUser(ctx context.Context, userID uint, limit int) ([]domain.Vacancy, error)
	MarkSent(ctx context.Context, userID uint, vacancyIDs []uint) error
	MarkSkipped(ctx context.Context, userID, vacancyID uint) error
	DeleteLinksForUser(ctx context.Context, userID uint) error
	HistoryForUser(ctx context.Context, userID uint, limit int) ([]store.HistoryEntry, error)
}

type documentStore interface {
	TypesByVacancy(ctx context.Context, userID uint, vacancyIDs []uint) (map[uint]map[domain.DocumentType]bool, error)
}

type vacancyFetcher interface {
	FetchForUser(ctx context.Context, user domain.User, filter domain.SearchFilter, limit int) ([]domain.Vacancy, error)
}

type docGenerator interface {
	Resume(ctx context.Context, user domain.User, vacancy domain.Vacancy) (domain.GeneratedDocument, error)
	CoverLetter(ctx context.Context, user domain.User, vacancy domain.Vacancy) (domain.GeneratedDocument, error)
}

const (
	fetchLimit   = 20
	deliverLimit = 5
	historyLimit = 10
)

// Handler routes incoming updates to the bot's features. Per-user interaction
// state (an active settings run, a pending resume upload) lives in memory.
type Handler struct {
	registrar registrar
	users     userStore
	filters   filterStore
	vacancies vacancyStore
	documents documentStore
	fetcher   vacancyFetcher
	generator docGenerator
	sessions  *dialog.Sessions
	logger    *logrus.Entry

	mu             sync.Mutex
	awaitingResume map[int64]bool
}

// HandlerDeps bundles the feature dependencies of the update handler.
type HandlerDeps struct {
	Registrar registrar
	Users     userStore
	Filters   filterStore
	Vacancies vacancyStore
	Documents documentStore
	Fetcher   vacancyFetcher
	Generator docGenerator
	Sessions  *dialog.Sessions
	Logger    *logrus.Entry
}

// NewHandler constructs the update handler.
func NewHandler(deps HandlerDeps) (*Handler, error) {
	switch {
	case deps.Registrar == nil:
		return nil, errors.New("registrar is required")
	case deps.Users == nil:
		return nil, errors.New("user store is required")
	case deps.Filters == nil:
		return nil, errors.New("filter store is required")
	case deps.Vacancies == nil:
		return nil, errors.New("vacancy store is required")
	case deps.Documents == nil:
		return nil, errors.New("document store is required")
	case deps.Fetcher == nil:
		return nil, errors.New("vacancy fetcher is required")
	case deps.Generator == nil:
		return nil, errors.New("document generator is required")
	}

	if deps.Sessions == nil {
		deps.Sessions = dialog.NewSessions()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Logger()
	}

	return &Handler{
		registrar:      deps.Registrar,
		users:          deps.Users,
		filters:        deps.Filters,
		vacancies:      deps.Vacancies,
		documents:      deps.Documents,
		fetcher:        deps.Fetcher,
		generator:      deps.Generator,
		sessions:       deps.Sessions,
		logger:         deps.Logger,
		awaitingResume: make(map[int64]bool),
	}, nil
}

// HandleUpdate dispatches one update. Unknown update shapes are ignored.
func (h *Handler) HandleUpdate(ctx context.Context, s sender, update *models.Update) {
	if h == nil || update == nil || s == nil {
		return
	}

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, s, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		h.handleMessage(ctx, s, update.Message)
	}
}

func (h *Handler) handleMessage(ctx context.Context, s sender, msg *models.Message) {
	telegramID := msg.From.ID
	chat := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if text == "/cancel" {
		h.handleCancel(ctx, s, telegramID, chat)
		return
	}

	// An active settings run consumes every message until it finishes.
	if session, ok := h.sessions.Get(telegramID); ok {
		h.handleSettingsAnswer(ctx, s, telegramID, chat, session, text)
		return
	}

	if h.isAwaitingResume(telegramID) {
		h.handleResumeText(ctx, s, telegramID, chat, text)
		return
	}

	switch text {
	case "/start":
		h.handleStart(ctx, s, telegramID, chat)
	case "/search_settings", buttonSettings:
		h.handleSettingsStart(ctx, s, telegramID, chat)
	case "/vacancies", buttonVacancies:
		h.handleVacancies(ctx, s, telegramID, chat)
	case "/resume", buttonResume:
		h.handleResumeStart(ctx, s, telegramID, chat)
	case "/history", buttonHistory:
		h.handleHistory(ctx, s, telegramID, chat)
	case "/skip":
		h.reply(ctx, s, chat, "Ок, профиль можно заполнить позже командой /search_settings")
	default:
		if strings.HasPrefix(text, "/") {
			return
		}
		h.handleProfileText(ctx, s, telegramID, chat, text)
	}
}

func (h *Handler) handleStart(ctx context.Context, s sender, telegramID, chat int64) {
	if _, err := h.registrar.EnsureUser(ctx, telegramID); err != nil {
		h.logError("start", telegramID, err)
		h.reply(ctx, s, chat, "Что-то пошло не так, попробуй ещё раз позже.")
		return
	}

	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chat,
		Text: "Привет! Я бот-поисковик вакансий.\n\n" +
			"Давай заполним базовый профиль.\n" +
			"Отправь мне сообщение в формате:\n\n" +
			"<b>ФИО</b>\nГород\nЖелаемая должность\nНавыки через запятую\n\n" +
			"Или просто напиши /skip, чтобы пропустить.",
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: mainMenuKeyboard(),
	})
	if err != nil {
		h.logError("start", telegramID, err)
	}
}

func (h *Handler) handleProfileText(ctx context.Context, s sender, telegramID, chat int64, text string) {
	profile, err := user.ParseProfile(text)
	if errors.Is(err, user.ErrProfileTooShort) {
		h.reply(ctx, s, chat, "Слишком мало данных. Дай хотя бы ФИО, город и должность.")
		return
	}
	if err != nil {
		h.logError("profile", telegramID, err)
		return
	}

	account, err := h.registrar.EnsureUser(ctx, telegramID)
	if err != nil {
		h.logError("profile", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сохранить профиль, попробуй позже.")
		return
	}
	if err := h.registrar.SaveProfile(ctx, account.ID, profile); err != nil {
		h.logError("profile", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сохранить профиль, попробуй позже.")
		return
	}

	h.reply(ctx, s, chat, "Профиль сохранён ✅\nТеперь можешь настроить фильтры поиска: /search_settings")
}

func (h *Handler) handleCancel(ctx context.Context, s sender, telegramID, chat int64) {
	if _, ok := h.sessions.Get(telegramID); ok {
		h.sessions.Clear(telegramID)
		_, err := s.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chat,
			Text:        "Ок, настройка фильтров отменена.",
			ReplyMarkup: removeKeyboard(),
		})
		if err != nil {
			h.logError("cancel", telegramID, err)
		}
		return
	}

	if h.isAwaitingResume(telegramID) {
		h.setAwaitingResume(telegramID, false)
		h.reply(ctx, s, chat, "Ок, ввод резюме отменён. Ты можешь вернуться к этому позже командой /resume.")
		return
	}

	h.reply(ctx, s, chat, "Нечего отменять.")
}

func (h *Handler) handleResumeStart(ctx context.Context, s sender, telegramID, chat int64) {
	h.setAwaitingResume(telegramID, true)
	h.reply(ctx, s, chat,
		"Отправь мне свой базовый текст резюме.\n\n"+
			"Можно просто скопировать содержимое из файла.\n"+
			"Когда закончишь, просто отправь одним сообщением.\n\n"+
			"Если передумал — напиши /cancel.")
}

func (h *Handler) handleResumeText(ctx context.Context, s sender, telegramID, chat int64, text string) {
	if strings.TrimSpace(text) == "" {
		h.reply(ctx, s, chat, "Пустое резюме не подойдёт 🙂 Пришли, пожалуйста, текст.")
		return
	}

	account, err := h.registrar.EnsureUser(ctx, telegramID)
	if err != nil {
		h.logError("resume", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сохранить резюме, попробуй позже.")
		return
	}
	if err := h.registrar.SaveBaseResume(ctx, account.ID, text); err != nil {
		h.logError("resume", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сохранить резюме, попробуй позже.")
		return
	}

	h.setAwaitingResume(telegramID, false)
	h.reply(ctx, s, chat, "Базовое резюме сохранено ✅\nТеперь я буду использовать его при генерации адаптированных версий.")
}

func (h *Handler) isAwaitingResume(telegramID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.awaitingResume[telegramID]
}

func (h *Handler) setAwaitingResume(telegramID int64, waiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if waiting {
		h.awaitingResume[telegramID] = true
	} else {
		delete(h.awaitingResume, telegramID)
	}
}

func (h *Handler) reply(ctx context.Context, s sender, chat int64, text string) {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chat,
		Text:   text,
	})
	if err != nil {
		h.logger.WithFields(logging.Fields{
			"event":   "telegram_send_failed",
			"chat_id": chat,
		}).WithError(err).Error("failed to send message")
	}
}

func (h *Handler) logError(operation string, telegramID int64, err error) {
	h.logger.WithFields(logging.Fields{
		"event":       "handler_error",
		"operation":   operation,
		"telegram_id": telegramID,
	}).WithError(err).Error("handler operation failed")
}
