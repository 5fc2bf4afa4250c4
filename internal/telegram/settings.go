package telegram

import (
	"context"

	"github.com/go-telegram/bot"

	"tg_job_hunter_bot/internal/dialog"
	"tg_job_hunter_bot/internal/logging"
)

func (h *Handler) handleSettingsStart(ctx context.Context, s sender, telegramID, chat int64) {
	session := h.sessions.Begin(telegramID)
	h.setAwaitingResume(telegramID, false)

	h.logger.WithFields(logging.Fields{
		"event":       "settings_started",
		"telegram_id": telegramID,
	}).Info("settings run started")

	h.sendPrompt(ctx, s, chat, dialog.PromptFor(session.Step))
}

func (h *Handler) handleSettingsAnswer(ctx context.Context, s sender, telegramID, chat int64, session *dialog.Session, text string) {
	next, done, ok := dialog.Advance(session, text)
	if !ok {
		h.sendPrompt(ctx, s, chat, next)
		return
	}
	if !done {
		h.logger.WithFields(logging.Fields{
			"event":       "settings_step",
			"telegram_id": telegramID,
			"step":        session.Step.String(),
		}).Debug("settings step advanced")
		h.sendPrompt(ctx, s, chat, next)
		return
	}

	h.commitSettings(ctx, s, telegramID, chat, session.Draft)
}

// commitSettings persists the whole draft at once: the filter row is replaced
// wholesale and all delivery links are dropped so the next fetch re-evaluates
// every posting against the new criteria. The session is cleared up front so a
// failed commit never strands the user inside a finished dialogue; the error
// reply points back to /search_settings, which starts a fresh run.
func (h *Handler) commitSettings(ctx context.Context, s sender, telegramID, chat int64, draft dialog.Draft) {
	h.sessions.Clear(telegramID)

	account, err := h.registrar.EnsureUser(ctx, telegramID)
	if err != nil {
		h.logError("settings_commit", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сохранить фильтры, попробуй ещё раз: /search_settings")
		return
	}

	if _, err := h.filters.Upsert(ctx, account.ID, draft.Filter()); err != nil {
		h.logError("settings_commit", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сохранить фильтры, попробуй ещё раз: /search_settings")
		return
	}

	if err := h.vacancies.DeleteLinksForUser(ctx, account.ID); err != nil {
		h.logError("settings_commit", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сохранить фильтры, попробуй ещё раз: /search_settings")
		return
	}

	h.logger.WithFields(logging.Fields{
		"event":       "settings_saved",
		"telegram_id": telegramID,
		"user_id":     account.ID,
	}).Info("search filter saved")

	_, err = s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chat,
		Text:        "Фильтры поиска сохранены ✅\nМожешь проверить вакансии командой /vacancies",
		ReplyMarkup: removeKeyboard(),
	})
	if err != nil {
		h.logError("settings_commit", telegramID, err)
	}
}

func (h *Handler) sendPrompt(ctx context.Context, s sender, chat int64, prompt dialog.Prompt) {
	params := &bot.SendMessageParams{
		ChatID: chat,
		Text:   prompt.Text,
	}
	if keyboard := replyKeyboard(prompt.Buttons); keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := s.SendMessage(ctx, params); err != nil {
		h.logger.WithFields(logging.Fields{
			"event":   "telegram_send_failed",
			"chat_id": chat,
		}).WithError(err).Error("failed to send prompt")
	}
}
