package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/logging"
	"tg_job_hunter_bot/internal/pdf"
)

func (h *Handler) handleVacancies(ctx context.Context, s sender, telegramID, chat int64) {
	account, found, err := h.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logError("vacancies", telegramID, err)
		return
	}
	if !found {
		h.reply(ctx, s, chat, "Сначала выполните /start")
		return
	}

	filter, found, err := h.filters.GetByUserID(ctx, account.ID)
	if err != nil {
		h.logError("vacancies", telegramID, err)
		return
	}
	if !found {
		h.reply(ctx, s, chat, "Сначала настройте фильтры: /search_settings")
		return
	}

	if _, err := h.fetcher.FetchForUser(ctx, account, filter, fetchLimit); err != nil {
		h.logError("vacancies", telegramID, err)
		h.reply(ctx, s, chat, "Не удалось получить вакансии с hh.ru, попробуй позже.")
		return
	}

	unsent, err := h.vacancies.UnsentForUser(ctx, account.ID, deliverLimit)
	if err != nil {
		h.logError("vacancies", telegramID, err)
		return
	}
	if len(unsent) == 0 {
		h.reply(ctx, s, chat, "Пока нет новых вакансий по вашим фильтрам.")
		return
	}

	var delivered []uint
	for _, vacancy := range unsent {
		_, err := s.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chat,
			Text:      formatVacancy(vacancy),
			ParseMode: models.ParseModeHTML,
			LinkPreviewOptions: &models.LinkPreviewOptions{
				IsDisabled: bot.True(),
			},
			ReplyMarkup: vacancyKeyboard(vacancy.ID),
		})
		if err != nil {
			h.logError("vacancies", telegramID, err)
			break
		}
		delivered = append(delivered, vacancy.ID)
	}

	if len(delivered) == 0 {
		return
	}
	if err := h.vacancies.MarkSent(ctx, account.ID, delivered); err != nil {
		h.logError("vacancies", telegramID, err)
	}
}

func (h *Handler) handleCallback(ctx context.Context, s sender, query *models.CallbackQuery) {
	telegramID := query.From.ID
	chat := messageChatID(query.Message)

	action, vacancyID, ok := parseCallbackData(query.Data)
	if !ok {
		h.answerCallback(ctx, s, query.ID, "")
		return
	}

	switch action {
	case callbackGenResume:
		h.handleGenerate(ctx, s, query.ID, telegramID, chat, vacancyID, domain.DocResume)
	case callbackGenCover:
		h.handleGenerate(ctx, s, query.ID, telegramID, chat, vacancyID, domain.DocCoverLetter)
	case callbackSkip:
		h.handleSkip(ctx, s, query, telegramID, vacancyID)
	default:
		h.answerCallback(ctx, s, query.ID, "")
	}
}

func (h *Handler) handleGenerate(ctx context.Context, s sender, queryID string, telegramID, chat int64, vacancyID uint, docType domain.DocumentType) {
	defer h.answerCallback(ctx, s, queryID, "")

	account, found, err := h.users.GetByTelegramID(ctx, telegramID)
	if err != nil || !found {
		h.logError("generate", telegramID, err)
		return
	}

	vacancy, found, err := h.vacancies.Get(ctx, vacancyID)
	if err != nil || !found {
		h.logError("generate", telegramID, err)
		h.reply(ctx, s, chat, "Вакансия не найдена, попробуй запросить свежие: /vacancies")
		return
	}

	var doc domain.GeneratedDocument
	if docType == domain.DocResume {
		doc, err = h.generator.Resume(ctx, account, vacancy)
	} else {
		doc, err = h.generator.CoverLetter(ctx, account, vacancy)
	}
	if err != nil {
		h.logError("generate", telegramID, err)
		h.reply(ctx, s, chat, "Не получилось сгенерировать документ, попробуй позже.")
		return
	}

	var header, title, filename, caption string
	if docType == domain.DocResume {
		header = "Готовое резюме:\n\n"
		title = vacancy.Title
		filename = "resume.pdf"
		caption = "Резюме в формате PDF"
	} else {
		header = "Сопроводительное письмо:\n\n"
		title = "Сопроводительное: " + vacancy.Title
		filename = "cover_letter.pdf"
		caption = "Сопроводительное письмо в PDF"
	}

	h.reply(ctx, s, chat, header+doc.Content)

	pdfBytes, err := pdf.Render(title, doc.Content)
	if err != nil {
		h.logError("generate", telegramID, err)
		return
	}

	_, err = s.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chat,
		Document: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(pdfBytes),
		},
		Caption: caption,
	})
	if err != nil {
		h.logError("generate", telegramID, err)
	}
}

func (h *Handler) handleSkip(ctx context.Context, s sender, query *models.CallbackQuery, telegramID int64, vacancyID uint) {
	account, found, err := h.users.GetByTelegramID(ctx, telegramID)
	if err != nil || !found {
		h.logError("skip", telegramID, err)
		h.answerCallback(ctx, s, query.ID, "")
		return
	}

	if err := h.vacancies.MarkSkipped(ctx, account.ID, vacancyID); err != nil {
		h.logError("skip", telegramID, err)
		h.answerCallback(ctx, s, query.ID, "")
		return
	}

	h.answerCallback(ctx, s, query.ID, "Ок, скрываю эту вакансию.")

	// Best effort: remove the posting's message from the chat.
	if query.Message.Type == models.MaybeInaccessibleMessageTypeMessage && query.Message.Message != nil {
		_, err := s.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    query.Message.Message.Chat.ID,
			MessageID: query.Message.Message.ID,
		})
		if err != nil {
			h.logger.WithFields(logging.Fields{
				"event":      "message_delete_failed",
				"vacancy_id": vacancyID,
			}).WithError(err).Debug("could not delete vacancy message")
		}
	}
}

func (h *Handler) answerCallback(ctx context.Context, s sender, queryID, text string) {
	_, err := s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		h.logger.WithField("event", "callback_answer_failed").WithError(err).Debug("could not answer callback query")
	}
}

func parseCallbackData(data string) (action string, vacancyID uint, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(data), ":", 2)
	if len(parts) != 2 {
		return "", 0, false
	}

	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || id == 0 {
		return "", 0, false
	}

	return parts[0], uint(id), true
}

func formatVacancy(v domain.Vacancy) string {
	return fmt.Sprintf("<b>%s</b>\n%s — %s\nЗарплата: %s\n<a href='%s'>Ссылка на hh.ru</a>",
		v.Title, v.Company, v.City, formatSalary(v), v.URL)
}

func formatSalary(v domain.Vacancy) string {
	if v.SalaryFrom == nil && v.SalaryTo == nil {
		return "не указана"
	}

	var from, to string
	if v.SalaryFrom != nil {
		from = strconv.Itoa(*v.SalaryFrom)
	}
	if v.SalaryTo != nil {
		to = strconv.Itoa(*v.SalaryTo)
	}

	return strings.Trim(strings.TrimSpace(from+"–"+to+" "+v.Currency), "– ")
}
