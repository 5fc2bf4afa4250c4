package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/store"
)

var statusLabels = map[domain.VacancyStatus]string{
	domain.StatusNew:     "новая",
	domain.StatusSent:    "отправлена в рассылке",
	domain.StatusSkipped: "помечена как неинтересная",
	domain.StatusApplied: "отклик отправлен",
}

func (h *Handler) handleHistory(ctx context.Context, s sender, telegramID, chat int64) {
	account, found, err := h.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logError("history", telegramID, err)
		return
	}
	if !found {
		h.reply(ctx, s, chat, "Сначала выполните /start.")
		return
	}

	entries, err := h.vacancies.HistoryForUser(ctx, account.ID, historyLimit)
	if err != nil {
		h.logError("history", telegramID, err)
		return
	}
	if len(entries) == 0 {
		h.reply(ctx, s, chat, "История пока пуста. Попробуйте команду /vacancies.")
		return
	}

	vacancyIDs := make([]uint, 0, len(entries))
	for _, entry := range entries {
		vacancyIDs = append(vacancyIDs, entry.Vacancy.ID)
	}

	docTypes, err := h.documents.TypesByVacancy(ctx, account.ID, vacancyIDs)
	if err != nil {
		h.logError("history", telegramID, err)
		return
	}

	_, err = s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chat,
		Text:      formatHistory(entries, docTypes),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logError("history", telegramID, err)
	}
}

func formatHistory(entries []store.HistoryEntry, docTypes map[uint]map[domain.DocumentType]bool) string {
	lines := []string{"<b>История последних вакансий:</b>\n"}

	for idx, entry := range entries {
		vacancy := entry.Vacancy

		company := vacancy.Company
		if company == "" {
			company = "Компания не указана"
		}
		city := vacancy.City
		if city == "" {
			city = "Город не указан"
		}

		flags := docTypes[vacancy.ID]
		lines = append(lines, fmt.Sprintf(
			"%d. <b>%s</b>\n%s — %s\nСтатус: %s\nРезюме: %s, Cover letter: %s\nЗарплата: %s\n%s\n",
			idx+1,
			vacancy.Title,
			company,
			city,
			statusLabel(entry.Link),
			presenceLabel(flags[domain.DocResume]),
			presenceLabel(flags[domain.DocCoverLetter]),
			formatSalary(vacancy),
			vacancy.URL,
		))
	}

	return strings.Join(lines, "\n")
}

func statusLabel(link domain.UserVacancy) string {
	if link.Skipped {
		return statusLabels[domain.StatusSkipped]
	}
	if label, ok := statusLabels[link.Status]; ok {
		return label
	}

	return "неизвестный статус"
}

func presenceLabel(present bool) string {
	if present {
		return "есть"
	}

	return "нет"
}
