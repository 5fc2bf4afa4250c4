package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Main-menu button labels. The reply keyboard and the text dispatcher must
// agree on these exactly.
const (
	buttonSettings  = "🔍 Настроить поиск"
	buttonVacancies = "📨 Вакансии"
	buttonResume    = "📄 Моё резюме"
	buttonHistory   = "📜 История"
)

// Callback data prefixes for the per-vacancy inline keyboard.
const (
	callbackGenResume = "gen_resume"
	callbackGenCover  = "gen_cover"
	callbackSkip      = "skip"
)

// mainMenuKeyboard is the persistent menu; unlike the per-question keyboards
// it stays open after use.
func mainMenuKeyboard() *models.ReplyKeyboardMarkup {
	keyboard := replyKeyboard([][]string{
		{buttonSettings, buttonVacancies},
		{buttonResume, buttonHistory},
	})
	keyboard.OneTimeKeyboard = false

	return keyboard
}

// replyKeyboard builds a resizable one-time reply keyboard from rows of button
// labels. An empty rows slice yields nil so the message carries no markup.
func replyKeyboard(rows [][]string) *models.ReplyKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}

	keyboard := make([][]models.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, models.KeyboardButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}

	return &models.ReplyKeyboardMarkup{
		Keyboard:        keyboard,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

func removeKeyboard() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}

func vacancyKeyboard(vacancyID uint) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📄 Сгенерировать резюме", CallbackData: fmt.Sprintf("%s:%d", callbackGenResume, vacancyID)}},
			{{Text: "✉️ Сопроводительное", CallbackData: fmt.Sprintf("%s:%d", callbackGenCover, vacancyID)}},
			{{Text: "❌ Неинтересно", CallbackData: fmt.Sprintf("%s:%d", callbackSkip, vacancyID)}},
		},
	}
}
