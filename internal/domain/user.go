// Package domain defines the persisted entities shared across the bot.
package domain

import "time"

// User represents a Telegram user registered with the bot together with the
// free-text profile fields used for search and document generation.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	TelegramID      int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FullName        string    `json:"full_name"`
	City            string    `json:"city"`
	DesiredPosition string    `json:"desired_position"`
	Skills          string    `gorm:"type:text" json:"skills"`
	BaseResume      string    `gorm:"type:text" json:"base_resume"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
