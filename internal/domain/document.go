package domain

import "time"

// DocumentType distinguishes the two kinds of generated documents.
type DocumentType string

const (
	DocResume      DocumentType = "resume"
	DocCoverLetter DocumentType = "cover_letter"
)

// GeneratedDocument is an immutable record of one language-model output tied
// to a user and, optionally, a vacancy.
type GeneratedDocument struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"not null" json:"user_id"`
	User      User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VacancyID *uint    `json:"vacancy_id"`
	Vacancy   *Vacancy `gorm:"constraint:OnDelete:SET NULL" json:"-"`

	DocType   DocumentType `gorm:"not null" json:"doc_type"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}
