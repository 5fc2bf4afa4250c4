package domain

import (
	"time"

	"gorm.io/datatypes"
)

// VacancyStatus tracks whether a posting was delivered to a user. The status
// only moves forward (new -> sent); the skip flag is independent of it.
type VacancyStatus string

const (
	StatusNew     VacancyStatus = "new"
	StatusSent    VacancyStatus = "sent"
	StatusSkipped VacancyStatus = "skipped"
	StatusApplied VacancyStatus = "applied"
)

// Vacancy is a posting sourced from the HeadHunter API, deduplicated by its
// external id. Display fields are denormalized; the full payload is kept raw.
type Vacancy struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	HHID        string         `gorm:"column:hh_id;uniqueIndex;not null" json:"hh_id"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	City        string         `json:"city"`
	SalaryFrom  *int           `json:"salary_from"`
	SalaryTo    *int           `json:"salary_to"`
	Currency    string         `json:"currency"`
	URL         string         `json:"url"`
	PublishedAt *time.Time     `json:"published_at"`
	Raw         datatypes.JSON `json:"raw"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UserVacancy links a user to a posting and records the delivery state.
// Unique on the (user, vacancy) pair.
type UserVacancy struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"uniqueIndex:uq_user_vacancy;not null" json:"user_id"`
	User      User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VacancyID uint    `gorm:"uniqueIndex:uq_user_vacancy;not null" json:"vacancy_id"`
	Vacancy   Vacancy `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Status  VacancyStatus `gorm:"default:new" json:"status"`
	SentAt  *time.Time    `json:"sent_at"`
	Skipped bool          `json:"skipped"`
}
