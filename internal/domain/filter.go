package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CompanySize buckets employers by headcount. Stored as plain strings.
type CompanySize string

const (
	CompanySmall  CompanySize = "small"
	CompanyMedium CompanySize = "medium"
	CompanyLarge  CompanySize = "large"
)

// Experience level codes used internally; mapped to HH codes by the query builder.
const (
	ExperienceNone   = "no_experience"
	ExperienceJunior = "1-3"
	ExperienceMiddle = "3-6"
	ExperienceSenior = "6+"
)

// Employment type codes collected by the dialogue.
const (
	EmploymentFull   = "full"
	EmploymentPart   = "part"
	EmploymentRemote = "remote"
)

// SearchFilter holds one user's saved search criteria. There is at most one
// row per user; the settings dialogue replaces all fields wholesale.
type SearchFilter struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Position  string `json:"position"`
	City      string `json:"city"`
	MinSalary *int   `json:"min_salary"`

	MetroStations datatypes.JSONSlice[string] `json:"metro_stations"`
	FreshnessDays int                         `gorm:"default:1" json:"freshness_days"`

	EmploymentTypes     datatypes.JSONSlice[string] `json:"employment_types"`
	ExperienceLevel     string                      `json:"experience_level"`
	OnlyDirectEmployers bool                        `gorm:"default:true" json:"only_direct_employers"`
	CompanySize         *CompanySize                `json:"company_size"`
	OnlyTopCompanies    bool                        `json:"only_top_companies"`

	UpdatedAt time.Time `json:"updated_at"`
}
