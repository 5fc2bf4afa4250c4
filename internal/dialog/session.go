// Package dialog implements the sequential filter-collection dialogue: the
// step order, the per-user session accumulator, and the pure answer parsers.
package dialog

import (
	"sync"

	"tg_job_hunter_bot/internal/domain"
)

// Step identifies the question currently awaiting an answer.
type Step int

const (
	StepPosition Step = iota
	StepCity
	StepMinSalary
	StepMetro
	StepFreshness
	StepEmployment
	StepExperience
	StepDirectOnly
	StepCompanySize
	StepTopCompanies
	StepDone
)

var stepNames = map[Step]string{
	StepPosition:     "position",
	StepCity:         "city",
	StepMinSalary:    "min_salary",
	StepMetro:        "metro",
	StepFreshness:    "freshness",
	StepEmployment:   "employment",
	StepExperience:   "experience",
	StepDirectOnly:   "direct_only",
	StepCompanySize:  "company_size",
	StepTopCompanies: "top_companies",
	StepDone:         "done",
}

// String returns the step's stable name for logging.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Draft accumulates the ten answers of one settings run. Nothing is persisted
// until the final step commits the whole draft at once. The struct is plain
// data so a session could be serialized and rehydrated.
type Draft struct {
	Position            string              `json:"position"`
	City                string              `json:"city"`
	MinSalary           *int                `json:"min_salary"`
	MetroStations       []string            `json:"metro_stations"`
	FreshnessDays       int                 `json:"freshness_days"`
	EmploymentTypes     []string            `json:"employment_types"`
	ExperienceLevel     string              `json:"experience_level"`
	OnlyDirectEmployers bool                `json:"only_direct_employers"`
	CompanySize         *domain.CompanySize `json:"company_size"`
	OnlyTopCompanies    bool                `json:"only_top_companies"`
}

// Filter converts the accumulated draft into a SearchFilter ready for the
// wholesale upsert.
func (d Draft) Filter() domain.SearchFilter {
	return domain.SearchFilter{
		Position:            d.Position,
		City:                d.City,
		MinSalary:           d.MinSalary,
		MetroStations:       d.MetroStations,
		FreshnessDays:       d.FreshnessDays,
		EmploymentTypes:     d.EmploymentTypes,
		ExperienceLevel:     d.ExperienceLevel,
		OnlyDirectEmployers: d.OnlyDirectEmployers,
		CompanySize:         d.CompanySize,
		OnlyTopCompanies:    d.OnlyTopCompanies,
	}
}

// Session is one user's in-progress settings run.
type Session struct {
	Step  Step  `json:"step"`
	Draft Draft `json:"draft"`
}

// Sessions keeps the active settings runs keyed by Telegram user id. Absence
// of a key is the idle state; concurrent users never share a session.
type Sessions struct {
	mu     sync.Mutex
	active map[int64]*Session
}

// NewSessions constructs an empty session store.
func NewSessions() *Sessions {
	return &Sessions{active: make(map[int64]*Session)}
}

// Begin starts a fresh session at the first step, discarding any previous one.
func (s *Sessions) Begin(telegramID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{Step: StepPosition}
	s.active[telegramID] = session

	return session
}

// Get returns the user's active session, if any.
func (s *Sessions) Get(telegramID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.active[telegramID]

	return session, ok
}

// Clear discards the user's session, returning the interaction to idle.
func (s *Sessions) Clear(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.active, telegramID)
}
