package dialog

import (
	"reflect"
	"testing"

	"tg_job_hunter_bot/internal/domain"
)

func TestAdvanceWalksAllStepsToDone(t *testing.T) {
	session := &Session{Step: StepPosition}

	answers := []string{
		"Go разработчик",
		"Москва",
		"150000",
		"Таганская, Китай-город",
		"2",
		"Полная занятость, Удалённая работа",
		"1–3 года",
		"Да",
		"Крупная компания",
		"Нет",
	}

	for i, answer := range answers {
		next, done, ok := Advance(session, answer)
		if !ok {
			t.Fatalf("step %d (%s): answer %q rejected", i, session.Step, answer)
		}
		if i < len(answers)-1 {
			if done {
				t.Fatalf("step %d: done too early", i)
			}
			if next.Text == "" {
				t.Fatalf("step %d: expected a next prompt", i)
			}
		} else if !done {
			t.Fatalf("expected the final answer to complete the draft")
		}
	}

	filter := session.Draft.Filter()

	salary := 150000
	large := domain.CompanyLarge
	want := domain.SearchFilter{
		Position:            "Go разработчик",
		City:                "Москва",
		MinSalary:           &salary,
		MetroStations:       []string{"Таганская", "Китай-город"},
		FreshnessDays:       2,
		EmploymentTypes:     []string{domain.EmploymentFull, domain.EmploymentRemote},
		ExperienceLevel:     domain.ExperienceJunior,
		OnlyDirectEmployers: true,
		CompanySize:         &large,
		OnlyTopCompanies:    false,
	}

	if !reflect.DeepEqual(filter, want) {
		t.Fatalf("draft filter mismatch\ngot:  %+v\nwant: %+v", filter, want)
	}
}

func TestAdvanceRejectionLeavesSessionUnchanged(t *testing.T) {
	session := &Session{Step: StepMinSalary}
	before := *session

	next, done, ok := Advance(session, "сто тысяч")
	if ok || done {
		t.Fatalf("expected rejection, got ok=%v done=%v", ok, done)
	}
	if next.Text != reprompts[StepMinSalary].Text {
		t.Fatalf("expected the salary re-prompt, got %q", next.Text)
	}
	if !reflect.DeepEqual(*session, before) {
		t.Fatalf("expected session to be unchanged, got %+v", session)
	}

	if _, _, ok := Advance(session, "120000"); !ok {
		t.Fatalf("expected valid retry to be accepted")
	}
	if session.Step != StepMetro {
		t.Fatalf("expected session to move to metro, got %s", session.Step)
	}
}

func TestAdvanceSkipsNormalizeToAbsent(t *testing.T) {
	session := &Session{Step: StepMetro}

	steps := []struct {
		answer string
	}{
		{"Пропустить"}, // metro
		{"1"},          // freshness
		{"неважно"},    // employment
		{"Нет опыта"},  // experience
		{"Нет"},        // direct only
		{"Пропустить"}, // company size
		{"Нет"},        // top companies
	}

	for _, s := range steps {
		if _, _, ok := Advance(session, s.answer); !ok {
			t.Fatalf("step %s: answer %q rejected", session.Step, s.answer)
		}
	}

	draft := session.Draft
	if draft.MetroStations != nil {
		t.Fatalf("expected skipped metro to be nil, got %v", draft.MetroStations)
	}
	if draft.EmploymentTypes != nil {
		t.Fatalf("expected skipped employment to be nil, got %v", draft.EmploymentTypes)
	}
	if draft.CompanySize != nil {
		t.Fatalf("expected skipped company size to be nil, got %v", draft.CompanySize)
	}
}

func TestPromptForEveryQuestionStep(t *testing.T) {
	for step := StepPosition; step < StepDone; step++ {
		if PromptFor(step).Text == "" {
			t.Fatalf("step %s has no prompt", step)
		}
	}
}
