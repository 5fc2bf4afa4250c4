package headhunter

import (
	"testing"
	"time"

	"tg_job_hunter_bot/internal/domain"
)

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestBuildParamsFullFilter(t *testing.T) {
	salary := 150000
	user := domain.User{ID: 1, City: "Казань", DesiredPosition: "Программист"}
	filter := domain.SearchFilter{
		Position:        "Go разработчик",
		City:            "Москва",
		MinSalary:       &salary,
		FreshnessDays:   2,
		EmploymentTypes: []string{domain.EmploymentFull, domain.EmploymentRemote},
		ExperienceLevel: domain.ExperienceJunior,
	}

	params := BuildParams(user, filter, fixedNow)

	if got := params.Get("text"); got != "Go разработчик" {
		t.Fatalf("expected filter position to win, got %q", got)
	}
	if got := params.Get("area"); got != "1" {
		t.Fatalf("expected Moscow area id, got %q", got)
	}
	if got := params.Get("salary"); got != "150000" {
		t.Fatalf("expected salary param, got %q", got)
	}
	if got := params.Get("only_with_salary"); got != "true" {
		t.Fatalf("expected only_with_salary, got %q", got)
	}
	if got := params.Get("date_from"); got != "2025-06-08T12:00:00" {
		t.Fatalf("expected date_from two days back, got %q", got)
	}
	if got := params["employment"]; len(got) != 1 || got[0] != "full" {
		t.Fatalf("expected full employment, got %v", got)
	}
	if got := params.Get("schedule"); got != "remote" {
		t.Fatalf("expected remote schedule, got %q", got)
	}
	if got := params.Get("experience"); got != "between1And3" {
		t.Fatalf("expected experience code, got %q", got)
	}
}

func TestBuildParamsFallsBackToProfile(t *testing.T) {
	user := domain.User{ID: 1, City: "Санкт-Петербург", DesiredPosition: "Повар"}
	filter := domain.SearchFilter{FreshnessDays: 1}

	params := BuildParams(user, filter, fixedNow)

	if got := params.Get("text"); got != "Повар" {
		t.Fatalf("expected profile position fallback, got %q", got)
	}
	if got := params.Get("area"); got != "2" {
		t.Fatalf("expected Saint Petersburg area id, got %q", got)
	}
	if params.Has("salary") || params.Has("only_with_salary") {
		t.Fatalf("expected no salary params without a minimum")
	}
	if params.Has("experience") {
		t.Fatalf("expected no experience param, got %q", params.Get("experience"))
	}
}

func TestBuildParamsNonPositiveSalaryOmitted(t *testing.T) {
	for _, salary := range []int{0, -1} {
		filter := domain.SearchFilter{MinSalary: &salary, FreshnessDays: 1}

		params := BuildParams(domain.User{ID: 1}, filter, fixedNow)

		if params.Has("salary") || params.Has("only_with_salary") {
			t.Fatalf("expected salary %d to be omitted, got %v", salary, params)
		}
	}
}

func TestBuildParamsUnknownCityOmitsArea(t *testing.T) {
	user := domain.User{ID: 1}
	filter := domain.SearchFilter{City: "Урюпинск", FreshnessDays: 1}

	params := BuildParams(user, filter, fixedNow)

	if params.Has("area") {
		t.Fatalf("expected unknown city to omit area, got %q", params.Get("area"))
	}
}

func TestBuildParamsFreshnessFloorsAtOneDay(t *testing.T) {
	params := BuildParams(domain.User{ID: 1}, domain.SearchFilter{}, fixedNow)

	if got := params.Get("date_from"); got != "2025-06-09T12:00:00" {
		t.Fatalf("expected one day back for zero freshness, got %q", got)
	}
}

func TestBuildParamsIsDeterministic(t *testing.T) {
	salary := 90000
	user := domain.User{ID: 1}
	filter := domain.SearchFilter{
		Position:        "Аналитик",
		City:            "спб",
		MinSalary:       &salary,
		FreshnessDays:   3,
		EmploymentTypes: []string{domain.EmploymentRemote, domain.EmploymentFull},
		ExperienceLevel: domain.ExperienceSenior,
	}

	first := BuildParams(user, filter, fixedNow).Encode()
	second := BuildParams(user, filter, fixedNow).Encode()

	if first != second {
		t.Fatalf("expected identical encodings\nfirst:  %s\nsecond: %s", first, second)
	}
}
