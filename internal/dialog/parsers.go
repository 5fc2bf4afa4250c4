package dialog

import (
	"strconv"
	"strings"

	"tg_job_hunter_bot/internal/domain"
)

// The answer parsers are pure functions over free-text replies. Each returns
// a tagged result: the normalized value plus an ok flag, where ok=false means
// the answer was not understood and the step must re-prompt.

var skipSentinels = map[string]bool{
	"пропустить": true,
	"/skip":      true,
	"нет":        true,
}

var employmentSkipSentinels = map[string]bool{
	"пропустить": true,
	"/skip":      true,
	"неважно":    true,
	"любая":      true,
}

var yesTokens = map[string]bool{
	"да":      true,
	"yes":     true,
	"y":       true,
	"true":    true,
	"ага":     true,
	"конечно": true,
}

var noTokens = map[string]bool{
	"нет":   true,
	"no":    true,
	"n":     true,
	"false": true,
	"неа":   true,
}

// ParseSalary parses a non-negative integer. Zero normalizes to nil ("no
// minimum"); negative or non-numeric input is rejected.
func ParseSalary(text string) (*int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < 0 {
		return nil, false
	}
	if value == 0 {
		return nil, true
	}

	return &value, true
}

// ParseMetro splits a comma-separated station list. Skip sentinels and an
// empty list after trimming both normalize to nil. Never rejects.
func ParseMetro(text string) []string {
	if skipSentinels[strings.ToLower(strings.TrimSpace(text))] {
		return nil
	}

	var stations []string
	for _, part := range strings.Split(text, ",") {
		if station := strings.TrimSpace(part); station != "" {
			stations = append(stations, station)
		}
	}

	return stations
}

// ParseFreshness accepts exactly 1, 2, or 3 days.
func ParseFreshness(text string) (int, bool) {
	days, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || days < 1 || days > 3 {
		return 0, false
	}

	return days, true
}

// ParseEmployment matches comma-separated clauses against the three
// employment categories by substring. Matches are cumulative across clauses,
// not mutually exclusive; one clause may set several categories. Skip
// sentinels and a matchless answer both normalize to nil. Never rejects.
func ParseEmployment(text string) []string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if employmentSkipSentinels[lowered] {
		return nil
	}

	matched := map[string]bool{}
	for _, clause := range strings.Split(lowered, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if strings.Contains(clause, "полная") {
			matched[domain.EmploymentFull] = true
		}
		if strings.Contains(clause, "частич") || strings.Contains(clause, "неполная") {
			matched[domain.EmploymentPart] = true
		}
		if strings.Contains(clause, "удал") || strings.Contains(clause, "дистанц") {
			matched[domain.EmploymentRemote] = true
		}
	}

	// Fixed order keeps the result deterministic for identical input.
	var result []string
	for _, code := range []string{domain.EmploymentFull, domain.EmploymentPart, domain.EmploymentRemote} {
		if matched[code] {
			result = append(result, code)
		}
	}

	return result
}

// ParseExperience matches the four experience brackets by substring, in the
// stated precedence when the text is ambiguous.
func ParseExperience(text string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.Contains(lowered, "нет"):
		return domain.ExperienceNone, true
	case strings.Contains(lowered, "1") || strings.Contains(lowered, "од"):
		return domain.ExperienceJunior, true
	case strings.Contains(lowered, "3") && strings.Contains(lowered, "6"):
		return domain.ExperienceMiddle, true
	case strings.Contains(lowered, "6") || strings.Contains(lowered, "более") || strings.Contains(lowered, "старше"):
		return domain.ExperienceSenior, true
	default:
		return "", false
	}
}

// ParseYesNo accepts a fixed set of affirmative and negative tokens,
// case-insensitive.
func ParseYesNo(text string) (bool, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	if yesTokens[lowered] {
		return true, true
	}
	if noTokens[lowered] {
		return false, true
	}

	return false, false
}

// ParseCompanySize matches the three size brackets by substring. A skip
// sentinel yields (nil, true); anything else unmatched is rejected.
func ParseCompanySize(text string) (*domain.CompanySize, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	if strings.Contains(lowered, "проп") || strings.Contains(lowered, "не важн") || strings.Contains(lowered, "любая") {
		return nil, true
	}

	var size domain.CompanySize
	switch {
	case strings.Contains(lowered, "мал"):
		size = domain.CompanySmall
	case strings.Contains(lowered, "сред"):
		size = domain.CompanyMedium
	case strings.Contains(lowered, "круп") || strings.Contains(lowered, "больш"):
		size = domain.CompanyLarge
	default:
		return nil, false
	}

	return &size, true
}
