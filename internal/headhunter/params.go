package headhunter

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/logging"
)

// dateFromLayout is the timestamp format the vacancies endpoint accepts for
// the date_from parameter.
const dateFromLayout = "2006-01-02T15:04:05"

// cityAreaIDs maps normalized city names to area identifiers. Unknown cities
// are omitted from the query, which broadens the search instead of failing it.
var cityAreaIDs = map[string]string{
	"москва":           "1",
	"moscow":           "1",
	"санкт-петербург":  "2",
	"спб":              "2",
	"питер":            "2",
	"петербург":        "2",
	"saint petersburg": "2",
}

// experienceCodes maps stored experience levels to the API's enum values.
var experienceCodes = map[string]string{
	domain.ExperienceNone:   "noExperience",
	domain.ExperienceJunior: "between1And3",
	domain.ExperienceMiddle: "between3And6",
	domain.ExperienceSenior: "moreThan6",
}

// BuildParams translates a user's search filter into vacancies query
// parameters. The filter's position wins over the profile's desired position;
// metro stations, direct-employer, company-size, and top-companies preferences
// have no API counterpart and are applied only as stored preferences.
func BuildParams(user domain.User, filter domain.SearchFilter, now time.Time) url.Values {
	params := url.Values{}

	text := filter.Position
	if text == "" {
		text = user.DesiredPosition
	}
	if text != "" {
		params.Set("text", text)
	}

	city := filter.City
	if city == "" {
		city = user.City
	}
	if city != "" {
		if area, ok := cityAreaIDs[strings.ToLower(strings.TrimSpace(city))]; ok {
			params.Set("area", area)
		} else {
			logging.Warn("city has no area mapping, searching without area", logging.Fields{
				"event":   "hh_area_unknown",
				"user_id": user.ID,
				"city":    city,
			})
		}
	}

	if filter.MinSalary != nil && *filter.MinSalary > 0 {
		params.Set("salary", strconv.Itoa(*filter.MinSalary))
		params.Set("only_with_salary", "true")
	}

	days := filter.FreshnessDays
	if days < 1 {
		days = 1
	}
	from := now.UTC().AddDate(0, 0, -days)
	params.Set("date_from", from.Format(dateFromLayout))

	for _, employment := range filter.EmploymentTypes {
		switch employment {
		case domain.EmploymentFull:
			params.Add("employment", "full")
		case domain.EmploymentPart:
			params.Add("employment", "part")
		case domain.EmploymentRemote:
			params.Add("schedule", "remote")
		default:
			logging.Warn("unknown employment type skipped", logging.Fields{
				"event":      "hh_employment_unknown",
				"employment": employment,
			})
		}
	}

	if code, ok := experienceCodes[filter.ExperienceLevel]; ok {
		params.Set("experience", code)
	}

	return params
}
