package dialog

import "strings"

// Prompt is what the bot should send for a step: the question text and
// optional reply-keyboard rows. The transport layer turns Buttons into a
// Telegram keyboard.
type Prompt struct {
	Text    string
	Buttons [][]string
}

var prompts = map[Step]Prompt{
	StepPosition: {
		Text: "Какую должность ищем?",
	},
	StepCity: {
		Text: "В каком городе ищем вакансии?",
	},
	StepMinSalary: {
		Text: "Минимальная желаемая зарплата (число)?\nЕсли без ограничения — напиши 0.",
	},
	StepMetro: {
		Text: "Около каких станций метро искать вакансии?\n\n" +
			"Перечисли через запятую (например: «Таганская, Китай-город»)\n" +
			"или нажми «Пропустить», если метро не важно.",
		Buttons: [][]string{{"Пропустить"}},
	},
	StepFreshness: {
		Text: "Свежесть вакансий в днях (1–3)?",
	},
	StepEmployment: {
		Text: "Тип занятости?\nМожешь перечислить через запятую: " +
			"«Полная занятость, Удалённая работа».\n" +
			"Если не важно — напиши «пропустить».",
		Buttons: [][]string{
			{"Полная занятость"},
			{"Частичная занятость"},
			{"Удалённая работа"},
			{"Несколько вариантов (через запятую)"},
		},
	},
	StepExperience: {
		Text: "Какой опыт работы должен быть в вакансиях?\nВыбери один вариант.",
		Buttons: [][]string{
			{"Нет опыта"},
			{"1–3 года"},
			{"3–6 лет"},
			{"Более 6 лет"},
		},
	},
	StepDirectOnly: {
		Text:    "Только прямые работодатели (без агентств)?",
		Buttons: [][]string{{"Да"}, {"Нет"}},
	},
	StepCompanySize: {
		Text: "Размер компании?\n" +
			"Можно выбрать: «Малая компания», «Средняя компания», " +
			"«Крупная компания» или «Пропустить».",
		Buttons: [][]string{
			{"Малая компания"},
			{"Средняя компания"},
			{"Крупная компания"},
			{"Пропустить"},
		},
	},
	StepTopCompanies: {
		Text: "Только ТОП-компании?\n(если «Да» — будут отфильтрованы только " +
			"лучшие работодатели, когда это возможно).",
		Buttons: [][]string{{"Да"}, {"Нет"}},
	},
}

var reprompts = map[Step]Prompt{
	StepMinSalary: {
		Text: "Нужно неотрицательное число. Попробуй ещё раз.",
	},
	StepFreshness: {
		Text:    "Нужно число 1, 2 или 3.",
		Buttons: [][]string{{"1", "2", "3"}},
	},
	StepExperience: {
		Text: "Не понял опыт. Напиши, пожалуйста, один из вариантов:\n" +
			"«Нет опыта», «1–3 года», «3–6 лет», «Более 6 лет».",
	},
	StepDirectOnly: {
		Text: "Ответь, пожалуйста, «Да» или «Нет».",
	},
	StepCompanySize: {
		Text: "Не понял размер компании. Напиши: «Малая компания», " +
			"«Средняя компания», «Крупная компания» или «Пропустить».",
	},
	StepTopCompanies: {
		Text: "Ответь, пожалуйста, «Да» или «Нет».",
	},
}

// PromptFor returns the question for a step.
func PromptFor(step Step) Prompt {
	return prompts[step]
}

// Advance validates the input against the session's current step. On success
// the answer is stored in the draft and the session moves to the next step;
// the returned prompt is the next question. On a validation failure the
// session is unchanged and the returned prompt is the corrective re-prompt.
// done reports that the final answer was accepted and the draft is complete.
func Advance(session *Session, input string) (next Prompt, done bool, ok bool) {
	switch session.Step {
	case StepPosition:
		session.Draft.Position = strings.TrimSpace(input)

	case StepCity:
		session.Draft.City = strings.TrimSpace(input)

	case StepMinSalary:
		salary, valid := ParseSalary(input)
		if !valid {
			return reprompts[StepMinSalary], false, false
		}
		session.Draft.MinSalary = salary

	case StepMetro:
		session.Draft.MetroStations = ParseMetro(input)

	case StepFreshness:
		days, valid := ParseFreshness(input)
		if !valid {
			return reprompts[StepFreshness], false, false
		}
		session.Draft.FreshnessDays = days

	case StepEmployment:
		session.Draft.EmploymentTypes = ParseEmployment(input)

	case StepExperience:
		level, valid := ParseExperience(input)
		if !valid {
			return reprompts[StepExperience], false, false
		}
		session.Draft.ExperienceLevel = level

	case StepDirectOnly:
		value, valid := ParseYesNo(input)
		if !valid {
			return reprompts[StepDirectOnly], false, false
		}
		session.Draft.OnlyDirectEmployers = value

	case StepCompanySize:
		size, valid := ParseCompanySize(input)
		if !valid {
			return reprompts[StepCompanySize], false, false
		}
		session.Draft.CompanySize = size

	case StepTopCompanies:
		value, valid := ParseYesNo(input)
		if !valid {
			return reprompts[StepTopCompanies], false, false
		}
		session.Draft.OnlyTopCompanies = value

	default:
		return Prompt{}, false, false
	}

	session.Step++
	if session.Step == StepDone {
		return Prompt{}, true, true
	}

	return prompts[session.Step], false, true
}
