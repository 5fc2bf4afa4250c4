package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"tg_job_hunter_bot/internal/domain"
)

// BuildResumePrompt builds the user message for an adapted resume. The
// vacancy's raw snippet, when present, is included as extra context.
func BuildResumePrompt(user domain.User, vacancy domain.Vacancy) string {
	var b strings.Builder

	b.WriteString("Составь адаптированное резюме для вакансии.\n\n")
	b.WriteString("Вакансия:\n")
	fmt.Fprintf(&b, "Название: %s\n", vacancy.Title)
	fmt.Fprintf(&b, "Компания: %s\n", vacancy.Company)
	fmt.Fprintf(&b, "Город: %s\n", vacancy.City)
	fmt.Fprintf(&b, "Зарплата: %s\n", formatSalary(vacancy))
	if snippet := rawSnippet(vacancy); snippet != "" {
		fmt.Fprintf(&b, "Описание: %s\n", snippet)
	}

	b.WriteString("\nПрофиль кандидата:\n")
	fmt.Fprintf(&b, "ФИО: %s\n", user.FullName)
	fmt.Fprintf(&b, "Город: %s\n", user.City)
	fmt.Fprintf(&b, "Желаемая должность: %s\n", user.DesiredPosition)
	fmt.Fprintf(&b, "Навыки: %s\n", user.Skills)
	fmt.Fprintf(&b, "Базовое резюме:\n%s\n", user.BaseResume)

	b.WriteString("\nСделай результат в виде аккуратного текстового резюме.")

	return b.String()
}

// BuildCoverLetterPrompt builds the user message for a short cover letter.
func BuildCoverLetterPrompt(user domain.User, vacancy domain.Vacancy) string {
	var b strings.Builder

	b.WriteString("Напиши короткое сопроводительное письмо к вакансии.\n\n")
	b.WriteString("Вакансия:\n")
	fmt.Fprintf(&b, "Название: %s\n", vacancy.Title)
	fmt.Fprintf(&b, "Компания: %s\n", vacancy.Company)
	fmt.Fprintf(&b, "Город: %s\n", vacancy.City)

	b.WriteString("\nКандидат:\n")
	fmt.Fprintf(&b, "ФИО: %s\n", user.FullName)
	fmt.Fprintf(&b, "Город: %s\n", user.City)
	fmt.Fprintf(&b, "Желаемая должность: %s\n", user.DesiredPosition)
	fmt.Fprintf(&b, "Основные навыки: %s\n", user.Skills)

	b.WriteString("\nНапиши вежливое, убедительное письмо на русском.")

	return b.String()
}

func formatSalary(vacancy domain.Vacancy) string {
	if vacancy.SalaryFrom == nil && vacancy.SalaryTo == nil {
		return "не указана"
	}

	var parts []string
	if vacancy.SalaryFrom != nil {
		parts = append(parts, fmt.Sprintf("от %d", *vacancy.SalaryFrom))
	}
	if vacancy.SalaryTo != nil {
		parts = append(parts, fmt.Sprintf("до %d", *vacancy.SalaryTo))
	}
	if vacancy.Currency != "" {
		parts = append(parts, vacancy.Currency)
	}

	return strings.Join(parts, " ")
}

func rawSnippet(vacancy domain.Vacancy) string {
	if len(vacancy.Raw) == 0 {
		return ""
	}

	var payload struct {
		Snippet struct {
			Requirement    string `json:"requirement"`
			Responsibility string `json:"responsibility"`
		} `json:"snippet"`
	}
	if err := json.Unmarshal(vacancy.Raw, &payload); err != nil {
		return ""
	}

	var parts []string
	if payload.Snippet.Responsibility != "" {
		parts = append(parts, payload.Snippet.Responsibility)
	}
	if payload.Snippet.Requirement != "" {
		parts = append(parts, payload.Snippet.Requirement)
	}

	return strings.Join(parts, " ")
}
