// Package docgen turns a user profile and a vacancy into generated documents
// and records every generation.
package docgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/llm"
	"tg_job_hunter_bot/internal/logging"
)

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type documentStore interface {
	Create(ctx context.Context, doc domain.GeneratedDocument) (domain.GeneratedDocument, error)
}

// Generator produces adapted resumes and cover letters. Every successful
// generation is persisted as an immutable record tied to the user and, when
// present, the vacancy.
type Generator struct {
	llm       completer
	documents documentStore
	logger    *logrus.Entry
}

// NewGenerator constructs a Generator.
func NewGenerator(llm completer, documents documentStore, logger *logrus.Entry) *Generator {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Generator{
		llm:       llm,
		documents: documents,
		logger:    logger,
	}
}

// Resume generates an adapted resume for the vacancy and stores it.
func (g *Generator) Resume(ctx context.Context, user domain.User, vacancy domain.Vacancy) (domain.GeneratedDocument, error) {
	return g.generate(ctx, user, vacancy, domain.DocResume, llm.BuildResumePrompt(user, vacancy))
}

// CoverLetter generates a cover letter for the vacancy and stores it.
func (g *Generator) CoverLetter(ctx context.Context, user domain.User, vacancy domain.Vacancy) (domain.GeneratedDocument, error) {
	return g.generate(ctx, user, vacancy, domain.DocCoverLetter, llm.BuildCoverLetterPrompt(user, vacancy))
}

func (g *Generator) generate(ctx context.Context, user domain.User, vacancy domain.Vacancy, docType domain.DocumentType, prompt string) (domain.GeneratedDocument, error) {
	if g == nil || g.llm == nil || g.documents == nil {
		return domain.GeneratedDocument{}, errors.New("document generator is not initialized")
	}
	if ctx == nil {
		return domain.GeneratedDocument{}, errors.New("context is required")
	}

	content, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return domain.GeneratedDocument{}, fmt.Errorf("generate %s: %w", docType, err)
	}

	doc := domain.GeneratedDocument{
		UserID:  user.ID,
		DocType: docType,
		Content: content,
	}
	if vacancy.ID != 0 {
		vacancyID := vacancy.ID
		doc.VacancyID = &vacancyID
	}

	stored, err := g.documents.Create(ctx, doc)
	if err != nil {
		return domain.GeneratedDocument{}, fmt.Errorf("store %s: %w", docType, err)
	}

	g.logger.WithFields(logging.Fields{
		"event":      "document_generated",
		"user_id":    user.ID,
		"vacancy_id": vacancy.ID,
		"doc_type":   docType,
	}).Info("document generated")

	return stored, nil
}
