package docgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"tg_job_hunter_bot/internal/domain"
)

type fakeCompleter struct {
	content string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

type fakeDocumentStore struct {
	created []domain.GeneratedDocument
	err     error
}

func (f *fakeDocumentStore) Create(ctx context.Context, doc domain.GeneratedDocument) (domain.GeneratedDocument, error) {
	if f.err != nil {
		return domain.GeneratedDocument{}, f.err
	}
	doc.ID = uint(len(f.created) + 1)
	f.created = append(f.created, doc)
	return doc, nil
}

func newGenerator(c *fakeCompleter, s *fakeDocumentStore) *Generator {
	hookLogger, _ := logtest.NewNullLogger()
	return NewGenerator(c, s, logrus.NewEntry(hookLogger))
}

func TestResumeGeneratesAndStores(t *testing.T) {
	completer := &fakeCompleter{content: "готовое резюме"}
	docs := &fakeDocumentStore{}
	generator := newGenerator(completer, docs)

	user := domain.User{ID: 7, FullName: "Иван Петров"}
	vacancy := domain.Vacancy{ID: 3, Title: "Go developer", Company: "Acme"}

	stored, err := generator.Resume(context.Background(), user, vacancy)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}

	if stored.DocType != domain.DocResume || stored.Content != "готовое резюме" {
		t.Fatalf("unexpected document %+v", stored)
	}
	if stored.UserID != 7 || stored.VacancyID == nil || *stored.VacancyID != 3 {
		t.Fatalf("expected document tied to user and vacancy, got %+v", stored)
	}

	if len(completer.prompts) != 1 || !strings.Contains(completer.prompts[0], "Acme") {
		t.Fatalf("expected vacancy details in prompt, got %v", completer.prompts)
	}
}

func TestCoverLetterUsesOwnPrompt(t *testing.T) {
	completer := &fakeCompleter{content: "письмо"}
	docs := &fakeDocumentStore{}
	generator := newGenerator(completer, docs)

	stored, err := generator.CoverLetter(context.Background(), domain.User{ID: 7}, domain.Vacancy{ID: 3, Title: "Go developer"})
	if err != nil {
		t.Fatalf("cover letter: %v", err)
	}

	if stored.DocType != domain.DocCoverLetter {
		t.Fatalf("unexpected doc type %s", stored.DocType)
	}
	if !strings.Contains(completer.prompts[0], "сопроводительное письмо") {
		t.Fatalf("expected cover letter prompt, got %q", completer.prompts[0])
	}
}

func TestGenerateLLMErrorSkipsStore(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model unavailable")}
	docs := &fakeDocumentStore{}
	generator := newGenerator(completer, docs)

	_, err := generator.Resume(context.Background(), domain.User{ID: 7}, domain.Vacancy{ID: 3})
	if err == nil {
		t.Fatalf("expected error from completer")
	}
	if len(docs.created) != 0 {
		t.Fatalf("expected no document to be stored, got %d", len(docs.created))
	}
}

func TestGenerateStoreErrorPropagates(t *testing.T) {
	completer := &fakeCompleter{content: "text"}
	docs := &fakeDocumentStore{err: errors.New("db down")}
	generator := newGenerator(completer, docs)

	if _, err := generator.Resume(context.Background(), domain.User{ID: 7}, domain.Vacancy{ID: 3}); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}
