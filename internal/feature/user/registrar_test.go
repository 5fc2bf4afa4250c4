package user

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/store"
)

type fakeUserStore struct {
	users   map[int64]domain.User
	updates map[uint]store.ProfileUpdate
	nextID  uint
	err     error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:   map[int64]domain.User{},
		updates: map[uint]store.ProfileUpdate{},
	}
}

func (f *fakeUserStore) GetOrCreate(ctx context.Context, telegramID int64) (domain.User, error) {
	if f.err != nil {
		return domain.User{}, f.err
	}
	if user, ok := f.users[telegramID]; ok {
		return user, nil
	}
	f.nextID++
	user := domain.User{ID: f.nextID, TelegramID: telegramID}
	f.users[telegramID] = user
	return user, nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, userID uint, update store.ProfileUpdate) error {
	if f.err != nil {
		return f.err
	}
	f.updates[userID] = update
	return nil
}

func newRegistrar(s *fakeUserStore) *Registrar {
	hookLogger, _ := logtest.NewNullLogger()
	return NewRegistrar(s, logrus.NewEntry(hookLogger))
}

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile("Иван Петров\nМосква\nGo разработчик\nGo\nPostgreSQL")
	if err != nil {
		t.Fatalf("parse profile: %v", err)
	}

	if profile.FullName != "Иван Петров" || profile.City != "Москва" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.DesiredPosition != "Go разработчик" {
		t.Fatalf("unexpected position %q", profile.DesiredPosition)
	}
	if profile.Skills != "Go,PostgreSQL" {
		t.Fatalf("expected joined skills, got %q", profile.Skills)
	}
}

func TestParseProfileWithoutSkills(t *testing.T) {
	profile, err := ParseProfile("Иван Петров\nМосква\nПовар")
	if err != nil {
		t.Fatalf("parse profile: %v", err)
	}
	if profile.Skills != "" {
		t.Fatalf("expected empty skills, got %q", profile.Skills)
	}
}

func TestParseProfileTooShort(t *testing.T) {
	for _, text := range []string{"", "Иван Петров", "Иван Петров\nМосква", "Иван\n\nПовар"} {
		if _, err := ParseProfile(text); !errors.Is(err, ErrProfileTooShort) {
			t.Fatalf("ParseProfile(%q) = %v, want ErrProfileTooShort", text, err)
		}
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	fake := newFakeUserStore()
	registrar := newRegistrar(fake)
	ctx := context.Background()

	first, err := registrar.EnsureUser(ctx, 123)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	second, err := registrar.EnsureUser(ctx, 123)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected the same user, got %d and %d", first.ID, second.ID)
	}
}

func TestEnsureUserValidation(t *testing.T) {
	registrar := newRegistrar(newFakeUserStore())

	if _, err := registrar.EnsureUser(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero telegram id")
	}
	if _, err := registrar.EnsureUser(nil, 123); err == nil {
		t.Fatalf("expected error for nil context")
	}
}

func TestSaveProfileWritesAllFields(t *testing.T) {
	fake := newFakeUserStore()
	registrar := newRegistrar(fake)

	profile := Profile{FullName: "Иван Петров", City: "Москва", DesiredPosition: "Повар", Skills: "готовка"}
	if err := registrar.SaveProfile(context.Background(), 7, profile); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	update, ok := fake.updates[7]
	if !ok {
		t.Fatalf("expected an update for user 7")
	}
	if update.FullName == nil || *update.FullName != "Иван Петров" {
		t.Fatalf("unexpected full name update %+v", update)
	}
	if update.BaseResume != nil {
		t.Fatalf("did not expect base resume in profile update")
	}
}

func TestSaveBaseResumeRejectsEmpty(t *testing.T) {
	registrar := newRegistrar(newFakeUserStore())

	if err := registrar.SaveBaseResume(context.Background(), 7, "   "); err == nil {
		t.Fatalf("expected error for empty resume")
	}
}

func TestSaveBaseResumeTrims(t *testing.T) {
	fake := newFakeUserStore()
	registrar := newRegistrar(fake)

	if err := registrar.SaveBaseResume(context.Background(), 7, "  опыт 4 года  "); err != nil {
		t.Fatalf("save base resume: %v", err)
	}

	update := fake.updates[7]
	if update.BaseResume == nil || *update.BaseResume != "опыт 4 года" {
		t.Fatalf("expected trimmed resume, got %+v", update)
	}
}
