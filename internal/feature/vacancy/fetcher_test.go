package vacancy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg_job_hunter_bot/internal/domain"
	"tg_job_hunter_bot/internal/headhunter"
	"tg_job_hunter_bot/internal/store"
)

type fakeSearch struct {
	items []headhunter.SearchItem
	err   error
	calls int
}

func (f *fakeSearch) Search(ctx context.Context, params url.Values, limit int) ([]headhunter.SearchItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func newTestStore(t *testing.T) *store.Manager {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	m := store.NewWithDB(db)
	if err := m.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })

	return m
}

func newFetcher(search *fakeSearch, m *store.Manager) *Fetcher {
	hookLogger, _ := logtest.NewNullLogger()
	return NewFetcher(search, m.Vacancies(), logrus.NewEntry(hookLogger))
}

func searchItem(id, name string) headhunter.SearchItem {
	return headhunter.SearchItem{
		ID:           id,
		Name:         name,
		Employer:     "Acme",
		Area:         "Москва",
		AlternateURL: "https://hh.ru/vacancy/" + id,
	}
}

func TestFetchForUserStoresAndLinks(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	user, err := m.Users().GetOrCreate(ctx, 100)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	search := &fakeSearch{items: []headhunter.SearchItem{
		searchItem("v-1", "Go developer"),
		searchItem("v-2", "Backend developer"),
	}}
	fetcher := newFetcher(search, m)

	fresh, err := fetcher.FetchForUser(ctx, user, domain.SearchFilter{Position: "Go", FreshnessDays: 1}, 20)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(fresh) != 2 {
		t.Fatalf("expected two fresh vacancies, got %d", len(fresh))
	}

	count, err := m.Stats().CountVacancies(ctx)
	if err != nil {
		t.Fatalf("count vacancies: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected two vacancy rows, got %d", count)
	}
}

func TestFetchTwiceYieldsNoDuplicates(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	user, err := m.Users().GetOrCreate(ctx, 100)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	search := &fakeSearch{items: []headhunter.SearchItem{searchItem("v-1", "Go developer")}}
	fetcher := newFetcher(search, m)
	filter := domain.SearchFilter{Position: "Go", FreshnessDays: 1}

	first, err := fetcher.FetchForUser(ctx, user, filter, 20)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected one fresh vacancy, got %d", len(first))
	}

	second, err := fetcher.FetchForUser(ctx, user, filter, 20)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected no fresh vacancies on re-fetch, got %d", len(second))
	}

	count, err := m.Stats().CountVacancies(ctx)
	if err != nil {
		t.Fatalf("count vacancies: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single vacancy row, got %d", count)
	}
}

func TestFetchDoesNotResetSentStatus(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	user, err := m.Users().GetOrCreate(ctx, 100)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	search := &fakeSearch{items: []headhunter.SearchItem{searchItem("v-1", "Go developer")}}
	fetcher := newFetcher(search, m)
	filter := domain.SearchFilter{Position: "Go", FreshnessDays: 1}

	fresh, err := fetcher.FetchForUser(ctx, user, filter, 20)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	if err := m.Vacancies().MarkSent(ctx, user.ID, []uint{fresh[0].ID}); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	if _, err := fetcher.FetchForUser(ctx, user, filter, 20); err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	unsent, err := m.Vacancies().UnsentForUser(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("unsent: %v", err)
	}
	if len(unsent) != 0 {
		t.Fatalf("expected sent vacancy to stay sent, got %d unsent", len(unsent))
	}
}

func TestFetchPropagatesSearchError(t *testing.T) {
	m := newTestStore(t)
	search := &fakeSearch{err: errors.New("api down")}
	fetcher := newFetcher(search, m)

	_, err := fetcher.FetchForUser(context.Background(), domain.User{ID: 1}, domain.SearchFilter{}, 20)
	if err == nil {
		t.Fatalf("expected search error to propagate")
	}
}

func TestTwoUsersShareVacancyRows(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	alice, err := m.Users().GetOrCreate(ctx, 100)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	bob, err := m.Users().GetOrCreate(ctx, 200)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	search := &fakeSearch{items: []headhunter.SearchItem{searchItem("v-1", "Go developer")}}
	fetcher := newFetcher(search, m)
	filter := domain.SearchFilter{Position: "Go", FreshnessDays: 1}

	if _, err := fetcher.FetchForUser(ctx, alice, filter, 20); err != nil {
		t.Fatalf("fetch for alice: %v", err)
	}
	fresh, err := fetcher.FetchForUser(ctx, bob, filter, 20)
	if err != nil {
		t.Fatalf("fetch for bob: %v", err)
	}

	if len(fresh) != 1 {
		t.Fatalf("expected vacancy to be fresh for the second user, got %d", len(fresh))
	}

	count, err := m.Stats().CountVacancies(ctx)
	if err != nil {
		t.Fatalf("count vacancies: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected shared vacancy row, got %d", count)
	}
}
