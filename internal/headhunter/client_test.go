package headhunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const sampleSearchBody = `{
	"found": 2,
	"items": [
		{
			"id": "111",
			"name": "Go developer",
			"alternate_url": "https://hh.ru/vacancy/111",
			"published_at": "2025-06-09T10:30:00+0300",
			"employer": {"name": "Acme"},
			"area": {"name": "Москва"},
			"salary": {"from": 200000, "to": 300000, "currency": "RUR"}
		},
		{
			"id": "222",
			"name": "Backend developer",
			"alternate_url": "https://hh.ru/vacancy/222",
			"published_at": "2025-06-09T11:00:00+0300",
			"employer": {"name": "Globex"},
			"area": {"name": "Москва"},
			"salary": null
		}
	]
}`

func TestSearchDecodesItems(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vacancies" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleSearchBody))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	params := url.Values{}
	params.Set("text", "Go разработчик")

	items, err := client.Search(context.Background(), params, 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotQuery.Get("per_page") != "20" {
		t.Fatalf("expected per_page param, got %v", gotQuery)
	}
	if gotQuery.Has("page") {
		t.Fatalf("did not expect a page param, got %v", gotQuery)
	}
	if gotQuery.Get("text") != "Go разработчик" {
		t.Fatalf("expected text to pass through, got %q", gotQuery.Get("text"))
	}

	if len(items) != 2 {
		t.Fatalf("expected two items, got %d", len(items))
	}

	first := items[0]
	if first.ID != "111" || first.Name != "Go developer" || first.Employer != "Acme" {
		t.Fatalf("unexpected first item %+v", first)
	}
	if first.SalaryFrom == nil || *first.SalaryFrom != 200000 || first.Currency != "RUR" {
		t.Fatalf("unexpected salary on first item %+v", first)
	}
	if first.PublishedAt == nil {
		t.Fatalf("expected published_at to parse")
	}
	if len(first.Raw) == 0 || !strings.Contains(string(first.Raw), `"id": "111"`) {
		t.Fatalf("expected raw payload to be preserved, got %s", first.Raw)
	}

	second := items[1]
	if second.SalaryFrom != nil || second.SalaryTo != nil || second.Currency != "" {
		t.Fatalf("expected null salary to stay empty, got %+v", second)
	}
}

func TestSearchNonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"type":"captcha_required"}]}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), url.Values{}, 5)
	if err == nil {
		t.Fatalf("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestSearchZeroLimitShortCircuits(t *testing.T) {
	client := NewClient(WithBaseURL("http://127.0.0.1:1"))

	items, err := client.Search(context.Background(), url.Values{}, 0)
	if err != nil || items != nil {
		t.Fatalf("expected no request and no items, got %v %v", items, err)
	}
}
