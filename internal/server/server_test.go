package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jparise/gh-discover/internal/discovery"
	"github.com/jparise/gh-discover/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDiscoverer struct {
	page        discovery.Page
	panics      bool
	intent      discovery.Intent
	calls       int
	hadDeadline bool
}

func (f *fakeDiscoverer) Discover(ctx context.Context, intent discovery.Intent) discovery.Page {
	f.calls++
	f.intent = intent
	_, f.hadDeadline = ctx.Deadline()
	if f.panics {
		panic("boom")
	}
	return f.page
}

func newTestRouter(d Discoverer) *gin.Engine {
	return NewRouter(d, Options{
		AllowedOrigins: []string{"https://app.example"},
		RequestTimeout: 5 * time.Second,
		Version:        "test",
	})
}

func get(t *testing.T, router http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearch_Params(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantFilter  discovery.Filter
		wantLang    string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/search", discovery.FilterDefault, "", 1, 10},
		{"all params", "/search?filter=bounty-issue&language=Go&page=3&per_page=25", discovery.FilterBountyIssue, "Go", 3, 25},
		{"good first issue", "/search?filter=good-first-issue", discovery.FilterGoodFirstIssue, "", 1, 10},
		{"unknown filter", "/search?filter=trending", discovery.FilterDefault, "", 1, 10},
		{"page clamped", "/search?page=0", discovery.FilterDefault, "", 1, 10},
		{"negative page clamped", "/search?page=-4", discovery.FilterDefault, "", 1, 10},
		{"per page clamped high", "/search?per_page=500", discovery.FilterDefault, "", 1, 50},
		{"per page clamped low", "/search?per_page=0", discovery.FilterDefault, "", 1, 1},
		{"empty values", "/search?page=&per_page=", discovery.FilterDefault, "", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDiscoverer{page: discovery.Page{Items: []discovery.Item{}}}
			rec := get(t, newTestRouter(fake), tt.target, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, 1, fake.calls)
			assert.Equal(t, tt.wantFilter, fake.intent.Filter)
			assert.Equal(t, tt.wantLang, fake.intent.Language)
			assert.Equal(t, tt.wantPage, fake.intent.Page)
			assert.Equal(t, tt.wantPerPage, fake.intent.PerPage)
			assert.True(t, fake.hadDeadline, "request context should carry a deadline")
		})
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"page not a number", "/search?page=two"},
		{"per page not a number", "/search?per_page=lots"},
		{"fractional page", "/search?page=1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDiscoverer{}
			rec := get(t, newTestRouter(fake), tt.target, nil)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, fake.calls)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "invalid_request", body.Error)
			assert.NotEmpty(t, body.Message)
			assert.NotEmpty(t, body.Details)
		})
	}
}

func TestSearch_Response(t *testing.T) {
	language := "Go"
	fake := &fakeDiscoverer{page: discovery.Page{
		Items: []discovery.Item{
			{ID: 1, FullName: "a/one", Language: &language, Stars: 500},
		},
		HasMore:    true,
		TotalCount: 42,
		Tier:       "default",
	}}

	rec := get(t, newTestRouter(fake), "/search", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["hasMore"])
	assert.EqualValues(t, 42, body["totalCount"])
	assert.NotContains(t, body, "error")

	items, ok := body["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "a/one", item["full_name"])
	assert.Equal(t, "Go", item["language"])
	assert.EqualValues(t, 500, item["stargazers_count"])
}

func TestSearch_DegradedIsOK(t *testing.T) {
	fake := &fakeDiscoverer{page: discovery.Page{
		Items: []discovery.Item{},
		Error: "all search strategies exhausted: search unavailable",
	}}

	rec := get(t, newTestRouter(fake), "/search?filter=bounty-issue", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"items": [],
		"hasMore": false,
		"totalCount": 0,
		"error": "all search strategies exhausted: search unavailable"
	}`, rec.Body.String())
}

// staticSearcher answers every bounty search with one referenced repository.
type staticSearcher struct{}

func (staticSearcher) SearchRepositories(context.Context, string, github.SearchOptions) (github.RepositoryPage, error) {
	return github.RepositoryPage{}, nil
}

func (staticSearcher) SearchIssues(context.Context, string, github.SearchOptions) (github.IssuePage, error) {
	return github.IssuePage{Issues: []github.Issue{{Number: 1, Repo: github.RepoRef{Owner: "a", Name: "top"}}}}, nil
}

func (staticSearcher) GetRepo(context.Context, github.RepoRef) (github.Repository, error) {
	return github.Repository{ID: 1, FullName: "a/top", Stars: 900, PushedAt: time.Now()}, nil
}

func TestSearch_HugePageIsEmpty(t *testing.T) {
	d, err := discovery.New(staticSearcher{}, discovery.Options{})
	require.NoError(t, err)

	rec := get(t, newTestRouter(d), "/search?filter=bounty-issue&page=4611686018427387905", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items": [], "hasMore": false, "totalCount": 0}`, rec.Body.String())
}

func TestSearch_PanicIsInternalError(t *testing.T) {
	rec := get(t, newTestRouter(&fakeDiscoverer{panics: true}), "/search", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(&fakeDiscoverer{page: discovery.Page{Items: []discovery.Item{}}})

	rec := get(t, router, "/health", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = get(t, router, "/health", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(&fakeDiscoverer{page: discovery.Page{Items: []discovery.Item{}}})

	rec := get(t, router, "/search", map[string]string{"Origin": "https://app.example"})
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, router, "/search", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestRouter(&fakeDiscoverer{}), "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.False(t, body.Timestamp.IsZero())
}
