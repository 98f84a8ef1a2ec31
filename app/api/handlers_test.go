package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tapirio/techlife/app/assets"
	"github.com/tapirio/techlife/app/blog"
	"github.com/tapirio/techlife/app/cfg"
	"github.com/tapirio/techlife/app/episode"
	"github.com/tapirio/techlife/app/feed"
	"github.com/tapirio/techlife/app/questions"
)

func setupTestConfig() {
	// Clear os.Args to prevent config parsing from failing
	oldArgs := os.Args
	os.Args = []string{"test"}
	defer func() { os.Args = oldArgs }()

	cfg.Load()
}

func testEpisodes() []feed.Episode {
	summary := "Про инфраструктуру"
	return []feed.Episode{
		{
			Number:          "6",
			Title:           "Title B",
			PubDate:         "Mon, 09 Jan 2023 10:00:00 GMT",
			PubDateDisplay:  "9 января 2023",
			PublishedAt:     time.Date(2023, 1, 9, 10, 0, 0, 0, time.UTC),
			DurationSeconds: 3600,
			Tags:            []string{},
		},
		{
			Number:          "5",
			Title:           "Title A",
			Subtitle:        "Короткое описание",
			Description:     "<p>Описание пятого эпизода</p><ul><li>Ссылка раз</li></ul>",
			PubDate:         "Mon, 02 Jan 2023 10:00:00 UTC",
			PubDateDisplay:  "2 января 2023",
			PublishedAt:     time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC),
			DurationSeconds: 1800,
			Tags:            []string{"Technology"},
			Summary:         &summary,
		},
	}
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	setupTestConfig()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "podcast-feed.xml"), []byte("<rss/>"), 0644); err != nil {
		t.Fatalf("Failed to seed public dir: %v", err)
	}

	library, err := blog.NewLibrary(filepath.Join(dir, "articles"))
	if err != nil {
		t.Fatalf("Failed to build library: %v", err)
	}

	store := questions.NewStore(filepath.Join(dir, "listener-questions.json"))

	handler := NewHandler(
		&feed.Metadata{Title: "Технологии и жизнь"},
		episode.NewCatalog(testEpisodes()),
		library,
		questions.NewGate(store),
		store,
		assets.NewCacheBuster(dir),
	)

	return NewServer(handler)
}

func doRequest(t *testing.T, server *gin.Engine, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestGetEpisode(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/api/episode/5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}

	var ep feed.Episode
	if err := json.Unmarshal(w.Body.Bytes(), &ep); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if ep.Number != "5" || ep.Title != "Title A" {
		t.Errorf("Unexpected episode: %+v", ep)
	}
	if ep.Summary == nil || *ep.Summary != "Про инфраструктуру" {
		t.Errorf("Expected summary, got: %v", ep.Summary)
	}
}

func TestGetEpisodeUnknownReturnsNull(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/api/episode/99", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "null" {
		t.Errorf("Expected JSON null, got: %s", w.Body.String())
	}
}

func TestGetEpisodePage(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/episodes/6", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}

	var page struct {
		Episode     *feed.Episode `json:"episode"`
		NextEpisode *feed.Episode `json:"nextEpisode"`
		PrevEpisode *feed.Episode `json:"prevEpisode"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if page.Episode == nil || page.Episode.Number != "6" {
		t.Fatalf("Unexpected episode: %+v", page.Episode)
	}
	// Next walks toward older episodes; 6 is the newest so prev is null
	if page.NextEpisode == nil || page.NextEpisode.Number != "5" {
		t.Errorf("Expected next episode 5, got: %+v", page.NextEpisode)
	}
	if page.PrevEpisode != nil {
		t.Errorf("Expected no previous episode, got: %+v", page.PrevEpisode)
	}

	w = doRequest(t, server, "GET", "/episodes/99", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown episode, got: %d", w.Code)
	}
}

func TestGetInfo(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/podcast-feed.xml?v=") {
		t.Errorf("Expected versioned feed link, got: %s", w.Body.String())
	}
}

func TestListEpisodesNewestFirst(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/api/episodes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}

	var episodes []feed.Episode
	if err := json.Unmarshal(w.Body.Bytes(), &episodes); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(episodes) != 2 || episodes[0].Number != "6" {
		t.Errorf("Expected [6 5], got: %+v", episodes)
	}
}

func TestListTags(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/api/tags", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}

	var facets []episode.TagFacet
	if err := json.Unmarshal(w.Body.Bytes(), &facets); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(facets) != 1 || facets[0].Name != "Technology" || facets[0].Count != 1 {
		t.Errorf("Expected [{Technology 1}], got: %+v", facets)
	}
}

func TestGetEpisodesByTag(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/api/tags/Technology", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}

	var episodes []feed.Episode
	if err := json.Unmarshal(w.Body.Bytes(), &episodes); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(episodes) != 1 || episodes[0].Number != "5" {
		t.Errorf("Expected episode 5, got: %+v", episodes)
	}

	// Unknown tag is a 404, decided here rather than in the facet index
	w = doRequest(t, server, "GET", "/api/tags/Nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown tag, got: %d", w.Code)
	}
}

func TestSubmitQuestion(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{}
	form.Set("question", "Когда новый эпизод?")
	form.Set("privacy", "true")
	form.Set("formStartTime", strconv.FormatInt(time.Now().Add(-10*time.Second).UnixMilli(), 10))

	w := doRequest(t, server, "POST", "/voprosy", form)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("Expected success response, got: %s", w.Body.String())
	}
}

func TestSubmitQuestionCheckboxPrivacy(t *testing.T) {
	server := newTestServer(t)

	// A plain HTML checkbox posts "on", not a boolean literal
	form := url.Values{}
	form.Set("question", "Вопрос от формы")
	form.Set("privacy", "on")
	form.Set("formStartTime", strconv.FormatInt(time.Now().Add(-10*time.Second).UnixMilli(), 10))

	w := doRequest(t, server, "POST", "/voprosy", form)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("Expected success response, got: %s", w.Body.String())
	}
}

func TestSubmitQuestionValidation(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{}
	form.Set("question", "   ")
	form.Set("privacy", "true")
	form.Set("formStartTime", strconv.FormatInt(time.Now().Add(-10*time.Second).UnixMilli(), 10))

	w := doRequest(t, server, "POST", "/ask", form)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), questions.MsgQuestionRequired) {
		t.Errorf("Expected question-required message, got: %s", w.Body.String())
	}
}

func TestSubmitQuestionRateLimit(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{}
	form.Set("question", "Вопрос")
	form.Set("privacy", "true")
	form.Set("formStartTime", strconv.FormatInt(time.Now().Add(-10*time.Second).UnixMilli(), 10))

	for i := 0; i < 3; i++ {
		if w := doRequest(t, server, "POST", "/question", form); w.Code != http.StatusOK {
			t.Fatalf("Expected submission %d accepted, got: %d", i+1, w.Code)
		}
	}

	w := doRequest(t, server, "POST", "/question", form)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 for 4th submission, got: %d", w.Code)
	}
}

func TestListQuestionsAdmin(t *testing.T) {
	server := newTestServer(t)

	form := url.Values{}
	form.Set("name", "Слушатель")
	form.Set("question", "Вопрос про сеть")
	form.Set("category", "technology")
	form.Set("privacy", "true")
	form.Set("formStartTime", strconv.FormatInt(time.Now().Add(-10*time.Second).UnixMilli(), 10))
	doRequest(t, server, "POST", "/voprosy", form)

	w := doRequest(t, server, "GET", "/adminka/voprosy", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Вопрос про сеть") {
		t.Errorf("Expected submitted question in listing, got: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Технологии") {
		t.Errorf("Expected category display name, got: %s", w.Body.String())
	}
}

func TestGetStats(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}

	var stats map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats["episodes"].(float64) != 2 {
		t.Errorf("Expected 2 episodes, got: %v", stats["episodes"])
	}
	// 5400 seconds rounds to 2 hours, it does not truncate to 1
	if stats["totalHours"].(float64) != 2 {
		t.Errorf("Expected 2 total hours, got: %v", stats["totalHours"])
	}
}

func TestGetSitemap(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/sitemap.xml", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/xml") {
		t.Errorf("Expected XML content type, got: %s", ct)
	}
	if !strings.Contains(w.Body.String(), "/episodes/5") {
		t.Errorf("Expected episode URL in sitemap, got: %s", w.Body.String())
	}
}

func TestGetEpisodesMarkdown(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/episodes.md", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("Expected text/plain content type, got: %s", ct)
	}
	if !strings.Contains(w.Body.String(), "## №6 Title B") {
		t.Errorf("Expected episode heading, got: %s", w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", w.Code)
	}
}
