package api

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tapirio/techlife/app/assets"
	"github.com/tapirio/techlife/app/blog"
	"github.com/tapirio/techlife/app/cfg"
	"github.com/tapirio/techlife/app/episode"
	"github.com/tapirio/techlife/app/feed"
	"github.com/tapirio/techlife/app/questions"
)

// Listener figures shown on the stats page; updated by hand.
const (
	statListeners = 3433
	statCountries = 17
	statGuests    = 8
)

func NewHandler(podcast *feed.Metadata, catalog *episode.Catalog, library *blog.Library,
	gate *questions.Gate, store *questions.Store, cacheBuster *assets.CacheBuster) *Handler {
	return &Handler{
		podcast:     podcast,
		catalog:     catalog,
		library:     library,
		gate:        gate,
		store:       store,
		cacheBuster: cacheBuster,
	}
}

func (h *Handler) ListEpisodes(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Episodes())
}

// GetEpisode returns the enriched episode, or JSON null when the number is
// unknown (the player script treats null as "no episode").
func (h *Handler) GetEpisode(c *gin.Context) {
	ep, ok := h.catalog.ByNumber(c.Param("id"))
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, ep)
}

// GetEpisodePage returns the episode detail payload: the episode itself plus
// its neighbors in catalog order for the next/previous navigation.
func (h *Handler) GetEpisodePage(c *gin.Context) {
	ep, ok := h.catalog.ByNumber(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Эпизод не найден"})
		return
	}

	next, prev := h.catalog.Neighbors(ep.Number)

	c.JSON(http.StatusOK, gin.H{
		"episode":     ep,
		"nextEpisode": next,
		"prevEpisode": prev,
	})
}

func (h *Handler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, episode.AllTags(h.catalog.Episodes()))
}

func (h *Handler) GetEpisodesByTag(c *gin.Context) {
	tag := c.Param("tag")

	matched := episode.ByTag(h.catalog.Episodes(), tag)
	if len(matched) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Эпизоды с таким тегом не найдены"})
		return
	}

	c.JSON(http.StatusOK, matched)
}

func (h *Handler) ListArticles(c *gin.Context) {
	c.JSON(http.StatusOK, h.library.Articles())
}

func (h *Handler) SearchArticles(c *gin.Context) {
	c.JSON(http.StatusOK, h.library.Search(c.Query("name")))
}

func (h *Handler) GetArticle(c *gin.Context) {
	slug := c.Param("slug")

	article, ok := h.library.BySlug(slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Статья не найдена"})
		return
	}

	content, err := h.library.Render(slug)
	if err != nil {
		slog.Error("Article rendering error", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось отобразить статью"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": article,
		"content": content,
	})
}

func (h *Handler) SubmitQuestion(c *gin.Context) {
	// Everything binds as strings; checkbox values like "on" are the
	// gate's concern, not the binding layer's
	var form struct {
		Name          string `form:"name" json:"name"`
		Email         string `form:"email" json:"email"`
		Question      string `form:"question" json:"question"`
		Category      string `form:"category" json:"category"`
		Privacy       string `form:"privacy" json:"privacy"`
		Website       string `form:"website" json:"website"`
		FormStartTime string `form:"formStartTime" json:"formStartTime"`
	}
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный запрос"})
		return
	}

	result := h.gate.Process(questions.Request{
		Name:          form.Name,
		Email:         form.Email,
		Question:      form.Question,
		Category:      form.Category,
		Privacy:       form.Privacy,
		Website:       form.Website,
		FormStartTime: form.FormStartTime,
		IP:            c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
	})

	switch result.Outcome {
	case questions.OutcomeAccepted, questions.OutcomeDropped:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": result.Message})
	case questions.OutcomeRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": result.Message})
	case questions.OutcomeInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Message})
	}
}

func (h *Handler) ListQuestions(c *gin.Context) {
	submissions, err := h.store.All()
	if err != nil {
		slog.Error("Failed to load questions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка загрузки вопросов"})
		return
	}

	entries := make([]gin.H, 0, len(submissions))
	// Newest first
	for i := len(submissions) - 1; i >= 0; i-- {
		sub := submissions[i]
		entry := gin.H{
			"timestamp":    sub.Timestamp,
			"name":         sub.Name,
			"email":        sub.Email,
			"question":     sub.Question,
			"category":     sub.Category,
			"categoryName": questions.CategoryName(sub.Category),
		}
		if t, err := time.Parse(time.RFC3339, sub.Timestamp); err == nil {
			entry["formattedDate"] = feed.FormatDisplayDate(t.In(time.Local))
			entry["formattedTime"] = t.In(time.Local).Format("15:04")
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": entries,
		"total":     len(entries),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	totalSeconds := h.catalog.TotalDurationSeconds()

	c.JSON(http.StatusOK, gin.H{
		"episodes":       h.catalog.Count(),
		"totalHours":     int(math.Round(float64(totalSeconds) / 3600)),
		"listeners":      statListeners,
		"countries":      statCountries,
		"guests":         statGuests,
		"episodesByYear": h.catalog.CountByYear(),
	})
}

func (h *Handler) GetSitemap(c *gin.Context) {
	xml := GenerateSitemap(cfg.Get().BaseUrl, h.catalog.Episodes())

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml)
}

func (h *Handler) GetEpisodesMarkdown(c *gin.Context) {
	markdown := GenerateEpisodesMarkdown(h.podcast, h.catalog.Episodes())

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, markdown)
}

func (h *Handler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "Технологии и жизнь",
		"description": "Подкаст о технологиях и жизни",
		"feed":        h.cacheBuster.AssetURL("/podcast-feed.xml"),
		"endpoints": map[string]string{
			"episodes": "/api/episodes",
			"episode":  "/api/episode/<num>",
			"detail":   "/episodes/<num>",
			"tags":     "/api/tags",
			"by_tag":   "/api/tags/<tag>",
			"articles": "/api/articles",
			"search":   "/api/search?name=<query>",
			"stats":    "/stats",
			"sitemap":  "/sitemap.xml",
			"archive":  "/episodes.md",
			"health":   "/health",
		},
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"episodes":  h.catalog.Count(),
		"articles":  h.library.Count(),
		"assets":    h.cacheBuster.Count(),
		"version":   cfg.Get().Version,
	})
}
