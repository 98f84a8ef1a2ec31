package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP engine with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS for the JSON API consumed by the front-end player
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	// Episode API
	r.GET("/api/episodes", handler.ListEpisodes)
	r.GET("/api/episode/:id", handler.GetEpisode)
	r.GET("/episodes/:id", handler.GetEpisodePage)
	r.GET("/api/tags", handler.ListTags)
	r.GET("/api/tags/:tag", handler.GetEpisodesByTag)

	// Blog API
	r.GET("/api/articles", handler.ListArticles)
	r.GET("/api/search", handler.SearchArticles)
	r.GET("/blog/:slug", handler.GetArticle)

	// Question submission; the form is reachable under several aliases
	for _, route := range []string{"/voprosy", "/ask", "/contact", "/question"} {
		r.POST(route, handler.SubmitQuestion)
	}
	r.GET("/adminka/voprosy", handler.ListQuestions)

	// Site surface
	r.GET("/stats", handler.GetStats)
	r.GET("/sitemap.xml", handler.GetSitemap)
	r.GET("/episodes.md", handler.GetEpisodesMarkdown)

	// Health and status endpoints
	r.GET("/health", handler.HealthCheck)

	r.GET("/", handler.GetInfo)

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
