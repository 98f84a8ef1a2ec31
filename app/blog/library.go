package blog

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

// Article is one blog post loaded from a markdown file with YAML front
// matter. Body is raw markdown; HTML is rendered on demand.
type Article struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	body        string
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Date        string `yaml:"date"`
}

// Library holds the blog articles, loaded once at startup and sorted newest
// first.
type Library struct {
	articles []Article
	bySlug   map[string]int
	renderer goldmark.Markdown
}

func NewLibrary(articlesDir string) (*Library, error) {
	lib := &Library{
		bySlug: make(map[string]int),
		renderer: goldmark.New(
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}

	if _, err := os.Stat(articlesDir); os.IsNotExist(err) {
		slog.Warn("Articles directory not found, blog disabled", "dir", articlesDir)
		return lib, nil
	}

	files, err := filepath.Glob(filepath.Join(articlesDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	for _, file := range files {
		article, err := loadArticle(file)
		if err != nil {
			slog.Warn("Skipping unreadable article", "file", file, "error", err)
			continue
		}
		lib.articles = append(lib.articles, article)
	}

	sort.SliceStable(lib.articles, func(i, j int) bool {
		return lib.articles[i].Date.After(lib.articles[j].Date)
	})
	for i, article := range lib.articles {
		lib.bySlug[article.Slug] = i
	}

	return lib, nil
}

func loadArticle(path string) (Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Article{}, fmt.Errorf("failed to read article: %w", err)
	}

	slug := strings.TrimSuffix(filepath.Base(path), ".md")
	meta, body := splitFrontMatter(string(data))

	article := Article{
		Slug: slug,
		body: body,
	}

	if meta != "" {
		var fm frontMatter
		if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
			return Article{}, fmt.Errorf("failed to parse front matter: %w", err)
		}
		article.Title = fm.Title
		article.Description = fm.Description
		article.Author = fm.Author
		if fm.Date != "" {
			if t, err := time.Parse("2006-01-02", fm.Date); err == nil {
				article.Date = t
			}
		}
	}

	if article.Title == "" {
		article.Title = slug
	}

	return article, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Files without front matter are all body.
func splitFrontMatter(content string) (meta string, body string) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content
	}

	rest := content[4:]
	end := strings.Index(rest, "\n---")
	if end == -1 {
		return "", content
	}

	meta = rest[:end]
	body = strings.TrimPrefix(rest[end+4:], "\n")
	return meta, body
}

// Articles returns all posts, newest first.
func (l *Library) Articles() []Article {
	return l.articles
}

func (l *Library) Count() int {
	return len(l.articles)
}

// BySlug looks up an article by filename slug.
func (l *Library) BySlug(slug string) (Article, bool) {
	i, ok := l.bySlug[slug]
	if !ok {
		return Article{}, false
	}
	return l.articles[i], true
}

// Render converts an article's markdown body to HTML.
func (l *Library) Render(slug string) (string, error) {
	article, ok := l.BySlug(slug)
	if !ok {
		return "", fmt.Errorf("article '%s' not found", slug)
	}

	var buf bytes.Buffer
	if err := l.renderer.Convert([]byte(article.body), &buf); err != nil {
		return "", fmt.Errorf("failed to render article '%s': %w", slug, err)
	}

	return buf.String(), nil
}

// Search returns articles whose title, description or author contains the
// query, case-insensitively. An empty query matches nothing.
func (l *Library) Search(query string) []Article {
	results := make([]Article, 0)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return results
	}

	for _, article := range l.articles {
		haystack := strings.ToLower(article.Title + article.Description + article.Author)
		if strings.Contains(haystack, query) {
			results = append(results, article)
		}
	}

	return results
}
