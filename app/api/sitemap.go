package api

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"time"

	"github.com/tapirio/techlife/app/feed"
)

type sitemapPage struct {
	path       string
	changeFreq string
	priority   string
}

var staticPages = []sitemapPage{
	{"/", "weekly", "1.0"},
	{"/about", "monthly", "0.7"},
	{"/resources", "monthly", "0.6"},
	{"/tags", "weekly", "0.7"},
	{"/episodes.md", "weekly", "0.6"},
	{"/blog", "monthly", "0.6"},
}

// GenerateSitemap renders the sitemap XML: static pages, then every episode
// page, then every tag page.
func GenerateSitemap(baseURL string, episodes []feed.Episode) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	buf.WriteString("\n")

	for _, page := range staticPages {
		writeSitemapURL(&buf, baseURL+page.path, "", page.changeFreq, page.priority)
	}

	today := time.Now().In(time.Local).Format("2006-01-02")
	for _, episode := range episodes {
		lastMod := today
		if !episode.PublishedAt.IsZero() {
			lastMod = episode.PublishedAt.Format("2006-01-02")
		}
		writeSitemapURL(&buf, fmt.Sprintf("%s/episodes/%s", baseURL, episode.Number), lastMod, "monthly", "0.8")
	}

	for _, facet := range episodeTags(episodes) {
		writeSitemapURL(&buf, fmt.Sprintf("%s/tags/%s", baseURL, url.PathEscape(facet)), "", "weekly", "0.5")
	}

	buf.WriteString("</urlset>\n")
	return buf.String()
}

func writeSitemapURL(buf *bytes.Buffer, loc, lastMod, changeFreq, priority string) {
	buf.WriteString("  <url>\n")
	writeElement(buf, "loc", loc, 4)
	if lastMod != "" {
		writeElement(buf, "lastmod", lastMod, 4)
	}
	writeElement(buf, "changefreq", changeFreq, 4)
	writeElement(buf, "priority", priority, 4)
	buf.WriteString("  </url>\n")
}

func writeElement(buf *bytes.Buffer, name, value string, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString(fmt.Sprintf("<%s>%s</%s>\n", name, html.EscapeString(value), name))
}

func episodeTags(episodes []feed.Episode) []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, episode := range episodes {
		for _, tag := range episode.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
