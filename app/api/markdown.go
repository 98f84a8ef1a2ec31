package api

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tapirio/techlife/app/feed"
)

// GenerateEpisodesMarkdown renders the plain-text archive of all episodes,
// newest first. Episode descriptions arrive as HTML; images are dropped,
// links rewritten to "Text (URL)", and paragraphs and list items pulled out
// as description and link sections.
func GenerateEpisodesMarkdown(podcast *feed.Metadata, episodes []feed.Episode) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("# Подкаст %q", podcast.Title), "")

	for _, episode := range episodes {
		lines = append(lines,
			fmt.Sprintf("## №%s %s", episode.Number, episode.Title),
			fmt.Sprintf("### %s", episode.PubDateDisplay),
			"")

		if episode.Subtitle != "" {
			lines = append(lines, fmt.Sprintf("**Краткое описание:** %s", episode.Subtitle), "")
		}

		if episode.Description != "" {
			paragraphs, links := extractDescription(episode.Description)

			if len(paragraphs) > 0 {
				lines = append(lines, "### Описание", "")
				for _, p := range paragraphs {
					lines = append(lines, p, "")
				}
			}

			if len(links) > 0 {
				lines = append(lines, "### Ссылки", "")
				for _, l := range links {
					lines = append(lines, "- "+l)
				}
				lines = append(lines, "")
			}
		}

		lines = append(lines, "---", "")
	}

	return strings.Join(lines, "\n")
}

// extractDescription flattens an episode's HTML description into paragraph
// texts and list-item link texts.
func extractDescription(description string) (paragraphs []string, links []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		// Fall back to the raw text when the HTML is beyond repair
		if text := strings.TrimSpace(description); text != "" {
			return []string{text}, nil
		}
		return nil, nil
	}

	doc.Find("img").Remove()

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(a.Text())
		// The boilerplate YouTube self-link stays plain text
		if href != "" && text != "" && !strings.Contains(href, "youtube.com/@techlifepodcast") {
			a.SetText(fmt.Sprintf("%s (%s)", text, href))
		} else {
			a.SetText(text)
		}
	})

	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text == "" || strings.HasPrefix(text, "📺") || strings.Contains(text, "наш подкаст в директории") {
			return
		}
		paragraphs = append(paragraphs, text)
	})

	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := strings.TrimSpace(li.Text()); text != "" {
			links = append(links, text)
		}
	})

	return paragraphs, links
}
