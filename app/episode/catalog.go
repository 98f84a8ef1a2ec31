package episode

import (
	"sort"

	"github.com/tapirio/techlife/app/feed"
)

// Catalog is the enriched episode collection in its final, request-serving
// shape. It is built once at startup and never mutated afterwards; new feed
// entries or analysis results require a restart.
type Catalog struct {
	episodes []feed.Episode
	byNumber map[string]int
}

// NewCatalog sorts episodes newest-first by publication date and indexes
// them by episode number.
func NewCatalog(episodes []feed.Episode) *Catalog {
	sorted := make([]feed.Episode, len(episodes))
	copy(sorted, episodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	byNumber := make(map[string]int, len(sorted))
	for i, episode := range sorted {
		byNumber[episode.Number] = i
	}

	return &Catalog{
		episodes: sorted,
		byNumber: byNumber,
	}
}

// Episodes returns the full collection, newest first.
func (c *Catalog) Episodes() []feed.Episode {
	return c.episodes
}

func (c *Catalog) Count() int {
	return len(c.episodes)
}

// ByNumber looks up an episode by its number. The second return tells the
// caller whether anything was found.
func (c *Catalog) ByNumber(number string) (feed.Episode, bool) {
	i, ok := c.byNumber[number]
	if !ok {
		return feed.Episode{}, false
	}
	return c.episodes[i], true
}

// Neighbors returns the episodes around the given number in catalog order
// (newest first): next is the following, older entry and prev the preceding,
// newer one. Either can be nil at the edges.
func (c *Catalog) Neighbors(number string) (next *feed.Episode, prev *feed.Episode) {
	i, ok := c.byNumber[number]
	if !ok {
		return nil, nil
	}
	if i+1 < len(c.episodes) {
		next = &c.episodes[i+1]
	}
	if i > 0 {
		prev = &c.episodes[i-1]
	}
	return next, prev
}

// TotalDurationSeconds sums the durations of all episodes.
func (c *Catalog) TotalDurationSeconds() int {
	total := 0
	for _, episode := range c.episodes {
		total += episode.DurationSeconds
	}
	return total
}

// CountByYear groups episode counts by publication year. Episodes with an
// unknown date are left out.
func (c *Catalog) CountByYear() map[int]int {
	byYear := make(map[int]int)
	for _, episode := range c.episodes {
		if episode.PublishedAt.IsZero() {
			continue
		}
		byYear[episode.PublishedAt.Year()]++
	}
	return byYear
}
