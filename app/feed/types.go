package feed

import (
	"time"
)

// Metadata describes the podcast channel itself.
type Metadata struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Language    string `json:"language"`
}

// Episode is one podcast installment, keyed by Number.
//
// Number is extracted from the "#N:" title prefix; items without the prefix
// fall back to their position in the feed. Tags and Summary are empty until
// the episode is joined with its analysis record.
type Episode struct {
	Number          string    `json:"episodeNum"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Description     string    `json:"description"`
	PubDate         string    `json:"pubDate"`
	PubDateDisplay  string    `json:"pubDateConverted"`
	PublishedAt     time.Time `json:"-"`
	DurationSeconds int       `json:"durationSeconds"`
	EnclosureURL    string    `json:"enclosureUrl"`
	Tags            []string  `json:"tags"`
	Summary         *string   `json:"summary"`
}
