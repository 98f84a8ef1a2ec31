package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

var episodeNumPattern = regexp.MustCompile(`^#(\d+):`)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses podcast feed XML and returns channel metadata and episodes in
// feed order. Missing iTunes fields and odd date formats are tolerated;
// episodes are never dropped for having incomplete data.
func (p *Parser) Run(data []byte) (*Metadata, []Episode, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Language:    parsed.Language,
	}

	if parsed.Image != nil {
		metadata.ImageURL = parsed.Image.URL
	}

	episodes := make([]Episode, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		episodes = append(episodes, p.normalizeItem(item, i))
	}

	return metadata, episodes, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, position int) Episode {
	episode := Episode{
		Number:      extractEpisodeNumber(item.Title, position),
		Title:       stripEpisodePrefix(item.Title),
		Description: cmp.Or(item.Description, item.Content),
		PubDate:     item.Published,
		Tags:        []string{},
	}

	if item.ITunesExt != nil {
		episode.Subtitle = item.ITunesExt.Subtitle
		episode.DurationSeconds = ParseDuration(item.ITunesExt.Duration)
	}

	if t, ok := ParseFlexibleDate(item.Published); ok {
		episode.PublishedAt = t
		episode.PubDateDisplay = FormatDisplayDate(t)
	} else if item.PublishedParsed != nil {
		episode.PublishedAt = *item.PublishedParsed
		episode.PubDateDisplay = FormatDisplayDate(*item.PublishedParsed)
	} else {
		episode.PubDateDisplay = DateUnknown
	}

	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		episode.EnclosureURL = item.Enclosures[0].URL
	}

	return episode
}

// extractEpisodeNumber pulls N out of a "#N: ..." title. Items without the
// prefix get their feed position instead; that keeps the key unique but is a
// policy fallback, not a guarantee.
func extractEpisodeNumber(title string, position int) string {
	if m := episodeNumPattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return strconv.Itoa(position)
}

func stripEpisodePrefix(title string) string {
	if m := episodeNumPattern.FindString(title); m != "" {
		return strings.TrimSpace(strings.TrimPrefix(title, m))
	}
	return title
}

// ParseDuration converts an iTunes duration ("HH:MM:SS" or "MM:SS") to
// seconds. Unrecognized input yields 0.
func ParseDuration(duration string) int {
	if duration == "" {
		return 0
	}

	parts := strings.Split(duration, ":")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		values = append(values, v)
	}

	switch len(values) {
	case 2:
		return values[0]*60 + values[1]
	case 3:
		return values[0]*3600 + values[1]*60 + values[2]
	}
	return 0
}
