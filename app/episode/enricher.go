package episode

import (
	"strconv"

	"github.com/tapirio/techlife/app/analysis"
	"github.com/tapirio/techlife/app/feed"
)

// Enrich joins episodes with their analysis records by integer episode
// number. A pure left join: every input episode comes back in its original
// position; episodes without a record keep empty tags and a nil summary.
func Enrich(episodes []feed.Episode, records []analysis.Record) []feed.Episode {
	index := analysis.ByEpisode(records)

	enriched := make([]feed.Episode, len(episodes))
	for i, episode := range episodes {
		enriched[i] = episode
		enriched[i].Tags = []string{}
		enriched[i].Summary = nil

		num, err := strconv.Atoi(episode.Number)
		if err != nil {
			continue
		}

		record, ok := index[num]
		if !ok {
			continue
		}

		if record.Tags != nil {
			enriched[i].Tags = record.Tags
		}
		if record.Summary != "" {
			summary := record.Summary
			enriched[i].Summary = &summary
		}
	}

	return enriched
}
