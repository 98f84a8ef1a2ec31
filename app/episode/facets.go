package episode

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tapirio/techlife/app/feed"
)

// TagFacet is a derived tag with its occurrence count across episodes.
type TagFacet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AllTags counts tag occurrences across the collection and returns facets in
// locale-aware lexicographic order. Tags are mostly Russian, so a Russian
// collator decides the ordering.
func AllTags(episodes []feed.Episode) []TagFacet {
	counts := make(map[string]int)
	for _, episode := range episodes {
		for _, tag := range episode.Tags {
			counts[tag]++
		}
	}

	facets := make([]TagFacet, 0, len(counts))
	for name, count := range counts {
		facets = append(facets, TagFacet{Name: name, Count: count})
	}

	collator := collate.New(language.Russian)
	sort.SliceStable(facets, func(i, j int) bool {
		return collator.CompareString(facets[i].Name, facets[j].Name) < 0
	})

	return facets
}

// ByTag filters to episodes carrying the tag (exact, case-sensitive match),
// newest first by numeric episode number. An unknown tag yields an empty
// slice; whether that is a 404 is the caller's call.
func ByTag(episodes []feed.Episode, tag string) []feed.Episode {
	matched := make([]feed.Episode, 0)
	for _, episode := range episodes {
		for _, t := range episode.Tags {
			if t == tag {
				matched = append(matched, episode)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return numericNumber(matched[i]) > numericNumber(matched[j])
	})

	return matched
}

func numericNumber(episode feed.Episode) int {
	n, err := strconv.Atoi(episode.Number)
	if err != nil {
		return 0
	}
	return n
}
