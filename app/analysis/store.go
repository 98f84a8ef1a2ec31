package analysis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Record carries externally-computed tags and a summary for one episode.
// The file is owned by the analysis job; this package only reads it.
type Record struct {
	EpisodeNumber int      `json:"episodeNumber"`
	Tags          []string `json:"tags"`
	Summary       string   `json:"summary"`
}

type file struct {
	EpisodeAnalyses []Record `json:"episodeAnalyses"`
}

// Load reads the analysis side file. A missing or malformed file is returned
// as an error so the caller can decide the fallback policy; the expected
// degradation is an empty record set, not a crash.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file: %w", err)
	}

	var parsed file
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analysis file: %w", err)
	}

	return parsed.EpisodeAnalyses, nil
}

// ByEpisode indexes records by episode number for join lookups.
func ByEpisode(records []Record) map[int]Record {
	index := make(map[int]Record, len(records))
	for _, record := range records {
		index[record.EpisodeNumber] = record
	}
	return index
}
