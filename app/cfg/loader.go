package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Content paths
	FeedPath      string `long:"feed-path" env:"FEED_PATH" default:"./public/podcast-feed.xml" description:"Path to the podcast RSS feed XML file"`
	AnalysisPath  string `long:"analysis-path" env:"ANALYSIS_PATH" default:"./data/podcast-analysis-progress.json" description:"Path to the episode analysis JSON file"`
	QuestionsPath string `long:"questions-path" env:"QUESTIONS_PATH" default:"./content/listener-questions.json" description:"Path to the listener questions log file"`
	ArticlesDir   string `long:"articles-dir" env:"ARTICLES_DIR" default:"./content/articles" description:"Directory containing blog articles in markdown"`
	PublicDir     string `long:"public-dir" env:"PUBLIC_DIR" default:"./public" description:"Directory containing static assets"`

	// Application configuration
	Port    string `long:"port" env:"PORT" default:"3000" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" default:"https://www.techlifepodcast.com" description:"Public base URL for sitemap and share links"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Riga)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		FeedPath:      raw.FeedPath,
		AnalysisPath:  raw.AnalysisPath,
		QuestionsPath: raw.QuestionsPath,
		ArticlesDir:   raw.ArticlesDir,
		PublicDir:     raw.PublicDir,
		Port:          raw.Port,
		BaseUrl:       raw.BaseUrl,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
