package cfg

type Cfg struct {
	// Content paths
	FeedPath      string
	AnalysisPath  string
	QuestionsPath string
	ArticlesDir   string
	PublicDir     string

	// Application configuration
	Port    string
	BaseUrl string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
