package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Scan configuration
	FeedsFile    string
	ScanInterval int
	WorkerCount  int
	HTTPTimeout  int
	UserAgent    string
	ProxyURL     string

	// Sink configuration
	SinkURL    string
	SinkFolder string

	// Summarization configuration
	LLMAPIURL      string
	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	// Status API configuration
	Port         string
	APIAccessKey string

	// Application metadata
	Debug   bool
	Version string
}
