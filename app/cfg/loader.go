package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/relay.db" description:"Path to the SQLite database file"`

	// Scan configuration
	FeedsFile    string `long:"feeds-file" env:"FEEDS_FILE" default:"./feeds.yml" description:"YAML file listing feed sources"`
	ScanInterval int    `long:"scan-interval" env:"SCAN_INTERVAL" default:"300" description:"Interval between scans in seconds"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"1" description:"Number of feeds processed concurrently during a scan"`
	HTTPTimeout  int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"10" description:"Timeout for outbound HTTP requests in seconds"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"RSS Relay/1.0" description:"User agent string for HTTP requests"`
	ProxyURL     string `long:"proxy-url" env:"PROXY_URL" description:"Outbound HTTP proxy URL (optional)"`

	// Sink configuration
	SinkURL    string `long:"sink-url" env:"SINK_URL" description:"Sink API endpoint receiving forwarded items (required)" required:"true"`
	SinkFolder string `long:"sink-folder" env:"SINK_FOLDER" default:"RSS" description:"Destination folder for forwarded items"`

	// Summarization configuration
	LLMAPIURL      string  `long:"llm-api-url" env:"LLM_API_URL" description:"Chat completions endpoint for article summarization (optional)"`
	LLMAPIKey      string  `long:"llm-api-key" env:"LLM_API_KEY" description:"API key for the summarization endpoint"`
	LLMModel       string  `long:"llm-model" env:"LLM_MODEL" default:"gpt-4o-mini" description:"Model name for summarization requests"`
	LLMTemperature float64 `long:"llm-temperature" env:"LLM_TEMPERATURE" default:"0.3" description:"Sampling temperature for summarization requests"`
	LLMMaxTokens   int     `long:"llm-max-tokens" env:"LLM_MAX_TOKENS" default:"1024" description:"Token limit for summarization responses"`

	// Status API configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP status API port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"Access key for the status API endpoints (optional)"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
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
		DBPath:         raw.DBPath,
		FeedsFile:      raw.FeedsFile,
		ScanInterval:   raw.ScanInterval,
		WorkerCount:    raw.WorkerCount,
		HTTPTimeout:    raw.HTTPTimeout,
		UserAgent:      raw.UserAgent,
		ProxyURL:       raw.ProxyURL,
		SinkURL:        raw.SinkURL,
		SinkFolder:     raw.SinkFolder,
		LLMAPIURL:      raw.LLMAPIURL,
		LLMAPIKey:      raw.LLMAPIKey,
		LLMModel:       raw.LLMModel,
		LLMTemperature: raw.LLMTemperature,
		LLMMaxTokens:   raw.LLMMaxTokens,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		Debug:          raw.Debug,
		Version:        GetVersion(),
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
