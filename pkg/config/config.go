package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:blogwise.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Generation GenerationConfig `yaml:"generation" json:"generation" jsonschema:"description=Generation service configuration"`

	Trends TrendsConfig `yaml:"trends" json:"trends" jsonschema:"description=Trend source configuration"`

	Crawl CrawlConfig `yaml:"crawl" json:"crawl" jsonschema:"description=Crawler configuration"`

	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline" jsonschema:"description=Pipeline configuration"`
}

// GenerationConfig holds settings for the OpenAI-compatible generation service
type GenerationConfig struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint (empty for api.openai.com)"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. gpt-4o-mini)"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=4000,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=120s,description=Request timeout"`

	// SystemPrompt overrides the built-in writing instructions when set
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override (optional)"`
}

// TrendsConfig holds trend source settings
type TrendsConfig struct {
	RSSURL  string        `yaml:"rss_url" json:"rss_url" jsonschema:"description=Google Trends RSS feed URL (default is the KR daily feed)"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Per-source fetch timeout"`

	Naver struct {
		ClientID     string `yaml:"client_id" json:"client_id" jsonschema:"description=Naver open API client id (can use environment variable)"`
		ClientSecret string `yaml:"client_secret" json:"client_secret" jsonschema:"description=Naver open API client secret (can use environment variable)"`
	} `yaml:"naver" json:"naver" jsonschema:"description=Naver open API credentials, shared by DataLab trends and blog search"`
}

// CrawlSource describes one configured benchmark channel
type CrawlSource struct {
	URL      string `yaml:"url" json:"url" jsonschema:"required,description=Channel or page URL"`
	Platform string `yaml:"platform" json:"platform" jsonschema:"enum=blog,enum=video,enum=generic,description=Adapter to use (default generic)"`
	MaxItems int    `yaml:"max_items" json:"max_items" jsonschema:"default=5,description=Maximum items to take from this source"`
}

// CrawlConfig holds crawler settings
type CrawlConfig struct {
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for HTTP requests"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Per-request timeout"`
	YouTubeAPIKey string        `yaml:"youtube_api_key" json:"youtube_api_key" jsonschema:"description=YouTube Data API key (optional, HTML fallback without it)"`
	Sources       []CrawlSource `yaml:"sources" json:"sources" jsonschema:"description=Benchmark channels crawled on every run"`
}

// PipelineConfig holds orchestration settings
type PipelineConfig struct {
	PostsPerRun      int           `yaml:"posts_per_run" json:"posts_per_run" jsonschema:"default=1,minimum=1,description=Posts generated per run"`
	Interval         time.Duration `yaml:"interval" json:"interval" jsonschema:"default=6h,description=Interval between runs in daemon mode"`
	BenchmarkTimeout time.Duration `yaml:"benchmark_timeout" json:"benchmark_timeout" jsonschema:"default=20s,description=Budget for reference-content search per topic"`
	BenchmarkResults int           `yaml:"benchmark_results" json:"benchmark_results" jsonschema:"default=3,description=Reference pages fetched per topic"`
	TargetWordCount  int           `yaml:"target_word_count" json:"target_word_count" jsonschema:"default=1500,description=Target word count for generated posts"`
	StrictQuality    bool          `yaml:"strict_quality" json:"strict_quality" jsonschema:"default=false,description=Discard posts that fail the quality gate instead of publishing with a warning"`
	CorpusLimit      int           `yaml:"corpus_limit" json:"corpus_limit" jsonschema:"default=200,description=Recent posts loaded for duplicate-topic detection"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:blogwise.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for generation
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.7
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 4000
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = 120 * time.Second
	}

	// set defaults for trends
	if cfg.Trends.Timeout == 0 {
		cfg.Trends.Timeout = 15 * time.Second
	}

	// set defaults for crawl
	if cfg.Crawl.UserAgent == "" {
		cfg.Crawl.UserAgent = "Mozilla/5.0 (compatible; BlogWiseBot/1.0)"
	}
	if cfg.Crawl.Timeout == 0 {
		cfg.Crawl.Timeout = 15 * time.Second
	}
	for i := range cfg.Crawl.Sources {
		if cfg.Crawl.Sources[i].Platform == "" {
			cfg.Crawl.Sources[i].Platform = "generic"
		}
		if cfg.Crawl.Sources[i].MaxItems == 0 {
			cfg.Crawl.Sources[i].MaxItems = 5
		}
	}

	// set defaults for pipeline
	if cfg.Pipeline.PostsPerRun == 0 {
		cfg.Pipeline.PostsPerRun = 1
	}
	if cfg.Pipeline.Interval == 0 {
		cfg.Pipeline.Interval = 6 * time.Hour
	}
	if cfg.Pipeline.BenchmarkTimeout == 0 {
		cfg.Pipeline.BenchmarkTimeout = 20 * time.Second
	}
	if cfg.Pipeline.BenchmarkResults == 0 {
		cfg.Pipeline.BenchmarkResults = 3
	}
	if cfg.Pipeline.TargetWordCount == 0 {
		cfg.Pipeline.TargetWordCount = 1500
	}
	if cfg.Pipeline.CorpusLimit == 0 {
		cfg.Pipeline.CorpusLimit = 200
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {

	// validate generation config
	if cfg.Generation.Model == "" {
		return fmt.Errorf("generation.model is required")
	}
	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2")
	}
	if cfg.Generation.Timeout < time.Second {
		return fmt.Errorf("generation.timeout must be at least 1 second")
	}

	// validate crawl config
	if cfg.Crawl.Timeout < time.Second {
		return fmt.Errorf("crawl.timeout must be at least 1 second")
	}
	for _, src := range cfg.Crawl.Sources {
		if src.URL == "" {
			return fmt.Errorf("crawl.sources entries require a url")
		}
		switch src.Platform {
		case "blog", "video", "generic":
		default:
			return fmt.Errorf("crawl.sources platform %q is not supported", src.Platform)
		}
	}

	// validate pipeline config
	if cfg.Pipeline.PostsPerRun < 1 {
		return fmt.Errorf("pipeline.posts_per_run must be at least 1")
	}
	if cfg.Pipeline.BenchmarkTimeout < time.Second {
		return fmt.Errorf("pipeline.benchmark_timeout must be at least 1 second")
	}

	return nil
}

// GetGenerationConfig returns generation service configuration
func (c *Config) GetGenerationConfig() GenerationConfig {
	return c.Generation
}

// GetPipelineConfig returns pipeline configuration
func (c *Config) GetPipelineConfig() PipelineConfig {
	return c.Pipeline
}

// GetFullConfig returns the full configuration
func (c *Config) GetFullConfig() *Config {
	return c
}
