package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/cluster"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/config"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/crawler"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/generator"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/pipeline"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/repository"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/revenue"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/search"
	"github.com/shshajek-cpu/blogwise-sub000/pkg/trends"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"blogwise.yml" description:"config file path"`
	Count  int    `short:"n" long:"count" description:"posts to generate, overrides config"`
	Daemon bool   `long:"daemon" env:"DAEMON" description:"keep running on the configured interval"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Printf("[ERROR] failed to load config: %v", err)
		os.Exit(1)
	}

	setupLog(opts.Debug, cfg.Generation.APIKey, cfg.Trends.Naver.ClientSecret)
	log.Printf("[INFO] starting blogwise version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, opts Opts) error {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init repositories: %w", err)
	}
	defer func() {
		if closeErr := repos.Close(); closeErr != nil {
			log.Printf("[WARN] failed to close database: %v", closeErr)
		}
	}()

	p := pipeline.New(pipeline.Params{
		Trends:     makeAggregator(cfg),
		Ranker:     revenue.NewAnalyzer(),
		Clusters:   cluster.NewBuilder(),
		Searcher:   makeSearcher(cfg),
		Crawler:    makeCrawler(cfg),
		Sources:    makeSources(cfg),
		Generator:  generator.New(cfg.Generation),
		Posts:      repos.Post,
		Categories: repos.Category,
		Config:     cfg.Pipeline,
	})

	count := cfg.Pipeline.PostsPerRun
	if opts.Count > 0 {
		count = opts.Count
	}

	if opts.Daemon {
		scheduler := pipeline.NewScheduler(p, cfg.Pipeline.Interval, count)
		scheduler.Start(ctx)
		<-ctx.Done()
		scheduler.Stop()
		return nil
	}

	res := p.Run(ctx, count)
	for _, topic := range res.Topics {
		status := "failed"
		if topic.Generated {
			status = fmt.Sprintf("post %d", topic.PostID)
		}
		log.Printf("[INFO] topic %q: %s", topic.Keyword, status)
	}
	if res.GeneratedCount == 0 {
		return fmt.Errorf("run produced no posts: %v", res.Errors)
	}
	return nil
}

func makeAggregator(cfg *config.Config) *trends.Aggregator {
	sources := []trends.Source{
		trends.NewRSSSource(cfg.Trends.RSSURL, cfg.Crawl.UserAgent, cfg.Trends.Timeout),
		trends.NewEvergreenSource(),
	}
	// the curated pool substitutes for the credential-gated API source,
	// keeping output useful without external keys
	if cfg.Trends.Naver.ClientID != "" && cfg.Trends.Naver.ClientSecret != "" {
		sources = append(sources, trends.NewNaverSource("", cfg.Trends.Naver.ClientID, cfg.Trends.Naver.ClientSecret, cfg.Trends.Timeout))
	} else {
		sources = append(sources, trends.NewCuratedSource())
	}

	agg := trends.NewAggregator(sources...)
	log.Printf("[INFO] trend sources: %v", agg.Names())
	return agg
}

func makeSearcher(cfg *config.Config) *search.Searcher {
	return search.NewSearcher(search.Config{
		UserAgent:         cfg.Crawl.UserAgent,
		Timeout:           cfg.Crawl.Timeout,
		NaverClientID:     cfg.Trends.Naver.ClientID,
		NaverClientSecret: cfg.Trends.Naver.ClientSecret,
	})
}

func makeCrawler(cfg *config.Config) *crawler.Crawler {
	return crawler.New(crawler.Config{
		UserAgent:     cfg.Crawl.UserAgent,
		Timeout:       cfg.Crawl.Timeout,
		YouTubeAPIKey: cfg.Crawl.YouTubeAPIKey,
	})
}

func makeSources(cfg *config.Config) []crawler.Source {
	sources := make([]crawler.Source, len(cfg.Crawl.Sources))
	for i, src := range cfg.Crawl.Sources {
		sources[i] = crawler.Source{
			URL:      src.URL,
			Platform: crawler.Platform(src.Platform),
			MaxItems: src.MaxItems,
		}
	}
	return sources
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var nonEmpty []string
	for _, s := range secs {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
