package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/cache"
	"github.com/rohmanhakim/newsguard/internal/config"
	"github.com/rohmanhakim/newsguard/internal/kvstore"
	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/internal/metrics"
	"github.com/rohmanhakim/newsguard/internal/scan"
	"github.com/rohmanhakim/newsguard/pkg/limiter"
)

// app is the component graph shared by every subcommand.
type app struct {
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	cache    *cache.Manager
	cacheDir string
	scanner  *scan.Scanner
}

func newApp(cfg config.Config, logOut io.Writer, withMetrics bool) (*app, error) {
	recorder := metadata.NewRecorder(metadata.NewLogger(logOut, cfg.LogLevel(), cfg.LogFormat()))

	var sink metadata.MetadataSink = recorder
	var m *metrics.Metrics
	if withMetrics {
		m = metrics.New()
		sink = metadata.MultiSink{sink, m}
	}

	store, err := kvstore.NewFileStore(cfg.CacheDir(), cfg.CacheCapacityBytes())
	if err != nil {
		return nil, fmt.Errorf("opening cache directory: %w", err)
	}

	manager := cache.NewManager(
		store,
		sink,
		cache.WithPrefix(cfg.CachePrefix()),
		cache.WithTTL(cfg.CacheTTL()),
	)

	rl := limiter.NewConcurrentRateLimiter()
	rl.SetBaseDelay(cfg.BaseDelay())
	rl.SetJitter(cfg.Jitter())
	rl.SetRandomSeed(cfg.RandomSeed())

	client := analysis.NewClient(sink, cfg.APIBaseURL(), cfg.UserAgent(), cfg.Timeout())

	scanner := scan.NewScanner(
		sink,
		manager,
		client,
		rl,
		cfg.APIBaseURL(),
		scan.WithCacheBypass(cfg.NoCache()),
	)

	return &app{
		logger:   recorder.Logger(),
		metrics:  m,
		cache:    manager,
		cacheDir: store.Dir(),
		scanner:  scanner,
	}, nil
}
