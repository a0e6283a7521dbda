package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/farmsight/internal/domain/auth"
	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/insight"
	"github.com/yanqian/farmsight/internal/domain/timeseries"
	"github.com/yanqian/farmsight/internal/infra/config"
	"github.com/yanqian/farmsight/internal/infra/farmrepo"
	"github.com/yanqian/farmsight/internal/infra/objectstore"
	"github.com/yanqian/farmsight/internal/infra/render"
	"github.com/yanqian/farmsight/internal/infra/userrepo"
	"github.com/yanqian/farmsight/pkg/metrics"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:           cfg.Auth.Secret,
		TokenTTL:         cfg.Auth.TokenTTL,
		RefreshTokenTTL:  cfg.Auth.RefreshTokenTTL,
		SeedDemoAccounts: cfg.Auth.SeedDemoAccounts,
	}
}

func provideInsightConfig(cfg *config.Config) insight.Config {
	return insight.Config{
		HeatmapGrid:  cfg.Synthesis.HeatmapGrid,
		ExportPrefix: cfg.Storage.Prefix,
	}
}

// providePostgresPool returns nil when no DSN is configured or the database is unreachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, noop
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

// provideValkeyClient returns nil unless valkey is enabled and answers a ping.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.Valkey.Enabled {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey client ready", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideAuthRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

// provideFarmRepository prefers Postgres, then Valkey, then memory.
func provideFarmRepository(cfg *config.Config, pool *pgxpool.Pool, client valkey.Client, logger *slog.Logger) farm.Repository {
	switch {
	case pool != nil:
		return farmrepo.NewPostgresRepository(pool)
	case client != nil:
		logger.Info("farm valkey repository enabled", "prefix", cfg.Valkey.Prefix)
		return farmrepo.NewValkeyRepository(client, cfg.Valkey.Prefix)
	default:
		return farmrepo.NewMemoryRepository()
	}
}

func provideSource(cfg *config.Config) timeseries.Source {
	if cfg.Synthesis.Seed == 0 {
		return timeseries.DefaultSource()
	}
	return timeseries.NewSeededSource(cfg.Synthesis.Seed)
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideRecorder(reg *prometheus.Registry) *metrics.Recorder {
	return metrics.NewRecorder(reg)
}

func provideChartRenderer(cfg *config.Config) *render.PNGRenderer {
	return render.NewPNGRenderer(cfg.Charts.Width, cfg.Charts.Height)
}

func provideDashboardRenderer(cfg *config.Config) *render.DashboardRenderer {
	return render.NewDashboardRenderer(cfg.Charts.Width, cfg.Charts.Height)
}

// provideObjectStorage uses S3 when an endpoint is configured and reachable.
func provideObjectStorage(cfg *config.Config, logger *slog.Logger) insight.ObjectStorage {
	endpoint := strings.TrimSpace(cfg.Storage.Endpoint)
	if endpoint == "" {
		logger.Info("storage endpoint not set, keeping exports in memory")
		return objectstore.NewMemoryStorage()
	}
	storage, err := objectstore.NewS3Storage(objectstore.S3Options{
		Endpoint:  endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize object storage, keeping exports in memory", "error", err)
		return objectstore.NewMemoryStorage()
	}
	logger.Info("s3 export storage enabled", "endpoint", endpoint, "bucket", cfg.Storage.Bucket)
	return storage
}
