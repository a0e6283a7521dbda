//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanqian/farmsight/internal/bootstrap"
	"github.com/yanqian/farmsight/internal/domain/auth"
	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/insight"
	"github.com/yanqian/farmsight/internal/infra/config"
	"github.com/yanqian/farmsight/internal/infra/render"
	httpiface "github.com/yanqian/farmsight/internal/interface/http"
	"github.com/yanqian/farmsight/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideInsightConfig,
		providePostgresPool,
		provideValkeyClient,
		provideAuthRepository,
		provideFarmRepository,
		provideSource,
		provideRegistry,
		provideRecorder,
		provideChartRenderer,
		provideDashboardRenderer,
		provideObjectStorage,
		auth.NewService,
		farm.NewService,
		insight.NewService,
		wire.Bind(new(insight.ChartRenderer), new(*render.PNGRenderer)),
		wire.Bind(new(insight.DashboardRenderer), new(*render.DashboardRenderer)),
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
