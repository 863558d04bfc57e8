package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"go.uber.org/zap"

	"github.com/arjunks/storefront/internal/api"
	"github.com/arjunks/storefront/internal/controller"
	"github.com/arjunks/storefront/internal/events"
	"github.com/arjunks/storefront/internal/gateway"
	"github.com/arjunks/storefront/internal/migrations"
	"github.com/arjunks/storefront/internal/remote"
	"github.com/arjunks/storefront/internal/service"
	"github.com/arjunks/storefront/internal/storage/postgres"
	"github.com/arjunks/storefront/internal/storage/redis"
	"github.com/arjunks/storefront/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
		logger.Fatal(zap.Error(err))
	}

	redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	cleanupFuncs := []func(){dbCleanup, redisCleanup}

	wmPublisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	eventPublisher := events.NewWatermillPublisher(wmPublisher)

	remoteClient := remote.NewClient(util.NewRemoteConfig())
	refresher := service.NewRefreshCoordinator(remoteClient, logger)
	sessions := service.NewSessionClient(remoteClient, refresher, logger)

	gatewayCfg := util.NewGatewayConfig()
	verifier := service.NewVerifier(gatewayCfg.Secret)
	orderStorage := postgres.NewStorage(db)
	replayGuard := redis.NewReplayGuard(redisClient)
	payments := service.NewPaymentOrders(
		sessions, verifier, orderStorage, replayGuard,
		eventPublisher, gatewayCfg, util.ReplayTTL(), logger,
	)
	checkout := gateway.NewLoader(gatewayCfg, logger)

	ctrl := controller.NewController(
		logger, remoteClient, refresher, payments,
		checkout, eventPublisher, util.NewCookieConfig(),
	)

	apiServer := api.NewAPI(ctrl, logger, util.NewServerConfig(), cleanupFuncs)
	apiServer.Run(ctx)
}
