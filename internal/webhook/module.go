package webhook

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/logger"
	"github.com/ledgerline/ledgerline/internal/pubsub"
	"github.com/ledgerline/ledgerline/internal/pubsub/memory"
	pubsubRouter "github.com/ledgerline/ledgerline/internal/pubsub/router"
	"github.com/ledgerline/ledgerline/internal/webhook/handler"
	"github.com/ledgerline/ledgerline/internal/webhook/publisher"
	"go.uber.org/fx"
)

// Module provides billing event publishing and consumption
var Module = fx.Options(
	fx.Provide(
		providePubSub,
		publisher.NewPublisher,
		handler.NewHandler,
		pubsubRouter.NewRouter,
	),
	fx.Invoke(registerRouter),
)

func providePubSub(
	cfg *config.Configuration,
	logger *logger.Logger,
) pubsub.PubSub {
	return memory.NewPubSub(cfg, logger)
}

func registerRouter(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *pubsubRouter.Router,
	h handler.Handler,
	pub publisher.WebhookPublisher,
	logger *logger.Logger,
) {
	if !cfg.Webhook.Enabled {
		logger.Info("billing event consumer disabled")
		return
	}

	h.RegisterHandler(router)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := router.Run(ctx); err != nil {
					logger.Errorw("billing event router stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			if err := router.Close(); err != nil {
				logger.Errorw("failed to close billing event router", "error", err)
			}
			return pub.Close()
		},
	})
}
