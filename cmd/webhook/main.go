package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/telemark/sveve-gateway/internal/api"
	v1 "github.com/telemark/sveve-gateway/internal/api/v1"
	"github.com/telemark/sveve-gateway/internal/config"
	"github.com/telemark/sveve-gateway/internal/consumers"
	middleware "github.com/telemark/sveve-gateway/internal/error"
	"github.com/telemark/sveve-gateway/pkg/mq"
	"github.com/telemark/sveve-gateway/pkg/sveve/notify"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newFiber,
			newConsumers,
			newDispatcher,
			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func newFiber(logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
}

func newConsumers(cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) ([]notify.DeliveryConsumer, []notify.MessageConsumer, error) {
	logConsumer := consumers.NewLogConsumer(logger)
	delivery := []notify.DeliveryConsumer{logConsumer}
	messages := []notify.MessageConsumer{logConsumer}

	if !cfg.MQ.Enable {
		return delivery, messages, nil
	}

	conn, err := mq.NewConnection(mq.Config{URL: cfg.MQ.URL}, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := conn.DeclareTopology([]string{cfg.MQ.Queue}); err != nil {
		return nil, nil, err
	}

	ch, err := conn.OpenChannel()
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return conn.Close()
		},
	})

	forward := consumers.NewForwardConsumer(mq.NewRabbitPublisher(ch), cfg.MQ.Queue, logger)
	delivery = append(delivery, forward)
	messages = append(messages, forward)

	return delivery, messages, nil
}

func newDispatcher(delivery []notify.DeliveryConsumer, messages []notify.MessageConsumer, logger *zap.Logger) *notify.Dispatcher {
	return notify.NewDispatcher(delivery, messages, logger)
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting webhook server", zap.String("port", cfg.API.Port))
			go app.Listen(cfg.API.Port)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
