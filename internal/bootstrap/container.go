package bootstrap

import (
	"context"

	"github.com/meurdo/meurdo-api/internal/config"
	"github.com/meurdo/meurdo-api/internal/infra/blob"
	"github.com/meurdo/meurdo-api/internal/infra/cache"
	"github.com/meurdo/meurdo-api/internal/infra/db"
	"github.com/meurdo/meurdo-api/internal/infra/httpclient"
	"github.com/meurdo/meurdo-api/internal/infra/live"
	"github.com/meurdo/meurdo-api/internal/infra/logger"
	"github.com/meurdo/meurdo-api/internal/infra/queue"
	"github.com/meurdo/meurdo-api/internal/modules/handler"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
	"github.com/meurdo/meurdo-api/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := db.AutoMigrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return amqp.Dial(cfg.RabbitMQ.URL)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// BaaS functions
	do.Provide(inj, func(i *do.Injector) (*httpclient.FunctionsClient, error) {
		return httpclient.NewFunctionsClient(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Live updates
	do.Provide(inj, func(i *do.Injector) (*live.Hub, error) {
		return live.NewHub(do.MustInvoke[*zap.Logger](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*live.RedisBroker, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return live.NewRedisBroker(
			do.MustInvoke[*redis.Client](i),
			cfg.Redis.Channel,
			do.MustInvoke[*live.Hub](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProfileRepo, error) {
		return repo.NewProfileRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ObraRepo, error) {
		return repo.NewObraRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CatalogRepo, error) {
		return repo.NewCatalogRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.RdoRepo, error) {
		return repo.NewRdoRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.Notifier, error) {
		log := do.MustInvoke[*zap.Logger](i)
		broker := do.MustInvoke[*live.RedisBroker](i)
		conn, err := do.Invoke[*amqp.Connection](i)
		if err != nil {
			log.Sugar().Warnw("rabbitmq unavailable, status messages disabled", "err", err)
			return service.NewNotifier(broker, nil, log), nil
		}
		cfg := do.MustInvoke[*config.Config](i)
		pub, err := queue.NewPublisher(conn, cfg.RabbitMQ.Queue, log)
		if err != nil {
			log.Sugar().Warnw("declare status queue failed, status messages disabled", "err", err)
			return service.NewNotifier(broker, nil, log), nil
		}
		return service.NewNotifier(broker, pub, log), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SessionService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewSessionService(
			do.MustInvoke[repo.ProfileRepo](i),
			do.MustInvoke[*redis.Client](i),
			cfg.ProCacheTTL(),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CatalogService, error) {
		return service.NewCatalogService(
			do.MustInvoke[repo.CatalogRepo](i),
			do.MustInvoke[repo.ObraRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SignatureService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewSignatureService(
			do.MustInvoke[*blob.S3Deps](i),
			cfg.S3.Buckets,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RdoService, error) {
		return service.NewRdoService(
			do.MustInvoke[repo.RdoRepo](i),
			do.MustInvoke[repo.ObraRepo](i),
			do.MustInvoke[service.CatalogService](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[service.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ApprovalService, error) {
		return service.NewApprovalService(
			do.MustInvoke[repo.RdoRepo](i),
			do.MustInvoke[repo.ObraRepo](i),
			do.MustInvoke[service.SignatureService](i),
			do.MustInvoke[service.Notifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.BillingService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewBillingService(
			do.MustInvoke[*httpclient.FunctionsClient](i),
			do.MustInvoke[service.SessionService](i),
			cfg.App.PublicOrigin,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.RdoHandler, error) {
		return handler.NewRdoHandler(do.MustInvoke[service.RdoService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ApprovalHandler, error) {
		return handler.NewApprovalHandler(
			do.MustInvoke[service.ApprovalService](i),
			do.MustInvoke[*live.Hub](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SignatureHandler, error) {
		return handler.NewSignatureHandler(do.MustInvoke[service.SignatureService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.CatalogHandler, error) {
		return handler.NewCatalogHandler(do.MustInvoke[service.CatalogService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.AccountHandler, error) {
		return handler.NewAccountHandler(do.MustInvoke[service.BillingService](i)), nil
	})

	return inj
}
