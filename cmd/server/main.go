package main

//	@title			Meu RDO API
//	@version		1.0
//	@description	Daily site reports (RDO) for construction works: form, approval by share link and billing.
//	@schemes		http https
//	@BasePath		/api/v1

//  Bearer at user level
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				BaaS access token (e.g., "Bearer eyJhbGciOi...")

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meurdo/meurdo-api/internal/bootstrap"
	"github.com/meurdo/meurdo-api/internal/config"
	"github.com/meurdo/meurdo-api/internal/infra/live"
	"github.com/meurdo/meurdo-api/internal/modules/handler"
	"github.com/meurdo/meurdo-api/internal/modules/service"
	"github.com/meurdo/meurdo-api/internal/router"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	// init gin
	gin.SetMode(cfg.App.Env)

	// ctx ends the redis relay and every open SSE stream on shutdown
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	broker := do.MustInvoke[*live.RedisBroker](inj)
	go broker.Run(ctx)

	engine := router.NewRouter(router.RouterDeps{
		Config:           cfg,
		Log:              log,
		Sessions:         do.MustInvoke[service.SessionService](inj),
		RdoHandler:       do.MustInvoke[*handler.RdoHandler](inj),
		ApprovalHandler:  do.MustInvoke[*handler.ApprovalHandler](inj),
		SignatureHandler: do.MustInvoke[*handler.SignatureHandler](inj),
		CatalogHandler:   do.MustInvoke[*handler.CatalogHandler](inj),
		AccountHandler:   do.MustInvoke[*handler.AccountHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     engine,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		log.Sugar().Infow("swagger url", "url", addr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// close SSE streams before draining the server
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}
	log.Sugar().Info("server exited")
}
