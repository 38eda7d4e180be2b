package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"DewanRaja/internal/account/handler"
	kingdomactor "DewanRaja/internal/kingdom/actor"
	"DewanRaja/internal/kingdom/app/port"
	mongorepo "DewanRaja/internal/kingdom/infra/persistence/mongodb"
	mysqlrepo "DewanRaja/internal/kingdom/infra/persistence/mysql"
	"DewanRaja/internal/shared/gameconfig/structures"
	"DewanRaja/internal/shared/gameconfig/units"
	"DewanRaja/internal/shared/infrastructure/db"
	sharedmongo "DewanRaja/internal/shared/infrastructure/mongo"
	"DewanRaja/internal/shared/logs"
	"DewanRaja/internal/shared/serverconfig"
	transporthttp "DewanRaja/internal/shared/transport/http"
	"DewanRaja/internal/shared/transport/ws"
	"DewanRaja/internal/syncapi"
	"DewanRaja/modules/kit/logx"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("game", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	units.Load()
	structures.Load()

	logger := logx.NewZapLogger(logs.Logger())

	// The account tables always live in MySQL; the kingdom store is
	// selectable.
	gormDB, err := db.Open(serverconfig.Conf.MySQL)
	if err != nil {
		logs.Fatal("open db failed", zap.Error(err))
	}

	var repo port.KingdomRepository
	var mongoClose func()
	if serverconfig.Conf.Storage.Driver == "mongodb" {
		client, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
		if err != nil {
			logs.Fatal("open mongodb failed", zap.Error(err))
		}
		mongoClose = func() { _ = client.Disconnect(context.Background()) }
		repo = mongorepo.NewKingdomRepo(client.Database(serverconfig.Conf.MongoDB.Database))
	} else {
		repo = mysqlrepo.NewKingdomRepo(gormDB)
	}

	logic := serverconfig.Conf.Logic
	flushEvery := time.Duration(logic.FlushEveryS) * time.Second
	simEvery := time.Duration(logic.SimTickMs) * time.Millisecond
	retryInterval := time.Duration(logic.RetryResendMs) * time.Millisecond
	retryCheck := time.Duration(logic.RetryCheckMs) * time.Millisecond

	rt := kingdomactor.NewRuntime(repo, flushEvery, simEvery, 0)

	gs := serverconfig.Conf.GameServer
	host := gs.Host
	if host == "" {
		host = "0.0.0.0"
	}

	httpSrv := transporthttp.NewHttpServer(fmt.Sprintf("%s:%d", host, gs.HTTPPort), nil, logger)
	handler.NewAccount(gormDB, logger).RegisterRoutes(httpSrv.Group())
	syncapi.NewHandler(repo, logger).RegisterRoutes(httpSrv.Group())

	gateway := ws.NewGateway(rt, retryInterval, retryCheck, logger)
	wsSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, gs.WSPort),
		Handler: ws.NewServer(gateway, gs.NeedSecret, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logs.Info("game http server started", zap.Int("port", gs.HTTPPort))
		if err := httpSrv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http serve failed: %w", err)
		}
	}()
	go func() {
		logs.Info("game ws server started", zap.Int("port", gs.WSPort))
		if err := wsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("ws serve failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logs.Error("server exited abnormally", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logs.Error("http shutdown failed", zap.Error(err))
	}
	if err := wsSrv.Shutdown(shutdownCtx); err != nil {
		logs.Error("ws shutdown failed", zap.Error(err))
	}

	// Stopping the runtime flushes every resident kingdom's dirty state
	// before the process exits.
	rt.Shutdown()

	if mongoClose != nil {
		mongoClose()
	}
	logs.Info("game server stopped")
}
