package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/mural-backend/internal/bootstrap"
	"github.com/GregMSThompson/mural-backend/internal/config"
	"github.com/GregMSThompson/mural-backend/internal/handlers"
	"github.com/GregMSThompson/mural-backend/internal/response"
	"github.com/GregMSThompson/mural-backend/internal/router"
	"github.com/GregMSThompson/mural-backend/internal/services"
	"github.com/GregMSThompson/mural-backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg, err := config.New()
	exitOnError("invalid config", err, slog.Default())
	bs, err := bootstrap.Run(ctx, cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	bstore := store.NewBadgeStore(bs.Firestore)

	// services
	mserv := services.NewMuralService(bstore, cfg.Grid)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.MuralSvc = mserv

	// router
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.NewRouter(deps),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs.Log.Info("server listening", "addr", srv.Addr, "cols", cfg.Grid.Cols, "rows", cfg.Grid.Rows)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	exitOnError("server failed", err, bs.Log)
	bs.Log.Info("server stopped")
}
