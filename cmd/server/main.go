package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecomapa/internal/mockserver"
	"ecomapa/internal/mockserver/config"
	"ecomapa/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	srv := mockserver.New(log)
	if ttl, err := time.ParseDuration(conf.AccessTTL); err == nil {
		srv.Store.SetAccessTTL(ttl)
	} else {
		log.Warn("invalid ACCESS_TTL, keeping default", "value", conf.AccessTTL)
	}

	httpServer := &http.Server{
		Addr:    conf.RunAddress,
		Handler: srv.Mux,
	}

	go func() {
		log.Info("mock backend listening", "address", conf.RunAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("mock backend stopped")
}
