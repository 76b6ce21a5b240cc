// FILE: main.go
// Package main – Program entrypoint and HTTP/metrics server.
//
// Boot sequence:
//   1) loadEnv()          – hydrate process env from .env (no exports needed)
//   2) parseArgs()        – subcommand (sell|buy|trade) + flags → Config
//   3) credentials()      – fail fast when the Binance key pair is missing
//   4) wire exchange + trader (resolves pair tick/lot metadata once)
//   5) start Prometheus /metrics + /healthz server on cfg.Port
//   6) run the polling loop until fill/expiry, signal, or fatal error
//
// Examples:
//   auto-limit-trader -wait 5 sell BTCUSDT 1.0 99000
//   auto-limit-trader buy -stop-trigger 95000 -stop-limit 94900 BTCUSDT 0.5 97000
//   auto-limit-trader trade BTCUSDT sell 1.0 96000 99000

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	loadEnv()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if level, err := log.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	apiKey, apiSecret, err := credentials()
	if err != nil {
		log.Fatalf("%v", err)
	}
	ex := NewBinanceExchange(apiKey, apiSecret)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	trader, err := NewTrader(ctx, cfg, ex)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}

	// ---- HTTP metrics/health ----
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		log.Infof("serving metrics on :%d/metrics", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	runErr := trader.Run(ctx)

	// ---- Graceful shutdown for HTTP server ----
	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("%v", runErr)
	}
}
