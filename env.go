// FILE: env.go
// Package main – Environment helpers for the trading bot.
//
// This file provides:
//   1) loadEnv() – hydrates the process env from a local .env file so no
//      shell exports are needed; existing variables win.
//   2) credentials() – reads the two required Binance API variables and
//      fails fast when either is missing.
//   3) Small helpers to read env variables with sane defaults.
//
// Required variables:
//   BINANCE_API_KEY, BINANCE_API_SECRET
// Optional:
//   LOG_LEVEL (debug|info|warn|error, default info), METRICS_PORT (default 8080)

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// loadEnv reads .env from the working directory if present. Variables
// already set in the process env are never overridden.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env not found, relying on process env")
	}
}

// credentials returns the Binance API key pair or a ConfigError when either
// variable is absent.
func credentials() (apiKey, apiSecret string, err error) {
	apiKey = strings.TrimSpace(os.Getenv("BINANCE_API_KEY"))
	apiSecret = strings.TrimSpace(os.Getenv("BINANCE_API_SECRET"))
	if apiKey == "" || apiSecret == "" {
		return "", "", configErrorf("BINANCE_API_KEY or BINANCE_API_SECRET cannot be read from the environment")
	}
	return apiKey, apiSecret, nil
}

// --------- Env helpers (used across files) ---------

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
