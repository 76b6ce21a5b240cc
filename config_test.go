// FILE: config_test.go
// Package main – CLI parsing and config validation.

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseArgsSell(t *testing.T) {
	cfg, err := parseArgs([]string{"sell", "btcusdt", "0.5", "64000"})
	require.NoError(t, err)
	require.Equal(t, ModeSell, cfg.Mode)
	require.Equal(t, SideSell, cfg.Side)
	require.Equal(t, "BTCUSDT", cfg.Symbol)
	require.True(t, cfg.Quantity.Equal(d("0.5")))
	require.True(t, cfg.MinAsk.Equal(d("64000")))
	require.False(t, cfg.SellStop.Set())
	require.Equal(t, 10*time.Second, cfg.Wait)
}

func TestParseArgsBuyWithStop(t *testing.T) {
	cfg, err := parseArgs([]string{"buy", "-stop-trigger", "70000", "-stop-limit", "70100", "BTCUSDT", "0.5", "64000"})
	require.NoError(t, err)
	require.Equal(t, ModeBuy, cfg.Mode)
	require.True(t, cfg.MaxBid.Equal(d("64000")))
	require.True(t, cfg.BuyStop.Set())
	require.True(t, cfg.BuyStop.Trigger.Equal(d("70000")))
	require.True(t, cfg.BuyStop.Limit.Equal(d("70100")))
}

func TestParseArgsTrade(t *testing.T) {
	cfg, err := parseArgs([]string{"-wait", "3", "trade", "ethusdt", "sell", "2", "3100", "3200"})
	require.NoError(t, err)
	require.Equal(t, ModeTrade, cfg.Mode)
	require.Equal(t, SideSell, cfg.Side)
	require.Equal(t, "ETHUSDT", cfg.Symbol)
	require.True(t, cfg.MaxBid.Equal(d("3100")))
	require.True(t, cfg.MinAsk.Equal(d("3200")))
	require.Equal(t, 3*time.Second, cfg.Wait)
}

func TestParseArgsTradePerSideStops(t *testing.T) {
	cfg, err := parseArgs([]string{
		"trade",
		"-sell-stop-trigger", "3000", "-sell-stop-limit", "2990",
		"-buy-stop-trigger", "3300", "-buy-stop-limit", "3310",
		"ethusdt", "buy", "2", "3100", "3200",
	})
	require.NoError(t, err)
	require.Equal(t, SideBuy, cfg.Side)
	require.True(t, cfg.SellStop.Set())
	require.True(t, cfg.BuyStop.Set())
	require.True(t, cfg.SellStop.Trigger.Equal(d("3000")))
	require.True(t, cfg.BuyStop.Limit.Equal(d("3310")))
}

func TestParseArgsRejectsBadSide(t *testing.T) {
	_, err := parseArgs([]string{"trade", "ethusdt", "short", "2", "3100", "3200"})
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestParseArgsRejectsLoneStopFlag(t *testing.T) {
	_, err := parseArgs([]string{"sell", "-stop-trigger", "70000", "BTCUSDT", "0.5", "64000"})
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestParseArgsRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []string{"0", "-1", "abc"} {
		_, err := parseArgs([]string{"sell", "BTCUSDT", qty, "64000"})
		require.Error(t, err, "quantity %q", qty)
	}
}

func TestParseArgsRejectsMissingSubcommand(t *testing.T) {
	_, err := parseArgs(nil)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)

	_, err = parseArgs([]string{"short", "BTCUSDT", "1", "100"})
	require.ErrorAs(t, err, &cerr)
}

func TestValidateWaitMustBePositive(t *testing.T) {
	cfg := sellConfig()
	cfg.Wait = 0
	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)
}
