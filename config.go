// FILE: config.go
// Package main – Runtime configuration model and CLI parsing.
//
// The bot runs one of three operations, mirrored by Mode:
//   sell  <symbol> <quantity> <minask>          – follow the asks until filled/expired
//   buy   <symbol> <quantity> <maxbid>          – follow the bids until filled/expired
//   trade <symbol> <side> <quantity> <maxbid> <minask>
//                                               – alternate sides on every fill
//
// Global flags (before the subcommand):
//   -wait <seconds>   seconds between order book checks (default 10)
//   -port <port>      metrics/health HTTP port (default METRICS_PORT or 8080)
//
// Per-subcommand flags (after the subcommand, before positionals) turn the
// limit order into an OCO pair:
//   sell:  -stop-trigger <p> -stop-limit <p>
//   buy:   -stop-trigger <p> -stop-limit <p>
//   trade: -sell-stop-trigger/-sell-stop-limit and -buy-stop-trigger/-buy-stop-limit
//
// Credentials come from the environment (see env.go), never from flags.

package main

import (
	"flag"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mode is the operation the process was started for.
type Mode string

const (
	ModeSell  Mode = "sell"
	ModeBuy   Mode = "buy"
	ModeTrade Mode = "trade"
)

// StopParams configures the stop-limit leg of an OCO order.
type StopParams struct {
	Trigger decimal.Decimal // stop price that arms the leg
	Limit   decimal.Decimal // limit price of the armed leg
}

// Set reports whether the OCO leg is configured.
func (s StopParams) Set() bool { return s.Trigger.IsPositive() && s.Limit.IsPositive() }

// Config holds everything the trader needs for one run. Bounds and stop
// prices are immutable after parsing.
type Config struct {
	Mode   Mode
	Symbol string
	Side   Side // first side for ModeTrade; derived for sell/buy

	Quantity decimal.Decimal // base quantity to sell, or fixed buy quantity
	MinAsk   decimal.Decimal // sell floor (ModeSell, ModeTrade)
	MaxBid   decimal.Decimal // buy ceiling (ModeBuy, ModeTrade)

	SellStop StopParams
	BuyStop  StopParams

	Wait time.Duration // pause between ticks
	Port int           // metrics/health HTTP port
}

// Validate enforces the per-mode invariants before anything touches the
// exchange.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return configErrorf("symbol is required")
	}
	if !c.Quantity.IsPositive() {
		return configErrorf("quantity must be > 0, got %s", c.Quantity)
	}
	switch c.Mode {
	case ModeSell:
		if !c.MinAsk.IsPositive() {
			return configErrorf("minask must be > 0, got %s", c.MinAsk)
		}
	case ModeBuy:
		if !c.MaxBid.IsPositive() {
			return configErrorf("maxbid must be > 0, got %s", c.MaxBid)
		}
	case ModeTrade:
		if c.Side != SideBuy && c.Side != SideSell {
			return configErrorf("side should be one of [buy, sell]")
		}
		if !c.MinAsk.IsPositive() || !c.MaxBid.IsPositive() {
			return configErrorf("trade needs both maxbid and minask > 0")
		}
	default:
		return configErrorf("unknown mode %q", c.Mode)
	}
	if c.Wait <= 0 {
		return configErrorf("wait must be > 0")
	}
	return nil
}

// parseArgs turns os.Args[1:] into a validated Config.
func parseArgs(args []string) (*Config, error) {
	global := flag.NewFlagSet("auto-limit-trader", flag.ContinueOnError)
	wait := global.Int("wait", 10, "seconds between order book checks")
	port := global.Int("port", getEnvInt("METRICS_PORT", 8080), "metrics/health HTTP port")
	if err := global.Parse(args); err != nil {
		return nil, err
	}
	rest := global.Args()
	if len(rest) == 0 {
		return nil, configErrorf("missing subcommand: one of sell, buy, trade")
	}

	cfg := &Config{
		Wait: time.Duration(*wait) * time.Second,
		Port: *port,
	}

	sub, subArgs := rest[0], rest[1:]
	switch sub {
	case "sell":
		fs := flag.NewFlagSet("sell", flag.ContinueOnError)
		trigger := fs.String("stop-trigger", "", "OCO stop trigger price")
		limit := fs.String("stop-limit", "", "OCO stop limit price")
		if err := fs.Parse(subArgs); err != nil {
			return nil, err
		}
		pos := fs.Args()
		if len(pos) != 3 {
			return nil, configErrorf("usage: sell [flags] <symbol> <quantity> <minask>")
		}
		cfg.Mode = ModeSell
		cfg.Side = SideSell
		cfg.Symbol = strings.ToUpper(pos[0])
		if err := parsePositive(&cfg.Quantity, "quantity", pos[1]); err != nil {
			return nil, err
		}
		if err := parsePositive(&cfg.MinAsk, "minask", pos[2]); err != nil {
			return nil, err
		}
		if err := parseStop(&cfg.SellStop, "stop", *trigger, *limit); err != nil {
			return nil, err
		}

	case "buy":
		fs := flag.NewFlagSet("buy", flag.ContinueOnError)
		trigger := fs.String("stop-trigger", "", "OCO stop trigger price")
		limit := fs.String("stop-limit", "", "OCO stop limit price")
		if err := fs.Parse(subArgs); err != nil {
			return nil, err
		}
		pos := fs.Args()
		if len(pos) != 3 {
			return nil, configErrorf("usage: buy [flags] <symbol> <quantity> <maxbid>")
		}
		cfg.Mode = ModeBuy
		cfg.Side = SideBuy
		cfg.Symbol = strings.ToUpper(pos[0])
		if err := parsePositive(&cfg.Quantity, "quantity", pos[1]); err != nil {
			return nil, err
		}
		if err := parsePositive(&cfg.MaxBid, "maxbid", pos[2]); err != nil {
			return nil, err
		}
		if err := parseStop(&cfg.BuyStop, "stop", *trigger, *limit); err != nil {
			return nil, err
		}

	case "trade":
		fs := flag.NewFlagSet("trade", flag.ContinueOnError)
		sellTrigger := fs.String("sell-stop-trigger", "", "OCO stop trigger price for sells")
		sellLimit := fs.String("sell-stop-limit", "", "OCO stop limit price for sells")
		buyTrigger := fs.String("buy-stop-trigger", "", "OCO stop trigger price for buys")
		buyLimit := fs.String("buy-stop-limit", "", "OCO stop limit price for buys")
		if err := fs.Parse(subArgs); err != nil {
			return nil, err
		}
		pos := fs.Args()
		if len(pos) != 5 {
			return nil, configErrorf("usage: trade [flags] <symbol> <side> <quantity> <maxbid> <minask>")
		}
		cfg.Mode = ModeTrade
		cfg.Symbol = strings.ToUpper(pos[0])
		switch strings.ToLower(pos[1]) {
		case "buy":
			cfg.Side = SideBuy
		case "sell":
			cfg.Side = SideSell
		default:
			return nil, configErrorf("side should be one of [buy, sell], got %q", pos[1])
		}
		if err := parsePositive(&cfg.Quantity, "quantity", pos[2]); err != nil {
			return nil, err
		}
		if err := parsePositive(&cfg.MaxBid, "maxbid", pos[3]); err != nil {
			return nil, err
		}
		if err := parsePositive(&cfg.MinAsk, "minask", pos[4]); err != nil {
			return nil, err
		}
		if err := parseStop(&cfg.SellStop, "sell-stop", *sellTrigger, *sellLimit); err != nil {
			return nil, err
		}
		if err := parseStop(&cfg.BuyStop, "buy-stop", *buyTrigger, *buyLimit); err != nil {
			return nil, err
		}

	default:
		return nil, configErrorf("unknown subcommand %q: expected sell, buy or trade", sub)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parsePositive(dst *decimal.Decimal, name, raw string) error {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return configErrorf("%s: not a number: %q", name, raw)
	}
	if !d.IsPositive() {
		return configErrorf("%s must be > 0, got %s", name, raw)
	}
	*dst = d
	return nil
}

// parseStop fills an OCO leg; trigger and limit must be given together.
func parseStop(dst *StopParams, name, trigger, limit string) error {
	if trigger == "" && limit == "" {
		return nil
	}
	if trigger == "" || limit == "" {
		return configErrorf("-%s-trigger and -%s-limit must be given together", name, name)
	}
	if err := parsePositive(&dst.Trigger, name+"-trigger", trigger); err != nil {
		return err
	}
	return parsePositive(&dst.Limit, name+"-limit", limit)
}
