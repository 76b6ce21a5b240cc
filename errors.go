// FILE: errors.go
// Package main – Error taxonomy for the bot.
//
// Two failure classes exist:
//   • ConfigError    – bad arguments, missing credentials, missing symbol
//                      metadata, no sizing basis for a buy. Raised before or
//                      during setup; always fatal.
//   • ExchangeError  – any failed exchange call (transport, rate limit,
//                      rejected order). Fatal at the loop level: the run loop
//                      logs it and terminates. No retry/backoff here; if a
//                      deployment wants retries they belong in front of the
//                      Exchange implementation, not in the trading core.

package main

import "fmt"

// ConfigError is a fatal configuration problem detected before trading starts
// (or, for quote-sized buys, on the first sizing attempt).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ExchangeError wraps a failed exchange operation with the operation name so
// log lines say which call died.
type ExchangeError struct {
	Op  string // e.g. "getOrder", "depth", "createOrder"
	Err error
}

func (e *ExchangeError) Error() string { return fmt.Sprintf("exchange %s: %v", e.Op, e.Err) }

func (e *ExchangeError) Unwrap() error { return e.Err }

func wrapExchangeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExchangeError{Op: op, Err: err}
}
