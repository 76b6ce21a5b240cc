// FILE: live.go
// Package main – The polling loop driver.
//
// Run drives the trader in real time: execute one tick, sleep the configured
// wait interval, repeat. The loop stops when
//   • the trader reports completion (order filled or expired),
//   • the context is canceled (SIGINT/SIGTERM in main.go), or
//   • a tick returns an error.
//
// Exchange errors are fatal: they are logged and the process exits. There
// is no retry or backoff here; a deployment that wants retries should wrap
// the Exchange implementation.
//
// Termination is only checked between ticks; a tick that has started always
// runs to completion.

package main

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Run executes ticks until completion, cancelation, or a fatal error.
func (t *Trader) Run(ctx context.Context) error {
	t.logStart()
	for !t.completed {
		mtxTicks.Inc()
		if err := t.executeTick(ctx); err != nil {
			var xerr *ExchangeError
			if errors.As(err, &xerr) {
				log.Errorf("exchange call failed, stopping: %v", xerr)
			}
			return err
		}
		if t.completed {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.cfg.Wait):
		}
	}
	log.Infof("run completed for %s", t.cfg.Symbol)
	return nil
}
