// FILE: trader.go
// Package main – The order-following controller (sell, buy, and alternating).
//
// One Trader owns exactly one tracked order and the pair of running balances
// it feeds. Each tick goes refresh → (maybe early return) → decide → act:
//
//   1) refreshOrder() re-fetches the tracked order from the exchange and, on
//      a FILLED transition, folds execution into the balances. The tracked
//      order is only ever replaced wholesale with what the venue returned —
//      nothing is guessed locally.
//   2) A terminal status is consumed: FILLED/EXPIRED complete a sell or buy
//      run; in trade mode FILLED clears the order and flips the active side
//      (EXPIRED still completes). PARTIALLY_FILLED ticks observe and return —
//      a partially filled order is never canceled or repriced.
//   3) Otherwise the decision engine (engine.go) looks at a fresh top-of-book
//      snapshot and the trader executes its verdict: hold, place, or
//      cancel-then-place. Cancellation always precedes placement within the
//      same tick, so no order is left unaccounted for.
//
// Sizing:
//   • Sells always offer the running base balance.
//   • Buys use the fixed quantity when one was configured, otherwise size
//     from the quote balance (quote / price, floored to the lot step).
//
// Everything here is single-threaded; the poll loop in live.go is the only
// caller.

package main

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Trader struct {
	cfg  *Config
	ex   Exchange
	pair *Pair

	side  Side   // active side; fixed for ModeSell/ModeBuy
	order *Order // the one tracked order, nil when none is resting

	// Running balances. baseQty is the base amount still to sell (or
	// accumulated from buys); quoteQty is the quote amount available to
	// spend on buys (or the proceeds of the last sell).
	baseQty  decimal.Decimal
	quoteQty decimal.Decimal
	// buyQty is the fixed buy size; zero means "size buys from quoteQty".
	buyQty decimal.Decimal

	completed bool
}

// NewTrader resolves the pair metadata (tick size, lot step) and seeds the
// balances from the config. It performs exactly one exchange call.
func NewTrader(ctx context.Context, cfg *Config, ex Exchange) (*Trader, error) {
	pair, err := ex.PairInfo(ctx, cfg.Symbol)
	if err != nil {
		return nil, err
	}
	t := &Trader{cfg: cfg, ex: ex, pair: pair, side: cfg.Side}
	switch cfg.Mode {
	case ModeSell:
		t.baseQty = cfg.Quantity
	case ModeBuy:
		t.buyQty = cfg.Quantity
	case ModeTrade:
		if cfg.Side == SideSell {
			t.baseQty = cfg.Quantity
		} else {
			t.buyQty = cfg.Quantity
		}
	}
	return t, nil
}

// Completed reports whether the run is finished (order filled or expired).
func (t *Trader) Completed() bool { return t.completed }

// executeTick runs one full refresh→decide→act cycle. Any returned error is
// fatal to the run loop.
func (t *Trader) executeTick(ctx context.Context) error {
	if err := t.refreshOrder(ctx); err != nil {
		return err
	}
	if t.order != nil {
		switch t.order.Status {
		case StatusFilled:
			if t.cfg.Mode == ModeTrade {
				// Consume the fill and switch direction; the new side is
				// evaluated against the book in this same tick.
				t.order = nil
				t.side = t.side.Opposite()
				log.Infof("switching side to %s (base=%s %s, quote=%s %s)",
					t.side, t.baseQty, t.pair.BaseAsset, t.quoteQty, t.pair.QuoteAsset)
			} else {
				t.completed = true
				return nil
			}
		case StatusExpired:
			t.completed = true
			return nil
		case StatusPartiallyFilled:
			// Observe only. Never touch a partially filled order.
			return nil
		}
	}
	return t.followBook(ctx)
}

// refreshOrder replaces the tracked order with the venue's authoritative
// view and folds a fill into the running balances. A FILLED order is always
// consumed by executeTick right after, so the fold runs at most once per
// fill.
func (t *Trader) refreshOrder(ctx context.Context) error {
	if t.order == nil {
		return nil
	}
	o, err := t.ex.GetOrder(ctx, t.cfg.Symbol, t.order.ID)
	if err != nil {
		return err
	}
	t.order = o
	switch o.Status {
	case StatusFilled:
		if o.Side == SideSell {
			// A single resting order's proceeds replace, not accumulate.
			t.quoteQty = o.QuoteQuantity
			t.baseQty = t.baseQty.Sub(o.ExecutedQuantity)
		} else {
			t.quoteQty = t.quoteQty.Sub(o.QuoteQuantity)
			t.baseQty = t.baseQty.Add(o.ExecutedQuantity)
		}
		mtxFills.WithLabelValues(string(o.Side)).Inc()
		log.Infof("order %d completed: %s %s %s @ %s for %s %s",
			o.ID, o.Side, o.ExecutedQuantity, t.pair.BaseAsset, o.Price, o.QuoteQuantity, t.pair.QuoteAsset)
	case StatusExpired:
		log.Infof("order %d expired (executed %s/%s)", o.ID, o.ExecutedQuantity, o.OrigQuantity)
	case StatusPartiallyFilled:
		log.Infof("order %d partially filled, waiting for fulfilment: %s/%s",
			o.ID, o.ExecutedQuantity, o.OrigQuantity)
	}
	return nil
}

// followBook fetches a book snapshot, asks the engine, and executes the
// verdict for the active side.
func (t *Trader) followBook(ctx context.Context) error {
	book, err := t.ex.BookTop(ctx, t.cfg.Symbol)
	if err != nil {
		return err
	}

	dir, bound := followAsks, t.cfg.MinAsk
	if t.side == SideBuy {
		dir, bound = followBids, t.cfg.MaxBid
	}
	levels := book.Asks
	if dir == followBids {
		levels = book.Bids
	}
	if len(levels) == 0 {
		log.Warnf("empty %s book for %s, holding", t.side, t.cfg.Symbol)
		return nil
	}

	act := decide(book, t.order, bound, t.pair.PriceIncrement, dir)
	mtxDecisions.WithLabelValues(act.Type.String()).Inc()

	switch act.Type {
	case Hold:
		log.Debugf("%s order keeps the best allowed price, no update", t.side)
		return nil
	case Replace:
		if err := t.cancelTracked(ctx); err != nil {
			return err
		}
	}
	return t.placeOrder(ctx, act.Price)
}

// cancelTracked cancels the resting order best-effort and forgets it.
func (t *Trader) cancelTracked(ctx context.Context) error {
	if t.order == nil {
		return nil
	}
	if err := t.ex.CancelOrder(ctx, t.cfg.Symbol, t.order.ID); err != nil {
		return err
	}
	log.Infof("order %d canceled", t.order.ID)
	mtxCancels.Inc()
	t.order = nil
	return nil
}

// placeOrder sizes and places the next order at price, as a plain limit or
// as the limit leg of an OCO pair when a stop is configured for the side.
func (t *Trader) placeOrder(ctx context.Context, price decimal.Decimal) error {
	qty, err := t.orderQuantity(price)
	if err != nil {
		return err
	}

	stop := t.cfg.SellStop
	if t.side == SideBuy {
		stop = t.cfg.BuyStop
	}

	var o *Order
	if stop.Set() {
		o, err = t.ex.PlaceOCO(ctx, t.cfg.Symbol, t.side, qty, price, stop.Trigger, stop.Limit)
	} else {
		o, err = t.ex.PlaceLimit(ctx, t.cfg.Symbol, t.side, qty, price)
	}
	if err != nil {
		return err
	}
	t.order = o

	kind := "limit"
	if stop.Set() {
		kind = "oco"
	}
	mtxOrders.WithLabelValues(string(t.side), kind).Inc()
	lastOrderPrice.WithLabelValues(string(t.side)).Set(priceGauge(price))
	log.Infof("placed a new %s %s order for %s: quantity=%s price=%s",
		t.side, kind, t.cfg.Symbol, qty, price)
	return nil
}

// orderQuantity picks the size for the next placement. Sells offer the base
// balance; buys use the fixed quantity or fall back to sizing from the quote
// balance floored to the lot step.
func (t *Trader) orderQuantity(price decimal.Decimal) (decimal.Decimal, error) {
	if t.side == SideSell {
		if !t.baseQty.IsPositive() {
			return decimal.Zero, configErrorf("no base balance left to sell")
		}
		return t.baseQty, nil
	}
	if t.buyQty.IsPositive() {
		return t.buyQty, nil
	}
	if t.quoteQty.IsPositive() {
		if !t.pair.QuantityIncrement.IsPositive() {
			return decimal.Zero, configErrorf("no lot step known for %s; cannot size a buy from the quote balance", t.cfg.Symbol)
		}
		qty := t.quoteQty.Div(price)
		qty = qty.Sub(qty.Mod(t.pair.QuantityIncrement))
		if !qty.IsPositive() {
			return decimal.Zero, configErrorf("quote balance %s buys less than one lot step at %s", t.quoteQty, price)
		}
		return qty, nil
	}
	return decimal.Zero, configErrorf("either a fixed buy quantity or a positive quote balance is required")
}

// logStart mirrors the operation banner printed before the loop starts.
func (t *Trader) logStart() {
	switch t.cfg.Mode {
	case ModeSell:
		log.Infof("auto selling %s with min ask %s, quantity %s %s",
			t.cfg.Symbol, t.cfg.MinAsk, t.baseQty, t.pair.BaseAsset)
		if t.cfg.SellStop.Set() {
			log.Infof("sell stop trigger %s, stop limit %s", t.cfg.SellStop.Trigger, t.cfg.SellStop.Limit)
		}
	case ModeBuy:
		log.Infof("auto buying %s with max bid %s, quantity %s %s",
			t.cfg.Symbol, t.cfg.MaxBid, t.buyQty, t.pair.BaseAsset)
		if t.cfg.BuyStop.Set() {
			log.Infof("buy stop trigger %s, stop limit %s", t.cfg.BuyStop.Trigger, t.cfg.BuyStop.Limit)
		}
	case ModeTrade:
		log.Infof("auto trading %s starting with %s, quantity %s, max bid %s, min ask %s",
			t.cfg.Symbol, t.side, t.cfg.Quantity, t.cfg.MaxBid, t.cfg.MinAsk)
		if t.cfg.SellStop.Set() {
			log.Infof("sell stop trigger %s, stop limit %s", t.cfg.SellStop.Trigger, t.cfg.SellStop.Limit)
		}
		if t.cfg.BuyStop.Set() {
			log.Infof("buy stop trigger %s, stop limit %s", t.cfg.BuyStop.Trigger, t.cfg.BuyStop.Limit)
		}
	}
	log.Infof("pair %s: price increment %s, quantity increment %s",
		t.pair.Symbol, t.pair.PriceIncrement, t.pair.QuantityIncrement)
}
