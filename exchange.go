// FILE: exchange.go
// Package main – Exchange abstraction shared by the trading loop.
//
// This file defines the minimal interface the bot needs to talk to a spot
// exchange, plus the normalized types that cross it:
//   • Exchange interface: pair metadata, top-of-book, order status,
//     cancel, limit placement, OCO placement
//   • Common types: Side, OrderStatus, Pair, OrderBook, Order
//
// The one concrete implementation lives in exchange_binance.go. Tests use a
// scripted in-memory fake instead.
//
// All prices and quantities are decimal.Decimal end to end; the adapter is
// responsible for converting the venue's string fields.

package main

import (
	"context"

	"github.com/shopspring/decimal"
)

// Side is the side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderStatus is the exchange-reported lifecycle state of an order.
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// Pair is the static trading-pair metadata, fetched once per run.
type Pair struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string

	// PriceIncrement is the smallest allowed price step (tick size).
	PriceIncrement decimal.Decimal
	// QuantityIncrement is the smallest allowed quantity step (lot step
	// size). Zero when the venue reports no lot-size filter; quote-sized
	// buys are then refused.
	QuantityIncrement decimal.Decimal
}

// bookDepth is how many levels per side each snapshot carries. The engine
// only ever looks at the first two, but five keeps the snapshot debuggable.
const bookDepth = 5

// Level is one (price, quantity) order-book level.
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// OrderBook is a best-first snapshot of the top levels of the book.
// It has no identity: a fresh one is fetched every tick and dropped.
type OrderBook struct {
	Asks []Level
	Bids []Level
}

// Order is a normalized view of a resting (or terminal) exchange order.
// It is a value replaced wholesale on every refresh, never mutated in
// place, so fill/partial/expiry transitions stay auditable.
type Order struct {
	ID     int64
	Symbol string
	Side   Side
	Price  decimal.Decimal
	// OrigQuantity and ExecutedQuantity come straight from the venue;
	// ExecutedQuantity <= OrigQuantity always holds.
	OrigQuantity     decimal.Decimal
	ExecutedQuantity decimal.Decimal
	// QuoteQuantity is the cumulative quote amount exchanged so far
	// (Binance: cummulativeQuoteQty).
	QuoteQuantity decimal.Decimal
	Status        OrderStatus
}

// RemainingQuantity is the unfilled remainder, rounded to 8 decimals to
// match the venue's book quantities.
func (o *Order) RemainingQuantity() decimal.Decimal {
	return o.OrigQuantity.Sub(o.ExecutedQuantity).Round(8)
}

// Exchange is the surface the bot needs to operate. Every call is
// blocking and honors ctx; errors come back as *ExchangeError (or
// *ConfigError for missing pair metadata).
type Exchange interface {
	// PairInfo resolves tick size and lot step for symbol.
	PairInfo(ctx context.Context, symbol string) (*Pair, error)
	// BookTop returns the top five levels of each book side.
	BookTop(ctx context.Context, symbol string) (*OrderBook, error)
	// GetOrder fetches the authoritative status of an order.
	GetOrder(ctx context.Context, symbol string, orderID int64) (*Order, error)
	// CancelOrder cancels best-effort: canceling an order that already
	// reached a terminal state is not an error.
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	// PlaceLimit places a GTC limit order.
	PlaceLimit(ctx context.Context, symbol string, side Side, quantity, price decimal.Decimal) (*Order, error)
	// PlaceOCO places a limit + stop-limit pair (GTC stop leg) and
	// returns the plain limit leg as the order to track.
	PlaceOCO(ctx context.Context, symbol string, side Side, quantity, price, stopPrice, stopLimitPrice decimal.Decimal) (*Order, error)
}
