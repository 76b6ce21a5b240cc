// FILE: trader_test.go
// Package main – Controller behavior against a scripted in-memory exchange.

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type placedCall struct {
	id        int64
	side      Side
	qty       decimal.Decimal
	price     decimal.Decimal
	oco       bool
	stopPrice decimal.Decimal
	stopLimit decimal.Decimal
}

// fakeExchange is a scripted Exchange. Tests mutate orders[id] to simulate
// fills/expiries between ticks; ops records call ordering.
type fakeExchange struct {
	pair    *Pair
	book    *OrderBook
	bookErr error
	orders  map[int64]*Order
	nextID  int64

	ops      []string
	placed   []placedCall
	canceled []int64
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		pair: &Pair{
			Symbol:            "BTCUSDT",
			BaseAsset:         "BTC",
			QuoteAsset:        "USDT",
			PriceIncrement:    d("0.01"),
			QuantityIncrement: d("0.001"),
		},
		book:   twoSidedBook(),
		orders: map[int64]*Order{},
		nextID: 1,
	}
}

func (f *fakeExchange) PairInfo(_ context.Context, _ string) (*Pair, error) {
	f.ops = append(f.ops, "pairInfo")
	return f.pair, nil
}

func (f *fakeExchange) BookTop(_ context.Context, _ string) (*OrderBook, error) {
	f.ops = append(f.ops, "book")
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return f.book, nil
}

func (f *fakeExchange) GetOrder(_ context.Context, _ string, orderID int64) (*Order, error) {
	f.ops = append(f.ops, "getOrder")
	o, ok := f.orders[orderID]
	if !ok {
		return nil, wrapExchangeErr("getOrder", errors.New("unknown order"))
	}
	cp := *o
	return &cp, nil
}

func (f *fakeExchange) CancelOrder(_ context.Context, _ string, orderID int64) error {
	f.ops = append(f.ops, "cancel")
	f.canceled = append(f.canceled, orderID)
	delete(f.orders, orderID)
	return nil
}

func (f *fakeExchange) place(side Side, qty, price decimal.Decimal, oco bool, stopPrice, stopLimit decimal.Decimal) *Order {
	o := &Order{
		ID:           f.nextID,
		Symbol:       f.pair.Symbol,
		Side:         side,
		Price:        price,
		OrigQuantity: qty,
		Status:       StatusNew,
	}
	f.nextID++
	f.orders[o.ID] = o
	f.placed = append(f.placed, placedCall{
		id: o.ID, side: side, qty: qty, price: price,
		oco: oco, stopPrice: stopPrice, stopLimit: stopLimit,
	})
	cp := *o
	return &cp
}

func (f *fakeExchange) PlaceLimit(_ context.Context, _ string, side Side, qty, price decimal.Decimal) (*Order, error) {
	f.ops = append(f.ops, "placeLimit")
	return f.place(side, qty, price, false, decimal.Zero, decimal.Zero), nil
}

func (f *fakeExchange) PlaceOCO(_ context.Context, _ string, side Side, qty, price, stopPrice, stopLimit decimal.Decimal) (*Order, error) {
	f.ops = append(f.ops, "placeOCO")
	return f.place(side, qty, price, true, stopPrice, stopLimit), nil
}

func sellConfig() *Config {
	return &Config{
		Mode:     ModeSell,
		Symbol:   "BTCUSDT",
		Side:     SideSell,
		Quantity: d("1"),
		MinAsk:   d("99.00"),
		Wait:     time.Second,
	}
}

func tradeConfig(first Side) *Config {
	return &Config{
		Mode:     ModeTrade,
		Symbol:   "BTCUSDT",
		Side:     first,
		Quantity: d("1"),
		MinAsk:   d("99.00"),
		MaxBid:   d("101.00"),
		Wait:     time.Second,
	}
}

func TestSellPlacesInitialOrder(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), sellConfig(), fx)
	require.NoError(t, err)

	require.NoError(t, tr.executeTick(context.Background()))
	require.Len(t, fx.placed, 1)
	require.Equal(t, SideSell, fx.placed[0].side)
	require.True(t, fx.placed[0].price.Equal(d("99.99")), "price %s", fx.placed[0].price)
	require.True(t, fx.placed[0].qty.Equal(d("1")), "qty %s", fx.placed[0].qty)
	require.False(t, tr.Completed())
}

func TestSellFillAccountingAndCompletion(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), sellConfig(), fx)
	require.NoError(t, err)
	require.NoError(t, tr.executeTick(context.Background()))

	fx.orders[1].Status = StatusFilled
	fx.orders[1].ExecutedQuantity = d("1.0")
	fx.orders[1].QuoteQuantity = d("100.0")

	require.NoError(t, tr.executeTick(context.Background()))
	require.True(t, tr.Completed())
	require.True(t, tr.quoteQty.Equal(d("100.0")), "quote %s", tr.quoteQty)
	require.True(t, tr.baseQty.IsZero(), "base %s", tr.baseQty)
}

func TestPartialFillIsObserveOnly(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), sellConfig(), fx)
	require.NoError(t, err)
	require.NoError(t, tr.executeTick(context.Background()))

	fx.orders[1].Status = StatusPartiallyFilled
	fx.orders[1].ExecutedQuantity = d("0.4")
	before := len(fx.ops)

	require.NoError(t, tr.executeTick(context.Background()))
	// Only the status fetch may happen: no book, no cancel, no placement.
	require.Equal(t, []string{"getOrder"}, fx.ops[before:])
	require.False(t, tr.Completed())
	// Balances untouched until the fill completes.
	require.True(t, tr.baseQty.Equal(d("1")), "base %s", tr.baseQty)
}

func TestExpiredOrderCompletesRun(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), sellConfig(), fx)
	require.NoError(t, err)
	require.NoError(t, tr.executeTick(context.Background()))

	fx.orders[1].Status = StatusExpired
	require.NoError(t, tr.executeTick(context.Background()))
	require.True(t, tr.Completed())
}

func TestReplaceCancelsBeforePlacing(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), sellConfig(), fx)
	require.NoError(t, err)
	require.NoError(t, tr.executeTick(context.Background()))

	// The book moved under our order at 99.99; best ask is now 99.50.
	fx.book = &OrderBook{Asks: []Level{lvl("99.50", "2"), lvl("99.60", "1")}}
	before := len(fx.ops)

	require.NoError(t, tr.executeTick(context.Background()))
	require.Equal(t, []string{"getOrder", "book", "cancel", "placeLimit"}, fx.ops[before:])
	require.Equal(t, []int64{1}, fx.canceled)
	require.Len(t, fx.placed, 2)
	require.True(t, fx.placed[1].price.Equal(d("99.49")), "price %s", fx.placed[1].price)
}

func TestSellHoldsWhileBestPriced(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), sellConfig(), fx)
	require.NoError(t, err)
	require.NoError(t, tr.executeTick(context.Background()))

	// Our order is now the best level with a different visible size.
	fx.book = &OrderBook{Asks: []Level{lvl("99.99", "3"), lvl("100.05", "2")}}
	before := len(fx.placed)

	require.NoError(t, tr.executeTick(context.Background()))
	require.Len(t, fx.placed, before)
	require.Empty(t, fx.canceled)
}

func TestTradeAlternatesSidesOnFills(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), tradeConfig(SideSell), fx)
	require.NoError(t, err)

	// Tick 1: initial sell at 99.99.
	require.NoError(t, tr.executeTick(context.Background()))
	require.Equal(t, SideSell, fx.placed[0].side)

	// The sell fills for 100 USDT.
	fx.orders[1].Status = StatusFilled
	fx.orders[1].ExecutedQuantity = d("1.0")
	fx.orders[1].QuoteQuantity = d("100.0")

	// Tick 2: the fill flips the side and the buy is sized from the quote
	// proceeds in the same tick: floor(100 / 99.91, 0.001) = 1.000.
	require.NoError(t, tr.executeTick(context.Background()))
	require.False(t, tr.Completed())
	require.Equal(t, SideBuy, tr.side)
	require.Len(t, fx.placed, 2)
	require.Equal(t, SideBuy, fx.placed[1].side)
	require.True(t, fx.placed[1].price.Equal(d("99.91")), "price %s", fx.placed[1].price)
	require.True(t, fx.placed[1].qty.Equal(d("1")), "qty %s", fx.placed[1].qty)

	// The buy fills; the next tick is a sell again, offering what we bought.
	fx.orders[2].Status = StatusFilled
	fx.orders[2].ExecutedQuantity = d("1.000")
	fx.orders[2].QuoteQuantity = d("99.91")

	require.NoError(t, tr.executeTick(context.Background()))
	require.Equal(t, SideSell, tr.side)
	require.Len(t, fx.placed, 3)
	require.Equal(t, SideSell, fx.placed[2].side)
	require.True(t, fx.placed[2].qty.Equal(d("1")), "qty %s", fx.placed[2].qty)
	require.True(t, tr.quoteQty.Equal(d("0.09")), "quote %s", tr.quoteQty)
}

func TestTradeCompletesOnlyOnExpiry(t *testing.T) {
	fx := newFakeExchange()
	tr, err := NewTrader(context.Background(), tradeConfig(SideSell), fx)
	require.NoError(t, err)
	require.NoError(t, tr.executeTick(context.Background()))

	fx.orders[1].Status = StatusExpired
	require.NoError(t, tr.executeTick(context.Background()))
	require.True(t, tr.Completed())
}

func TestBuyRequiresSizingBasis(t *testing.T) {
	fx := newFakeExchange()
	// No fixed quantity and no quote balance.
	tr := &Trader{cfg: tradeConfig(SideBuy), ex: fx, pair: fx.pair, side: SideBuy}

	err := tr.executeTick(context.Background())
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestQuoteSizedBuyNeedsLotStep(t *testing.T) {
	fx := newFakeExchange()
	fx.pair.QuantityIncrement = decimal.Zero
	tr := &Trader{cfg: tradeConfig(SideBuy), ex: fx, pair: fx.pair, side: SideBuy, quoteQty: d("100")}

	err := tr.executeTick(context.Background())
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestSellStopPlacesOCO(t *testing.T) {
	fx := newFakeExchange()
	cfg := sellConfig()
	cfg.SellStop = StopParams{Trigger: d("95.00"), Limit: d("94.90")}
	tr, err := NewTrader(context.Background(), cfg, fx)
	require.NoError(t, err)

	require.NoError(t, tr.executeTick(context.Background()))
	require.Len(t, fx.placed, 1)
	require.True(t, fx.placed[0].oco)
	require.True(t, fx.placed[0].stopPrice.Equal(d("95.00")))
	require.True(t, fx.placed[0].stopLimit.Equal(d("94.90")))
}

func TestRunStopsOnExchangeError(t *testing.T) {
	fx := newFakeExchange()
	fx.bookErr = wrapExchangeErr("depth", errors.New("429 too many requests"))
	cfg := sellConfig()
	cfg.Wait = time.Millisecond
	tr, err := NewTrader(context.Background(), cfg, fx)
	require.NoError(t, err)

	err = tr.Run(context.Background())
	var xerr *ExchangeError
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, "depth", xerr.Op)
}

func TestRunStopsBetweenTicksOnCancel(t *testing.T) {
	fx := newFakeExchange()
	cfg := sellConfig()
	cfg.Wait = time.Hour // would hang forever if cancelation were ignored
	tr, err := NewTrader(context.Background(), cfg, fx)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = tr.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	// The tick that had started still ran to completion.
	require.Len(t, fx.placed, 1)
}
