// FILE: exchange_binance.go
// Package main – Binance spot implementation of the Exchange interface.
//
// Thin adapter over github.com/adshao/go-binance/v2:
//   • PairInfo     → GET /api/v3/exchangeInfo (PRICE_FILTER / LOT_SIZE)
//   • BookTop      → GET /api/v3/depth (limit 5)
//   • GetOrder     → GET /api/v3/order
//   • CancelOrder  → DELETE /api/v3/order (UNKNOWN_ORDER treated as done)
//   • PlaceLimit   → POST /api/v3/order (LIMIT, GTC)
//   • PlaceOCO     → POST /api/v3/order/oco (tracks the limit leg)
//
// Every placement carries a fresh client order id so reconciliation against
// exchange history stays possible after the process exits.

package main

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// unknownOrderCode is Binance's -2011 "Unknown order sent." — returned when
// canceling an order that is already filled or canceled.
const unknownOrderCode = -2011

type BinanceExchange struct {
	client *binance.Client
}

func NewBinanceExchange(apiKey, apiSecret string) *BinanceExchange {
	return &BinanceExchange{client: binance.NewClient(apiKey, apiSecret)}
}

func (b *BinanceExchange) PairInfo(ctx context.Context, symbol string) (*Pair, error) {
	info, err := b.client.NewExchangeInfoService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, wrapExchangeErr("exchangeInfo", err)
	}
	for i := range info.Symbols {
		if info.Symbols[i].Symbol == symbol {
			return pairFromSymbol(&info.Symbols[i]), nil
		}
	}
	return nil, configErrorf("no exchange metadata found for symbol %s", symbol)
}

// pairFromSymbol normalizes venue metadata into a Pair. Tick size comes from
// the PRICE_FILTER when present, else is synthesized as 10^-(quotePrecision-1)
// the way the venue documents its default pricing granularity. The lot step
// stays zero when no LOT_SIZE filter exists.
func pairFromSymbol(s *binance.Symbol) *Pair {
	p := &Pair{
		Symbol:     s.Symbol,
		BaseAsset:  s.BaseAsset,
		QuoteAsset: s.QuoteAsset,
	}
	if f := s.PriceFilter(); f != nil && f.TickSize != "" {
		p.PriceIncrement = dec(f.TickSize)
	} else {
		p.PriceIncrement = decimal.New(1, -int32(s.QuotePrecision-1))
	}
	if f := s.LotSizeFilter(); f != nil && f.StepSize != "" {
		p.QuantityIncrement = dec(f.StepSize)
	}
	return p
}

func (b *BinanceExchange) BookTop(ctx context.Context, symbol string) (*OrderBook, error) {
	res, err := b.client.NewDepthService().Symbol(symbol).Limit(bookDepth).Do(ctx)
	if err != nil {
		return nil, wrapExchangeErr("depth", err)
	}
	book := &OrderBook{
		Asks: make([]Level, 0, len(res.Asks)),
		Bids: make([]Level, 0, len(res.Bids)),
	}
	for _, a := range res.Asks {
		book.Asks = append(book.Asks, Level{Price: dec(a.Price), Quantity: dec(a.Quantity)})
	}
	for _, bd := range res.Bids {
		book.Bids = append(book.Bids, Level{Price: dec(bd.Price), Quantity: dec(bd.Quantity)})
	}
	return book, nil
}

func (b *BinanceExchange) GetOrder(ctx context.Context, symbol string, orderID int64) (*Order, error) {
	o, err := b.client.NewGetOrderService().Symbol(symbol).OrderID(orderID).Do(ctx)
	if err != nil {
		return nil, wrapExchangeErr("getOrder", err)
	}
	return &Order{
		ID:               o.OrderID,
		Symbol:           o.Symbol,
		Side:             Side(o.Side),
		Price:            dec(o.Price),
		OrigQuantity:     dec(o.OrigQuantity),
		ExecutedQuantity: dec(o.ExecutedQuantity),
		QuoteQuantity:    dec(o.CummulativeQuoteQuantity),
		Status:           OrderStatus(o.Status),
	}, nil
}

func (b *BinanceExchange) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	_, err := b.client.NewCancelOrderService().Symbol(symbol).OrderID(orderID).Do(ctx)
	if err != nil {
		if apiErr, ok := err.(*common.APIError); ok && apiErr.Code == unknownOrderCode {
			// Already terminal on the venue side; cancel is best-effort.
			log.Debugf("cancel %d: order already gone (%s)", orderID, apiErr.Message)
			return nil
		}
		return wrapExchangeErr("cancelOrder", err)
	}
	return nil
}

func (b *BinanceExchange) PlaceLimit(ctx context.Context, symbol string, side Side, quantity, price decimal.Decimal) (*Order, error) {
	res, err := b.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binance.SideType(side)).
		Type(binance.OrderTypeLimit).
		TimeInForce(binance.TimeInForceTypeGTC).
		Quantity(quantity.String()).
		Price(price.String()).
		NewClientOrderID(uuid.NewString()).
		Do(ctx)
	if err != nil {
		return nil, wrapExchangeErr("createOrder", err)
	}
	return &Order{
		ID:               res.OrderID,
		Symbol:           res.Symbol,
		Side:             Side(res.Side),
		Price:            dec(res.Price),
		OrigQuantity:     dec(res.OrigQuantity),
		ExecutedQuantity: dec(res.ExecutedQuantity),
		QuoteQuantity:    dec(res.CummulativeQuoteQuantity),
		Status:           OrderStatus(res.Status),
	}, nil
}

func (b *BinanceExchange) PlaceOCO(ctx context.Context, symbol string, side Side, quantity, price, stopPrice, stopLimitPrice decimal.Decimal) (*Order, error) {
	res, err := b.client.NewCreateOCOService().
		Symbol(symbol).
		Side(binance.SideType(side)).
		Quantity(quantity.String()).
		Price(price.String()).
		StopPrice(stopPrice.String()).
		StopLimitPrice(stopLimitPrice.String()).
		StopLimitTimeInForce(binance.TimeInForceTypeGTC).
		ListClientOrderID(uuid.NewString()).
		Do(ctx)
	if err != nil {
		return nil, wrapExchangeErr("createOCO", err)
	}
	// Track the plain limit leg; the stop leg lives and dies with it.
	for _, r := range res.OrderReports {
		if r.Type == binance.OrderTypeLimit || r.Type == binance.OrderTypeLimitMaker {
			return &Order{
				ID:               r.OrderID,
				Symbol:           r.Symbol,
				Side:             Side(r.Side),
				Price:            dec(r.Price),
				OrigQuantity:     dec(r.OrigQuantity),
				ExecutedQuantity: dec(r.ExecutedQuantity),
				QuoteQuantity:    dec(r.CummulativeQuoteQuantity),
				Status:           OrderStatus(r.Status),
			}, nil
		}
	}
	return nil, wrapExchangeErr("createOCO", configErrorf("OCO response for %s has no limit leg", symbol))
}

// dec parses a venue numeric string, treating empty (and anything the venue
// sends malformed) as zero.
func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Warnf("unparseable decimal %q from exchange, using 0", s)
		return decimal.Zero
	}
	return d
}
