// FILE: engine.go
// Package main – Repricing decision engine.
//
// decide() is the pure core of the bot: given the current top-of-book, the
// tracked order (nil when none is resting) and the user's price bound, it
// returns exactly one of:
//   • Hold               – leave the resting order alone
//   • Place(price)       – nothing resting; place at price
//   • Replace(price)     – cancel the resting order, then place at price
//
// The engine always tries to sit one tick inside the best same-side quote
// without crossing the bound. Two churn guards apply when the tracked order
// already holds the best level:
//   1) If its remaining size differs from the visible best-level size, the
//      visible liquidity is not (only) ours — hold.
//   2) If the gap to the second level is within one tick, nobody can
//      undercut by a full tick anyway — hold.
// Only when the size matches AND the gap strictly exceeds one tick does the
// engine cancel and re-place. The strict `>` boundary is deliberate;
// loosening it changes churn behavior.
//
// No I/O, no clocks, no goroutines: the poll loop owns all of that.

package main

import "github.com/shopspring/decimal"

// ActionType discriminates engine outcomes.
type ActionType int

const (
	Hold ActionType = iota
	Place
	Replace
)

// String implements fmt.Stringer for logs and metrics labels.
func (a ActionType) String() string {
	switch a {
	case Place:
		return "place"
	case Replace:
		return "replace"
	default:
		return "hold"
	}
}

// Action is the engine's verdict for one tick. Price is set for Place and
// Replace, zero for Hold.
type Action struct {
	Type  ActionType
	Price decimal.Decimal
}

// direction selects which book side the engine follows.
type direction int

const (
	followAsks direction = iota // selling: undercut the best ask
	followBids                  // buying: overbid the best bid
)

// decide runs one repricing decision. book must have at least one level on
// the followed side; tracked may be nil; bound is minAsk for followAsks and
// maxBid for followBids; tick is the pair's price increment.
func decide(book *OrderBook, tracked *Order, bound, tick decimal.Decimal, dir direction) Action {
	levels := book.Asks
	if dir == followBids {
		levels = book.Bids
	}
	best := levels[0]

	if tracked != nil {
		if tracked.Price.Equal(bound) {
			// Already at the user's limit; nothing better is allowed.
			return Action{Type: Hold}
		}
		if tracked.Price.Equal(best.Price) {
			if len(levels) < 2 {
				// Thin book: no second level to measure room against.
				return Action{Type: Hold}
			}
			resting := tracked.RemainingQuantity()
			gap := levels[1].Price.Sub(best.Price).Abs().Round(8)
			if !resting.Equal(best.Quantity) || gap.Cmp(tick) <= 0 {
				return Action{Type: Hold}
			}
			// Our size matches the whole best level and there is room to
			// tighten by a full tick: someone could sit in front of us.
		}
		return Action{Type: Replace, Price: candidatePrice(best.Price, bound, tick, dir)}
	}
	return Action{Type: Place, Price: candidatePrice(best.Price, bound, tick, dir)}
}

// candidatePrice is one tick inside best, clamped to the bound and rounded
// to 8 decimals like every other price in the system.
func candidatePrice(best, bound, tick decimal.Decimal, dir direction) decimal.Decimal {
	if dir == followAsks {
		c := best.Sub(tick).Round(8)
		if c.LessThan(bound) {
			c = bound
		}
		return c
	}
	c := best.Add(tick).Round(8)
	if c.GreaterThan(bound) {
		c = bound
	}
	return c
}
