package models

import (
	"fmt"
	"time"
)

// Pair is an ordered (base, quote) currency tuple defining a tradable
// market. Direction is semantically meaningful: Pair(BTC,LTC) is not
// Pair(LTC,BTC). Exchanges report base and quote in different orders;
// mappers normalize into this canonical orientation before anything is
// stored.
type Pair struct {
	Base  Currency `json:"base"`
	Quote Currency `json:"quote"`
}

// NewPair creates a pair from base and quote currencies.
func NewPair(base, quote Currency) Pair {
	return Pair{Base: base, Quote: quote}
}

// Equal reports whether both currencies match in order.
func (p Pair) Equal(other Pair) bool {
	return p.Base.Equal(other.Base) && p.Quote.Equal(other.Quote)
}

func (p Pair) String() string {
	return fmt.Sprintf("%s-%s", p.Base.Symbol, p.Quote.Symbol)
}

// PairOfMarket is a pair as listed by a specific exchange. There is one
// instance per (pair, market). Created is advisory and left nil when the
// exchange reports an unparseable listing timestamp.
type PairOfMarket struct {
	Pair         Pair       `json:"pair"`
	Market       MarketRef  `json:"-"`
	MinTradeSize float64    `json:"min_trade_size"`
	Active       bool       `json:"active"`
	Created      *time.Time `json:"created,omitempty"`
}
