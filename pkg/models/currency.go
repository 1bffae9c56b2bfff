// Package models defines the canonical, exchange-agnostic domain entities
// shared by every exchange integration: currencies, pairs, order books,
// balances, orders, ticks, market summaries and trade history.
//
// Exchange packages map their raw wire shapes into these types; nothing
// outside an exchange package ever sees a raw response.
package models

import "strings"

// Currency is a currency symbol with an optional descriptive long name.
// Instances are value types and are never mutated after construction.
type Currency struct {
	Symbol   string `json:"symbol"`
	LongName string `json:"long_name,omitempty"`
}

// NewCurrency creates a currency from its symbol.
func NewCurrency(symbol string) Currency {
	return Currency{Symbol: symbol}
}

// NewCurrencyLong creates a currency with a long name (e.g. "BTC", "Bitcoin").
func NewCurrencyLong(symbol, longName string) Currency {
	return Currency{Symbol: symbol, LongName: longName}
}

// Equal reports whether two currencies denote the same symbol.
// Comparison is case-insensitive: Currency("BTC") equals Currency("btc").
func (c Currency) Equal(other Currency) bool {
	return strings.EqualFold(c.Symbol, other.Symbol)
}

func (c Currency) String() string { return c.Symbol }

// CryptoAddress is a deposit address. The empty value means "no address".
type CryptoAddress string

// IsZero reports whether the address is unset.
func (a CryptoAddress) IsZero() bool { return a == "" }

func (a CryptoAddress) String() string { return string(a) }

// MarketRef identifies the exchange a record belongs to. The concrete
// market type lives in the exchange layer; domain entities only need
// its identity.
type MarketRef interface {
	Name() string
}

// CurrencyOfMarket is a currency as offered by a specific exchange,
// together with its exchange-specific trading constraints.
type CurrencyOfMarket struct {
	Currency Currency      `json:"currency"`
	Market   MarketRef     `json:"-"`
	TxFee    float64       `json:"tx_fee"`
	Active   bool          `json:"active"`
	Address  CryptoAddress `json:"address,omitempty"`
}
