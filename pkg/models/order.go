package models

import "time"

// OrderID is an exchange-native order identifier. It is opaque: the only
// operations on it are equality and transmission back to the exchange
// that issued it.
type OrderID string

func (id OrderID) String() string { return string(id) }

// Order is an open limit order on an exchange. Opened is nil when the
// exchange reported an unparseable open time; an unknown open time is
// not an error.
type Order struct {
	ID       OrderID       `json:"id"`
	Market   MarketRef     `json:"-"`
	Pair     Pair          `json:"pair"`
	Quantity float64       `json:"quantity"`
	Price    float64       `json:"price"`
	Position TradePosition `json:"position"`
	Opened   *time.Time    `json:"opened,omitempty"`
}
