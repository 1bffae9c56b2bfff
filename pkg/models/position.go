package models

// TradePosition is the buy or sell side of a trade or order.
type TradePosition int

const (
	Buy TradePosition = iota
	Sell
)

func (p TradePosition) String() string {
	switch p {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// OrderBookSide selects which side(s) of an order book to query.
type OrderBookSide int

const (
	SideBoth OrderBookSide = iota
	SideSell               // asks only
	SideBuy                // bids only
)

func (s OrderBookSide) String() string {
	switch s {
	case SideSell:
		return "sell"
	case SideBuy:
		return "buy"
	}
	return "both"
}
