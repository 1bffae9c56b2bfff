package models

// OrderBookLevel is a single (price, quantity) level on one side of a book.
type OrderBookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBook holds the outstanding ask and bid levels for a pair.
//
// Each side is replaceable only as a whole: ReplaceAsks and ReplaceBids
// discard the previous side and install the new sequence in the order
// provided. There is no incremental merge at this layer; a consumer that
// wants incremental maintenance must diff successive replacements itself.
// Levels are kept exactly as the exchange returned them, with no
// reordering or monotonicity validation.
type OrderBook struct {
	Pair Pair
	asks []OrderBookLevel
	bids []OrderBookLevel
}

// NewOrderBook creates an empty order book for a pair.
func NewOrderBook(pair Pair) *OrderBook {
	return &OrderBook{Pair: pair}
}

// ReplaceAsks atomically replaces the ask side with the given levels.
func (b *OrderBook) ReplaceAsks(levels []OrderBookLevel) {
	b.asks = append([]OrderBookLevel(nil), levels...)
}

// ReplaceBids atomically replaces the bid side with the given levels.
func (b *OrderBook) ReplaceBids(levels []OrderBookLevel) {
	b.bids = append([]OrderBookLevel(nil), levels...)
}

// Asks returns the ask levels in the order they were installed.
func (b *OrderBook) Asks() []OrderBookLevel { return b.asks }

// Bids returns the bid levels in the order they were installed.
func (b *OrderBook) Bids() []OrderBookLevel { return b.bids }

// Equal reports whether two books carry the same pair and identical
// level sequences on both sides. Used by providers to suppress no-op
// change notifications.
func (b *OrderBook) Equal(other *OrderBook) bool {
	if other == nil {
		return false
	}
	if !b.Pair.Equal(other.Pair) {
		return false
	}
	return levelsEqual(b.asks, other.asks) && levelsEqual(b.bids, other.bids)
}

func levelsEqual(a, b []OrderBookLevel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
