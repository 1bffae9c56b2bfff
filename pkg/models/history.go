package models

import "time"

// MarketHistory is one executed trade from an exchange's public trade
// history. Unlike orders and summaries, the timestamp is part of the
// record's identity: mapping a history record with an unparseable
// timestamp is a hard error.
type MarketHistory struct {
	Pair      Pair          `json:"pair"`
	ID        string        `json:"id"`
	TimeStamp time.Time     `json:"timestamp"`
	Quantity  float64       `json:"quantity"`
	Price     float64       `json:"price"`
	Total     float64       `json:"total"`
	Position  TradePosition `json:"position"`
}
