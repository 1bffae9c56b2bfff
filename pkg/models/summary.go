package models

import "time"

// MarketSummary is the aggregate 24h statistic an exchange publishes per
// pair. It is produced only when the pair string in the raw record is
// parseable; a record with an unparseable pair yields no summary at all,
// never a summary with empty fields. TimeStamp is nil when the reported
// timestamp could not be parsed.
type MarketSummary struct {
	Pair           Pair       `json:"pair"`
	Volume         float64    `json:"volume"`
	BaseVolume     float64    `json:"base_volume"`
	High           float64    `json:"high"`
	Low            float64    `json:"low"`
	Last           float64    `json:"last"`
	Bid            float64    `json:"bid"`
	Ask            float64    `json:"ask"`
	OpenBuyOrders  int        `json:"open_buy_orders"`
	OpenSellOrders int        `json:"open_sell_orders"`
	PrevDay        float64    `json:"prev_day"`
	TimeStamp      *time.Time `json:"timestamp,omitempty"`
}

// Equal reports whether two summaries carry the same observable values.
func (s MarketSummary) Equal(other MarketSummary) bool {
	if !s.Pair.Equal(other.Pair) {
		return false
	}
	return s.Volume == other.Volume &&
		s.BaseVolume == other.BaseVolume &&
		s.High == other.High &&
		s.Low == other.Low &&
		s.Last == other.Last &&
		s.Bid == other.Bid &&
		s.Ask == other.Ask &&
		s.OpenBuyOrders == other.OpenBuyOrders &&
		s.OpenSellOrders == other.OpenSellOrders &&
		s.PrevDay == other.PrevDay
}
