package models

// Tick is the current best bid/ask for a pair. Last is nil when the
// exchange did not report a last-trade price.
type Tick struct {
	Bid  float64  `json:"bid"`
	Ask  float64  `json:"ask"`
	Last *float64 `json:"last,omitempty"`
}
