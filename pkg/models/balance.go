package models

// Balance is the funds an account holds in one currency on one exchange.
// Reserved is reported directly by exchanges that expose it and derived
// as Total − Available by mappers for exchanges that do not.
type Balance struct {
	Market    MarketRef     `json:"-"`
	Currency  Currency      `json:"currency"`
	Address   CryptoAddress `json:"address,omitempty"`
	Total     float64       `json:"total"`
	Available float64       `json:"available"`
	Reserved  float64       `json:"reserved"`
}

// Equal reports whether two balances describe the same amounts for the
// same currency.
func (b Balance) Equal(other Balance) bool {
	return b.Currency.Equal(other.Currency) &&
		b.Total == other.Total &&
		b.Available == other.Available &&
		b.Reserved == other.Reserved
}
