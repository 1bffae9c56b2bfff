package poloniex

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Raw Poloniex wire shapes. Poloniex keys most responses by currency
// pair string and encodes nearly every amount as a decimal string; the
// mappers absorb both quirks. These types never leave this package.

type tickerData struct {
	Last        string `json:"last"`
	LowestAsk   string `json:"lowestAsk"`
	HighestBid  string `json:"highestBid"`
	BaseVolume  string `json:"baseVolume"`
	QuoteVolume string `json:"quoteVolume"`
	High24hr    string `json:"high24hr"`
	Low24hr     string `json:"low24hr"`
	IsFrozen    string `json:"isFrozen"`
}

type currencyData struct {
	Name           string `json:"name"`
	TxFee          string `json:"txFee"`
	Disabled       int    `json:"disabled"`
	DepositAddress string `json:"depositAddress"`
}

// priceLevel decodes Poloniex's mixed-type book entries:
// ["0.00300888", 25.5] — price as a string, quantity as a number.
type priceLevel struct {
	Price    float64
	Quantity float64
}

func (l *priceLevel) UnmarshalJSON(data []byte) error {
	var entry [2]json.Number
	if err := json.Unmarshal(data, &entry); err != nil {
		// Price may arrive as a JSON string rather than a number.
		var mixed [2]any
		if err := json.Unmarshal(data, &mixed); err != nil {
			return err
		}
		return l.fromAny(mixed)
	}
	p, err := entry[0].Float64()
	if err != nil {
		return err
	}
	q, err := entry[1].Float64()
	if err != nil {
		return err
	}
	l.Price, l.Quantity = p, q
	return nil
}

func (l *priceLevel) fromAny(entry [2]any) error {
	price, err := anyToFloat(entry[0])
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	quantity, err := anyToFloat(entry[1])
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	l.Price, l.Quantity = price, quantity
	return nil
}

func anyToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable amount %q", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected amount type %T", v)
	}
}

type orderBookData struct {
	Asks []priceLevel `json:"asks"`
	Bids []priceLevel `json:"bids"`
}

type tradeData struct {
	GlobalTradeID int64  `json:"globalTradeID"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	Rate          string `json:"rate"`
	Amount        string `json:"amount"`
	Total         string `json:"total"`
}

// balanceData carries total and available only; Poloniex does not
// report a reserved amount, so the mapper derives it.
type balanceData struct {
	Balance        string `json:"balance"`
	Available      string `json:"available"`
	DepositAddress string `json:"depositAddress"`
}

type openOrderData struct {
	OrderNumber string `json:"orderNumber"`
	Type        string `json:"type"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

type placedOrderData struct {
	OrderNumber string `json:"orderNumber"`
}

type cancelResultData struct {
	Success int `json:"success"`
}
