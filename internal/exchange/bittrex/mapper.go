package bittrex

import (
	"strings"
	"time"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Pure conversions from raw Bittrex shapes into canonical entities.
//
// Bittrex reports pairs in canonical (base, quote) order already, so no
// rotation is applied: the wire string "BTC-LTC" maps to Pair(BTC, LTC).

// timeLayouts covers Bittrex's zone-less ISO-8601 variants
// ("2014-07-09T07:19:30.15").
var timeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseTime attempt-parses a Bittrex timestamp. nil means unparseable;
// for pairs, orders and summaries that is non-fatal and leaves the
// field unset.
func parseTime(raw string) *time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// parsePair splits a "BASE-QUOTE" market name. ok is false for anything
// that is not exactly two tokens; callers skip such records.
func parsePair(raw string) (models.Pair, bool) {
	tokens := strings.Split(raw, "-")
	if len(tokens) != 2 {
		return models.Pair{}, false
	}
	return models.NewPair(models.NewCurrency(tokens[0]), models.NewCurrency(tokens[1])), true
}

// pairString renders a canonical pair as a Bittrex market name.
func pairString(pair models.Pair) string {
	return pair.Base.Symbol + "-" + pair.Quote.Symbol
}

// positionFromTag maps a Bittrex order-type tag to a canonical position.
// An unrecognized tag is a hard mapping error, never defaulted.
//
// LIMIT_BUY mapping to Sell reproduces the behavior of the system this
// was ported from; see DESIGN.md before "fixing" it.
func positionFromTag(tag string) (models.TradePosition, error) {
	switch tag {
	case "LIMIT_SELL":
		return models.Sell, nil
	case "LIMIT_BUY":
		return models.Sell, nil
	default:
		return 0, &exchange.UnknownTradeTagError{Tag: tag}
	}
}

func toPair(d marketData, market models.MarketRef) models.PairOfMarket {
	return models.PairOfMarket{
		Pair: models.NewPair(
			models.NewCurrencyLong(d.BaseCurrency, d.BaseCurrencyLong),
			models.NewCurrencyLong(d.MarketCurrency, d.MarketCurrencyLong),
		),
		Market:       market,
		MinTradeSize: d.MinTradeSize,
		Active:       d.IsActive,
		Created:      parseTime(d.Created),
	}
}

func toCurrency(d currencyData, market models.MarketRef) models.CurrencyOfMarket {
	return models.CurrencyOfMarket{
		Currency: models.NewCurrencyLong(d.Currency, d.CurrencyLong),
		Market:   market,
		TxFee:    d.TxFee,
		Active:   d.IsActive,
		Address:  models.CryptoAddress(d.BaseAddress),
	}
}

func toTick(d tickerData) models.Tick {
	return models.Tick{Bid: d.Bid, Ask: d.Ask, Last: d.Last}
}

func toLevels(entries []bookEntry) []models.OrderBookLevel {
	levels := make([]models.OrderBookLevel, len(entries))
	for i, e := range entries {
		levels[i] = models.OrderBookLevel{Price: e.Rate, Quantity: e.Quantity}
	}
	return levels
}

// toOrderBook installs both sides exactly as the exchange ordered them.
func toOrderBook(d orderBookData, pair models.Pair) *models.OrderBook {
	book := models.NewOrderBook(pair)
	book.ReplaceAsks(toLevels(d.Sell))
	book.ReplaceBids(toLevels(d.Buy))
	return book
}

// toOrderBookSide builds a book from a single-side response.
func toOrderBookSide(entries []bookEntry, pair models.Pair, side models.OrderBookSide) *models.OrderBook {
	book := models.NewOrderBook(pair)
	if side == models.SideSell {
		book.ReplaceAsks(toLevels(entries))
	} else {
		book.ReplaceBids(toLevels(entries))
	}
	return book
}

// toSummary converts one market summary record. ok is false when the
// market name is unparseable; the record yields no result rather than a
// summary with empty fields, and the rest of the batch is unaffected.
func toSummary(d summaryData) (models.MarketSummary, bool) {
	pair, ok := parsePair(d.MarketName)
	if !ok {
		return models.MarketSummary{}, false
	}
	return models.MarketSummary{
		Pair:           pair,
		Volume:         d.Volume,
		BaseVolume:     d.BaseVolume,
		High:           d.High,
		Low:            d.Low,
		Last:           d.Last,
		Bid:            d.Bid,
		Ask:            d.Ask,
		OpenBuyOrders:  d.OpenBuyOrders,
		OpenSellOrders: d.OpenSellOrders,
		PrevDay:        d.PrevDay,
		TimeStamp:      parseTime(d.TimeStamp),
	}, true
}

// toBalance converts one balance record. Bittrex reports all three
// amounts directly; missing optional fields count as zero.
func toBalance(d balanceData, market models.MarketRef) models.Balance {
	return models.Balance{
		Market:    market,
		Currency:  models.NewCurrency(d.Currency),
		Address:   models.CryptoAddress(d.CryptoAddress),
		Total:     floatOrZero(d.Balance),
		Available: floatOrZero(d.Available),
		Reserved:  floatOrZero(d.Pending),
	}
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// toOrder converts one open order. A record with an unparseable pair is
// skipped (nil, nil); an unknown order-type tag is a mapping error. An
// unparseable Opened timestamp leaves the field unset and does not fail.
func toOrder(d openOrderData, market models.MarketRef) (*models.Order, error) {
	pair, ok := parsePair(d.Exchange)
	if !ok {
		return nil, nil
	}
	position, err := positionFromTag(d.OrderType)
	if err != nil {
		return nil, err
	}
	return &models.Order{
		ID:       models.OrderID(d.OrderUuid),
		Market:   market,
		Pair:     pair,
		Quantity: d.Quantity,
		Price:    d.Limit,
		Position: position,
		Opened:   parseTime(d.Opened),
	}, nil
}
