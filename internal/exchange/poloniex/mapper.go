package poloniex

import (
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Pure conversions from raw Poloniex shapes into canonical entities.
//
// Poloniex reports pairs reversed relative to the canonical orientation:
// the wire string "BTC_LTC" names the market where LTC is traded against
// BTC, so it maps to Pair(LTC, BTC). Every conversion here applies that
// rotation; rendering a pair back to the wire reverses it again.

const timeLayout = "2006-01-02 15:04:05"

// parseTime attempt-parses a Poloniex timestamp; nil means unparseable,
// which is non-fatal everywhere except trade history.
func parseTime(raw string) *time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// parsePair rotates a wire "QUOTE_BASE" string into a canonical pair.
// ok is false for anything that is not exactly two tokens.
func parsePair(raw string) (models.Pair, bool) {
	tokens := strings.Split(raw, "_")
	if len(tokens) != 2 {
		return models.Pair{}, false
	}
	return models.NewPair(models.NewCurrency(tokens[1]), models.NewCurrency(tokens[0])), true
}

// pairString renders a canonical pair in Poloniex's reversed convention.
func pairString(pair models.Pair) string {
	return pair.Quote.Symbol + "_" + pair.Base.Symbol
}

// positionFromTag maps Poloniex's trade type tags, tolerating case
// variants. An unrecognized tag is a hard mapping error.
func positionFromTag(tag string) (models.TradePosition, error) {
	switch strings.ToLower(tag) {
	case "buy":
		return models.Buy, nil
	case "sell":
		return models.Sell, nil
	default:
		return 0, &exchange.UnknownTradeTagError{Tag: tag}
	}
}

// amount parses a Poloniex decimal string; missing or malformed
// optional amounts count as zero.
func amount(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func toCurrency(symbol string, d currencyData, market models.MarketRef) models.CurrencyOfMarket {
	return models.CurrencyOfMarket{
		Currency: models.NewCurrencyLong(symbol, d.Name),
		Market:   market,
		TxFee:    amount(d.TxFee),
		Active:   d.Disabled == 0,
		Address:  models.CryptoAddress(d.DepositAddress),
	}
}

func toTick(d tickerData) models.Tick {
	tick := models.Tick{Bid: amount(d.HighestBid), Ask: amount(d.LowestAsk)}
	if last, err := strconv.ParseFloat(d.Last, 64); err == nil {
		tick.Last = &last
	}
	return tick
}

// toSummary converts one returnTicker entry. ok is false when the map
// key is not a parseable pair; such entries yield no result and the
// rest of the listing is unaffected.
func toSummary(wirePair string, d tickerData) (models.MarketSummary, bool) {
	pair, ok := parsePair(wirePair)
	if !ok {
		return models.MarketSummary{}, false
	}
	return models.MarketSummary{
		Pair:       pair,
		Volume:     amount(d.QuoteVolume),
		BaseVolume: amount(d.BaseVolume),
		High:       amount(d.High24hr),
		Low:        amount(d.Low24hr),
		Last:       amount(d.Last),
		Bid:        amount(d.HighestBid),
		Ask:        amount(d.LowestAsk),
	}, true
}

func toLevels(entries []priceLevel) []models.OrderBookLevel {
	levels := make([]models.OrderBookLevel, len(entries))
	for i, e := range entries {
		levels[i] = models.OrderBookLevel{Price: e.Price, Quantity: e.Quantity}
	}
	return levels
}

// toOrderBook installs both sides exactly as the exchange ordered them.
func toOrderBook(d orderBookData, pair models.Pair) *models.OrderBook {
	book := models.NewOrderBook(pair)
	book.ReplaceAsks(toLevels(d.Asks))
	book.ReplaceBids(toLevels(d.Bids))
	return book
}

// toBalance derives the reserved amount as total − available, since
// Poloniex reports only the first two. Missing fields count as zero;
// available > total is not guarded against (the source never did).
func toBalance(symbol string, d balanceData, market models.MarketRef) models.Balance {
	total := amount(d.Balance)
	available := amount(d.Available)
	return models.Balance{
		Market:    market,
		Currency:  models.NewCurrency(symbol),
		Address:   models.CryptoAddress(d.DepositAddress),
		Total:     total,
		Available: available,
		Reserved:  total - available,
	}
}

// toOrder converts one open order for an already-known pair. An
// unknown type tag is a mapping error; an unparseable date leaves
// Opened unset.
func toOrder(d openOrderData, pair models.Pair, market models.MarketRef) (models.Order, error) {
	position, err := positionFromTag(d.Type)
	if err != nil {
		return models.Order{}, err
	}
	return models.Order{
		ID:       models.OrderID(d.OrderNumber),
		Market:   market,
		Pair:     pair,
		Quantity: amount(d.Amount),
		Price:    amount(d.Rate),
		Position: position,
		Opened:   parseTime(d.Date),
	}, nil
}

// toHistory converts one executed trade. The timestamp is part of the
// record's identity here: an unparseable date is a hard mapping error,
// unlike everywhere else.
func toHistory(d tradeData, pair models.Pair) (models.MarketHistory, error) {
	t, err := time.Parse(timeLayout, d.Date)
	if err != nil {
		return models.MarketHistory{}, &exchange.InvalidTimestampError{Raw: d.Date}
	}
	position, err := positionFromTag(d.Type)
	if err != nil {
		return models.MarketHistory{}, err
	}
	return models.MarketHistory{
		Pair:      pair,
		ID:        strconv.FormatInt(d.GlobalTradeID, 10),
		TimeStamp: t,
		Quantity:  amount(d.Amount),
		Price:     amount(d.Rate),
		Total:     amount(d.Total),
		Position:  position,
	}, nil
}
