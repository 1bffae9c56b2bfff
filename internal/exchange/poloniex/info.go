package poloniex

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Pairs lists the markets Poloniex trades. There is no dedicated
// listing command; the pairs are the keys of the full ticker, rotated
// into canonical orientation. isFrozen marks a pair inactive.
func (c *Client) Pairs(ctx context.Context, market *exchange.Market) []models.PairOfMarket {
	raw := publicGet[map[string]tickerData](ctx, c, "returnTicker")
	pairs := make([]models.PairOfMarket, 0, len(raw))
	for _, wirePair := range sortedKeys(raw) {
		pair, ok := parsePair(wirePair)
		if !ok {
			continue
		}
		pairs = append(pairs, models.PairOfMarket{
			Pair:   pair,
			Market: market,
			Active: raw[wirePair].IsFrozen != "1",
		})
	}
	return pairs
}

// Currencies lists the currencies Poloniex supports.
func (c *Client) Currencies(ctx context.Context, market *exchange.Market) []models.CurrencyOfMarket {
	raw := publicGet[map[string]currencyData](ctx, c, "returnCurrencies")
	currencies := make([]models.CurrencyOfMarket, 0, len(raw))
	for _, symbol := range sortedKeys(raw) {
		currencies = append(currencies, toCurrency(symbol, raw[symbol], market))
	}
	return currencies
}

// Tick returns the current best bid/ask for a pair. Poloniex has no
// single-pair ticker command, so this reads the full ticker and picks
// the entry out.
func (c *Client) Tick(ctx context.Context, pair models.Pair) models.Tick {
	raw := publicGet[map[string]tickerData](ctx, c, "returnTicker")
	d, ok := raw[pairString(pair)]
	if !ok {
		return models.Tick{}
	}
	return toTick(d)
}

// OrderBook returns the book for a pair. Poloniex always serves both
// sides; a single-side request is filtered locally after the fetch.
func (c *Client) OrderBook(ctx context.Context, pair models.Pair, depth int, side models.OrderBookSide) *models.OrderBook {
	raw := publicGet[orderBookData](ctx, c, "returnOrderBook",
		exchange.Param{Key: "currencyPair", Value: pairString(pair)},
		exchange.Param{Key: "depth", Value: strconv.Itoa(depth)},
	)
	book := toOrderBook(raw, pair)
	switch side {
	case models.SideSell:
		book.ReplaceBids(nil)
	case models.SideBuy:
		book.ReplaceAsks(nil)
	}
	return book
}

// PairsStatistic returns the exchange-wide per-pair statistics from the
// full ticker. Entries with unparseable pair keys are skipped; one bad
// entry never drops the rest of the listing.
func (c *Client) PairsStatistic(ctx context.Context) []models.MarketSummary {
	raw := publicGet[map[string]tickerData](ctx, c, "returnTicker")
	summaries := make([]models.MarketSummary, 0, len(raw))
	for _, wirePair := range sortedKeys(raw) {
		if s, ok := toSummary(wirePair, raw[wirePair]); ok {
			summaries = append(summaries, s)
		}
	}
	return summaries
}

// TradeHistory returns recent executed trades for a pair. History
// mapping is strict: a record with an unparseable timestamp or an
// unknown trade tag fails the whole query.
func (c *Client) TradeHistory(ctx context.Context, pair models.Pair) ([]models.MarketHistory, error) {
	raw := publicGet[[]tradeData](ctx, c, "returnTradeHistory",
		exchange.Param{Key: "currencyPair", Value: pairString(pair)})

	history := make([]models.MarketHistory, 0, len(raw))
	for _, d := range raw {
		h, err := toHistory(d, pair)
		if err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, nil
}

// Balances returns the account's balances under the info-role key pair.
// Reserved amounts are derived, since Poloniex reports only total and
// available.
func (c *Client) Balances(ctx context.Context, market *exchange.Market) ([]models.Balance, error) {
	raw, err := privatePost[map[string]balanceData](ctx, c, models.RoleInfo, "returnCompleteBalances")
	if err != nil {
		return nil, err
	}
	balances := make([]models.Balance, 0, len(raw))
	for _, symbol := range sortedKeys(raw) {
		balances = append(balances, toBalance(symbol, raw[symbol], market))
	}
	return balances, nil
}

// OpenOrders returns the open orders for a pair. Mapping errors are
// local to a record: bad records are dropped from the result and their
// errors joined, so one unknown tag never hides the remaining orders.
func (c *Client) OpenOrders(ctx context.Context, market *exchange.Market, pair models.Pair) ([]models.Order, error) {
	raw, err := privatePost[[]openOrderData](ctx, c, models.RoleInfo, "returnOpenOrders",
		exchange.Param{Key: "currencyPair", Value: pairString(pair)})
	if err != nil {
		return nil, err
	}

	var mappingErrs []error
	orders := make([]models.Order, 0, len(raw))
	for _, d := range raw {
		order, err := toOrder(d, pair, market)
		if err != nil {
			mappingErrs = append(mappingErrs, err)
			continue
		}
		orders = append(orders, order)
	}
	return orders, errors.Join(mappingErrs...)
}

// BuyLimit places a limit buy order under the trading-role key pair.
func (c *Client) BuyLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	return c.placeLimit(ctx, "buy", pair, quantity, price)
}

// SellLimit places a limit sell order under the trading-role key pair.
func (c *Client) SellLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	return c.placeLimit(ctx, "sell", pair, quantity, price)
}

func (c *Client) placeLimit(ctx context.Context, command string, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	raw, err := privatePost[placedOrderData](ctx, c, models.RoleTrading, command,
		exchange.Param{Key: "currencyPair", Value: pairString(pair)},
		exchange.Param{Key: "rate", Value: formatAmount(price)},
		exchange.Param{Key: "amount", Value: formatAmount(quantity)},
	)
	if err != nil {
		return "", err
	}
	return models.OrderID(raw.OrderNumber), nil
}

// CancelOrder cancels an open order by order number.
func (c *Client) CancelOrder(ctx context.Context, id models.OrderID) error {
	raw, err := privatePost[cancelResultData](ctx, c, models.RoleTrading, "cancelOrder",
		exchange.Param{Key: "orderNumber", Value: string(id)})
	if err != nil {
		return err
	}
	if raw.Success != 1 {
		return &exchange.APIError{Market: "poloniex", Message: "cancel rejected"}
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
