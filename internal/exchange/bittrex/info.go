package bittrex

import (
	"context"
	"errors"
	"strconv"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Pairs lists the markets Bittrex trades, in canonical orientation.
func (c *Client) Pairs(ctx context.Context, market *exchange.Market) []models.PairOfMarket {
	raw := publicGet[[]marketData](ctx, c, "/public/getmarkets")
	pairs := make([]models.PairOfMarket, 0, len(raw))
	for _, d := range raw {
		pairs = append(pairs, toPair(d, market))
	}
	return pairs
}

// Currencies lists the currencies Bittrex supports.
func (c *Client) Currencies(ctx context.Context, market *exchange.Market) []models.CurrencyOfMarket {
	raw := publicGet[[]currencyData](ctx, c, "/public/getcurrencies")
	currencies := make([]models.CurrencyOfMarket, 0, len(raw))
	for _, d := range raw {
		currencies = append(currencies, toCurrency(d, market))
	}
	return currencies
}

// Tick returns the current best bid/ask for a pair.
func (c *Client) Tick(ctx context.Context, pair models.Pair) models.Tick {
	raw := publicGet[tickerData](ctx, c, "/public/getticker",
		exchange.Param{Key: "market", Value: pairString(pair)})
	return toTick(raw)
}

// OrderBook returns the book for a pair. Bittrex serves both-sided and
// single-sided books from the same endpoint with different result
// shapes, so the two cases decode separately.
func (c *Client) OrderBook(ctx context.Context, pair models.Pair, depth int, side models.OrderBookSide) *models.OrderBook {
	params := []exchange.Param{
		{Key: "market", Value: pairString(pair)},
		{Key: "type", Value: sideParam(side)},
		{Key: "depth", Value: strconv.Itoa(depth)},
	}
	if side == models.SideBoth {
		raw := publicGet[orderBookData](ctx, c, "/public/getorderbook", params...)
		return toOrderBook(raw, pair)
	}
	raw := publicGet[[]bookEntry](ctx, c, "/public/getorderbook", params...)
	return toOrderBookSide(raw, pair, side)
}

func sideParam(side models.OrderBookSide) string {
	switch side {
	case models.SideSell:
		return "sell"
	case models.SideBuy:
		return "buy"
	}
	return "both"
}

// PairsStatistic returns the exchange-wide market summaries. Records
// with unparseable market names are skipped; one bad entry never drops
// the rest of the list.
func (c *Client) PairsStatistic(ctx context.Context) []models.MarketSummary {
	raw := publicGet[[]summaryData](ctx, c, "/public/getmarketsummaries")
	summaries := make([]models.MarketSummary, 0, len(raw))
	for _, d := range raw {
		if s, ok := toSummary(d); ok {
			summaries = append(summaries, s)
		}
	}
	return summaries
}

// Balances returns the account's balances under the info-role key pair.
func (c *Client) Balances(ctx context.Context, market *exchange.Market) ([]models.Balance, error) {
	raw, err := privateGet[[]balanceData](ctx, c, models.RoleInfo, "/account/getbalances")
	if err != nil {
		return nil, err
	}
	balances := make([]models.Balance, 0, len(raw))
	for _, d := range raw {
		balances = append(balances, toBalance(d, market))
	}
	return balances, nil
}

// OpenOrders returns the open orders for a pair. Mapping errors are
// local to a record: bad records are dropped from the result and their
// errors joined, so one unknown tag never hides the remaining orders.
func (c *Client) OpenOrders(ctx context.Context, market *exchange.Market, pair models.Pair) ([]models.Order, error) {
	raw, err := privateGet[[]openOrderData](ctx, c, models.RoleInfo, "/market/getopenorders",
		exchange.Param{Key: "market", Value: pairString(pair)})
	if err != nil {
		return nil, err
	}

	var mappingErrs []error
	orders := make([]models.Order, 0, len(raw))
	for _, d := range raw {
		order, err := toOrder(d, market)
		if err != nil {
			mappingErrs = append(mappingErrs, err)
			continue
		}
		if order != nil {
			orders = append(orders, *order)
		}
	}
	return orders, errors.Join(mappingErrs...)
}

// BuyLimit places a limit buy order under the trading-role key pair.
func (c *Client) BuyLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	return c.placeLimit(ctx, "/market/buylimit", pair, quantity, price)
}

// SellLimit places a limit sell order under the trading-role key pair.
func (c *Client) SellLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	return c.placeLimit(ctx, "/market/selllimit", pair, quantity, price)
}

func (c *Client) placeLimit(ctx context.Context, endpoint string, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	raw, err := privateGet[orderIDData](ctx, c, models.RoleTrading, endpoint,
		exchange.Param{Key: "market", Value: pairString(pair)},
		exchange.Param{Key: "quantity", Value: formatAmount(quantity)},
		exchange.Param{Key: "rate", Value: formatAmount(price)},
	)
	if err != nil {
		return "", err
	}
	return models.OrderID(raw.UUID), nil
}

// CancelOrder cancels an open order by uuid.
func (c *Client) CancelOrder(ctx context.Context, id models.OrderID) error {
	_, err := privateGet[struct{}](ctx, c, models.RoleTrading, "/market/cancel",
		exchange.Param{Key: "uuid", Value: string(id)})
	return err
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
