package updater

import (
	"context"
	"time"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Options configures a provider's polling behavior.
type Options struct {
	// Interval between polls of one key's loop.
	Interval time.Duration
	// Depth requested per order-book side.
	Depth int
	// NotifyAlways delivers every fetched value, suppressing the
	// changed-only filter.
	NotifyAlways bool
}

// DefaultRefreshInterval is how often a subscription key is polled
// unless configured otherwise.
const DefaultRefreshInterval = time.Second

// DefaultDepth is the per-side order book depth requested by default.
const DefaultDepth = 10

func (o Options) interval() time.Duration {
	if o.Interval <= 0 {
		return DefaultRefreshInterval
	}
	return o.Interval
}

func (o Options) depth() int {
	if o.Depth <= 0 {
		return DefaultDepth
	}
	return o.Depth
}

func bookKey(market *exchange.Market, pair models.Pair) string {
	return market.Name() + "/" + pair.String()
}

func balanceKey(market *exchange.Market, currency models.Currency) string {
	return market.Name() + "/" + currency.Symbol
}

// OrderBookProvider keeps subscribed order books fresh, one polling
// loop per (market, pair).
type OrderBookProvider struct {
	p     *provider[*models.OrderBook]
	depth int
}

// NewOrderBookProvider creates an order book provider.
func NewOrderBookProvider(opts Options) *OrderBookProvider {
	return &OrderBookProvider{
		p: newProvider(opts.interval(), opts.NotifyAlways, func(a, b *models.OrderBook) bool {
			return a.Equal(b)
		}),
		depth: opts.depth(),
	}
}

// NeedOrderBookOf registers interest in a pair's book on a market.
func (p *OrderBookProvider) NeedOrderBookOf(market *exchange.Market, pair models.Pair) *Subscription[*models.OrderBook] {
	return p.p.subscribe(bookKey(market, pair), func(ctx context.Context) (*models.OrderBook, error) {
		return market.OrderBook(ctx, pair, p.depth, models.SideBoth), nil
	})
}

// Current returns the last published book for a key, if any.
func (p *OrderBookProvider) Current(market *exchange.Market, pair models.Pair) (*models.OrderBook, bool) {
	return p.p.last(bookKey(market, pair))
}

// ActiveKeys reports how many book loops are running.
func (p *OrderBookProvider) ActiveKeys() int { return p.p.activeKeys() }

// BalanceProvider keeps subscribed balances fresh, one polling loop per
// (market, currency). Balance queries are authenticated, so credential
// rejections reach subscribers as error updates.
type BalanceProvider struct {
	p *provider[models.Balance]
}

// NewBalanceProvider creates a balance provider.
func NewBalanceProvider(opts Options) *BalanceProvider {
	return &BalanceProvider{
		p: newProvider(opts.interval(), opts.NotifyAlways, models.Balance.Equal),
	}
}

// NeedBalanceOf registers interest in one currency's balance on a
// market. A currency the account does not hold publishes as a zero
// balance rather than an error.
func (p *BalanceProvider) NeedBalanceOf(market *exchange.Market, currency models.Currency) *Subscription[models.Balance] {
	return p.p.subscribe(balanceKey(market, currency), func(ctx context.Context) (models.Balance, error) {
		balances, err := market.Balances(ctx)
		if err != nil {
			return models.Balance{}, err
		}
		for _, b := range balances {
			if b.Currency.Equal(currency) {
				return b, nil
			}
		}
		return models.Balance{Market: market, Currency: currency}, nil
	})
}

// Current returns the last published balance for a key, if any.
func (p *BalanceProvider) Current(market *exchange.Market, currency models.Currency) (models.Balance, bool) {
	return p.p.last(balanceKey(market, currency))
}

// ActiveKeys reports how many balance loops are running.
func (p *BalanceProvider) ActiveKeys() int { return p.p.activeKeys() }

// StatisticProvider keeps the exchange-wide pair statistics fresh, one
// polling loop per market.
type StatisticProvider struct {
	p *provider[[]models.MarketSummary]
}

// NewStatisticProvider creates a statistics provider.
func NewStatisticProvider(opts Options) *StatisticProvider {
	return &StatisticProvider{
		p: newProvider(opts.interval(), opts.NotifyAlways, summariesEqual),
	}
}

// NeedStatisticsOf registers interest in a market's pair statistics.
func (p *StatisticProvider) NeedStatisticsOf(market *exchange.Market) *Subscription[[]models.MarketSummary] {
	return p.p.subscribe(market.Name(), func(ctx context.Context) ([]models.MarketSummary, error) {
		return market.PairsStatistic(ctx), nil
	})
}

// Current returns the last published statistics for a market, if any.
func (p *StatisticProvider) Current(market *exchange.Market) ([]models.MarketSummary, bool) {
	return p.p.last(market.Name())
}

// ActiveKeys reports how many statistic loops are running.
func (p *StatisticProvider) ActiveKeys() int { return p.p.activeKeys() }

func summariesEqual(a, b []models.MarketSummary) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
