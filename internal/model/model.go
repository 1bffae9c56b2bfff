// Package model assembles the application core: the configured markets
// and the three updater providers. It is the sole entry point external
// consumers (CLI, API) use to reach the exchange layer.
package model

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/cryptodeck/internal/config"
	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/internal/exchange/bittrex"
	"github.com/seenimoa/cryptodeck/internal/exchange/poloniex"
	"github.com/seenimoa/cryptodeck/internal/updater"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// Model exposes the configured markets and the provider instances.
type Model struct {
	markets map[string]*exchange.Market
	names   []string

	books      *updater.OrderBookProvider
	balances   *updater.BalanceProvider
	statistics *updater.StatisticProvider
}

// New builds the model from configuration: one Market per enabled
// exchange, seeded with its configured key pairs, plus the providers
// sharing the configured refresh settings.
func New(cfg *config.Config) *Model {
	m := &Model{markets: make(map[string]*exchange.Market)}

	for name, ex := range cfg.Exchanges {
		if !ex.Enabled {
			continue
		}
		if market := buildMarket(name, ex); market != nil {
			m.markets[name] = market
			m.names = append(m.names, name)
		}
	}
	sort.Strings(m.names)

	opts := updater.Options{
		Interval:     cfg.Refresh.Interval(),
		Depth:        cfg.Refresh.Depth,
		NotifyAlways: cfg.Refresh.NotifyAlways,
	}
	m.books = updater.NewOrderBookProvider(opts)
	m.balances = updater.NewBalanceProvider(opts)
	m.statistics = updater.NewStatisticProvider(opts)
	return m
}

// buildMarket wires one exchange. Unknown names are ignored so a stale
// config entry cannot fail startup.
func buildMarket(name string, ex config.ExchangeConfig) *exchange.Market {
	keys := exchange.NewApiKeyStore()
	seedKeys(keys, ex)

	switch name {
	case "bittrex":
		conn := exchange.NewConnection(baseURL(ex, bittrex.DefaultBaseURL), ex.Timeout())
		return exchange.NewMarket(name, conn, keys, bittrex.New(conn, keys))
	case "poloniex":
		conn := exchange.NewConnection(baseURL(ex, poloniex.DefaultBaseURL), ex.Timeout())
		return exchange.NewMarket(name, conn, keys, poloniex.New(conn, keys))
	case "dummy":
		conn := exchange.NewConnection("http://localhost", ex.Timeout())
		return exchange.NewMarket(name, conn, keys, exchange.DummyInfo{})
	default:
		return nil
	}
}

func baseURL(ex config.ExchangeConfig, fallback string) string {
	if ex.BaseURL != "" {
		return ex.BaseURL
	}
	return fallback
}

func seedKeys(keys *exchange.ApiKeyStore, ex config.ExchangeConfig) {
	if ex.Info.Key != "" {
		keys.SetPublic(models.RoleInfo, models.ApiKey(ex.Info.Key))
		keys.SetSecret(models.RoleInfo, models.ApiKey(ex.Info.Secret))
	}
	if ex.Trading.Key != "" {
		keys.SetPublic(models.RoleTrading, models.ApiKey(ex.Trading.Key))
		keys.SetSecret(models.RoleTrading, models.ApiKey(ex.Trading.Secret))
	}
}

// Markets returns the configured markets in stable name order.
func (m *Model) Markets() []*exchange.Market {
	markets := make([]*exchange.Market, 0, len(m.names))
	for _, name := range m.names {
		markets = append(markets, m.markets[name])
	}
	return markets
}

// Market returns one market by name.
func (m *Model) Market(name string) (*exchange.Market, bool) {
	market, ok := m.markets[name]
	return market, ok
}

// OrderBooks returns the order book provider.
func (m *Model) OrderBooks() *updater.OrderBookProvider { return m.books }

// Balances returns the balance provider.
func (m *Model) Balances() *updater.BalanceProvider { return m.balances }

// Statistics returns the pair statistics provider.
func (m *Model) Statistics() *updater.StatisticProvider { return m.statistics }

// AllPairs queries every market concurrently and returns the union of
// their pair listings.
func (m *Model) AllPairs(ctx context.Context) []models.PairOfMarket {
	return collect(ctx, m, func(ctx context.Context, market *exchange.Market) []models.PairOfMarket {
		return market.Pairs(ctx)
	})
}

// AllCurrencies queries every market concurrently and returns the union
// of their currency listings.
func (m *Model) AllCurrencies(ctx context.Context) []models.CurrencyOfMarket {
	return collect(ctx, m, func(ctx context.Context, market *exchange.Market) []models.CurrencyOfMarket {
		return market.Currencies(ctx)
	})
}

// AllStatistics queries every market concurrently and returns their
// pair statistics keyed by market name.
func (m *Model) AllStatistics(ctx context.Context) map[string][]models.MarketSummary {
	var mu sync.Mutex
	out := make(map[string][]models.MarketSummary, len(m.names))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range m.names {
		market := m.markets[name]
		g.Go(func() error {
			stats := market.PairsStatistic(ctx)
			mu.Lock()
			out[market.Name()] = stats
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}

// collect fans a per-market listing query out across all markets and
// concatenates the results in stable market order.
func collect[T any](ctx context.Context, m *Model, query func(context.Context, *exchange.Market) []T) []T {
	var mu sync.Mutex
	parts := make([][]T, len(m.names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range m.names {
		i := i
		market := m.markets[name]
		g.Go(func() error {
			part := query(ctx, market)
			mu.Lock()
			parts[i] = part
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	var all []T
	for _, part := range parts {
		all = append(all, part...)
	}
	return all
}
