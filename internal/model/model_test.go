package model

import (
	"context"
	"testing"

	"github.com/seenimoa/cryptodeck/internal/config"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

func dummyOnlyConfig() *config.Config {
	return &config.Config{
		Refresh: config.RefreshConfig{IntervalSec: 1, Depth: 10},
		Exchanges: map[string]config.ExchangeConfig{
			"dummy":    {Enabled: true},
			"bittrex":  {Enabled: false},
			"poloniex": {Enabled: false},
		},
	}
}

func TestNewBuildsEnabledMarketsOnly(t *testing.T) {
	m := New(dummyOnlyConfig())

	markets := m.Markets()
	if len(markets) != 1 || markets[0].Name() != "dummy" {
		t.Fatalf("expected only the dummy market, got %d markets", len(markets))
	}
	if _, ok := m.Market("bittrex"); ok {
		t.Error("disabled market must not be built")
	}
	if _, ok := m.Market("dummy"); !ok {
		t.Error("enabled market must be reachable by name")
	}
}

func TestNewIgnoresUnknownExchange(t *testing.T) {
	cfg := dummyOnlyConfig()
	cfg.Exchanges["mtgox"] = config.ExchangeConfig{Enabled: true}

	m := New(cfg)
	if _, ok := m.Market("mtgox"); ok {
		t.Error("unknown exchange name must be ignored, not half-built")
	}
}

func TestMarketsAreStablyOrdered(t *testing.T) {
	cfg := dummyOnlyConfig()
	cfg.Exchanges["bittrex"] = config.ExchangeConfig{Enabled: true}
	cfg.Exchanges["poloniex"] = config.ExchangeConfig{Enabled: true}

	m := New(cfg)
	markets := m.Markets()
	if len(markets) != 3 {
		t.Fatalf("expected 3 markets, got %d", len(markets))
	}
	want := []string{"bittrex", "dummy", "poloniex"}
	for i, market := range markets {
		if market.Name() != want[i] {
			t.Errorf("position %d: got %q, want %q", i, market.Name(), want[i])
		}
	}
}

func TestProvidersAreConstructed(t *testing.T) {
	m := New(dummyOnlyConfig())
	if m.OrderBooks() == nil || m.Balances() == nil || m.Statistics() == nil {
		t.Fatal("all three providers must be constructed")
	}
}

func TestConfiguredKeysAreSeeded(t *testing.T) {
	cfg := dummyOnlyConfig()
	cfg.Exchanges["dummy"] = config.ExchangeConfig{
		Enabled: true,
		Info:    config.KeyConfig{Key: "pub", Secret: "sec"},
	}

	m := New(cfg)
	market, _ := m.Market("dummy")
	pair := market.Keys(models.RoleInfo)
	if pair.Public != "pub" || pair.Secret != "sec" {
		t.Errorf("configured keys must be seeded, got %+v", pair)
	}
}

func TestAllPairsAggregatesMarkets(t *testing.T) {
	m := New(dummyOnlyConfig())

	pairs := m.AllPairs(context.Background())
	if len(pairs) != 4 {
		t.Fatalf("expected the dummy market's 4 pairs, got %d", len(pairs))
	}
	for _, p := range pairs {
		if p.Market.Name() != "dummy" {
			t.Errorf("pair stamped with wrong market: %q", p.Market.Name())
		}
	}
}

func TestAllStatisticsKeyedByMarket(t *testing.T) {
	m := New(dummyOnlyConfig())

	stats := m.AllStatistics(context.Background())
	if len(stats["dummy"]) != 2 {
		t.Fatalf("expected dummy statistics, got %+v", stats)
	}
}
