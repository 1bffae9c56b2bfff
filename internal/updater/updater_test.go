package updater

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// stubInfo is a scriptable market adapter for provider tests.
type stubInfo struct {
	fetches  atomic.Int64
	book     atomic.Pointer[models.OrderBook]
	balances func() ([]models.Balance, error)
}

func (s *stubInfo) Pairs(context.Context, *exchange.Market) []models.PairOfMarket { return nil }
func (s *stubInfo) Currencies(context.Context, *exchange.Market) []models.CurrencyOfMarket {
	return nil
}
func (s *stubInfo) Tick(context.Context, models.Pair) models.Tick { return models.Tick{} }
func (s *stubInfo) PairsStatistic(context.Context) []models.MarketSummary {
	return []models.MarketSummary{{Pair: ltcBtc(), Last: 0.025}}
}

func (s *stubInfo) OrderBook(context.Context, models.Pair, int, models.OrderBookSide) *models.OrderBook {
	s.fetches.Add(1)
	return s.book.Load()
}

func (s *stubInfo) Balances(context.Context, *exchange.Market) ([]models.Balance, error) {
	s.fetches.Add(1)
	return s.balances()
}

func (s *stubInfo) OpenOrders(context.Context, *exchange.Market, models.Pair) ([]models.Order, error) {
	return nil, nil
}

func ltcBtc() models.Pair {
	return models.NewPair(models.NewCurrency("LTC"), models.NewCurrency("BTC"))
}

func newStubMarket(stub *stubInfo) *exchange.Market {
	return exchange.NewMarket("stub", exchange.NewConnection("http://localhost", time.Second),
		exchange.NewApiKeyStore(), stub)
}

func bookWithAsk(price float64) *models.OrderBook {
	book := models.NewOrderBook(ltcBtc())
	book.ReplaceAsks([]models.OrderBookLevel{{Price: price, Quantity: 1}})
	return book
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSubscribeTwiceRunsOneLoop(t *testing.T) {
	stub := &stubInfo{}
	stub.book.Store(bookWithAsk(0.03))
	market := newStubMarket(stub)

	p := NewOrderBookProvider(Options{Interval: 10 * time.Millisecond})
	a := p.NeedOrderBookOf(market, ltcBtc())
	b := p.NeedOrderBookOf(market, ltcBtc())

	if got := p.ActiveKeys(); got != 1 {
		t.Fatalf("two subscriptions to one key must share one loop, got %d", got)
	}

	a.Unsubscribe()
	if got := p.ActiveKeys(); got != 1 {
		t.Fatalf("loop must stay while a subscriber remains, got %d", got)
	}

	b.Unsubscribe()
	waitFor(t, "loop teardown", func() bool { return p.ActiveKeys() == 0 })

	fetched := stub.fetches.Load()
	time.Sleep(50 * time.Millisecond)
	if stub.fetches.Load() > fetched+1 {
		t.Error("polling must stop after the last unsubscribe")
	}
}

func TestUnsubscribeClosesUpdates(t *testing.T) {
	stub := &stubInfo{}
	stub.book.Store(bookWithAsk(0.03))
	market := newStubMarket(stub)

	p := NewOrderBookProvider(Options{Interval: 10 * time.Millisecond})
	sub := p.NeedOrderBookOf(market, ltcBtc())
	sub.Unsubscribe()

	// Buffered notifications drain, then the channel reports closed.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel must be closed after unsubscribe")
		}
	}
}

func TestUnchangedValueIsSuppressed(t *testing.T) {
	stub := &stubInfo{}
	stub.book.Store(bookWithAsk(0.03))
	market := newStubMarket(stub)

	p := NewOrderBookProvider(Options{Interval: 10 * time.Millisecond})
	sub := p.NeedOrderBookOf(market, ltcBtc())
	defer sub.Unsubscribe()

	var first Update[*models.OrderBook]
	select {
	case first = <-sub.Updates():
	case <-time.After(2 * time.Second):
		t.Fatal("expected an initial notification")
	}
	if first.Err != nil || len(first.Value.Asks()) != 1 {
		t.Fatalf("unexpected first update %+v", first)
	}

	// The book never changes, so no further notifications arrive.
	select {
	case u := <-sub.Updates():
		t.Fatalf("unchanged value must be suppressed, got %+v", u)
	case <-time.After(100 * time.Millisecond):
	}

	// A changed book notifies again.
	stub.book.Store(bookWithAsk(0.04))
	select {
	case u := <-sub.Updates():
		if u.Value.Asks()[0].Price != 0.04 {
			t.Errorf("unexpected update %+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification for the changed book")
	}
}

func TestNotifyAlwaysDeliversEveryPoll(t *testing.T) {
	stub := &stubInfo{}
	stub.book.Store(bookWithAsk(0.03))
	market := newStubMarket(stub)

	p := NewOrderBookProvider(Options{Interval: 10 * time.Millisecond, NotifyAlways: true})
	sub := p.NeedOrderBookOf(market, ltcBtc())
	defer sub.Unsubscribe()

	for i := 0; i < 3; i++ {
		select {
		case u := <-sub.Updates():
			if u.Err != nil {
				t.Fatalf("unexpected error update: %v", u.Err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("expected notification %d despite unchanged value", i+1)
		}
	}
}

func TestLateJoinerGetsCurrentValue(t *testing.T) {
	stub := &stubInfo{}
	stub.book.Store(bookWithAsk(0.03))
	market := newStubMarket(stub)

	p := NewOrderBookProvider(Options{Interval: 10 * time.Millisecond})
	first := p.NeedOrderBookOf(market, ltcBtc())
	defer first.Unsubscribe()

	waitFor(t, "first publication", func() bool {
		_, ok := p.Current(market, ltcBtc())
		return ok
	})

	late := p.NeedOrderBookOf(market, ltcBtc())
	defer late.Unsubscribe()
	select {
	case u := <-late.Updates():
		if u.Value == nil || len(u.Value.Asks()) != 1 {
			t.Errorf("unexpected update %+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("late joiner should receive the current value immediately")
	}
}

func TestAuthErrorIsSurfacedNotRetriedSilently(t *testing.T) {
	stub := &stubInfo{
		balances: func() ([]models.Balance, error) {
			return nil, &exchange.AuthError{Market: "stub", Detail: "APIKEY_INVALID"}
		},
	}
	market := newStubMarket(stub)

	p := NewBalanceProvider(Options{Interval: 10 * time.Millisecond})
	sub := p.NeedBalanceOf(market, models.NewCurrency("BTC"))
	defer sub.Unsubscribe()

	select {
	case u := <-sub.Updates():
		if u.Err == nil || !exchange.IsAuthError(u.Err) {
			t.Errorf("expected an auth error update, got %+v", u)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("auth errors must reach subscribers")
	}
}

func TestTransientErrorIsRetried(t *testing.T) {
	var calls atomic.Int64
	stub := &stubInfo{}
	stub.balances = func() ([]models.Balance, error) {
		if calls.Add(1) < 3 {
			return nil, context.DeadlineExceeded
		}
		return []models.Balance{{Currency: models.NewCurrency("BTC"), Total: 2, Available: 2}}, nil
	}
	market := newStubMarket(stub)

	p := NewBalanceProvider(Options{Interval: 10 * time.Millisecond})
	sub := p.NeedBalanceOf(market, models.NewCurrency("BTC"))
	defer sub.Unsubscribe()

	select {
	case u := <-sub.Updates():
		if u.Err != nil {
			t.Fatalf("transient failures must not surface, got %v", u.Err)
		}
		if u.Value.Total != 2 {
			t.Errorf("unexpected balance %+v", u.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the retried fetch to eventually notify")
	}
}

func TestBalanceForUnheldCurrencyIsZero(t *testing.T) {
	stub := &stubInfo{}
	stub.balances = func() ([]models.Balance, error) {
		return []models.Balance{{Currency: models.NewCurrency("ETH"), Total: 5}}, nil
	}
	market := newStubMarket(stub)

	p := NewBalanceProvider(Options{Interval: 10 * time.Millisecond})
	sub := p.NeedBalanceOf(market, models.NewCurrency("BTC"))
	defer sub.Unsubscribe()

	select {
	case u := <-sub.Updates():
		if !u.Value.Currency.Equal(models.NewCurrency("BTC")) || u.Value.Total != 0 {
			t.Errorf("expected zero BTC balance, got %+v", u.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a zero-balance notification")
	}
}

func TestStatisticProviderPublishesPerMarket(t *testing.T) {
	stub := &stubInfo{}
	market := newStubMarket(stub)

	p := NewStatisticProvider(Options{Interval: 10 * time.Millisecond})
	sub := p.NeedStatisticsOf(market)
	defer sub.Unsubscribe()

	select {
	case u := <-sub.Updates():
		if len(u.Value) != 1 || u.Value[0].Last != 0.025 {
			t.Errorf("unexpected statistics %+v", u.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected statistics notification")
	}

	if _, ok := p.Current(market); !ok {
		t.Error("current statistics should be published")
	}
}
