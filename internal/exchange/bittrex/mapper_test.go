package bittrex

import (
	"errors"
	"testing"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

func TestParsePairKeepsWireOrder(t *testing.T) {
	// Bittrex reports canonical (base, quote): no rotation.
	pair, ok := parsePair("BTC-LTC")
	if !ok {
		t.Fatal("expected parseable pair")
	}
	want := models.NewPair(models.NewCurrency("BTC"), models.NewCurrency("LTC"))
	if !pair.Equal(want) {
		t.Errorf("got %s, want %s", pair, want)
	}
}

func TestParsePairRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "BTC", "BTC-LTC-ETH"} {
		if _, ok := parsePair(raw); ok {
			t.Errorf("%q should not parse", raw)
		}
	}
}

func TestPositionFromTag(t *testing.T) {
	if p, err := positionFromTag("LIMIT_SELL"); err != nil || p != models.Sell {
		t.Errorf("LIMIT_SELL: got %v, %v", p, err)
	}
	// Preserved quirk of the ported system: LIMIT_BUY also maps to Sell.
	if p, err := positionFromTag("LIMIT_BUY"); err != nil || p != models.Sell {
		t.Errorf("LIMIT_BUY: got %v, %v", p, err)
	}

	_, err := positionFromTag("MARKET_BUY")
	var tagErr *exchange.UnknownTradeTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("expected UnknownTradeTagError, got %v", err)
	}
	if tagErr.Tag != "MARKET_BUY" {
		t.Errorf("error should carry the tag, got %q", tagErr.Tag)
	}
}

func TestToPairParsesCreatedTimestamp(t *testing.T) {
	d := marketData{
		MarketCurrency: "LTC", BaseCurrency: "BTC",
		MarketCurrencyLong: "Litecoin", BaseCurrencyLong: "Bitcoin",
		MinTradeSize: 0.01, MarketName: "BTC-LTC", IsActive: true,
		Created: "2014-02-13T00:00:00",
	}
	p := toPair(d, nil)
	if !p.Pair.Equal(models.NewPair(models.NewCurrency("BTC"), models.NewCurrency("LTC"))) {
		t.Errorf("unexpected pair %s", p.Pair)
	}
	if p.Created == nil {
		t.Error("expected Created to parse")
	}
	if p.MinTradeSize != 0.01 || !p.Active {
		t.Errorf("constraints lost: %+v", p)
	}
}

func TestToPairUnparseableCreatedIsAdvisory(t *testing.T) {
	d := marketData{MarketCurrency: "LTC", BaseCurrency: "BTC", Created: "yesterday-ish"}
	if p := toPair(d, nil); p.Created != nil {
		t.Error("unparseable Created must be left unset, not fail")
	}
}

func TestToOrderTimestampOptional(t *testing.T) {
	d := openOrderData{
		OrderUuid: "u-1", Exchange: "BTC-LTC", OrderType: "LIMIT_SELL",
		Quantity: 2, Limit: 0.02, Opened: "not a timestamp",
	}
	order, err := toOrder(d, nil)
	if err != nil {
		t.Fatalf("malformed Opened must not raise: %v", err)
	}
	if order.Opened != nil {
		t.Error("Opened should be unset")
	}
	if order.ID != "u-1" || order.Price != 0.02 {
		t.Errorf("unexpected order %+v", order)
	}
}

func TestToOrderSkipsUnparseablePair(t *testing.T) {
	order, err := toOrder(openOrderData{Exchange: "garbage", OrderType: "LIMIT_SELL"}, nil)
	if err != nil || order != nil {
		t.Errorf("unparseable pair should yield no result, got %v, %v", order, err)
	}
}

func TestToOrderUnknownTagIsError(t *testing.T) {
	_, err := toOrder(openOrderData{Exchange: "BTC-LTC", OrderType: "CONDITIONAL"}, nil)
	if err == nil {
		t.Fatal("unknown tag must raise a mapping error")
	}
}

func TestToSummaryUnparseablePairYieldsNoResult(t *testing.T) {
	if _, ok := toSummary(summaryData{MarketName: "USDT"}); ok {
		t.Error("expected no result for unparseable market name")
	}

	s, ok := toSummary(summaryData{
		MarketName: "BTC-ETH", High: 3, Low: 1, Last: 2,
		Volume: 100, BaseVolume: 5, OpenBuyOrders: 7, OpenSellOrders: 9,
		TimeStamp: "2015-01-01T12:00:00.5",
	})
	if !ok {
		t.Fatal("expected summary")
	}
	if s.TimeStamp == nil {
		t.Error("timestamp should parse")
	}
	if s.OpenBuyOrders != 7 || s.OpenSellOrders != 9 {
		t.Errorf("order counts lost: %+v", s)
	}
}

func TestToSummaryUnparseableTimestampIsNonFatal(t *testing.T) {
	s, ok := toSummary(summaryData{MarketName: "BTC-ETH", TimeStamp: "whenever"})
	if !ok {
		t.Fatal("expected summary despite bad timestamp")
	}
	if s.TimeStamp != nil {
		t.Error("timestamp should be unset")
	}
}

func TestToBalanceReportsDirectly(t *testing.T) {
	total, avail, pending := 10.0, 7.5, 2.5
	b := toBalance(balanceData{
		Currency: "BTC", Balance: &total, Available: &avail, Pending: &pending,
		CryptoAddress: "1abc",
	}, nil)
	if b.Total != 10 || b.Available != 7.5 || b.Reserved != 2.5 {
		t.Errorf("unexpected balance %+v", b)
	}
	if b.Address != "1abc" {
		t.Errorf("address lost: %q", b.Address)
	}
}

func TestToBalanceMissingFieldsAreZero(t *testing.T) {
	b := toBalance(balanceData{Currency: "BTC"}, nil)
	if b.Total != 0 || b.Available != 0 || b.Reserved != 0 {
		t.Errorf("missing amounts should be zero, got %+v", b)
	}
}

func TestToOrderBookPreservesOrderAndSides(t *testing.T) {
	pair := models.NewPair(models.NewCurrency("BTC"), models.NewCurrency("LTC"))
	d := orderBookData{
		Sell: []bookEntry{{Rate: 0.03, Quantity: 1}, {Rate: 0.02, Quantity: 2}},
		Buy:  []bookEntry{{Rate: 0.01, Quantity: 3}},
	}
	book := toOrderBook(d, pair)

	asks, bids := book.Asks(), book.Bids()
	if len(asks) != 2 || len(bids) != 1 {
		t.Fatalf("side sizes: %d asks, %d bids", len(asks), len(bids))
	}
	// Levels stay in wire order, including non-monotonic input.
	if asks[0].Price != 0.03 || asks[1].Price != 0.02 {
		t.Errorf("ask order changed: %+v", asks)
	}
	if bids[0] != (models.OrderBookLevel{Price: 0.01, Quantity: 3}) {
		t.Errorf("unexpected bid: %+v", bids[0])
	}
}
