package poloniex

import (
	"errors"
	"testing"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

func TestParsePairRotatesWireOrder(t *testing.T) {
	// Poloniex reports (quote, base): "BTC_LTC" is the LTC/BTC market.
	pair, ok := parsePair("BTC_LTC")
	if !ok {
		t.Fatal("expected parseable pair")
	}
	want := models.NewPair(models.NewCurrency("LTC"), models.NewCurrency("BTC"))
	if !pair.Equal(want) {
		t.Errorf("got %s, want %s", pair, want)
	}
}

func TestParsePairRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "BTC", "BTC_LTC_ETH"} {
		if _, ok := parsePair(raw); ok {
			t.Errorf("%q should not parse", raw)
		}
	}
}

func TestPairStringRoundTrips(t *testing.T) {
	pair := models.NewPair(models.NewCurrency("LTC"), models.NewCurrency("BTC"))
	if got := pairString(pair); got != "BTC_LTC" {
		t.Errorf("got %q, want BTC_LTC", got)
	}
}

func TestPositionFromTagIsCaseInsensitive(t *testing.T) {
	for _, tag := range []string{"buy", "BUY", "Buy"} {
		if p, err := positionFromTag(tag); err != nil || p != models.Buy {
			t.Errorf("%q: got %v, %v", tag, p, err)
		}
	}
	if p, err := positionFromTag("sell"); err != nil || p != models.Sell {
		t.Errorf("sell: got %v, %v", p, err)
	}

	_, err := positionFromTag("margin_buy")
	var tagErr *exchange.UnknownTradeTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("expected UnknownTradeTagError, got %v", err)
	}
	if tagErr.Tag != "margin_buy" {
		t.Errorf("error should carry the tag, got %q", tagErr.Tag)
	}
}

func TestToBalanceDerivesReserved(t *testing.T) {
	b := toBalance("BTC", balanceData{
		Balance: "10.5", Available: "7.5", DepositAddress: "1abc",
	}, nil)
	if b.Total != 10.5 || b.Available != 7.5 || b.Reserved != 3 {
		t.Errorf("unexpected balance %+v", b)
	}
	if b.Address != "1abc" {
		t.Errorf("address lost: %q", b.Address)
	}
}

func TestToBalanceMissingFieldsAreZero(t *testing.T) {
	b := toBalance("BTC", balanceData{}, nil)
	if b.Total != 0 || b.Available != 0 || b.Reserved != 0 {
		t.Errorf("missing amounts should be zero, got %+v", b)
	}
}

func TestToBalanceDoesNotGuardNegativeReserved(t *testing.T) {
	// available > total yields a negative reserved, exactly as reported.
	b := toBalance("BTC", balanceData{Balance: "1", Available: "2"}, nil)
	if b.Reserved != -1 {
		t.Errorf("expected derived reserved -1, got %v", b.Reserved)
	}
}

func TestToHistoryRequiresTimestamp(t *testing.T) {
	pair := models.NewPair(models.NewCurrency("LTC"), models.NewCurrency("BTC"))
	_, err := toHistory(tradeData{
		GlobalTradeID: 1, Date: "not a timestamp", Type: "buy",
		Rate: "0.02", Amount: "3", Total: "0.06",
	}, pair)

	var tsErr *exchange.InvalidTimestampError
	if !errors.As(err, &tsErr) {
		t.Fatalf("expected InvalidTimestampError, got %v", err)
	}
	if tsErr.Raw != "not a timestamp" {
		t.Errorf("error should carry the raw value, got %q", tsErr.Raw)
	}
}

func TestToHistoryMapsFullRecord(t *testing.T) {
	pair := models.NewPair(models.NewCurrency("LTC"), models.NewCurrency("BTC"))
	h, err := toHistory(tradeData{
		GlobalTradeID: 21387898, Date: "2016-05-03 01:29:55", Type: "sell",
		Rate: "0.02", Amount: "3", Total: "0.06",
	}, pair)
	if err != nil {
		t.Fatal(err)
	}
	if h.ID != "21387898" || h.Position != models.Sell {
		t.Errorf("unexpected record %+v", h)
	}
	if h.TimeStamp.IsZero() {
		t.Error("timestamp should be set")
	}
	if h.Quantity != 3 || h.Price != 0.02 || h.Total != 0.06 {
		t.Errorf("amounts lost: %+v", h)
	}
}

func TestToOrderTimestampOptional(t *testing.T) {
	pair := models.NewPair(models.NewCurrency("LTC"), models.NewCurrency("BTC"))
	order, err := toOrder(openOrderData{
		OrderNumber: "120466", Type: "sell", Rate: "0.025", Amount: "100",
		Date: "whenever",
	}, pair, nil)
	if err != nil {
		t.Fatalf("malformed date must not raise: %v", err)
	}
	if order.Opened != nil {
		t.Error("Opened should be unset")
	}
	if order.ID != "120466" || order.Price != 0.025 || order.Quantity != 100 {
		t.Errorf("unexpected order %+v", order)
	}
}

func TestToSummaryUnparseableKeyYieldsNoResult(t *testing.T) {
	if _, ok := toSummary("USDT", tickerData{}); ok {
		t.Error("expected no result for unparseable pair key")
	}

	s, ok := toSummary("BTC_ETH", tickerData{
		Last: "0.03", LowestAsk: "0.031", HighestBid: "0.029",
		BaseVolume: "5", QuoteVolume: "160", High24hr: "0.032", Low24hr: "0.028",
	})
	if !ok {
		t.Fatal("expected summary")
	}
	if s.Last != 0.03 || s.High != 0.032 || s.Low != 0.028 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Volume != 160 || s.BaseVolume != 5 {
		t.Errorf("volumes lost: %+v", s)
	}
}

func TestToOrderBookPreservesOrderAndSides(t *testing.T) {
	pair := models.NewPair(models.NewCurrency("LTC"), models.NewCurrency("BTC"))
	d := orderBookData{
		Asks: []priceLevel{{Price: 0.03, Quantity: 1}, {Price: 0.02, Quantity: 2}},
		Bids: []priceLevel{{Price: 0.01, Quantity: 3}},
	}
	book := toOrderBook(d, pair)

	asks, bids := book.Asks(), book.Bids()
	if len(asks) != 2 || len(bids) != 1 {
		t.Fatalf("side sizes: %d asks, %d bids", len(asks), len(bids))
	}
	if asks[0].Price != 0.03 || asks[1].Price != 0.02 {
		t.Errorf("ask order changed: %+v", asks)
	}
}

func TestPriceLevelDecodesMixedTypes(t *testing.T) {
	var level priceLevel
	if err := level.UnmarshalJSON([]byte(`["0.00300888", 25.5]`)); err != nil {
		t.Fatal(err)
	}
	if level.Price != 0.00300888 || level.Quantity != 25.5 {
		t.Errorf("unexpected level %+v", level)
	}

	if err := level.UnmarshalJSON([]byte(`[true, 1]`)); err == nil {
		t.Error("expected error for non-numeric price")
	}
}
