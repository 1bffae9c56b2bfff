package exchange

import (
	"context"
	"math/rand"

	"github.com/seenimoa/cryptodeck/pkg/models"
)

// DummyInfo is an offline MarketInfo serving synthetic data. It backs
// demo mode and lets the rest of the stack run without network access.
type DummyInfo struct{}

var (
	dummyBTC = models.NewCurrencyLong("BTC", "Bitcoin")
	dummyLTC = models.NewCurrencyLong("LTC", "Litecoin")
	dummyETH = models.NewCurrencyLong("ETH", "Ethereum")
	dummyDOG = models.NewCurrencyLong("DOGE", "Dogecoin")
)

func (DummyInfo) Pairs(_ context.Context, market *Market) []models.PairOfMarket {
	return []models.PairOfMarket{
		{Pair: models.NewPair(dummyBTC, dummyLTC), Market: market, MinTradeSize: 0.000001, Active: true},
		{Pair: models.NewPair(dummyBTC, dummyETH), Market: market, MinTradeSize: 0.000001, Active: true},
		{Pair: models.NewPair(dummyETH, dummyLTC), Market: market, MinTradeSize: 0.000001, Active: true},
		{Pair: models.NewPair(dummyBTC, dummyDOG), Market: market, MinTradeSize: 0.000001, Active: false},
	}
}

func (DummyInfo) Currencies(_ context.Context, market *Market) []models.CurrencyOfMarket {
	return []models.CurrencyOfMarket{
		{Currency: dummyBTC, Market: market, TxFee: 0.01, Active: true},
		{Currency: dummyLTC, Market: market, TxFee: 0.01, Active: true},
		{Currency: dummyETH, Market: market, TxFee: 0.01, Active: true},
		{Currency: dummyDOG, Market: market, TxFee: 0.01, Active: false},
	}
}

func (DummyInfo) Tick(_ context.Context, _ models.Pair) models.Tick {
	bid := rand.Float64()
	return models.Tick{Bid: bid, Ask: bid + 0.0001}
}

func (DummyInfo) OrderBook(_ context.Context, pair models.Pair, depth int, side models.OrderBookSide) *models.OrderBook {
	book := models.NewOrderBook(pair)
	start := rand.Float64()

	if side == models.SideBoth || side == models.SideSell {
		asks := make([]models.OrderBookLevel, depth)
		for i := range asks {
			asks[i] = models.OrderBookLevel{Price: start + rand.Float64(), Quantity: rand.Float64()}
		}
		book.ReplaceAsks(asks)
	}
	if side == models.SideBoth || side == models.SideBuy {
		bids := make([]models.OrderBookLevel, depth)
		for i := range bids {
			bids[i] = models.OrderBookLevel{Price: start - rand.Float64(), Quantity: rand.Float64()}
		}
		book.ReplaceBids(bids)
	}
	return book
}

func (DummyInfo) PairsStatistic(_ context.Context) []models.MarketSummary {
	return []models.MarketSummary{
		{Pair: models.NewPair(dummyBTC, dummyLTC), Volume: 1234, BaseVolume: 0.1234, High: 0.0234, Low: 0.02, Last: 0.02345, OpenBuyOrders: 40, OpenSellOrders: 34},
		{Pair: models.NewPair(dummyBTC, dummyETH), Volume: 100, BaseVolume: 10, High: 7, Low: 4, Last: 7, OpenBuyOrders: 400, OpenSellOrders: 340},
	}
}
