package exchange

import (
	"context"

	"github.com/seenimoa/cryptodeck/pkg/models"
)

// MarketInfo answers public market-data queries for one exchange. All
// results are canonical domain entities, never raw exchange shapes.
// Implementations ride the public GET path, so a failing exchange yields
// empty results rather than errors (see PublicGet).
type MarketInfo interface {
	Pairs(ctx context.Context, market *Market) []models.PairOfMarket
	Currencies(ctx context.Context, market *Market) []models.CurrencyOfMarket
	Tick(ctx context.Context, pair models.Pair) models.Tick
	OrderBook(ctx context.Context, pair models.Pair, depth int, side models.OrderBookSide) *models.OrderBook
	PairsStatistic(ctx context.Context) []models.MarketSummary
}

// AccountInfo answers authenticated read queries. These propagate
// errors: a private read that fails must not look like an empty account.
type AccountInfo interface {
	Balances(ctx context.Context, market *Market) ([]models.Balance, error)
	OpenOrders(ctx context.Context, market *Market, pair models.Pair) ([]models.Order, error)
}

// Trader issues authenticated write requests. Failures always propagate.
type Trader interface {
	BuyLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error)
	SellLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error)
	CancelOrder(ctx context.Context, id models.OrderID) error
}

// HistorySource answers public trade-history queries. History mapping is
// strict (timestamps are mandatory), so errors propagate.
type HistorySource interface {
	TradeHistory(ctx context.Context, pair models.Pair) ([]models.MarketHistory, error)
}

// Market is one configured exchange: its identity, its connection, its
// per-role API key pairs, and the adapter answering its queries. One
// instance exists per configured exchange for the process lifetime; the
// Market exclusively owns its Connection and key store.
type Market struct {
	name string
	conn *Connection
	keys *ApiKeyStore
	info MarketInfo

	account AccountInfo
	trader  Trader
	history HistorySource
}

// NewMarket creates a market. Account, trading and history capabilities
// are discovered from the info adapter when it implements them.
func NewMarket(name string, conn *Connection, keys *ApiKeyStore, info MarketInfo) *Market {
	m := &Market{name: name, conn: conn, keys: keys, info: info}
	if a, ok := info.(AccountInfo); ok {
		m.account = a
	}
	if t, ok := info.(Trader); ok {
		m.trader = t
	}
	if h, ok := info.(HistorySource); ok {
		m.history = h
	}
	return m
}

// Name returns the exchange identity (e.g. "bittrex").
func (m *Market) Name() string { return m.name }

// Connection returns the market's HTTP connection.
func (m *Market) Connection() *Connection { return m.conn }

// Keys returns the key pair stored for a role.
func (m *Market) Keys(role models.ApiKeyRole) models.ApiKeyPair {
	return m.keys.Pair(role)
}

// SetPublicApiKey replaces the public key for a role and notifies key
// observers (consumed by key-management surfaces).
func (m *Market) SetPublicApiKey(role models.ApiKeyRole, key models.ApiKey) {
	m.keys.SetPublic(role, key)
}

// SetPrivateApiKey replaces the secret key for a role and notifies key
// observers.
func (m *Market) SetPrivateApiKey(role models.ApiKeyRole, key models.ApiKey) {
	m.keys.SetSecret(role, key)
}

// SubscribeKeys registers a key-change observer; the returned cancel
// func removes it.
func (m *Market) SubscribeKeys(obs KeyObserver) (cancel func()) {
	return m.keys.Subscribe(obs)
}

// Pairs lists the pairs this exchange trades.
func (m *Market) Pairs(ctx context.Context) []models.PairOfMarket {
	return m.info.Pairs(ctx, m)
}

// Currencies lists the currencies this exchange supports.
func (m *Market) Currencies(ctx context.Context) []models.CurrencyOfMarket {
	return m.info.Currencies(ctx, m)
}

// Tick returns the current best bid/ask for a pair.
func (m *Market) Tick(ctx context.Context, pair models.Pair) models.Tick {
	return m.info.Tick(ctx, pair)
}

// OrderBook returns the order book for a pair, limited to depth levels
// per side and filtered to the requested side(s).
func (m *Market) OrderBook(ctx context.Context, pair models.Pair, depth int, side models.OrderBookSide) *models.OrderBook {
	return m.info.OrderBook(ctx, pair, depth, side)
}

// PairsStatistic returns the exchange's aggregate per-pair statistics.
func (m *Market) PairsStatistic(ctx context.Context) []models.MarketSummary {
	return m.info.PairsStatistic(ctx)
}

// CanTrade reports whether the market supports authenticated account and
// trading operations.
func (m *Market) CanTrade() bool { return m.account != nil && m.trader != nil }

// Balances returns the account balances. ErrNotSupported if the market
// has no account capability.
func (m *Market) Balances(ctx context.Context) ([]models.Balance, error) {
	if m.account == nil {
		return nil, ErrNotSupported
	}
	return m.account.Balances(ctx, m)
}

// OpenOrders returns the open orders for a pair.
func (m *Market) OpenOrders(ctx context.Context, pair models.Pair) ([]models.Order, error) {
	if m.account == nil {
		return nil, ErrNotSupported
	}
	return m.account.OpenOrders(ctx, m, pair)
}

// BuyLimit places a limit buy order and returns the exchange-native id.
func (m *Market) BuyLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	if m.trader == nil {
		return "", ErrNotSupported
	}
	return m.trader.BuyLimit(ctx, pair, quantity, price)
}

// SellLimit places a limit sell order and returns the exchange-native id.
func (m *Market) SellLimit(ctx context.Context, pair models.Pair, quantity, price float64) (models.OrderID, error) {
	if m.trader == nil {
		return "", ErrNotSupported
	}
	return m.trader.SellLimit(ctx, pair, quantity, price)
}

// CancelOrder cancels an open order by its exchange-native id.
func (m *Market) CancelOrder(ctx context.Context, id models.OrderID) error {
	if m.trader == nil {
		return ErrNotSupported
	}
	return m.trader.CancelOrder(ctx, id)
}

// TradeHistory returns recent executed trades for a pair.
func (m *Market) TradeHistory(ctx context.Context, pair models.Pair) ([]models.MarketHistory, error) {
	if m.history == nil {
		return nil, ErrNotSupported
	}
	return m.history.TradeHistory(ctx, pair)
}
