package bittrex

// Raw Bittrex v1.1 wire shapes. Every response arrives inside a
// success/message/result envelope; the result payload varies per
// endpoint. These types never leave this package.

type response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

type marketData struct {
	MarketCurrency     string  `json:"MarketCurrency"`
	BaseCurrency       string  `json:"BaseCurrency"`
	MarketCurrencyLong string  `json:"MarketCurrencyLong"`
	BaseCurrencyLong   string  `json:"BaseCurrencyLong"`
	MinTradeSize       float64 `json:"MinTradeSize"`
	MarketName         string  `json:"MarketName"`
	IsActive           bool    `json:"IsActive"`
	Created            string  `json:"Created"`
}

type currencyData struct {
	Currency     string  `json:"Currency"`
	CurrencyLong string  `json:"CurrencyLong"`
	TxFee        float64 `json:"TxFee"`
	IsActive     bool    `json:"IsActive"`
	BaseAddress  string  `json:"BaseAddress"`
}

type tickerData struct {
	Bid  float64  `json:"Bid"`
	Ask  float64  `json:"Ask"`
	Last *float64 `json:"Last"`
}

type bookEntry struct {
	Quantity float64 `json:"Quantity"`
	Rate     float64 `json:"Rate"`
}

type orderBookData struct {
	Buy  []bookEntry `json:"buy"`
	Sell []bookEntry `json:"sell"`
}

type summaryData struct {
	MarketName     string  `json:"MarketName"`
	High           float64 `json:"High"`
	Low            float64 `json:"Low"`
	Volume         float64 `json:"Volume"`
	Last           float64 `json:"Last"`
	BaseVolume     float64 `json:"BaseVolume"`
	TimeStamp      string  `json:"TimeStamp"`
	Bid            float64 `json:"Bid"`
	Ask            float64 `json:"Ask"`
	OpenBuyOrders  int     `json:"OpenBuyOrders"`
	OpenSellOrders int     `json:"OpenSellOrders"`
	PrevDay        float64 `json:"PrevDay"`
}

type balanceData struct {
	Currency      string   `json:"Currency"`
	Balance       *float64 `json:"Balance"`
	Available     *float64 `json:"Available"`
	Pending       *float64 `json:"Pending"`
	CryptoAddress string   `json:"CryptoAddress"`
}

type openOrderData struct {
	OrderUuid string  `json:"OrderUuid"`
	Exchange  string  `json:"Exchange"`
	OrderType string  `json:"OrderType"`
	Quantity  float64 `json:"Quantity"`
	Limit     float64 `json:"Limit"`
	Opened    string  `json:"Opened"`
}

type orderIDData struct {
	UUID string `json:"uuid"`
}
