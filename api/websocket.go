package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seenimoa/cryptodeck/internal/updater"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; restrict in production
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// handleWebSocket upgrades HTTP connections to WebSocket. Clients
// subscribe to live provider streams with messages like
// {"type":"subscribe","data":{"channel":"orderbook","market":"bittrex","pair":"BTC-LTC"}}
// and receive one message per provider notification until they
// unsubscribe or disconnect.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &WSClient{
		hub:     s.wsHub,
		send:    make(chan WSMessage, 256),
		cancels: make(map[string]func()),
	}

	s.wsHub.Register(client)

	go wsWritePump(conn, client)
	go wsReadPump(conn, client, s)
}

// wsSubscribeData is the payload of subscribe/unsubscribe messages.
type wsSubscribeData struct {
	Channel  string `json:"channel"` // "orderbook", "balance", "stats"
	Market   string `json:"market"`
	Pair     string `json:"pair,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// wsReadPump pumps messages from the WebSocket connection to the hub.
func wsReadPump(conn *websocket.Conn, client *WSClient, s *Server) {
	defer func() {
		client.cancelAll()
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "subscribe":
			s.wsSubscribe(client, msg.Data)
		case "unsubscribe":
			s.wsUnsubscribe(client, msg.Data)
		case "ping":
			client.trySend(WSMessage{Type: "pong"})
		}
	}
}

// wsSubscribe wires one provider subscription into the client's send
// channel.
func (s *Server) wsSubscribe(client *WSClient, data json.RawMessage) {
	var req wsSubscribeData
	if err := json.Unmarshal(data, &req); err != nil {
		client.trySend(WSMessage{Type: "error", Error: "invalid subscribe payload"})
		return
	}

	market, ok := s.core.Market(req.Market)
	if !ok {
		client.trySend(WSMessage{Type: "error", Error: "unknown market: " + req.Market})
		return
	}

	key := req.Channel + "/" + req.Market + "/" + req.Pair + "/" + req.Currency
	switch req.Channel {
	case "orderbook":
		pair, ok := parsePair(req.Pair)
		if !ok {
			client.trySend(WSMessage{Type: "error", Error: "pair must be BASE-QUOTE"})
			return
		}
		sub := s.core.OrderBooks().NeedOrderBookOf(market, pair)
		client.addSubscription(key, sub.Unsubscribe)
		go pumpUpdates(client, sub, func(book *models.OrderBook) WSMessage {
			return WSMessage{
				Type: "orderbook", Market: req.Market, Pair: req.Pair,
				Data: map[string]interface{}{"asks": book.Asks(), "bids": book.Bids()},
			}
		})
	case "balance":
		if req.Currency == "" {
			client.trySend(WSMessage{Type: "error", Error: "balance channel needs a currency"})
			return
		}
		sub := s.core.Balances().NeedBalanceOf(market, models.NewCurrency(req.Currency))
		client.addSubscription(key, sub.Unsubscribe)
		go pumpUpdates(client, sub, func(b models.Balance) WSMessage {
			return WSMessage{Type: "balance", Market: req.Market, Data: b}
		})
	case "stats":
		sub := s.core.Statistics().NeedStatisticsOf(market)
		client.addSubscription(key, sub.Unsubscribe)
		go pumpUpdates(client, sub, func(stats []models.MarketSummary) WSMessage {
			return WSMessage{Type: "stats", Market: req.Market, Data: stats}
		})
	default:
		client.trySend(WSMessage{Type: "error", Error: "unknown channel: " + req.Channel})
		return
	}

	client.trySend(WSMessage{Type: "subscribed", Market: req.Market, Pair: req.Pair})
}

func (s *Server) wsUnsubscribe(client *WSClient, data json.RawMessage) {
	var req wsSubscribeData
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}
	key := req.Channel + "/" + req.Market + "/" + req.Pair + "/" + req.Currency
	client.removeSubscription(key)
	client.trySend(WSMessage{Type: "unsubscribed", Market: req.Market, Pair: req.Pair})
}

// pumpUpdates forwards provider notifications to the client until the
// subscription's channel stops delivering (the client unsubscribed or
// disconnected). Elevated errors become error messages on the stream.
func pumpUpdates[T any](client *WSClient, sub *updater.Subscription[T], render func(T) WSMessage) {
	for u := range sub.Updates() {
		if u.Err != nil {
			client.trySend(WSMessage{Type: "error", Error: u.Err.Error()})
			continue
		}
		client.trySend(render(u.Value))
	}
}

// addSubscription records a cancel func, replacing (and cancelling) a
// previous subscription under the same key.
func (c *WSClient) addSubscription(key string, cancel func()) {
	c.mu.Lock()
	prev := c.cancels[key]
	c.cancels[key] = cancel
	c.mu.Unlock()
	if prev != nil {
		prev()
	}
}

func (c *WSClient) removeSubscription(key string) {
	c.mu.Lock()
	cancel := c.cancels[key]
	delete(c.cancels, key)
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// cancelAll tears down every provider subscription this client holds.
func (c *WSClient) cancelAll() {
	c.mu.Lock()
	cancels := make([]func(), 0, len(c.cancels))
	for _, cancel := range c.cancels {
		cancels = append(cancels, cancel)
	}
	c.cancels = make(map[string]func())
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// trySend queues a message for the client, dropping it if the client
// cannot keep up.
func (c *WSClient) trySend(msg WSMessage) {
	defer func() {
		// The hub closes send on unregister; a racing send must not
		// crash the pump.
		_ = recover()
	}()
	select {
	case c.send <- msg:
	default:
	}
}

// wsWritePump pumps messages from the hub to the WebSocket connection.
func wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("WebSocket marshal error: %v", err)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Flush queued messages.
			n := len(client.send)
			for i := 0; i < n; i++ {
				nextMsg := <-client.send
				nextData, err := json.Marshal(nextMsg)
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, nextData); err != nil {
					return
				}
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
