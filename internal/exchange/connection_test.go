package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name   string
		params []Param
		want   string
	}{
		{"empty", nil, ""},
		{"single", []Param{{"market", "BTC-LTC"}}, "?market=BTC-LTC"},
		{"ordered", []Param{{"b", "2"}, {"a", "1"}}, "?b=2&a=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeQuery(tt.params); got != tt.want {
				t.Errorf("EncodeQuery = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeForm(t *testing.T) {
	got := EncodeForm([]Param{{"command", "returnBalances"}, {"nonce", "42"}})
	if got != "command=returnBalances&nonce=42" {
		t.Errorf("EncodeForm = %q", got)
	}
	if EncodeForm(nil) != "" {
		t.Error("empty form should encode to empty string")
	}
}

func TestPublicGetDecodesTypedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "market=BTC-LTC" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"Bid": 0.01, "Ask": 0.02}`))
	}))
	defer srv.Close()

	conn := NewConnection(srv.URL, time.Second)
	type tick struct{ Bid, Ask float64 }
	got := PublicGet[tick](context.Background(), conn, "/getticker", Param{"market", "BTC-LTC"})
	if got.Bid != 0.01 || got.Ask != 0.02 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestPublicGetDegradesToZeroOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	conn := NewConnection(srv.URL, time.Second)
	type tick struct{ Bid, Ask float64 }
	got := PublicGet[tick](context.Background(), conn, "/getticker")
	if got != (tick{}) {
		t.Errorf("expected zero value on transport failure, got %+v", got)
	}
}

func TestPublicGetDegradesToZeroOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Bid": not json`))
	}))
	defer srv.Close()

	conn := NewConnection(srv.URL, time.Second)
	type tick struct{ Bid float64 }
	if got := PublicGet[tick](context.Background(), conn, "/getticker"); got != (tick{}) {
		t.Errorf("expected zero value on malformed body, got %+v", got)
	}
}

func TestPublicGetBareEndpointWithoutParams(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	conn := NewConnection(srv.URL, time.Second)
	PublicGet[[]string](context.Background(), conn, "/getmarkets")
	if gotURL != "/getmarkets" {
		t.Errorf("expected bare endpoint, got %s", gotURL)
	}
}

func TestPostFormPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	conn := NewConnection(srv.URL, time.Second)
	err := conn.PostForm(context.Background(), srv.URL+"/tradingApi", "command=buy", nil, nil)
	if err == nil {
		t.Fatal("POST failure must propagate as an error")
	}
}

func TestPostFormSendsFormBody(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	conn := NewConnection(srv.URL, time.Second)
	body := EncodeForm([]Param{{"command", "buy"}, {"nonce", "7"}})
	if err := conn.PostForm(context.Background(), srv.URL+"/tradingApi", body, nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotBody != "command=buy&nonce=7" {
		t.Errorf("unexpected body: %q", gotBody)
	}
	if gotType != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected content type: %q", gotType)
	}
}

func TestNonceStrictlyIncreasing(t *testing.T) {
	var n Nonce
	prev := ""
	for i := 0; i < 100; i++ {
		next := n.Next()
		if len(next) < len(prev) || (len(next) == len(prev) && next <= prev) {
			t.Fatalf("nonce %s not greater than %s", next, prev)
		}
		prev = next
	}
}
