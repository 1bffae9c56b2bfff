// Package exchange holds everything common to the exchange integrations:
// the HTTP connection with its query/form encoding rules, the request
// signer, the Market aggregate with its API-key store, and the error
// taxonomy shared by the per-exchange mappers.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds every request. Exchange APIs are occasionally
// very slow, so the default is generous; it is configurable, not a
// recommendation to wait this long.
const DefaultTimeout = 30 * time.Minute

// Param is one ordered (key, value) query or form parameter. Order is
// preserved exactly as supplied, because signed requests hash the encoded
// parameter string and the exchange verifies it byte for byte.
type Param struct {
	Key   string
	Value string
}

// EncodeQuery encodes params as a query string ("?k=v&k=v"). An empty
// parameter list yields an empty string, so the endpoint stays bare.
func EncodeQuery(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, p := range params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// EncodeForm encodes params as a form body ("k=v&k=v", no leading '?').
func EncodeForm(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// Connection is the HTTP client for one exchange endpoint. The call is
// blocking from the caller's point of view: it returns only once a
// response arrives or the timeout/cancellation fires.
type Connection struct {
	baseURL string
	http    *http.Client
}

// NewConnection creates a connection for the given base URL. A
// non-positive timeout falls back to DefaultTimeout.
func NewConnection(baseURL string, timeout time.Duration) *Connection {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Connection{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the exchange's API root.
func (c *Connection) BaseURL() string { return c.baseURL }

// URL joins the base URL with an endpoint path and an encoded query.
func (c *Connection) URL(endpoint string, params []Param) string {
	return c.baseURL + endpoint + EncodeQuery(params)
}

// GetJSON performs a GET against a fully built URL, attaching the given
// headers, and decodes the JSON response into out.
func (c *Connection) GetJSON(ctx context.Context, url string, headers []Param, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, headers, out)
}

// PostForm performs a POST with a form-encoded body and decodes the JSON
// response into out. Unlike the public GET path, callers must treat any
// returned error as a failure: authenticated writes never silently
// degrade.
func (c *Connection) PostForm(ctx context.Context, url, body string, headers []Param, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, headers, out)
}

func (c *Connection) do(req *http.Request, headers []Param, out any) error {
	req.Header.Set("Accept", "application/json")
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// PublicGet issues an unauthenticated GET for endpoint with the given
// ordered parameters and returns the decoded value of type T.
//
// If the transport call fails or the body cannot be parsed, it returns
// T's zero value instead of an error. This degrade-to-default policy is
// deliberate and load-bearing: listing queries tolerate partial outages
// and callers filter empty results, so a public read must never abort a
// batch. Authenticated writes go through PostForm, which propagates.
func PublicGet[T any](ctx context.Context, c *Connection, endpoint string, params ...Param) T {
	var result T
	if err := c.GetJSON(ctx, c.URL(endpoint, params), nil, &result); err != nil {
		var zero T
		return zero
	}
	return result
}

// Nonce issues strictly increasing request nonces. Exchanges reject
// private requests whose nonce is not greater than the previous one, so
// concurrent callers must share a single Nonce per key pair.
type Nonce struct {
	mu   sync.Mutex
	last int64
}

// Next returns the next nonce as a decimal string.
func (n *Nonce) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= n.last {
		now = n.last + 1
	}
	n.last = now
	return strconv.FormatInt(now, 10)
}
