// Package poloniex integrates the Poloniex REST API: raw wire shapes,
// pure mappers into the canonical domain model, and the signed client
// implementing the market-info, account, trading and history
// interfaces.
//
// The public API is a single GET endpoint dispatched on a command
// parameter. The private API is POST-only: every call goes to
// /tradingApi with a form body carrying command and nonce, the API key
// in the "Key" header and the HMAC-SHA512 of the body in "Sign".
package poloniex

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// DefaultBaseURL is the Poloniex API root.
const DefaultBaseURL = "https://poloniex.com"

// Client holds the connection and credentials for one Poloniex account.
type Client struct {
	conn  *exchange.Connection
	keys  *exchange.ApiKeyStore
	nonce exchange.Nonce
}

// New creates a Poloniex client over the given connection and key store.
func New(conn *exchange.Connection, keys *exchange.ApiKeyStore) *Client {
	return &Client{conn: conn, keys: keys}
}

// publicGet runs one public command. Transport and decode failures
// degrade to the zero result; so does an error object in place of the
// expected payload, which Poloniex serves with HTTP 200.
func publicGet[T any](ctx context.Context, c *Client, command string, params ...exchange.Param) T {
	all := append([]exchange.Param{{Key: "command", Value: command}}, params...)
	raw := exchange.PublicGet[json.RawMessage](ctx, c.conn, "/public", all...)

	var zero T
	if len(raw) == 0 || apiError(raw) != nil {
		return zero
	}
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero
	}
	return result
}

// privatePost runs one authenticated command under the key pair of the
// given role. The signature covers the exact form body, so the body is
// encoded once and both signed and sent byte for byte. Failures
// propagate: transport errors as-is, credential rejections as
// *exchange.AuthError.
func privatePost[T any](ctx context.Context, c *Client, role models.ApiKeyRole, command string, params ...exchange.Param) (T, error) {
	var zero T

	pair := c.keys.Pair(role)
	all := append([]exchange.Param{
		{Key: "command", Value: command},
		{Key: "nonce", Value: c.nonce.Next()},
	}, params...)
	body := exchange.EncodeForm(all)
	headers := []exchange.Param{
		{Key: "Key", Value: string(pair.Public)},
		{Key: "Sign", Value: exchange.Sign(body, string(pair.Secret))},
	}

	var raw json.RawMessage
	if err := c.conn.PostForm(ctx, c.conn.URL("/tradingApi", nil), body, headers, &raw); err != nil {
		return zero, err
	}
	if err := apiError(raw); err != nil {
		return zero, err
	}
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero, err
	}
	return result, nil
}

// apiError detects Poloniex's in-band error objects ({"error": "..."})
// and classifies them. Credential rejections become AuthError so
// providers can surface them instead of retrying.
func apiError(raw json.RawMessage) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) != nil || envelope.Error == "" {
		return nil
	}
	lower := strings.ToLower(envelope.Error)
	switch {
	case strings.Contains(lower, "api key"),
		strings.Contains(lower, "signature"),
		strings.Contains(lower, "permission"):
		return &exchange.AuthError{Market: "poloniex", Detail: envelope.Error}
	default:
		return &exchange.APIError{Market: "poloniex", Message: envelope.Error}
	}
}
