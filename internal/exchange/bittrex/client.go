// Package bittrex integrates the Bittrex v1.1 REST API: raw wire
// shapes, pure mappers into the canonical domain model, and the signed
// client implementing the market-info, account and trading interfaces.
//
// Authentication is Bittrex-style: apikey and nonce travel as query
// parameters and the HMAC-SHA512 signature of the full request URI is
// sent in the "apisign" header. All private calls, reads and writes,
// are GETs on this exchange.
package bittrex

import (
	"context"
	"strings"

	"github.com/seenimoa/cryptodeck/internal/exchange"
	"github.com/seenimoa/cryptodeck/pkg/models"
)

// DefaultBaseURL is the Bittrex v1.1 API root.
const DefaultBaseURL = "https://bittrex.com/api/v1.1"

// Client holds the connection and credentials for one Bittrex account.
type Client struct {
	conn  *exchange.Connection
	keys  *exchange.ApiKeyStore
	nonce exchange.Nonce
}

// New creates a Bittrex client over the given connection and key store.
func New(conn *exchange.Connection, keys *exchange.ApiKeyStore) *Client {
	return &Client{conn: conn, keys: keys}
}

// publicGet runs an unauthenticated query and unwraps the envelope.
// Transport and decode failures degrade to the zero result, as does a
// success=false envelope: public listing queries tolerate outages.
func publicGet[T any](ctx context.Context, c *Client, endpoint string, params ...exchange.Param) T {
	resp := exchange.PublicGet[response[T]](ctx, c.conn, endpoint, params...)
	if !resp.Success {
		var zero T
		return zero
	}
	return resp.Result
}

// privateGet runs an authenticated query under the key pair of the
// given role. Unlike the public path, failures propagate: transport
// errors as-is, credential rejections as *exchange.AuthError.
func privateGet[T any](ctx context.Context, c *Client, role models.ApiKeyRole, endpoint string, params ...exchange.Param) (T, error) {
	var zero T

	pair := c.keys.Pair(role)
	signed := append(params,
		exchange.Param{Key: "apikey", Value: string(pair.Public)},
		exchange.Param{Key: "nonce", Value: c.nonce.Next()},
	)
	url := c.conn.URL(endpoint, signed)
	headers := []exchange.Param{{Key: "apisign", Value: exchange.Sign(url, string(pair.Secret))}}

	var resp response[T]
	if err := c.conn.GetJSON(ctx, url, headers, &resp); err != nil {
		return zero, err
	}
	if !resp.Success {
		return zero, apiError(resp.Message)
	}
	return resp.Result, nil
}

// apiError classifies a success=false envelope. Credential rejections
// become AuthError so providers can surface them instead of retrying.
func apiError(message string) error {
	switch {
	case strings.Contains(message, "APIKEY"),
		strings.Contains(message, "SIGNATURE"),
		strings.Contains(message, "PERMISSION"):
		return &exchange.AuthError{Market: "bittrex", Detail: message}
	default:
		return &exchange.APIError{Market: "bittrex", Message: message}
	}
}
