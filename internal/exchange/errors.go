package exchange

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned when a market lacks the capability behind
// an operation (e.g. account queries on a market without credentials).
var ErrNotSupported = errors.New("operation not supported by this market")

// UnknownTradeTagError is returned when an exchange reports an order or
// trade type string outside the set the mapper understands. It is never
// coerced to a default position.
type UnknownTradeTagError struct {
	Tag string
}

func (e *UnknownTradeTagError) Error() string {
	return fmt.Sprintf("%q is an unknown trade position tag", e.Tag)
}

// InvalidTimestampError is returned when a record whose timestamp is
// load-bearing (trade history) carries an unparseable timestamp.
type InvalidTimestampError struct {
	Raw string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("required timestamp is unparseable: %q", e.Raw)
}

// AuthError is an elevated failure: the exchange rejected the request's
// credentials. Providers surface it to subscribers as a distinct
// notification instead of retrying it silently.
type AuthError struct {
	Market string
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %s", e.Market, e.Detail)
}

// IsAuthError reports whether err wraps an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// APIError is an exchange-level rejection carried inside a syntactically
// valid response body (e.g. a success=false envelope).
type APIError struct {
	Market  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api error: %s", e.Market, e.Message)
}
