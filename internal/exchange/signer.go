package exchange

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Sign computes the keyed digest used to authenticate private requests:
// HMAC-SHA512 of message under secret, as a lowercase hex string.
// Deterministic and side-effect free; the parameter or header name the
// digest travels under is exchange-specific and chosen by each client.
func Sign(message, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
