package models

// ApiKeyRole distinguishes the purpose a key pair was issued for.
// Exchanges commonly issue separate keys for read-only info access,
// trading, and withdrawal.
type ApiKeyRole int

const (
	RoleInfo ApiKeyRole = iota
	RoleTrading
	RoleWithdrawal
)

func (r ApiKeyRole) String() string {
	switch r {
	case RoleInfo:
		return "info"
	case RoleTrading:
		return "trading"
	case RoleWithdrawal:
		return "withdrawal"
	}
	return "unknown"
}

// ApiKey is a single API key string.
type ApiKey string

// IsZero reports whether the key is unset.
func (k ApiKey) IsZero() bool { return k == "" }

// ApiKeyPair is the public/secret key pair for one role on one exchange.
type ApiKeyPair struct {
	Public ApiKey
	Secret ApiKey
}
