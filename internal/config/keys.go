package config

import (
	"os"
	"strings"
)

// KeySource indicates where an API key value came from.
type KeySource string

const (
	KeySourceEnv    KeySource = "env"
	KeySourceConfig KeySource = "config"
	KeySourceNone   KeySource = "none"
)

// KeyStatus describes one configured exchange API key without exposing
// its value.
type KeyStatus struct {
	Name   string    `json:"name"`
	IsSet  bool      `json:"is_set"`
	Source KeySource `json:"source"`
	Masked string    `json:"masked"`
}

// CheckAPIKeys reports the status of every exchange key slot. Used by
// the status command and the key-management API; never returns raw key
// material.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	var statuses []KeyStatus
	for _, name := range []string{"bittrex", "poloniex"} {
		ex := cfg.Exchanges[name]
		prefix := "CRYPTODECK_EXCHANGES_" + strings.ToUpper(name)
		statuses = append(statuses,
			checkKey(name+" info key", ex.Info.Key, prefix+"_INFO_KEY"),
			checkKey(name+" info secret", ex.Info.Secret, prefix+"_INFO_SECRET"),
			checkKey(name+" trading key", ex.Trading.Key, prefix+"_TRADING_KEY"),
			checkKey(name+" trading secret", ex.Trading.Secret, prefix+"_TRADING_SECRET"),
		)
	}
	return statuses
}

// checkKey determines a single key's status and source.
func checkKey(name, value, envVar string) KeyStatus {
	s := KeyStatus{Name: name, Masked: maskKey(value)}
	if value == "" {
		s.Source = KeySourceNone
		return s
	}
	s.IsSet = true
	if os.Getenv(envVar) == value {
		s.Source = KeySourceEnv
	} else {
		s.Source = KeySourceConfig
	}
	return s
}

// maskKey hides key material: short keys fully, longer keys keeping the
// first and last three characters.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
