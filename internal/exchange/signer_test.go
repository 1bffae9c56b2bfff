package exchange

import (
	"strings"
	"testing"
)

func TestSignDeterministic(t *testing.T) {
	a := Sign("nonce=1&command=returnBalances", "secret")
	b := Sign("nonce=1&command=returnBalances", "secret")
	if a != b {
		t.Error("same message and secret must yield the same digest")
	}
}

func TestSignLowercaseHex(t *testing.T) {
	digest := Sign("message", "key")
	if len(digest) != 128 {
		t.Fatalf("expected 128 hex chars for sha512, got %d", len(digest))
	}
	if digest != strings.ToLower(digest) {
		t.Error("digest must be lowercase")
	}
	for _, c := range digest {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Fatalf("non-hex character %q in digest", c)
		}
	}
}

func TestSignDifferentSecrets(t *testing.T) {
	if Sign("message", "key1") == Sign("message", "key2") {
		t.Error("different secrets should yield different digests")
	}
	if Sign("message1", "key") == Sign("message2", "key") {
		t.Error("different messages should yield different digests")
	}
}

func TestSignKnownVector(t *testing.T) {
	// RFC 4231 test case 2 (HMAC-SHA-512, key "Jefe").
	got := Sign("what do ya want for nothing?", "Jefe")
	want := "164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea250554" +
		"9758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737"
	if got != want {
		t.Errorf("digest mismatch:\n got %s\nwant %s", got, want)
	}
}
