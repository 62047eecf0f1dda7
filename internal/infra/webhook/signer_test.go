package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSign_KnownVector(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	expected := "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"
	result := Sign("key", []byte("The quick brown fox jumps over the lazy dog"))

	if result != expected {
		t.Errorf("HMAC Mismatch. Expected %s, got %s", expected, result)
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "s3cret"
	body := []byte(`{"ticker":"BTCUSDT","action":"buy"}`)
	sig := Sign(secret, body)

	t.Run("bare hex", func(t *testing.T) {
		if !VerifySignature(secret, body, sig) {
			t.Error("Expected valid signature")
		}
	})

	t.Run("prefixed hex", func(t *testing.T) {
		if !VerifySignature(secret, body, "sha256="+sig) {
			t.Error("Expected valid prefixed signature")
		}
	})

	t.Run("any flipped body byte invalidates", func(t *testing.T) {
		for i := range body {
			tampered := append([]byte(nil), body...)
			tampered[i] ^= 0x01
			if VerifySignature(secret, tampered, sig) {
				t.Fatalf("Tampered byte %d still verified", i)
			}
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if VerifySignature("other", body, sig) {
			t.Error("Expected mismatch for wrong secret")
		}
	})

	t.Run("different length fails closed", func(t *testing.T) {
		if VerifySignature(secret, body, sig[:32]) {
			t.Error("Expected truncated signature to fail")
		}
		if VerifySignature(secret, body, sig+"00") {
			t.Error("Expected extended signature to fail")
		}
	})

	t.Run("invalid hex fails closed", func(t *testing.T) {
		if VerifySignature(secret, body, "sha256=zz-not-hex") {
			t.Error("Expected invalid hex to fail")
		}
		if VerifySignature(secret, body, "abc") {
			t.Error("Expected odd-length hex to fail")
		}
	})

	t.Run("empty inputs", func(t *testing.T) {
		if VerifySignature("", body, sig) || VerifySignature(secret, nil, sig) || VerifySignature(secret, body, "") {
			t.Error("Expected empty inputs to fail")
		}
	})
}

func TestSign_MatchesIndependentHMAC(t *testing.T) {
	body := []byte(`{"a":1}`)
	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write(body)

	if got, want := Sign("k", body), hex.EncodeToString(mac.Sum(nil)); got != want {
		t.Errorf("Sign = %s, want %s", got, want)
	}
}
