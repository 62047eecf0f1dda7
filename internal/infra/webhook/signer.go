package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const signaturePrefix = "sha256="

// Sign returns the lowercase hex HMAC-SHA256 of body keyed by secret
func Sign(secret string, body []byte) string {
	return hex.EncodeToString(computeHmacSha256(body, secret))
}

// VerifySignature checks header against the HMAC of body.
// header may be "sha256=<hex>" or bare hex. Any malformed input is a mismatch.
func VerifySignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" || len(body) == 0 {
		return false
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}

	expected := computeHmacSha256(body, secret)
	if len(provided) != len(expected) {
		return false
	}

	return hmac.Equal(provided, expected)
}

func computeHmacSha256(message []byte, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(message)
	return h.Sum(nil)
}
