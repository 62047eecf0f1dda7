package webhook

import (
	"net/http"

	"signal_go/internal/domain"
)

// AuthMethod names the strategy that authorized a delivery
type AuthMethod string

const (
	AuthNone  AuthMethod = "none" // no secret configured
	AuthHMAC  AuthMethod = "hmac"
	AuthToken AuthMethod = "token"
	AuthBody  AuthMethod = "body"
)

// Header variants accepted from TradingView relays and generic webhook senders,
// checked in order.
var (
	signatureHeaders = []string{"X-TV-Signature", "X-Signature", "X-Hub-Signature"}
	tokenHeaders     = []string{"X-TV-Secret", "X-Secret"}
)

// Authenticate decides whether a delivery may be processed.
// With an empty secret every delivery is accepted.
// Otherwise HMAC over raw, then the token header, then the in-body secret are tried in order.
func Authenticate(secret string, raw []byte, header http.Header, payload domain.Payload) (AuthMethod, bool) {
	if secret == "" {
		return AuthNone, true
	}

	if sig := firstHeader(header, signatureHeaders); sig != "" && len(raw) > 0 {
		if VerifySignature(secret, raw, sig) {
			return AuthHMAC, true
		}
	}

	if token := firstHeader(header, tokenHeaders); token != "" && token == secret {
		return AuthToken, true
	}

	if s, ok := payload.Secret(); ok && s == secret {
		return AuthBody, true
	}

	return "", false
}

func firstHeader(h http.Header, names []string) string {
	for _, name := range names {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}
