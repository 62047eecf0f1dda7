package webhook

import (
	"net/http"
	"testing"

	"signal_go/internal/domain"
)

func TestAuthenticate_NoSecretAcceptsEverything(t *testing.T) {
	method, ok := Authenticate("", nil, http.Header{}, nil)
	if !ok || method != AuthNone {
		t.Errorf("Authenticate without secret = (%s, %v)", method, ok)
	}
}

func TestAuthenticate_Priority(t *testing.T) {
	secret := "s"
	raw := []byte(`{"secret":"s"}`)
	payload := domain.Payload{"secret": "s"}

	h := http.Header{}
	h.Set("X-Signature", Sign(secret, raw))
	h.Set("X-Secret", secret)

	if method, ok := Authenticate(secret, raw, h, payload); !ok || method != AuthHMAC {
		t.Errorf("Expected HMAC to win, got (%s, %v)", method, ok)
	}

	h.Del("X-Signature")
	if method, ok := Authenticate(secret, raw, h, payload); !ok || method != AuthToken {
		t.Errorf("Expected token next, got (%s, %v)", method, ok)
	}

	h.Del("X-Secret")
	if method, ok := Authenticate(secret, raw, h, payload); !ok || method != AuthBody {
		t.Errorf("Expected body secret last, got (%s, %v)", method, ok)
	}
}

func TestAuthenticate_FirstSignatureHeaderWins(t *testing.T) {
	secret := "s"
	raw := []byte(`{}`)

	h := http.Header{}
	h.Set("X-TV-Signature", "00")
	h.Set("X-Signature", Sign(secret, raw))

	if _, ok := Authenticate(secret, raw, h, domain.Payload{}); ok {
		t.Error("Only the highest-priority signature header is checked")
	}
}

func TestAuthenticate_SignatureNeedsBody(t *testing.T) {
	secret := "s"
	h := http.Header{}
	h.Set("X-Signature", Sign(secret, nil))

	if _, ok := Authenticate(secret, nil, h, domain.Payload{}); ok {
		t.Error("Signature over an empty body must not authorize")
	}
}
