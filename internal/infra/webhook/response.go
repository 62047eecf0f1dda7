package webhook

import (
	"encoding/json"
	"net/http"

	"signal_go/internal/domain"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, e *domain.APIError) {
	writeJSON(w, e.Status, errorResponse{OK: false, Error: e.Code})
}

type listResponse struct {
	OK    bool                  `json:"ok"`
	Count int                   `json:"count"`
	Data  []domain.SignalRecord `json:"data"`
}

type ackResponse struct {
	OK     bool `json:"ok"`
	Saved  bool `json:"saved"`
	Symbol any  `json:"symbol"`
	Action any  `json:"action"`
}
