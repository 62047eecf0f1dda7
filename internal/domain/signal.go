package domain

import (
	"encoding/json"
	"time"
)

// SourceTradingView identifies where every ingested signal comes from
const SourceTradingView = "tradingview"

// Payload is the inbound webhook body. Any field may be missing.
// Known keys: action, signal, type, ticker, symbol, interval, price, close, time, secret.
type Payload map[string]any

// First returns the first non-empty value among keys, or nil
func (p Payload) First(keys ...string) any {
	for _, k := range keys {
		if v, ok := p[k]; ok && !isEmpty(v) {
			return v
		}
	}
	return nil
}

// Secret returns the in-body shared secret when it is a non-empty string
func (p Payload) Secret() (string, bool) {
	s, ok := p["secret"].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// isEmpty mirrors the falsy set TradingView senders rely on:
// null, "", false and numeric zero all count as missing.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	default:
		return false
	}
}

// Signal is the compact, normalized view of one webhook delivery.
// Missing fields encode as JSON null.
type Signal struct {
	Source   string `json:"source"`
	RecvAt   string `json:"recv_at"`
	Action   any    `json:"action"`
	Signal   any    `json:"signal"`
	Symbol   any    `json:"symbol"`
	Interval any    `json:"interval"`
	Price    any    `json:"price"`
	Time     any    `json:"time"`
}

// Normalize builds a Signal from p. It never fails.
func Normalize(p Payload, now time.Time) Signal {
	return Signal{
		Source:   SourceTradingView,
		RecvAt:   now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Action:   p.First("action", "signal", "type"),
		Signal:   p.First("signal"),
		Symbol:   p.First("ticker", "symbol"),
		Interval: p.First("interval"),
		Price:    p.First("price", "close"),
		Time:     p.First("time"),
	}
}
