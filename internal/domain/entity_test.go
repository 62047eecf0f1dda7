package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewSignalRecord(t *testing.T) {
	sig := Normalize(Payload{
		"ticker":   "BTCUSDT",
		"action":   "buy",
		"price":    json.Number("65000.5"),
		"interval": json.Number("15"),
		"time":     map[string]any{"bar": "open"},
	}, time.Now())

	rec := NewSignalRecord("evt-1", sig, nil)

	if rec.EventID != "evt-1" || rec.Source != SourceTradingView {
		t.Errorf("Unexpected identity fields: %+v", rec)
	}
	if rec.Symbol == nil || *rec.Symbol != "BTCUSDT" {
		t.Errorf("Expected symbol BTCUSDT, got %v", rec.Symbol)
	}
	if rec.Signal != nil {
		t.Errorf("Expected NULL signal, got %q", *rec.Signal)
	}
	if rec.Interval == nil || *rec.Interval != "15" {
		t.Errorf("Expected interval text '15', got %v", rec.Interval)
	}
	if rec.Time == nil || *rec.Time != `{"bar":"open"}` {
		t.Errorf("Expected JSON-encoded time, got %v", rec.Time)
	}
	if !rec.PriceValue.Valid || !rec.PriceValue.Decimal.Equal(decimal.RequireFromString("65000.5")) {
		t.Errorf("Expected price_value 65000.5, got %v", rec.PriceValue)
	}
	if rec.Raw != nil {
		t.Errorf("Expected no raw payload, got %s", rec.Raw)
	}
}

func TestNewSignalRecord_NonNumericPrice(t *testing.T) {
	sig := Normalize(Payload{"price": "{{close}}"}, time.Now())
	rec := NewSignalRecord("evt-2", sig, json.RawMessage(`{"price":"{{close}}"}`))

	if rec.Price == nil || *rec.Price != "{{close}}" {
		t.Errorf("Expected verbatim price text, got %v", rec.Price)
	}
	if rec.PriceValue.Valid {
		t.Error("price_value should stay NULL for unparsable prices")
	}
	if string(rec.Raw) != `{"price":"{{close}}"}` {
		t.Errorf("Unexpected raw %s", rec.Raw)
	}
}
