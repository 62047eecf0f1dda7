package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SignalRecord is one persisted webhook delivery
type SignalRecord struct {
	ID         uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    string              `gorm:"uniqueIndex;size:36" json:"event_id"`
	Source     string              `gorm:"index" json:"source"`
	Symbol     *string             `gorm:"index" json:"symbol"`
	Action     *string             `json:"action"`
	Signal     *string             `json:"signal"`
	Interval   *string             `json:"interval"`
	Price      *string             `json:"price"`
	PriceValue decimal.NullDecimal `gorm:"type:decimal(36,18)" json:"price_value"`
	Time       *string             `json:"time"`
	Raw        json.RawMessage     `json:"raw"`
	CreatedAt  time.Time           `gorm:"index" json:"created_at"`
}

// TableName pins the table name used by the dashboard queries
func (SignalRecord) TableName() string {
	return "signals"
}

// NewSignalRecord flattens a normalized signal into a storable row.
// raw is only attached by the caller when raw storage is enabled.
func NewSignalRecord(eventID string, sig Signal, raw json.RawMessage) *SignalRecord {
	rec := &SignalRecord{
		EventID:  eventID,
		Source:   sig.Source,
		Symbol:   textValue(sig.Symbol),
		Action:   textValue(sig.Action),
		Signal:   textValue(sig.Signal),
		Interval: textValue(sig.Interval),
		Price:    textValue(sig.Price),
		Time:     textValue(sig.Time),
		Raw:      raw,
	}
	if rec.Price != nil {
		if d, err := decimal.NewFromString(*rec.Price); err == nil {
			rec.PriceValue = decimal.NewNullDecimal(d)
		}
	}
	return rec
}

// textValue renders a JSON-typed value as column text; nil stays NULL
func textValue(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = fmt.Sprintf("%t", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			s = fmt.Sprintf("%v", t)
		} else {
			s = string(b)
		}
	}
	return &s
}
