package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the shape of an automation webhook reply that carries a chart.
type envelope struct {
	ChartData *Description `json:"chartData"`
	Chart     *Description `json:"chart"`
}

// Decode parses a chart description. The payload may be the description
// itself or a webhook reply carrying it under "chartData" or "chart".
func Decode(data []byte) (Description, error) {
	data = bytes.TrimSpace(data)

	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return Description{}, fmt.Errorf("parse chart JSON: %w", err)
	}
	if d.Labels != nil && d.Series != nil {
		return d, nil
	}

	// Fallback: try the webhook envelope before reporting missing fields.
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil {
		inner := env.ChartData
		if inner == nil {
			inner = env.Chart
		}
		if inner != nil && inner.Labels != nil && inner.Series != nil {
			return *inner, nil
		}
	}
	return Description{}, ErrMissingFields
}
