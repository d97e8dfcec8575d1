// Package chart builds Chart.js configurations for the pages and keeps track
// of which canvas holds which chart.
package chart

import (
	"encoding/json"
	"fmt"
	"maps"
)

type Kind string

const (
	Doughnut Kind = "doughnut"
	Bar      Kind = "bar"
	Line     Kind = "line"
	Radar    Kind = "radar"
)

const accent = "#a88bff"

var palette = []string{"#f58bb3", accent, "#7dc4ff", "#4caf50", "#ff9800"}

// Data is the input every builder accepts. Colors and Label are optional.
type Data struct {
	Labels []string
	Values []float64
	Colors []string
	Label  string
}

// Options are merged over the defaults one level deep; a key in the override
// replaces the default key entirely.
type Options map[string]any

// Config is the object handed to `new Chart(canvas, config)`.
type Config struct {
	Type    Kind    `json:"type"`
	Data    dataset `json:"data"`
	Options Options `json:"options"`
}

type dataset struct {
	Labels   []string         `json:"labels"`
	Datasets []map[string]any `json:"datasets"`
}

// JSON encodes the config for a data attribute.
func (c Config) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal %s chart: %w", c.Type, err)
	}
	return string(b), nil
}

func build(kind Kind, d Data, overrides Options) Config {
	labels := d.Labels
	if labels == nil {
		labels = []string{}
	}
	values := d.Values
	if values == nil {
		values = []float64{}
	}

	var ds map[string]any
	opts := Options{
		"responsive":          true,
		"maintainAspectRatio": false,
	}

	switch kind {
	case Doughnut:
		colors := d.Colors
		if len(colors) == 0 {
			colors = palette
		}
		ds = map[string]any{"data": values, "backgroundColor": colors, "borderWidth": 0}
		opts["plugins"] = map[string]any{"legend": map[string]any{"position": "bottom"}}
	case Bar:
		ds = map[string]any{
			"label":           labelOr(d.Label, "점수"),
			"data":            values,
			"backgroundColor": accent,
			"borderRadius":    8,
		}
		opts["scales"] = map[string]any{"y": map[string]any{"beginAtZero": true, "max": 100}}
	case Line:
		ds = map[string]any{
			"label":           labelOr(d.Label, "추이"),
			"data":            values,
			"borderColor":     accent,
			"backgroundColor": "rgba(168, 139, 255, 0.1)",
			"tension":         0.4,
			"fill":            true,
		}
		opts["scales"] = map[string]any{"y": map[string]any{"beginAtZero": true}}
	case Radar:
		ds = map[string]any{
			"label":                labelOr(d.Label, "성취도"),
			"data":                 values,
			"backgroundColor":      "rgba(168, 139, 255, 0.2)",
			"borderColor":          accent,
			"pointBackgroundColor": accent,
		}
		opts["scales"] = map[string]any{"r": map[string]any{"beginAtZero": true, "max": 100}}
	}

	maps.Copy(opts, overrides)

	return Config{
		Type:    kind,
		Data:    dataset{Labels: labels, Datasets: []map[string]any{ds}},
		Options: opts,
	}
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
