package domain

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Funnel metric keys as stored and sent over the wire.
const (
	MetricSourced         = "sourced"
	MetricApproached      = "approached"
	MetricNotInterested   = "notInterested"
	MetricNoResponse      = "noResponse"
	MetricActivePipeline  = "activePipeline"
	MetricShortlisted     = "shortlisted"
	MetricFinalInterviews = "finalInterviews"
)

// FunnelMetrics is a manually maintained snapshot of a position's funnel.
// It is not derived from application counts.
type FunnelMetrics struct {
	Sourced         int `json:"sourced"`
	Approached      int `json:"approached"`
	NotInterested   int `json:"notInterested"`
	NoResponse      int `json:"noResponse"`
	ActivePipeline  int `json:"activePipeline"`
	Shortlisted     int `json:"shortlisted"`
	FinalInterviews int `json:"finalInterviews"`
}

// CoerceFunnelMetrics builds a full metrics object from loose input.
// Missing, empty and non-numeric values become 0, negatives clamp to 0 and
// fractions floor. Unknown keys are ignored.
func CoerceFunnelMetrics(raw map[string]any) FunnelMetrics {
	return FunnelMetrics{
		Sourced:         coerceCounter(raw[MetricSourced]),
		Approached:      coerceCounter(raw[MetricApproached]),
		NotInterested:   coerceCounter(raw[MetricNotInterested]),
		NoResponse:      coerceCounter(raw[MetricNoResponse]),
		ActivePipeline:  coerceCounter(raw[MetricActivePipeline]),
		Shortlisted:     coerceCounter(raw[MetricShortlisted]),
		FinalInterviews: coerceCounter(raw[MetricFinalInterviews]),
	}
}

// Clamped returns m with every negative counter set to 0.
func (m FunnelMetrics) Clamped() FunnelMetrics {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	return FunnelMetrics{
		Sourced:         clamp(m.Sourced),
		Approached:      clamp(m.Approached),
		NotInterested:   clamp(m.NotInterested),
		NoResponse:      clamp(m.NoResponse),
		ActivePipeline:  clamp(m.ActivePipeline),
		Shortlisted:     clamp(m.Shortlisted),
		FinalInterviews: clamp(m.FinalInterviews),
	}
}

// Bars returns the metrics in display order as (label, value) pairs.
func (m FunnelMetrics) Bars() []FunnelBar {
	return []FunnelBar{
		{Key: MetricSourced, Label: "Sourced", Value: m.Sourced},
		{Key: MetricApproached, Label: "Approached", Value: m.Approached},
		{Key: MetricNotInterested, Label: "Not interested", Value: m.NotInterested},
		{Key: MetricNoResponse, Label: "No response", Value: m.NoResponse},
		{Key: MetricActivePipeline, Label: "Active pipeline", Value: m.ActivePipeline},
		{Key: MetricShortlisted, Label: "Shortlisted", Value: m.Shortlisted},
		{Key: MetricFinalInterviews, Label: "Final interviews", Value: m.FinalInterviews},
	}
}

// FunnelBar is one funnel chart row.
type FunnelBar struct {
	Key   string
	Label string
	Value int
}

// Ratio returns value/sourced in [0,1], or 0 when nothing was sourced.
func (m FunnelMetrics) Ratio(value int) float64 {
	if m.Sourced <= 0 || value <= 0 {
		return 0
	}
	r := float64(value) / float64(m.Sourced)
	if r > 1 {
		return 1
	}
	return r
}

func coerceCounter(v any) int {
	switch val := v.(type) {
	case bool:
		return 0
	case string:
		v = strings.TrimSpace(val)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f))
}
