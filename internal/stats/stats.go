// Package stats computes typing metrics and renders results.
package stats

import "time"

// Metrics summarises an attempt at the moment it was computed.
type Metrics struct {
	Accuracy     float64       `json:"accuracy"`
	Speed        float64       `json:"speed"`
	MissCount    int           `json:"miss_count"`
	TypeCount    int           `json:"type_count"`
	CorrectCount int           `json:"correct_count"`
	TotalTime    time.Duration `json:"total_time"`
}

// Compute derives metrics from engine counters and elapsed active time.
// Accuracy is characters confirmed without a miss over those characters
// plus misses, and is 1 before anything was typed. Speed is characters per second.
func Compute(typeCount, correctCount, missCount int, elapsed time.Duration) Metrics {
	m := Metrics{
		Accuracy:     1,
		MissCount:    missCount,
		TypeCount:    typeCount,
		CorrectCount: correctCount,
		TotalTime:    elapsed,
	}
	if den := correctCount + missCount; den > 0 {
		m.Accuracy = float64(correctCount) / float64(den)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		m.Speed = float64(typeCount) / secs
	}
	return m
}

// CPM returns characters per minute.
func (m Metrics) CPM() float64 {
	return m.Speed * 60
}

// WPM returns words per minute using the usual five characters per word.
func (m Metrics) WPM() float64 {
	return m.CPM() / 5.0
}
