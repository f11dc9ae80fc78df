package util

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "hundreds", input: 999, expected: "999"},
		{name: "exactly 1000", input: 1000, expected: "1.0K"},
		{name: "thousands", input: 1500, expected: "1.5K"},
		{name: "millions", input: 2500000, expected: "2.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{name: "zero duration", input: 0, expected: "0ms"},
		{name: "sub minute", input: 250 * time.Millisecond, expected: "250ms"},
		{name: "minutes only", input: 5 * time.Minute, expected: "5m"},
		{name: "exactly 1 hour", input: 60 * time.Minute, expected: "1h 0m"},
		{name: "seconds get rounded down", input: 1*time.Hour + 30*time.Minute + 45*time.Second, expected: "1h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatMeasure(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "missing", input: math.NaN(), expected: "-"},
		{name: "zero", input: 0, expected: "0"},
		{name: "large", input: 12345.6, expected: "12346"},
		{name: "regular", input: 110, expected: "110.00"},
		{name: "small", input: 0.012345, expected: "0.0123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMeasure(tt.input))
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "7", FormatTime(7))
	assert.Equal(t, "0.5", FormatTime(0.5))
}
