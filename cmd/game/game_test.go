package main

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameDelta(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	maxDelta := 100 * time.Millisecond

	tests := []struct {
		name string
		last time.Time
		tps  int
		want float64
	}{
		{"first frame steps one tick", time.Time{}, 60, 1.0 / 60},
		{"first frame without a rate", time.Time{}, 0, 1.0 / 60},
		{"wall clock", now.Add(-20 * time.Millisecond), 60, 0.02},
		{"stall is capped", now.Add(-3 * time.Second), 60, 0.1},
		{"clock went backwards", now.Add(time.Second), 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frameDelta(tt.last, now, tt.tps, maxDelta)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
