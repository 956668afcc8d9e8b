package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextCheckDelay(t *testing.T) {
	base := 5 * time.Second
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{4, 40 * time.Second},
		{5, time.Minute},  // 80s capped
		{12, time.Minute}, // stays capped
		{0, 5 * time.Second},
		{-3, 5 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextCheckDelay(base, tt.attempts), "attempts=%d", tt.attempts)
	}
}

func TestNextCheckDelayLargeBaseCapped(t *testing.T) {
	assert.Equal(t, time.Minute, NextCheckDelay(2*time.Minute, 1))
}
