package google

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxOutputTokens(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int32
	}{
		{"default", 2000, 2000},
		{"upper bound", math.MaxInt32, math.MaxInt32},
		{"clamped", math.MaxInt, math.MaxInt32},
		{"negative", -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maxOutputTokens(tt.in))
		})
	}
}
