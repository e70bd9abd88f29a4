package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliderIndexAt(t *testing.T) {
	tests := []struct {
		name  string
		pos   float64
		width float64
		count int
		want  int
	}{
		{"left edge", 0, 300, 7, 0},
		{"right edge", 300, 300, 7, 6},
		{"rounds down", 70, 300, 7, 1},
		{"rounds up", 80, 300, 7, 2},
		{"clamps below", -40, 300, 7, 0},
		{"clamps above", 900, 300, 7, 6},
		{"single option", 150, 300, 1, 0},
		{"zero width", 10, 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SliderIndexAt(tt.pos, tt.width, tt.count))
		})
	}
}

func TestSliderPositionInvertsIndex(t *testing.T) {
	for i := 0; i < 6; i++ {
		pos := SliderPosition(i, 250, 6)
		assert.Equal(t, i, SliderIndexAt(pos, 250, 6))
	}
}
