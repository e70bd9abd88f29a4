package questionnaire

import "math"

// SliderIndexAt maps a handle position on a track of the given width to the
// nearest of count evenly spaced stops. Positions outside the track clamp to
// its ends.
func SliderIndexAt(pos, width float64, count int) int {
	if count <= 1 || width <= 0 {
		return 0
	}
	pos = math.Max(0, math.Min(width, pos))
	return int(math.Round(pos / width * float64(count-1)))
}

// SliderPosition is the inverse of SliderIndexAt: the handle position of stop
// index on a track of the given width.
func SliderPosition(index int, width float64, count int) float64 {
	if count <= 1 {
		return 0
	}
	return float64(index) / float64(count-1) * width
}
