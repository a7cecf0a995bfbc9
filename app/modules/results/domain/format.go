package resultsdomain

import (
	"fmt"
	"math"
)

// FormatSeconds renders a duration in seconds as "H:MM:SS.cc".
// The output parses back through ParseTime.
func FormatSeconds(s float64) string {
	if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		s = 0
	}

	h := int(s) / 3600
	m := (int(s) % 3600) / 60
	sec := s - float64(h*3600+m*60)

	// Rounding to centiseconds can push the seconds field to 60.
	sec = math.Round(sec*100) / 100
	if sec >= 60 {
		sec -= 60
		m++
		if m == 60 {
			m = 0
			h++
		}
	}

	return fmt.Sprintf("%d:%02d:%05.2f", h, m, sec)
}
