// Package resultsdomain contains the pure computation behind the results
// engine: time token parsing, duration formatting and rank assignment.
package resultsdomain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparseableTime indicates a time token matched none of the accepted forms.
var ErrUnparseableTime = errors.New("unparseable time token")

var (
	hmsPattern = regexp.MustCompile(`^(\d+):([0-5]?\d):([0-5]?\d(?:\.\d+)?)$`)
	msPattern  = regexp.MustCompile(`^(\d+):([0-5]?\d(?:\.\d+)?)$`)
)

// ParseTime converts a textual time token into seconds.
// Accepted forms: a bare non-negative number, "H:MM:SS[.frac]" and
// "MM:SS[.frac]". Anything else yields ErrUnparseableTime so callers can
// tell bad input apart from a genuine zero.
func ParseTime(token string) (float64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("%w: empty token", ErrUnparseableTime)
	}

	if v, err := strconv.ParseFloat(token, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("%w: negative value %q", ErrUnparseableTime, token)
		}
		return v, nil
	}

	if m := hmsPattern.FindStringSubmatch(token); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		min, _ := strconv.ParseFloat(m[2], 64)
		sec, _ := strconv.ParseFloat(m[3], 64)
		return h*3600 + min*60 + sec, nil
	}

	if m := msPattern.FindStringSubmatch(token); m != nil {
		min, _ := strconv.ParseFloat(m[1], 64)
		sec, _ := strconv.ParseFloat(m[2], 64)
		return min*60 + sec, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnparseableTime, token)
}

// ParseTimeOrZero applies the lenient import policy: an unparseable token
// counts as zero seconds. The row is still imported; timing sheets from the
// field regularly carry blanks or dashes for members without a recorded time.
func ParseTimeOrZero(token string) float64 {
	v, err := ParseTime(token)
	if err != nil {
		return 0
	}
	return v
}
