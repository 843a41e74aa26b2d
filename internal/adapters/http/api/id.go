package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseID converts a path segment to a record id the way a numeric coercion
// would: surrounding space is ignored, unsigned 0x/0o/0b literals are read
// in their base and integral decimal spellings such as "2.0" or "2e0" are
// accepted. Anything that is not an integral number within int64 range
// yields ErrInvalidID, which callers report as not found.
func parseID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "_") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	if hasBasePrefix(s) {
		id, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
		}
		return id, nil
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return int64(f), nil
}

// hasBasePrefix reports a 0x, 0o or 0b prefix. Signed forms have none.
func hasBasePrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}
