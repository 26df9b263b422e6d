package trajectory

import (
	"math"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
)

// ParseNumericOrZero coerces a metric field to float64. JSON numbers and
// strings holding a decimal number are accepted; anything else, including a
// missing field, NaN or an infinity, yields 0.
func ParseNumericOrZero(raw json.RawMessage) float64 {
	s, _, ok := numericText(raw)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseIntOrZero coerces a count field such as total_tokens to int.
// JSON numbers are truncated toward zero; strings must hold an integer.
func ParseIntOrZero(raw json.RawMessage) int {
	s, quoted, ok := numericText(raw)
	if !ok {
		return 0
	}
	if quoted {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v >= math.MaxInt64 || v <= math.MinInt64 {
		return 0
	}
	return int(v)
}

// numericText returns the text to parse for a number literal or a string
// value, and whether the value was a JSON string.
func numericText(raw json.RawMessage) (text string, quoted bool, ok bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", false, false
	}
	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return "", true, false
		}
		s = strings.TrimSpace(s)
		return s, true, s != ""
	case c == '-' || (c >= '0' && c <= '9'):
		return trimmed, false, true
	default:
		return "", false, false
	}
}
