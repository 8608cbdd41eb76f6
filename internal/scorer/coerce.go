package scorer

import (
	"encoding/json"
	"strings"
)

// Tristate is the result of coercing a loose boolean signal.
type Tristate int

const (
	TriUnknown Tristate = iota
	TriTrue
	TriFalse
)

// CoerceBool interprets the many shapes scorer outputs use for boolean
// flags: native bools, 1/0 numbers, and the strings true/yes/1 and
// false/no/0 (case-insensitive, trimmed). Anything else is TriUnknown,
// which hard-fail detection treats as "no signal" rather than guessing.
func CoerceBool(v any) Tristate {
	switch b := v.(type) {
	case nil:
		return TriUnknown
	case bool:
		if b {
			return TriTrue
		}
		return TriFalse
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1":
			return TriTrue
		case "false", "no", "0":
			return TriFalse
		default:
			return TriUnknown
		}
	case json.Number:
		f, err := b.Float64()
		if err != nil {
			return TriUnknown
		}
		return coerceNumber(f)
	}

	if f, ok := asFloat(v); ok {
		return coerceNumber(f)
	}
	return TriUnknown
}

func coerceNumber(f float64) Tristate {
	switch f {
	case 1:
		return TriTrue
	case 0:
		return TriFalse
	default:
		return TriUnknown
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
