package features

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Sentinel substitutes for any feature value that is missing, null, or
// unparseable. The trained models saw the same substitution at training
// time, so assembly must degrade silently rather than fail.
const Sentinel = 0.0

// Vector is an assembled feature vector. Values always has exactly one
// entry per name in the order it was assembled against.
type Vector struct {
	Values []float64
	// Present lists the feature names that were found and parseable in the
	// raw mapping; Defaulted lists those replaced by the sentinel. Coverage
	// diagnostics only: the classifier runs regardless.
	Present   []string
	Defaulted []string
}

// Coverage returns the fraction of features that were present, in [0,1].
func (v Vector) Coverage() float64 {
	total := len(v.Present) + len(v.Defaulted)
	if total == 0 {
		return 0
	}
	return float64(len(v.Present)) / float64(total)
}

// Assemble builds a fixed-order vector from a raw attribute mapping. It
// iterates order, not raw, so output length and ordering are invariant
// regardless of which columns the archive supplied. Never fails.
func Assemble(raw map[string]any, order []string) Vector {
	v := Vector{Values: make([]float64, 0, len(order))}

	for _, name := range order {
		val, ok := raw[name]
		if !ok {
			v.Values = append(v.Values, Sentinel)
			v.Defaulted = append(v.Defaulted, name)
			continue
		}

		f, ok := Coerce(val)
		if !ok {
			v.Values = append(v.Values, Sentinel)
			v.Defaulted = append(v.Defaulted, name)
			continue
		}

		v.Values = append(v.Values, f)
		v.Present = append(v.Present, name)
	}

	return v
}

// Coerce converts an archive scalar to a float64. Nil, empty strings, and
// the literals "nan"/"null" (case-insensitive) report false, as does any
// value that cannot parse as a number.
func Coerce(val any) (float64, bool) {
	switch x := val.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		switch strings.ToLower(s) {
		case "nan", "null":
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Clean type-coerces a raw archive record: nulls, empty strings, and
// non-finite values are elided, numeric strings become numbers, everything
// else passes through. Used by the /features endpoint so callers never see
// unreliable nulls.
func Clean(raw map[string]any) map[string]any {
	cleaned := make(map[string]any, len(raw))
	for key, val := range raw {
		if val == nil {
			continue
		}
		if s, ok := val.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			switch strings.ToLower(s) {
			case "nan", "null", "inf", "-inf":
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				if math.IsNaN(f) || math.IsInf(f, 0) {
					continue
				}
				cleaned[key] = f
				continue
			}
		}
		cleaned[key] = val
	}
	return cleaned
}
