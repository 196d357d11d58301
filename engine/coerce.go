package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ============================================================================
// VALUE COERCION — Finite-number extraction with explicit invalid
// ============================================================================
// Every aggregator decides row inclusion through Coerce. It never falls back
// to zero: a cell is either a finite number or invalid.
// ============================================================================

// Coerce returns v as a finite float64, or false if v is not one.
// Numbers and numeric-looking text are accepted; nil, empty text,
// booleans, NaN and ±Inf are not.
func Coerce(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return 0, false
		}
		v = x
	case json.Number:
		v = strings.TrimSpace(x.String())
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceString returns the text form of a cell. Numbers are formatted
// without trailing zeros; nil becomes "".
func CoerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
