package domain

import "github.com/shopspring/decimal"

// CoerceNumerics returns a copy of v with every float leaf replaced by a
// decimal built from the float's shortest round-trip decimal string,
// recursing through mappings and sequences. The record store requires exact
// decimal numbers; converting via the decimal string avoids carrying binary
// representation error into storage.
//
// Non-float leaves, keys, and structural shape pass through unchanged, and
// already-coerced decimals are left as-is, so the function is idempotent.
func CoerceNumerics(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CoerceNumerics(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CoerceNumerics(e)
		}
		return out
	case float64:
		return decimal.NewFromFloat(t)
	case float32:
		return decimal.NewFromFloat32(t)
	default:
		return v
	}
}

// CoerceItem applies CoerceNumerics to a record item.
func CoerceItem(item map[string]any) map[string]any {
	return CoerceNumerics(item).(map[string]any)
}
