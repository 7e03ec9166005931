package backend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Int coerces the numeric representations produced by the adapters
// (database ints, JSON floats, json.Number, numeric strings) to int.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return int(n), !math.IsNaN(float64(n))
	case float64:
		return int(n), !math.IsNaN(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

// Int64 is Int for wide values such as millisecond timestamps.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), !math.IsNaN(n)
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case time.Time:
		return n.UnixMilli(), true
	default:
		return 0, false
	}
}

// String renders scalar values as text; nil becomes "".
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

// Bool accepts booleans and their common textual and numeric spellings.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	default:
		n, ok := Int(v)
		return ok && n != 0
	}
}

// Map returns v as a nested record, or nil.
func Map(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Record:
		return m
	default:
		return nil
	}
}
