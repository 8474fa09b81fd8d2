package registry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errRequired = errors.New("value is required")

// timeLayouts are tried in order when coercing text to a time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/06 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02",
}

func coerce(t LogicalType, v any) (any, error) {
	switch t {
	case Int:
		return toInt(v)
	case Float:
		return toFloat(v)
	case String:
		return toString(v)
	case Bool:
		return toBool(v)
	case Time:
		return toTime(v)
	case Decimal:
		return toDecimal(v)
	case Bytes:
		return toBytes(v)
	case IntOrString:
		if s, ok := v.(string); ok {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n, nil
			}
			return s, nil
		}
		return toInt(v)
	default:
		return nil, fmt.Errorf("unknown field type %d", t)
	}
}

func typeError(v any, want string) error {
	return fmt.Errorf("cannot convert %T %v to %s", v, v, want)
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case uint8:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, typeError(v, "int")
		}
		return int64(n), nil
	case float32:
		return floatToInt(float64(n), v)
	case float64:
		return floatToInt(n, v)
	case decimal.Decimal:
		if !n.IsInteger() {
			return 0, fmt.Errorf("%s has a fractional part", n)
		}
		return n.IntPart(), nil
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f, v)
		}
		return 0, typeError(v, "int")
	default:
		return 0, typeError(v, "int")
	}
}

func floatToInt(f float64, orig any) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%v has a fractional part", orig)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, typeError(orig, "int")
	}
	return int64(f), nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case decimal.Decimal:
		return n.InexactFloat64(), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, typeError(v, "float")
		}
		return f, nil
	case bool:
		return 0, typeError(v, "float")
	default:
		i, err := toInt(v)
		if err != nil {
			return 0, typeError(v, "float")
		}
		return float64(i), nil
	}
}

// toString accepts text only; numbers are not stringified.
func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case uuid.UUID:
		return s.String(), nil
	default:
		return "", typeError(v, "string")
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "t", "yes", "y", "on":
			return true, nil
		case "0", "false", "f", "no", "n", "off":
			return false, nil
		}
		return false, typeError(v, "bool")
	default:
		f, err := toFloat(v)
		if err != nil {
			return false, typeError(v, "bool")
		}
		switch f {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		// Access stores Yes as -1.
		if f == -1 {
			return true, nil
		}
		return false, typeError(v, "bool")
	}
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, typeError(v, "time")
	default:
		i, err := toInt(v)
		if err != nil {
			return time.Time{}, typeError(v, "time")
		}
		return time.Unix(i, 0).UTC(), nil
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch d := v.(type) {
	case decimal.Decimal:
		return d, nil
	case float32:
		return decimal.NewFromFloat32(d), nil
	case float64:
		return decimal.NewFromFloat(d), nil
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(d))
		if err != nil {
			return decimal.Decimal{}, typeError(v, "decimal")
		}
		return parsed, nil
	case bool:
		return decimal.Decimal{}, typeError(v, "decimal")
	default:
		i, err := toInt(v)
		if err != nil {
			return decimal.Decimal{}, typeError(v, "decimal")
		}
		return decimal.NewFromInt(i), nil
	}
}

func toBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case uuid.UUID:
		return b[:], nil
	default:
		return nil, typeError(v, "bytes")
	}
}
