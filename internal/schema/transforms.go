package schema

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Adeel3330/agile-next-sub002/internal/utils"
	"gorm.io/datatypes"
)

func Identity(v interface{}) (interface{}, error) {
	return v, nil
}

// TrimString accepts strings only; null becomes the empty string.
func TrimString(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(t), nil
	default:
		return nil, errors.New("must be a string")
	}
}

func LowerString(v interface{}) (interface{}, error) {
	s, err := TrimString(v)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s.(string)), nil
}

func SlugValue(v interface{}) (interface{}, error) {
	s, err := TrimString(v)
	if err != nil {
		return nil, err
	}
	return utils.Slugify(s.(string)), nil
}

// JSONValue stores arbitrary JSON (objects, arrays, scalars). A string that
// already holds a JSON object or array is stored as-is.
func JSONValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && json.Valid([]byte(trimmed)) {
			return datatypes.JSON(trimmed), nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.New("must be valid JSON")
	}
	return datatypes.JSON(raw), nil
}

// Int accepts whole JSON numbers or numeric strings.
func Int(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if t != math.Trunc(t) {
			return nil, errors.New("must be a whole number")
		}
		return int64(t), nil
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return int64(t), nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return nil, errors.New("must be a whole number")
		}
		return n, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errors.New("must be a whole number")
		}
		return n, nil
	default:
		return nil, errors.New("must be a whole number")
	}
}

func Float(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return f, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return f, nil
	default:
		return nil, errors.New("must be a number")
	}
}

func Bool(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return nil, errors.New("must be a boolean")
		}
		return b, nil
	default:
		return nil, errors.New("must be a boolean")
	}
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// Time parses RFC 3339 timestamps or plain dates; null and "" clear the value.
func Time(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return nil, errors.New("must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	default:
		return nil, errors.New("must be a date string")
	}
}

// --- Field constructors ---

func Text(jsonName, column, rules string) Field {
	return Field{JSON: jsonName, Column: column, Transform: TrimString, Rules: rules}
}

func Email(jsonName, column string) Field {
	return Field{JSON: jsonName, Column: column, Transform: LowerString, Rules: "email,max=255"}
}

func Phone(jsonName, column string) Field {
	return Field{JSON: jsonName, Column: column, Transform: TrimString, Rules: "phone"}
}

func URL(jsonName, column string) Field {
	return Field{JSON: jsonName, Column: column, Transform: TrimString, Rules: "max=1000"}
}

// Enum fields reject "" unless AllowBlank is applied.
func Enum(jsonName, column string, values ...string) Field {
	return Field{JSON: jsonName, Column: column, Transform: LowerString, Rules: "oneof=" + strings.Join(values, " "), NoBlank: true}
}

func Slug(jsonName, column string) Field {
	return Field{JSON: jsonName, Column: column, Transform: SlugValue, Rules: "slug,max=255"}
}

func JSON(jsonName, column string) Field {
	return Field{JSON: jsonName, Column: column, Transform: JSONValue}
}

func Integer(jsonName, column, rules string) Field {
	return Field{JSON: jsonName, Column: column, Transform: Int, Rules: rules}
}

func Number(jsonName, column, rules string) Field {
	return Field{JSON: jsonName, Column: column, Transform: Float, Rules: rules}
}

func Boolean(jsonName, column string) Field {
	return Field{JSON: jsonName, Column: column, Transform: Bool}
}

func Timestamp(jsonName, column string) Field {
	return Field{JSON: jsonName, Column: column, Transform: Time}
}
