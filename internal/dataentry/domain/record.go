package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Record maps field names to stored values: bool for boolean fields, string
// for everything else.
type Record map[string]any

func (r Record) Text(name string) string {
	return FormatValue(r[name])
}

func (r Record) Bool(name string) bool {
	switch v := r[name].(type) {
	case bool:
		return v
	case string:
		return ParseFlag(v)
	default:
		return false
	}
}

// ParseFlag reports whether s is one of "true", "yes" or "1", ignoring case.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeFlags rewrites the named fields of the record as booleans.
func (r Record) NormalizeFlags(names []string) {
	for _, name := range names {
		if _, ok := r[name]; ok {
			r[name] = r.Bool(name)
		}
	}
}
