package synth

import (
	"time"

	"github.com/google/uuid"
)

const (
	placeholderURL   = "https://example.com"
	placeholderEmail = "user@example.com"
)

// ScalarDefault returns the default for a scalar by name. Date and
// DateTime are derived from now in UTC. Unknown scalars yield "".
func ScalarDefault(name string, now time.Time) any {
	switch name {
	case "String", "ID":
		return ""
	case "Int", "BigInt", "Long":
		return 0
	case "Float":
		return 0.0
	case "Boolean":
		return false
	case "Date":
		return now.UTC().Format(time.DateOnly)
	case "DateTime":
		return now.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	case "Time":
		return "12:00:00"
	case "JSON", "JSONObject":
		return "{}"
	case "Decimal":
		return "0.00"
	case "URL", "URI":
		return placeholderURL
	case "Email":
		return placeholderEmail
	case "UUID":
		return uuid.Nil.String()
	default:
		return ""
	}
}
