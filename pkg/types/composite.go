package types

import (
	"errors"
	"fmt"
	"strings"
)

var errCompositeFieldCount = errors.New("composite: unexpected field count")

// compositeField is one column of a Postgres row literal. Postgres renders NULL
// as an empty unquoted field and the empty string as "".
type compositeField struct {
	value  string
	quoted bool
}

func (f compositeField) isNull() bool {
	return !f.quoted && (f.value == "" || strings.EqualFold(f.value, "NULL"))
}

func (f compositeField) nullable() *string {
	if f.isNull() {
		return nil
	}
	value := f.value
	return &value
}

func quoteCompositeString(value string) string {
	var builder strings.Builder
	builder.WriteByte('"')
	for _, r := range value {
		if r == '\\' || r == '"' {
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
	builder.WriteByte('"')
	return builder.String()
}

func quoteCompositeNullable(value *string) string {
	if value == nil {
		return ""
	}
	return quoteCompositeString(*value)
}

func parseComposite(raw string, expected int) ([]compositeField, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '(' || raw[len(raw)-1] != ')' {
		return nil, fmt.Errorf("composite: invalid format %q", raw)
	}
	content := raw[1 : len(raw)-1]

	var (
		fields   []compositeField
		builder  strings.Builder
		inQuotes bool
		escape   bool
		quoted   bool
	)
	flush := func() {
		fields = append(fields, compositeField{value: builder.String(), quoted: quoted})
		builder.Reset()
		quoted = false
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]
		if escape {
			builder.WriteByte(ch)
			escape = false
			continue
		}

		switch ch {
		case '\\':
			escape = true
		case '"':
			if inQuotes && i+1 < len(content) && content[i+1] == '"' {
				builder.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			quoted = true
		case ',':
			if inQuotes {
				builder.WriteByte(ch)
				continue
			}
			flush()
		default:
			builder.WriteByte(ch)
		}
	}
	flush()

	if expected > 0 && len(fields) != expected {
		return nil, fmt.Errorf("%w: got %d expected %d", errCompositeFieldCount, len(fields), expected)
	}
	return fields, nil
}

func toString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
