package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes an EDN rendering of v. Structs round-trip through
// JSON first so the json tags decide field naming, then camelCase keys
// become kebab-case keywords (startOffsetMs -> :start-offset-ms).
//
// The encoder targets the subset our payloads need: maps, vectors,
// strings, numbers, booleans, nil.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(raw, &x); err != nil {
		return err
	}

	var sb strings.Builder
	enc := ednEncoder{pretty: pretty}
	enc.value(&sb, x, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

type ednEncoder struct {
	pretty bool
}

func (e ednEncoder) pad(sb *strings.Builder, level int) {
	sb.WriteString(strings.Repeat("  ", level))
}

func (e ednEncoder) value(sb *strings.Builder, v any, level int) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		sb.WriteString(strconv.Quote(t))
	case float64:
		// json.Unmarshal hands every number over as float64.
		if float64(int64(t)) == t {
			sb.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.vector(sb, t, level)
	case map[string]any:
		e.mapping(sb, t, level)
	default:
		sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func (e ednEncoder) vector(sb *strings.Builder, xs []any, level int) {
	if len(xs) == 0 {
		sb.WriteString("[]")
		return
	}
	sb.WriteByte('[')
	for i, it := range xs {
		if e.pretty {
			sb.WriteByte('\n')
			e.pad(sb, level+1)
		} else if i > 0 {
			sb.WriteByte(' ')
		}
		e.value(sb, it, level+1)
	}
	if e.pretty {
		sb.WriteByte('\n')
		e.pad(sb, level)
	}
	sb.WriteByte(']')
}

func (e ednEncoder) mapping(sb *strings.Builder, m map[string]any, level int) {
	if len(m) == 0 {
		sb.WriteString("{}")
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteByte('{')
	for i, k := range keys {
		if e.pretty {
			sb.WriteByte('\n')
			e.pad(sb, level+1)
		} else if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(':')
		sb.WriteString(Keyword(k))
		sb.WriteByte(' ')
		e.value(sb, m[k], level+1)
	}
	if e.pretty {
		sb.WriteByte('\n')
		e.pad(sb, level)
	}
	sb.WriteByte('}')
}

// Keyword converts a camelCase JSON field name to a kebab-case EDN
// keyword name.
func Keyword(s string) string {
	s = strings.TrimSpace(s)
	var sb strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '_':
			sb.WriteByte('-')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
