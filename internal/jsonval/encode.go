// Deterministic re-serialization: compact or two-space indented output,
// object keys in insertion order, non-ASCII characters left unescaped.

package jsonval

// JSON serializes the value. Minified output uses no whitespace; otherwise
// nesting is indented by two spaces per level.
func (v *Value) JSON(minify bool) []byte {
	return v.appendJSON(nil, 0, minify)
}

func (v *Value) appendJSON(b []byte, depth int, minify bool) []byte {
	switch v.kind {
	case Null:
		return append(b, "null"...)
	case Bool:
		if v.b {
			return append(b, "true"...)
		}
		return append(b, "false"...)
	case Number:
		return append(b, v.num...)
	case String:
		return appendString(b, v.str)
	case Array:
		if len(v.arr) == 0 {
			return append(b, "[]"...)
		}
		b = append(b, '[')
		for i, e := range v.arr {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendNewlineIndent(b, depth+1, minify)
			b = e.appendJSON(b, depth+1, minify)
		}
		b = appendNewlineIndent(b, depth, minify)
		return append(b, ']')
	case Object:
		if v.obj.Len() == 0 {
			return append(b, "{}"...)
		}
		b = append(b, '{')
		first := true
		for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				b = append(b, ',')
			}
			first = false
			b = appendNewlineIndent(b, depth+1, minify)
			b = appendString(b, pair.Key)
			b = append(b, ':')
			if !minify {
				b = append(b, ' ')
			}
			b = pair.Value.appendJSON(b, depth+1, minify)
		}
		b = appendNewlineIndent(b, depth, minify)
		return append(b, '}')
	}
	return b
}

func appendNewlineIndent(b []byte, depth int, minify bool) []byte {
	if minify {
		return b
	}
	b = append(b, '\n')
	for range depth {
		b = append(b, "  "...)
	}
	return b
}

const hexDigits = "0123456789abcdef"

// appendString writes a JSON string literal. Only quotes, backslashes and
// control characters are escaped; multi-byte UTF-8 passes through verbatim.
func appendString(b []byte, s string) []byte {
	b = append(b, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b = append(b, '\\', '"')
		case c == '\\':
			b = append(b, '\\', '\\')
		case c >= 0x20:
			b = append(b, c)
		case c == '\n':
			b = append(b, '\\', 'n')
		case c == '\r':
			b = append(b, '\\', 'r')
		case c == '\t':
			b = append(b, '\\', 't')
		case c == '\b':
			b = append(b, '\\', 'b')
		case c == '\f':
			b = append(b, '\\', 'f')
		default:
			b = append(b, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
	}
	return append(b, '"')
}
