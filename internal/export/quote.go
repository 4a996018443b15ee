package export

import (
	"strconv"
	"strings"
)

// tsTemplate renders s as the body of a JavaScript template literal. The
// output evaluates back to s exactly.
func tsTemplate(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == '`':
			b.WriteString("\\`")
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		case c == '\r':
			// Template literals normalize raw CR and CRLF to LF.
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// singleQuoted renders s as a single-quoted literal in JavaScript or Python.
// Both accept the same escapes for this character set.
func singleQuoted(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// pyTriple renders s as the body of a Python triple-double-quoted string.
// A quote is escaped only when it could join a closing run: when the next
// byte is another quote or when it is the final byte.
func pyTriple(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			if i+1 == len(s) || s[i+1] == '"' {
				b.WriteString(`\"`)
			} else {
				b.WriteByte('"')
			}
		case '\r':
			// Universal newline translation would turn a raw CR into LF.
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// rubySingle renders s as a Ruby single-quoted literal, which only interprets
// \\ and \'.
func rubySingle(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// heredocTag picks a terminator that no line of body can be mistaken for. A
// line matches a squiggly or dash heredoc terminator after leading
// whitespace is skipped, so lines are compared trimmed.
func heredocTag(base, body string) string {
	lines := strings.Split(body, "\n")
	taken := func(tag string) bool {
		for _, l := range lines {
			if strings.TrimSpace(l) == tag {
				return true
			}
		}
		return false
	}
	tag := base
	for n := 2; taken(tag); n++ {
		tag = base + "_" + strconv.Itoa(n)
	}
	return tag
}

// literal spells booleans and null per language.
type literal struct {
	True, False, Null string
}

var (
	tsLiterals   = literal{"true", "false", "null"}
	pyLiterals   = literal{"True", "False", "None"}
	rubyLiterals = literal{"true", "false", "nil"}
)

func (l literal) boolean(v bool) string {
	if v {
		return l.True
	}
	return l.False
}

// stringList renders domains as a bracketed list using quote for each item.
func stringList(items []string, quote func(string) string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = quote(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
