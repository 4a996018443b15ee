package codesync

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	studioerrors "github.com/conneroisu/uistudio/internal/errors"
)

// parseLiteral reads text as a single JavaScript object literal and converts
// it to plain Go values: map[string]interface{}, []interface{}, string,
// float64, bool and nil. The text is parsed, never executed; any node other
// than a literal (calls, identifiers, interpolations, spreads) is rejected.
func parseLiteral(text string) (interface{}, error) {
	src := strings.TrimSpace(text)
	src = strings.TrimSpace(strings.TrimSuffix(src, ";"))
	if src == "" {
		return nil, studioerrors.NewParseError(studioerrors.ErrCodeSyntax, "editor text is empty", 1, 1)
	}

	// Wrapping in parentheses makes a leading brace an expression rather than
	// a block statement.
	ast, err := js.Parse(parse.NewInputString("("+src+"\n)"), js.Options{})
	if err != nil {
		return nil, syntaxError(err)
	}
	if len(ast.BlockStmt.List) != 1 {
		return nil, studioerrors.NewParseError(studioerrors.ErrCodeSyntax,
			"editor text must be a single object literal", 1, 1)
	}
	stmt, ok := ast.BlockStmt.List[0].(*js.ExprStmt)
	if !ok {
		return nil, studioerrors.NewParseError(studioerrors.ErrCodeSyntax,
			"editor text must be a single object literal", 1, 1)
	}
	v, err := literalValue(stmt.Value)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(map[string]interface{}); !ok {
		return nil, studioerrors.NewParseError(studioerrors.ErrCodeSyntax,
			"editor text must be an object literal", 1, 1)
	}
	return v, nil
}

func syntaxError(err error) error {
	line, col := 0, 0
	msg := err.Error()
	var perr *parse.Error
	if errors.As(err, &perr) {
		line, col, msg = perr.Line, perr.Column, perr.Message
		if line == 1 && col > 1 {
			// Account for the opening parenthesis added before parsing.
			col--
		}
	}
	return studioerrors.NewParseError(studioerrors.ErrCodeSyntax, "syntax error: "+msg, line, col)
}

func unsupported(what string) error {
	return studioerrors.NewParseError(studioerrors.ErrCodeSyntax,
		what+" is not allowed; only literal values can be used", 0, 0)
}

func literalValue(expr js.IExpr) (interface{}, error) {
	switch e := expr.(type) {
	case *js.GroupExpr:
		return literalValue(e.X)

	case *js.ObjectExpr:
		obj := make(map[string]interface{}, len(e.List))
		for _, prop := range e.List {
			if prop.Spread || prop.Name == nil || prop.Init != nil {
				return nil, unsupported("spread or shorthand property")
			}
			if prop.Name.Computed != nil {
				return nil, unsupported("computed property name")
			}
			key, err := propertyKey(prop.Name.Literal)
			if err != nil {
				return nil, err
			}
			val, err := literalValue(prop.Value)
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		return obj, nil

	case *js.ArrayExpr:
		list := make([]interface{}, 0, len(e.List))
		for _, el := range e.List {
			if el.Spread {
				return nil, unsupported("spread element")
			}
			if el.Value == nil {
				list = append(list, nil)
				continue
			}
			val, err := literalValue(el.Value)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil

	case *js.TemplateExpr:
		if e.Tag != nil {
			return nil, unsupported("tagged template")
		}
		if len(e.List) > 0 {
			return nil, unsupported("template interpolation ${...}")
		}
		raw := string(e.Tail)
		raw = strings.TrimPrefix(raw, "`")
		raw = strings.TrimSuffix(raw, "`")
		raw = strings.ReplaceAll(raw, "\r\n", "\n")
		raw = strings.ReplaceAll(raw, "\r", "\n")
		return unescape(raw)

	case *js.LiteralExpr:
		return scalar(*e)

	case *js.UnaryExpr:
		if e.Op == js.NegToken {
			if lit, ok := e.X.(*js.LiteralExpr); ok && isNumeric(lit.TokenType) {
				f, err := number(*lit)
				if err != nil {
					return nil, err
				}
				return -f, nil
			}
		}
		return nil, unsupported("operator expression")

	case *js.Var:
		if string(e.Data) == "undefined" {
			return nil, nil
		}
		return nil, unsupported(fmt.Sprintf("identifier %q", e.Data))

	default:
		return nil, unsupported(fmt.Sprintf("expression %s", js.IExpr(expr).String()))
	}
}

func propertyKey(lit js.LiteralExpr) (string, error) {
	switch lit.TokenType {
	case js.StringToken:
		return unquote(lit.Data)
	case js.DecimalToken, js.IntegerToken:
		return string(lit.Data), nil
	default:
		// Identifiers and reserved words are both valid bare keys.
		if len(lit.Data) == 0 {
			return "", unsupported("empty property name")
		}
		return string(lit.Data), nil
	}
}

func scalar(lit js.LiteralExpr) (interface{}, error) {
	switch lit.TokenType {
	case js.StringToken:
		return unquote(lit.Data)
	case js.TrueToken:
		return true, nil
	case js.FalseToken:
		return false, nil
	case js.NullToken:
		return nil, nil
	case js.DecimalToken, js.IntegerToken, js.HexadecimalToken, js.OctalToken, js.BinaryToken:
		return number(lit)
	default:
		return nil, unsupported("literal " + string(lit.Data))
	}
}

func isNumeric(tt js.TokenType) bool {
	switch tt {
	case js.DecimalToken, js.IntegerToken, js.HexadecimalToken, js.OctalToken, js.BinaryToken:
		return true
	}
	return false
}

// number converts a numeric token to float64, the type JSON decoding yields.
// BigInt literals have no JSON form and are rejected.
func number(lit js.LiteralExpr) (float64, error) {
	raw := strings.ReplaceAll(string(lit.Data), "_", "")
	if strings.HasSuffix(raw, "n") {
		return 0, unsupported("bigint literal " + string(lit.Data))
	}
	if lit.TokenType == js.DecimalToken {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, unsupported("number literal " + string(lit.Data))
		}
		return f, nil
	}
	if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return float64(n), nil
	}
	if n, err := strconv.ParseUint(raw, 0, 64); err == nil {
		return float64(n), nil
	}
	if lit.TokenType == js.IntegerToken {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
	}
	return 0, unsupported("number literal " + string(lit.Data))
}

// unquote strips the delimiters of a single or double quoted string token.
func unquote(data []byte) (string, error) {
	if len(data) < 2 {
		return "", unsupported("malformed string")
	}
	return unescape(string(data[1 : len(data)-1]))
}

// unescape applies JavaScript string escapes.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch c = s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// Line continuation.
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if i+2 >= len(s) {
				return "", unsupported(`truncated \x escape`)
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", unsupported(`invalid \x escape`)
			}
			b.WriteRune(rune(n))
			i += 2
		case 'u':
			r, width, err := unicodeEscape(s[i+1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += width
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// unicodeEscape decodes the part of a \u escape after the u and returns the
// number of bytes consumed.
func unicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, unsupported(`invalid \u{...} escape`)
		}
		n, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, 0, unsupported(`invalid \u{...} escape`)
		}
		return rune(n), end + 1, nil
	}
	if len(s) < 4 {
		return 0, 0, unsupported(`truncated \u escape`)
	}
	n, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, unsupported(`invalid \u escape`)
	}
	r := rune(n)
	// Join surrogate pairs written as two escapes.
	if r >= 0xD800 && r < 0xDC00 && len(s) >= 10 && s[4] == '\\' && s[5] == 'u' {
		if lo, err := strconv.ParseUint(s[6:10], 16, 16); err == nil && lo >= 0xDC00 && lo < 0xE000 {
			return (r-0xD800)<<10 + (rune(lo) - 0xDC00) + 0x10000, 10, nil
		}
	}
	return r, 4, nil
}
