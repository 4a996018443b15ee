package content

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/uistudio/internal/errors"
)

// Severity grades a lint finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is a non-blocking observation about an accepted payload. Findings
// never prevent a model update; they are shown beside the editor and turned
// into a failing exit status by `validate --strict`.
type Finding struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d [%s] %s", f.Severity, f.Line, f.Rule, f.Message)
	}
	return fmt.Sprintf("%s [%s] %s", f.Severity, f.Rule, f.Message)
}

// Lint inspects p and reports findings for its variant.
func Lint(p Payload) []Finding {
	switch v := p.(type) {
	case RawHTML:
		return LintHTML(v.HTML)
	case ExternalURL:
		return LintURL(v.URL)
	case RemoteScript:
		if err := CheckScript(v.Script); err != nil {
			return []Finding{{Severity: SeverityError, Rule: "script-syntax", Message: err.Error()}}
		}
		return nil
	default:
		return nil
	}
}

// Elements whose end tag browsers infer. Leaving them open is not a finding.
var impliedEnd = map[atom.Atom]bool{
	atom.Html: true, atom.Head: true, atom.Body: true, atom.P: true,
	atom.Li: true, atom.Dt: true, atom.Dd: true, atom.Option: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Tbody: true,
	atom.Thead: true, atom.Tfoot: true, atom.Colgroup: true,
	atom.Optgroup: true, atom.Rt: true, atom.Rp: true,
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Track: true,
	atom.Wbr: true,
}

type openTag struct {
	name string
	line int
}

// LintHTML reports unbalanced tags and a few accessibility problems in a
// markup fragment.
func LintHTML(markup string) []Finding {
	var findings []Finding
	var stack []openTag
	line := 1

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				findings = append(findings, Finding{SeverityError, "parse", z.Err().Error(), line})
			}
			break
		}
		startLine := line
		line += strings.Count(string(z.Raw()), "\n")

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}
			findings = append(findings, lintElement(a, attrs, startLine)...)
			if tt == html.StartTagToken && !voidElements[a] {
				stack = append(stack, openTag{name: string(name), line: startLine})
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == string(name) {
					idx = i
					break
				}
			}
			if idx < 0 {
				findings = append(findings, Finding{SeverityWarning, "unmatched-close",
					fmt.Sprintf("closing </%s> has no matching open tag", name), startLine})
				continue
			}
			for _, t := range stack[idx+1:] {
				if !impliedEnd[atom.Lookup([]byte(t.name))] {
					findings = append(findings, Finding{SeverityWarning, "unclosed",
						fmt.Sprintf("<%s> is closed implicitly by </%s>", t.name, name), t.line})
				}
			}
			stack = stack[:idx]
		}
	}

	for _, t := range stack {
		if !impliedEnd[atom.Lookup([]byte(t.name))] {
			findings = append(findings, Finding{SeverityWarning, "unclosed",
				fmt.Sprintf("<%s> is never closed", t.name), t.line})
		}
	}
	return findings
}

func lintElement(a atom.Atom, attrs map[string]string, line int) []Finding {
	var out []Finding
	switch a {
	case atom.Img:
		if _, ok := attrs["alt"]; !ok {
			out = append(out, Finding{SeverityWarning, "img-alt", "<img> has no alt attribute", line})
		}
	case atom.Iframe:
		if _, ok := attrs["title"]; !ok {
			out = append(out, Finding{SeverityWarning, "frame-title", "<iframe> has no title attribute", line})
		}
	case atom.Script:
		if src := attrs["src"]; strings.HasPrefix(src, "http://") {
			out = append(out, Finding{SeverityWarning, "insecure-script",
				"script loaded over plain http: " + src, line})
		}
	}
	return out
}

// LintURL checks that an external page can be framed by a typical host.
func LintURL(raw string) []Finding {
	u, err := url.Parse(raw)
	if err != nil {
		return []Finding{{Severity: SeverityError, Rule: "url", Message: "invalid URL: " + err.Error()}}
	}
	var out []Finding
	switch u.Scheme {
	case "https":
	case "http":
		out = append(out, Finding{Severity: SeverityWarning, Rule: "url-scheme",
			Message: "plain http pages are blocked by most hosts"})
	default:
		out = append(out, Finding{Severity: SeverityError, Rule: "url-scheme",
			Message: fmt.Sprintf("scheme %q cannot be framed (want http or https)", u.Scheme)})
	}
	if u.Host == "" {
		out = append(out, Finding{Severity: SeverityError, Rule: "url-host", Message: "URL has no host"})
	}
	if strings.ContainsAny(raw, " \n\r\t") {
		out = append(out, Finding{Severity: SeverityWarning, Rule: "url-space", Message: "URL contains whitespace"})
	}
	return out
}

const mimeJS = "application/javascript"

var scriptMinifier = newScriptMinifier()

func newScriptMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mimeJS, js.Minify)
	return m
}

// CheckScript reports whether script is syntactically acceptable JavaScript.
// Nothing beyond syntax is checked.
func CheckScript(script string) error {
	if _, err := scriptMinifier.String(mimeJS, script); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeScriptSyntax,
			"script does not parse: "+firstLine(err.Error()))
	}
	return nil
}

// MinifyScript returns the minified form of script.
func MinifyScript(script string) (string, error) {
	out, err := scriptMinifier.String(mimeJS, script)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeScriptSyntax,
			"script does not parse: "+firstLine(err.Error()))
	}
	return out, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
