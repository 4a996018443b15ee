// Package codesync keeps the free-text code editor in step with the
// resource model. ModelToText renders the options object shown in the
// editor; TextToModel reads an edited object back without evaluating it.
package codesync

import (
	"strings"

	"github.com/conneroisu/uistudio/internal/content"
)

const bodyIndent = "      "

// ModelToText renders env as the object literal shown in the code editor.
// Multi-line bodies are dedented and re-indented, so the output does not
// depend on the payload's own indentation. The adapter is edited through the
// visual form only and is not part of the text.
func ModelToText(env content.Envelope) string {
	uri := env.URI
	if uri == "" {
		uri = content.DefaultURI
	}
	enc := env.Encoding
	if enc != content.EncodingBlob {
		enc = content.EncodingText
	}

	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString("  uri: " + quote(uri) + ",\n")
	b.WriteString("  content: {\n")
	switch p := env.Content.(type) {
	case content.ExternalURL:
		b.WriteString("    type: 'externalUrl',\n")
		b.WriteString("    iframeUrl: " + quote(p.URL) + ",\n")
	case content.RemoteScript:
		b.WriteString("    type: 'remoteDom',\n")
		b.WriteString("    script: " + block(p.Script) + ",\n")
		b.WriteString("    framework: " + quote(string(p.Framework)) + ",\n")
	case content.RawHTML:
		b.WriteString("    type: 'rawHtml',\n")
		b.WriteString("    htmlString: " + block(p.HTML) + ",\n")
	default:
		b.WriteString("    type: 'rawHtml',\n")
		b.WriteString("    htmlString: " + block("") + ",\n")
	}
	b.WriteString("  },\n")
	b.WriteString("  encoding: " + quote(string(enc)) + ",\n")
	b.WriteString("}")
	return b.String()
}

// block renders a body as an indented template literal.
func block(body string) string {
	return "`\n" + escapeTemplate(indent(Dedent(body), bodyIndent)) + "\n    `"
}

func escapeTemplate(s string) string {
	r := strings.NewReplacer("\\", `\\`, "`", "\\`", "${", `\${`, "\r", `\r`)
	return r.Replace(s)
}

func quote(s string) string {
	r := strings.NewReplacer("\\", `\\`, "'", `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}
