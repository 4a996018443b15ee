// Package export turns a UI resource into handler source code for one of the
// supported server runtimes. Generation is pure: the same inputs always yield
// byte-identical output.
package export

import (
	"strings"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
)

// Language is an export target.
type Language string

const (
	TypeScript Language = "typescript"
	Python     Language = "python"
	Ruby       Language = "ruby"
)

// Languages lists every target in display order.
var Languages = []Language{TypeScript, Python, Ruby}

// ParseLanguage maps a user supplied token to a target. Unknown tokens fall
// back to TypeScript so an export panel always has something to show.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return Python
	case "ruby", "rb":
		return Ruby
	default:
		return TypeScript
	}
}

// Extension returns the file extension without the dot.
func (l Language) Extension() string {
	switch l {
	case Python:
		return "py"
	case Ruby:
		return "rb"
	default:
		return "ts"
	}
}

// Filename is the suggested download name.
func (l Language) Filename() string {
	return "mcp-ui-handler." + l.Extension()
}

// MIME is the content type used when the artifact is downloaded.
func (l Language) MIME() string {
	switch l {
	case Python:
		return "text/x-python; charset=utf-8"
	case Ruby:
		return "text/x-ruby; charset=utf-8"
	default:
		return "text/typescript; charset=utf-8"
	}
}

// Options controls a single generation.
type Options struct {
	Content  content.Payload
	Language Language
	Encoding content.Encoding
	// Adapter may be nil; nil and type none produce identical output.
	Adapter *adapter.Config
	// URI defaults to content.DefaultURI.
	URI string
	// Minify compacts remote-DOM scripts before embedding them.
	Minify bool
}

// FromEnvelope builds options that export env as-is.
func FromEnvelope(env content.Envelope, lang Language) Options {
	a := env.Adapter
	return Options{
		Content:  env.Content,
		Language: lang,
		Encoding: env.Encoding,
		Adapter:  &a,
		URI:      env.URI,
	}
}

// Artifact is a generated source file.
type Artifact struct {
	Language Language `json:"language"`
	Filename string   `json:"filename"`
	MIME     string   `json:"mime"`
	Source   string   `json:"source"`
}

// Generate renders handler source for p. Unknown languages fall back to
// TypeScript; a nil adapter means none.
func Generate(p content.Payload, lang Language, enc content.Encoding, a *adapter.Config) string {
	return render(Options{Content: p, Language: lang, Encoding: enc, Adapter: a})
}

// GenerateWith renders an artifact. It only fails when minification is
// requested and the script does not parse.
func GenerateWith(opts Options) (Artifact, error) {
	if rs, ok := opts.Content.(content.RemoteScript); ok && opts.Minify {
		compact, err := content.MinifyScript(rs.Script)
		if err != nil {
			return Artifact{}, err
		}
		rs.Script = compact
		opts.Content = rs
	}
	lang := ParseLanguage(string(opts.Language))
	opts.Language = lang
	return Artifact{
		Language: lang,
		Filename: lang.Filename(),
		MIME:     lang.MIME(),
		Source:   render(opts),
	}, nil
}

// request is the normalized input shared by the per-language writers.
type request struct {
	uri      string
	encoding content.Encoding
	payload  content.Payload
	gpt      *adapter.ChatGPTConfig
	apps     bool
}

func render(opts Options) string {
	req := request{
		uri:      opts.URI,
		encoding: opts.Encoding,
		payload:  opts.Content,
	}
	if req.uri == "" {
		req.uri = content.DefaultURI
	}
	if req.encoding != content.EncodingBlob {
		req.encoding = content.EncodingText
	}
	if req.payload == nil {
		req.payload = content.RawHTML{}
	}
	if opts.Adapter.Active() {
		switch opts.Adapter.Type {
		case adapter.TypeChatGPT:
			req.gpt = opts.Adapter.ChatGPT
		case adapter.TypeGenericApps:
			req.apps = true
		}
	}

	switch ParseLanguage(string(opts.Language)) {
	case Python:
		return writePython(req)
	case Ruby:
		return writeRuby(req)
	default:
		return writeTypeScript(req)
	}
}

// lines accumulates output one line at a time.
type lines struct {
	b strings.Builder
}

func (l *lines) add(parts ...string) {
	for _, p := range parts {
		l.b.WriteString(p)
	}
	l.b.WriteByte('\n')
}

func (l *lines) String() string { return l.b.String() }
