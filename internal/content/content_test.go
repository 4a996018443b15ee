package content

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/errors"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		candidate interface{}
		expected  Payload
		code      string
	}{
		{
			name:      "raw html is trimmed",
			candidate: map[string]interface{}{"type": "rawHtml", "htmlString": "  <p>x</p>\n"},
			expected:  RawHTML{HTML: "<p>x</p>"},
		},
		{
			name:      "empty markup is allowed",
			candidate: map[string]interface{}{"type": "rawHtml", "htmlString": ""},
			expected:  RawHTML{},
		},
		{
			name:      "external url",
			candidate: map[string]interface{}{"type": "externalUrl", "iframeUrl": "https://example.com"},
			expected:  ExternalURL{URL: "https://example.com"},
		},
		{
			name: "remote script",
			candidate: map[string]interface{}{
				"type": "remoteDom", "script": "root.appendChild(x)", "framework": "webcomponents",
			},
			expected: RemoteScript{Script: "root.appendChild(x)", Framework: FrameworkWebComponents},
		},
		{
			name:      "typed payload round trips",
			candidate: RemoteScript{Script: "s", Framework: FrameworkReact},
			expected:  RemoteScript{Script: "s", Framework: FrameworkReact},
		},
		{
			name:      "missing type",
			candidate: map[string]interface{}{"htmlString": "<p/>"},
			code:      errors.ErrCodeMissingType,
		},
		{
			name:      "unknown type",
			candidate: map[string]interface{}{"type": "svg"},
			code:      errors.ErrCodeUnknownType,
		},
		{
			name:      "non string markup",
			candidate: map[string]interface{}{"type": "rawHtml", "htmlString": 42.0},
			code:      errors.ErrCodeInvalidField,
		},
		{
			name:      "empty url",
			candidate: map[string]interface{}{"type": "externalUrl", "iframeUrl": ""},
			code:      errors.ErrCodeInvalidField,
		},
		{
			name:      "bad framework",
			candidate: map[string]interface{}{"type": "remoteDom", "script": "", "framework": "vue"},
			code:      errors.ErrCodeUnknownFramework,
		},
		{
			name:      "missing framework",
			candidate: map[string]interface{}{"type": "remoteDom", "script": ""},
			code:      errors.ErrCodeUnknownFramework,
		},
		{
			name:      "not an object",
			candidate: []interface{}{"rawHtml"},
			code:      errors.ErrCodeMissingContent,
		},
		{
			name: "nil",
			code: errors.ErrCodeMissingContent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Validate(tc.candidate)
			if tc.code != "" {
				var se *errors.StudioError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tc.code, se.Code)
				assert.True(t, errors.IsValidation(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestValidateJSON(t *testing.T) {
	p, err := ValidateJSON([]byte(`{"type":"externalUrl","iframeUrl":"https://a.test"}`))
	require.NoError(t, err)
	assert.Equal(t, ExternalURL{URL: "https://a.test"}, p)

	_, err = ValidateJSON([]byte(`{"type":`))
	assert.True(t, errors.IsParse(err))
}

func TestMimeType(t *testing.T) {
	assert.Equal(t, "text/html", MimeType(RawHTML{}))
	assert.Equal(t, "text/uri-list", MimeType(ExternalURL{URL: "https://a"}))
	assert.Equal(t, "application/vnd.mcp-ui.remote-dom+javascript; framework=react",
		MimeType(RemoteScript{Framework: FrameworkReact}))
}

func TestEnvelopeResource(t *testing.T) {
	env := NewEnvelope(RawHTML{HTML: "<h1>Hi</h1>"})
	assert.Equal(t, DefaultURI, env.URI)

	res := env.Resource()
	assert.Equal(t, "<h1>Hi</h1>", res.Text)
	assert.Empty(t, res.Blob)

	data, err := json.Marshal(env.UIResource())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"resource","resource":{"uri":"ui://my-component/instance-1","mimeType":"text/html","text":"<h1>Hi</h1>"}}`,
		string(data))

	env.Encoding = EncodingBlob
	res = env.Resource()
	assert.Empty(t, res.Text)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("<h1>Hi</h1>")), res.Blob)
	decoded, err := res.Decoded()
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", decoded)
}

func TestEnvelopeJSON(t *testing.T) {
	env := NewEnvelope(RemoteScript{Script: "x()", Framework: FrameworkReact})
	env.Adapter = adapter.Defaults(adapter.TypeChatGPT)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var back Envelope
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, env.Equal(back))

	require.NoError(t, json.Unmarshal([]byte(`{"content":{"type":"rawHtml","htmlString":"<p/>"}}`), &back))
	assert.Equal(t, DefaultURI, back.URI)
	assert.Equal(t, EncodingText, back.Encoding)
	assert.Equal(t, adapter.TypeNone, back.Adapter.Type)

	err = json.Unmarshal([]byte(`{"content":{"type":"rawHtml","htmlString":""},"encoding":"gzip"}`), &back)
	assert.True(t, errors.IsValidation(err))
	assert.Error(t, json.Unmarshal([]byte(`{"uri":"ui://x"}`), &back))
}

func TestEnvelopeCloneIndependent(t *testing.T) {
	env := NewEnvelope(RawHTML{})
	env.Adapter = adapter.Defaults(adapter.TypeChatGPT)
	clone := env.Clone()
	require.NoError(t, clone.Adapter.Set(adapter.FieldIntentHandling, "tool"))
	assert.Equal(t, adapter.IntentPrompt, env.Adapter.ChatGPT.IntentHandling)
	assert.False(t, env.Equal(clone))
}

func TestLintHTML(t *testing.T) {
	assert.Empty(t, LintHTML(`<div><p>one<p>two<img src="a.png" alt=""><br></div>`))

	findings := LintHTML("<div>\n<span>open\n</div>\n</section><img src=x>")
	rules := make([]string, 0, len(findings))
	for _, f := range findings {
		rules = append(rules, f.Rule)
	}
	assert.ElementsMatch(t, []string{"unclosed", "unmatched-close", "img-alt"}, rules)

	for _, f := range findings {
		if f.Rule == "unclosed" {
			assert.Equal(t, 2, f.Line)
		}
		if f.Rule == "unmatched-close" {
			assert.Equal(t, 4, f.Line)
		}
	}
}

func TestLintURL(t *testing.T) {
	assert.Empty(t, LintURL("https://example.com/page"))
	assert.Len(t, LintURL("http://example.com"), 1)
	found := LintURL("javascript:alert(1)")
	require.NotEmpty(t, found)
	assert.Equal(t, SeverityError, found[0].Severity)
}

func TestCheckScript(t *testing.T) {
	require.NoError(t, CheckScript(`const b = document.createElement('ui-button'); root.appendChild(b);`))

	err := CheckScript(`const = ;`)
	require.Error(t, err)
	var se *errors.StudioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, errors.ErrCodeScriptSyntax, se.Code)

	findings := Lint(RemoteScript{Script: "function (", Framework: FrameworkReact})
	require.Len(t, findings, 1)
	assert.Equal(t, "script-syntax", findings[0].Rule)
}
