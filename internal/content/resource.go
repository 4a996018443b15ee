package content

import (
	"encoding/base64"
	"encoding/json"
)

// Mime types reported for each payload variant.
const (
	MimeHTML       = "text/html"
	MimeURIList    = "text/uri-list"
	mimeRemoteBase = "application/vnd.mcp-ui.remote-dom+javascript"
)

// MimeType returns the media type hosts use to pick a renderer for p.
func MimeType(p Payload) string {
	switch v := p.(type) {
	case RawHTML:
		return MimeHTML
	case ExternalURL:
		return MimeURIList
	case RemoteScript:
		return mimeRemoteBase + "; framework=" + string(v.Framework)
	default:
		return ""
	}
}

// Resource is the host-facing rendering of an envelope. Exactly one of Text or
// Blob is meaningful, chosen by Encoding.
type Resource struct {
	URI      string
	MimeType string
	Encoding Encoding
	Text     string
	Blob     string
}

// Resource renders e the way a server hands it to a host.
func (e Envelope) Resource() Resource {
	r := Resource{URI: e.URI, MimeType: MimeType(e.Content), Encoding: e.Encoding}
	body := Body(e.Content)
	if e.Encoding == EncodingBlob {
		r.Blob = base64.StdEncoding.EncodeToString([]byte(body))
	} else {
		r.Encoding = EncodingText
		r.Text = body
	}
	return r
}

// Decoded returns the payload body regardless of encoding.
func (r Resource) Decoded() (string, error) {
	if r.Encoding != EncodingBlob {
		return r.Text, nil
	}
	raw, err := base64.StdEncoding.DecodeString(r.Blob)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// MarshalJSON writes either a text or a blob key, never both.
func (r Resource) MarshalJSON() ([]byte, error) {
	if r.Encoding == EncodingBlob {
		return json.Marshal(struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType"`
			Blob     string `json:"blob"`
		}{r.URI, r.MimeType, r.Blob})
	}
	return json.Marshal(struct {
		URI      string `json:"uri"`
		MimeType string `json:"mimeType"`
		Text     string `json:"text"`
	}{r.URI, r.MimeType, r.Text})
}

// UIResource is the tool-result wrapper a host receives.
type UIResource struct {
	Type     string   `json:"type"`
	Resource Resource `json:"resource"`
}

// UIResource wraps the rendered resource for a tool result.
func (e Envelope) UIResource() UIResource {
	return UIResource{Type: "resource", Resource: e.Resource()}
}
