// Package content defines the UI resource content model: the payload union
// (raw markup, external URL, remote-DOM script), the resource envelope that
// carries it, and the schema validation applied to untrusted candidates.
package content

import (
	"encoding/json"
	"fmt"
)

// Kind is the payload discriminator as it appears on the wire.
type Kind string

const (
	KindRawHTML     Kind = "rawHtml"
	KindExternalURL Kind = "externalUrl"
	KindRemoteDOM   Kind = "remoteDom"
)

// Kinds lists every payload tag in display order.
var Kinds = []Kind{KindRawHTML, KindExternalURL, KindRemoteDOM}

// ParseKind validates a payload tag.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRawHTML, KindExternalURL, KindRemoteDOM:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown content type %q (want rawHtml, externalUrl or remoteDom)", s)
	}
}

// Framework is the component runtime a remote-DOM script targets.
type Framework string

const (
	FrameworkReact         Framework = "react"
	FrameworkWebComponents Framework = "webcomponents"
)

// ParseFramework validates a framework tag.
func ParseFramework(s string) (Framework, error) {
	switch Framework(s) {
	case FrameworkReact, FrameworkWebComponents:
		return Framework(s), nil
	default:
		return "", fmt.Errorf("unknown framework %q (want react or webcomponents)", s)
	}
}

// Payload is one of RawHTML, ExternalURL or RemoteScript. The concrete types
// are comparable, so two payloads are equal exactly when a == b.
type Payload interface {
	Kind() Kind
	isPayload()
}

// RawHTML is literal markup rendered inside a sandboxed frame.
type RawHTML struct {
	HTML string
}

// ExternalURL is a page loaded in a framed context.
type ExternalURL struct {
	URL string
}

// RemoteScript builds a UI tree against a host-provided root using a
// restricted element vocabulary.
type RemoteScript struct {
	Script    string
	Framework Framework
}

func (RawHTML) Kind() Kind      { return KindRawHTML }
func (ExternalURL) Kind() Kind  { return KindExternalURL }
func (RemoteScript) Kind() Kind { return KindRemoteDOM }

func (RawHTML) isPayload()      {}
func (ExternalURL) isPayload()  {}
func (RemoteScript) isPayload() {}

// Body returns the payload's primary string: markup, URL or script.
func Body(p Payload) string {
	switch v := p.(type) {
	case RawHTML:
		return v.HTML
	case ExternalURL:
		return v.URL
	case RemoteScript:
		return v.Script
	default:
		return ""
	}
}

// ToMap renders the payload in its wire shape.
func ToMap(p Payload) map[string]interface{} {
	switch v := p.(type) {
	case RawHTML:
		return map[string]interface{}{"type": string(KindRawHTML), "htmlString": v.HTML}
	case ExternalURL:
		return map[string]interface{}{"type": string(KindExternalURL), "iframeUrl": v.URL}
	case RemoteScript:
		return map[string]interface{}{
			"type":      string(KindRemoteDOM),
			"script":    v.Script,
			"framework": string(v.Framework),
		}
	default:
		return nil
	}
}

type wirePayload struct {
	Type       Kind   `json:"type"`
	HTMLString string `json:"htmlString,omitempty"`
	IframeURL  string `json:"iframeUrl,omitempty"`
	Script     string `json:"script,omitempty"`
	Framework  string `json:"framework,omitempty"`
}

// MarshalPayload encodes p in its wire shape.
func MarshalPayload(p Payload) ([]byte, error) {
	switch v := p.(type) {
	case RawHTML:
		// htmlString may legitimately be empty, so it is never omitted.
		return json.Marshal(struct {
			Type       Kind   `json:"type"`
			HTMLString string `json:"htmlString"`
		}{KindRawHTML, v.HTML})
	case ExternalURL:
		return json.Marshal(wirePayload{Type: KindExternalURL, IframeURL: v.URL})
	case RemoteScript:
		return json.Marshal(struct {
			Type      Kind   `json:"type"`
			Script    string `json:"script"`
			Framework string `json:"framework"`
		}{KindRemoteDOM, v.Script, string(v.Framework)})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unsupported payload %T", p)
	}
}
