package content

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/errors"
)

// Encoding selects how the payload travels inside a rendered resource.
type Encoding string

const (
	EncodingText Encoding = "text"
	EncodingBlob Encoding = "blob"
)

// ParseEncoding validates an encoding tag. The empty string means text.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingText:
		return EncodingText, nil
	case EncodingBlob:
		return EncodingBlob, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidEncoding,
			fmt.Sprintf("unknown encoding %q (want text or blob)", s)).WithField("encoding")
	}
}

// DefaultURI is the identifier given to a fresh resource.
const DefaultURI = "ui://my-component/instance-1"

// Envelope is the complete authored resource.
type Envelope struct {
	URI      string
	Encoding Encoding
	Content  Payload
	Adapter  adapter.Config
}

// NewEnvelope wraps p with the default identifier, text encoding and no
// adapter.
func NewEnvelope(p Payload) Envelope {
	return Envelope{
		URI:      DefaultURI,
		Encoding: EncodingText,
		Content:  p,
		Adapter:  adapter.None(),
	}
}

// Clone returns a copy that shares nothing mutable with e. Payloads are value
// types, so only the adapter needs a deep copy.
func (e Envelope) Clone() Envelope {
	out := e
	out.Adapter = e.Adapter.Clone()
	return out
}

// Equal compares two envelopes by value.
func (e Envelope) Equal(other Envelope) bool {
	return e.URI == other.URI &&
		e.Encoding == other.Encoding &&
		e.Content == other.Content &&
		e.Adapter.Equal(other.Adapter)
}

type wireEnvelope struct {
	URI      string          `json:"uri"`
	Encoding Encoding        `json:"encoding"`
	Content  json.RawMessage `json:"content"`
	Adapter  *adapter.Config `json:"adapter,omitempty"`
}

// MarshalJSON writes the envelope with the payload in its wire shape. The
// adapter is omitted when none is configured.
func (e Envelope) MarshalJSON() ([]byte, error) {
	body, err := MarshalPayload(e.Content)
	if err != nil {
		return nil, err
	}
	w := wireEnvelope{URI: e.URI, Encoding: e.Encoding, Content: body}
	if e.Adapter.Type != adapter.TypeNone && e.Adapter.Type != "" {
		cfg := e.Adapter
		w.Adapter = &cfg
	}
	return json.Marshal(w)
}

// UnmarshalJSON validates the embedded payload and falls back to the defaults
// for a missing uri or encoding.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Content) == 0 {
		return errors.NewValidationError(errors.ErrCodeMissingContent, "missing content object").
			WithField("content")
	}
	p, err := ValidateJSON(w.Content)
	if err != nil {
		return err
	}
	enc, err := ParseEncoding(string(w.Encoding))
	if err != nil {
		return err
	}

	out := NewEnvelope(p)
	out.Encoding = enc
	if w.URI != "" {
		out.URI = w.URI
	}
	if w.Adapter != nil {
		out.Adapter = *w.Adapter
	}
	*e = out
	return nil
}
