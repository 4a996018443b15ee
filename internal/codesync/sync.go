package codesync

import (
	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
)

// bodyFields are normalized before validation.
var bodyFields = []string{"htmlString", "script"}

// TextToModel reads edited editor text back into an envelope. The text must
// be an object literal with a content member; uri and encoding fall back to
// their defaults when absent. Bodies are dedented and trimmed.
//
// Errors are parse errors for malformed text and validation errors for a
// well-formed object that fails the content schema. In both cases the caller
// keeps its previous model. The returned envelope carries no adapter.
func TextToModel(text string) (content.Envelope, error) {
	v, err := parseLiteral(text)
	if err != nil {
		return content.Envelope{}, err
	}
	obj := v.(map[string]interface{})

	raw, ok := obj["content"]
	if !ok || raw == nil {
		return content.Envelope{}, errors.NewValidationError(errors.ErrCodeMissingContent,
			"missing content object").WithField("content")
	}
	body, ok := raw.(map[string]interface{})
	if !ok {
		return content.Envelope{}, errors.NewValidationError(errors.ErrCodeMissingContent,
			"content must be an object").WithField("content")
	}
	for _, f := range bodyFields {
		if s, ok := body[f].(string); ok {
			body[f] = Normalize(s)
		}
	}

	p, err := content.Validate(body)
	if err != nil {
		return content.Envelope{}, err
	}
	env := content.NewEnvelope(p)
	env.Adapter = adapter.None()

	switch uri := obj["uri"].(type) {
	case nil:
	case string:
		if uri != "" {
			env.URI = uri
		}
	default:
		return content.Envelope{}, errors.NewValidationError(errors.ErrCodeInvalidField,
			"uri must be a string").WithField("uri")
	}

	switch enc := obj["encoding"].(type) {
	case nil:
	case string:
		parsed, err := content.ParseEncoding(enc)
		if err != nil {
			return content.Envelope{}, err
		}
		env.Encoding = parsed
	default:
		return content.Envelope{}, errors.NewValidationError(errors.ErrCodeInvalidEncoding,
			"encoding must be 'text' or 'blob'").WithField("encoding")
	}
	return env, nil
}

// Apply parses text and hands the result to apply only on success. It
// returns the diagnostic to show next to the editor, or nil.
func Apply(text string, apply func(content.Envelope)) *errors.Diagnostic {
	env, err := TextToModel(text)
	if err != nil {
		return errors.ToDiagnostic(err)
	}
	apply(env)
	return nil
}
