package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conneroisu/uistudio/internal/errors"
)

// Validate checks an untrusted candidate against the content schema and
// returns the typed payload. Candidates are usually a decoded JSON object or
// the object produced by the editable-text parser; an already typed Payload is
// re-validated field by field.
//
// RawHTML markup is trimmed before acceptance. Errors are *errors.StudioError
// values of type validation and never leave the caller's model modified.
func Validate(candidate interface{}) (Payload, error) {
	switch v := candidate.(type) {
	case Payload:
		return Validate(ToMap(v))
	case map[string]interface{}:
		return validateObject(v)
	case map[string]string:
		obj := make(map[string]interface{}, len(v))
		for k, s := range v {
			obj[k] = s
		}
		return validateObject(obj)
	case nil:
		return nil, errors.NewValidationError(errors.ErrCodeMissingContent, "missing content object")
	default:
		return nil, errors.NewValidationError(errors.ErrCodeMissingContent,
			fmt.Sprintf("content must be an object, got %T", candidate))
	}
}

// ValidateJSON decodes data and validates the resulting object.
func ValidateJSON(data []byte) (Payload, error) {
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, errors.ErrCodeSyntax, "content is not valid JSON")
	}
	return Validate(obj)
}

func validateObject(obj map[string]interface{}) (Payload, error) {
	rawType, present := obj["type"]
	if !present || rawType == nil || rawType == "" {
		return nil, errors.NewValidationError(errors.ErrCodeMissingType, "content.type is required").
			WithField("type")
	}
	tag, ok := rawType.(string)
	if !ok {
		return nil, errors.NewValidationError(errors.ErrCodeUnknownType, "content.type must be a string").
			WithField("type")
	}
	kind, err := ParseKind(tag)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeUnknownType, err.Error()).WithField("type")
	}

	switch kind {
	case KindRawHTML:
		markup, ok := obj["htmlString"].(string)
		if !ok {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidField,
				"content.htmlString must be a string").WithField("htmlString")
		}
		return RawHTML{HTML: strings.TrimSpace(markup)}, nil

	case KindExternalURL:
		url, ok := obj["iframeUrl"].(string)
		if !ok || url == "" {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidField,
				"content.iframeUrl must be a non-empty string").WithField("iframeUrl")
		}
		return ExternalURL{URL: url}, nil

	default:
		script, ok := obj["script"].(string)
		if !ok {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidField,
				"content.script must be a string").WithField("script")
		}
		fw, _ := obj["framework"].(string)
		framework, err := ParseFramework(fw)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeUnknownFramework,
				"content.framework must be react or webcomponents").WithField("framework").
				WithContext("framework", obj["framework"])
		}
		return RemoteScript{Script: script, Framework: framework}, nil
	}
}
