package studio

import (
	"fmt"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/editor"
	"github.com/conneroisu/uistudio/internal/errors"
)

// Op names a structured edit sent by the visual editor.
type Op string

const (
	OpSetURI          Op = "setUri"
	OpSetEncoding     Op = "setEncoding"
	OpSetContentType  Op = "setContentType"
	OpSetIframeURL    Op = "setIframeUrl"
	OpSetFramework    Op = "setFramework"
	OpSetHTMLString   Op = "setHtmlString"
	OpSetScript       Op = "setScript"
	OpSetAdapterType  Op = "setAdapterType"
	OpSetAdapterField Op = "setAdapterField"
	OpBeginEdit       Op = "beginEdit"
	OpCommitEdit      Op = "commitEdit"
)

// Edit is one visual editor change. Field is only used by
// OpSetAdapterField.
type Edit struct {
	Op    Op          `json:"op"`
	Field string      `json:"field,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

func (e Edit) text() (string, error) {
	switch v := e.Value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidField,
			fmt.Sprintf("%s expects a string value, got %T", e.Op, e.Value))
	}
}

// apply runs e against ed. Unknown enumerations are rejected before the
// editor sees them so the caller gets an error instead of a silent no-op.
func (e Edit) apply(ed *editor.Editor) error {
	if e.Op == OpSetAdapterField {
		return ed.SetAdapterField(adapter.Field(e.Field), e.Value)
	}
	if e.Op == OpBeginEdit {
		ed.BeginEdit()
		return nil
	}
	if e.Op == OpCommitEdit {
		ed.CommitEdit()
		return nil
	}

	s, err := e.text()
	if err != nil {
		return err
	}

	switch e.Op {
	case OpSetURI:
		ed.SetURI(s)
	case OpSetEncoding:
		enc, err := content.ParseEncoding(s)
		if err != nil {
			return err
		}
		ed.SetEncoding(enc)
	case OpSetContentType:
		kind, err := content.ParseKind(s)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeUnknownType, "unknown content type").
				WithField("content.type")
		}
		ed.SetContentType(kind)
	case OpSetIframeURL:
		ed.SetIframeURL(s)
	case OpSetFramework:
		fw, err := content.ParseFramework(s)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeUnknownFramework, "unknown framework").
				WithField("content.framework")
		}
		ed.SetFramework(fw)
	case OpSetHTMLString:
		ed.SetHTMLString(s)
	case OpSetScript:
		ed.SetScript(s)
	case OpSetAdapterType:
		t, err := adapter.ParseType(s)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeAdapterField, "unknown adapter type").
				WithField("adapter.type")
		}
		ed.SetAdapterType(t)
	default:
		return errors.NewValidationError(errors.ErrCodeUnsupportedEdit,
			fmt.Sprintf("unsupported edit operation %q", e.Op))
	}
	return nil
}
