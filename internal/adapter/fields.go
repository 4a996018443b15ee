package adapter

import (
	"fmt"
	"slices"
	"strings"
)

// Field names an editable adapter attribute.
type Field string

const (
	FieldEnabled             Field = "enabled"
	FieldIntentHandling      Field = "intentHandling"
	FieldWidgetDescription   Field = "widgetDescription"
	FieldWidgetPrefersBorder Field = "widgetPrefersBorder"
	FieldConnectDomains      Field = "widgetCSP.connectDomains"
	FieldResourceDomains     Field = "widgetCSP.resourceDomains"
)

// FieldError reports a field that does not exist on the active adapter or a
// value of the wrong shape.
type FieldError struct {
	Type  Type
	Field Field
	Value interface{}
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("adapter %s: field %s: %s", e.Type, e.Field, e.Msg)
}

// Set assigns value to field on the active member. The config is left
// untouched when an error is returned.
func (c *Config) Set(field Field, value interface{}) error {
	fail := func(msg string) error {
		return &FieldError{Type: c.Type, Field: field, Value: value, Msg: msg}
	}

	switch c.Type {
	case TypeGenericApps:
		if field != FieldEnabled {
			return fail("not defined for generic apps adapter")
		}
		b, ok := value.(bool)
		if !ok {
			return fail("want bool")
		}
		if c.Apps == nil {
			c.Apps = &AppsConfig{}
		}
		c.Apps.Enabled = b
		return nil

	case TypeChatGPT:
		if c.ChatGPT == nil {
			c.ChatGPT = Defaults(TypeChatGPT).ChatGPT
		}
		gpt := c.ChatGPT
		switch field {
		case FieldEnabled, FieldWidgetPrefersBorder:
			b, ok := value.(bool)
			if !ok {
				return fail("want bool")
			}
			if field == FieldEnabled {
				gpt.Enabled = b
			} else {
				gpt.WidgetPrefersBorder = b
			}
		case FieldIntentHandling:
			s, ok := asString(value)
			if !ok {
				return fail("want string")
			}
			ih := IntentHandling(s)
			if ih != IntentPrompt && ih != IntentTool {
				return fail("want prompt or tool")
			}
			gpt.IntentHandling = ih
		case FieldWidgetDescription:
			switch v := value.(type) {
			case nil:
				gpt.WidgetDescription = nil
			case string:
				if v == "" {
					gpt.WidgetDescription = nil
				} else {
					desc := v
					gpt.WidgetDescription = &desc
				}
			default:
				return fail("want string")
			}
		case FieldConnectDomains, FieldResourceDomains:
			domains, ok := asStrings(value)
			if !ok {
				return fail("want list of strings")
			}
			csp := CSP{}
			if gpt.WidgetCSP != nil {
				csp = *gpt.WidgetCSP
			}
			if field == FieldConnectDomains {
				csp.ConnectDomains = domains
			} else {
				csp.ResourceDomains = domains
			}
			if len(csp.ConnectDomains) == 0 && len(csp.ResourceDomains) == 0 {
				gpt.WidgetCSP = nil
			} else {
				gpt.WidgetCSP = &csp
			}
		default:
			return fail("not defined for chatgpt adapter")
		}
		return nil

	default:
		return fail("adapter type none has no fields")
	}
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case IntentHandling:
		return string(s), true
	default:
		return "", false
	}
}

// asStrings accepts []string, []interface{} of strings (decoded JSON) or a
// comma separated string (form input).
func asStrings(v interface{}) ([]string, bool) {
	var raw []string
	switch list := v.(type) {
	case nil:
		return nil, true
	case []string:
		raw = list
	case []interface{}:
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			raw = append(raw, s)
		}
	case string:
		raw = strings.Split(list, ",")
	default:
		return nil, false
	}

	out := make([]string, 0, len(raw))
	for _, d := range raw {
		if d = strings.TrimSpace(d); d != "" && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out, true
}
