// Package adapter models the optional protocol-translation metadata attached to
// a UI resource. An adapter changes how an exported handler registers itself
// with a host integration style; it never changes the payload itself.
package adapter

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Type discriminates the adapter union.
type Type string

const (
	TypeNone        Type = "none"
	TypeChatGPT     Type = "chatgpt"
	TypeGenericApps Type = "apps"
)

// ParseType accepts the canonical tags plus the spellings used by the CLI.
func ParseType(s string) (Type, error) {
	switch s {
	case "", "none":
		return TypeNone, nil
	case "chatgpt", "chatgpt-style", "appsSdk", "apps-sdk":
		return TypeChatGPT, nil
	case "apps", "generic-apps", "mcpApps", "mcp-apps":
		return TypeGenericApps, nil
	default:
		return TypeNone, fmt.Errorf("unknown adapter type %q (want none, chatgpt or apps)", s)
	}
}

// IntentHandling controls how a ChatGPT-style host treats intent messages.
type IntentHandling string

const (
	IntentPrompt IntentHandling = "prompt"
	IntentTool   IntentHandling = "tool"
)

// CSP lists the domains a widget may contact or load from.
type CSP struct {
	ConnectDomains  []string `json:"connectDomains" yaml:"connect_domains"`
	ResourceDomains []string `json:"resourceDomains" yaml:"resource_domains"`
}

// ChatGPTConfig holds the widget metadata of a ChatGPT-style host.
type ChatGPTConfig struct {
	Enabled             bool           `json:"enabled"`
	IntentHandling      IntentHandling `json:"intentHandling"`
	WidgetDescription   *string        `json:"widgetDescription,omitempty"`
	WidgetPrefersBorder bool           `json:"widgetPrefersBorder"`
	WidgetCSP           *CSP           `json:"widgetCSP,omitempty"`
}

// AppsConfig holds the generic apps translation switch.
type AppsConfig struct {
	Enabled bool `json:"enabled"`
}

// Config is the adapter union. Only the member matching Type is meaningful;
// the other pointer is nil.
type Config struct {
	Type    Type
	ChatGPT *ChatGPTConfig
	Apps    *AppsConfig
}

// None returns the empty adapter.
func None() Config {
	return Config{Type: TypeNone}
}

// Defaults returns a freshly initialized adapter for t. Unknown types map to
// None.
func Defaults(t Type) Config {
	switch t {
	case TypeChatGPT:
		return Config{
			Type: TypeChatGPT,
			ChatGPT: &ChatGPTConfig{
				Enabled:             true,
				IntentHandling:      IntentPrompt,
				WidgetPrefersBorder: true,
			},
		}
	case TypeGenericApps:
		return Config{Type: TypeGenericApps, Apps: &AppsConfig{Enabled: true}}
	default:
		return None()
	}
}

// Active reports whether the adapter contributes to generated code.
func (c *Config) Active() bool {
	if c == nil {
		return false
	}
	switch c.Type {
	case TypeChatGPT:
		return c.ChatGPT != nil && c.ChatGPT.Enabled
	case TypeGenericApps:
		return c.Apps != nil && c.Apps.Enabled
	default:
		return false
	}
}

// Clone returns a deep copy so history snapshots never share slices.
func (c Config) Clone() Config {
	out := Config{Type: c.Type}
	if c.ChatGPT != nil {
		gpt := *c.ChatGPT
		if c.ChatGPT.WidgetDescription != nil {
			desc := *c.ChatGPT.WidgetDescription
			gpt.WidgetDescription = &desc
		}
		if c.ChatGPT.WidgetCSP != nil {
			gpt.WidgetCSP = &CSP{
				ConnectDomains:  slices.Clone(c.ChatGPT.WidgetCSP.ConnectDomains),
				ResourceDomains: slices.Clone(c.ChatGPT.WidgetCSP.ResourceDomains),
			}
		}
		out.ChatGPT = &gpt
	}
	if c.Apps != nil {
		apps := *c.Apps
		out.Apps = &apps
	}
	return out
}

// Equal compares two adapters by value.
func (c Config) Equal(other Config) bool {
	if c.Type != other.Type {
		return false
	}
	switch c.Type {
	case TypeChatGPT:
		a, b := c.ChatGPT, other.ChatGPT
		if a == nil || b == nil {
			return a == b
		}
		if a.Enabled != b.Enabled || a.IntentHandling != b.IntentHandling ||
			a.WidgetPrefersBorder != b.WidgetPrefersBorder {
			return false
		}
		if (a.WidgetDescription == nil) != (b.WidgetDescription == nil) {
			return false
		}
		if a.WidgetDescription != nil && *a.WidgetDescription != *b.WidgetDescription {
			return false
		}
		if (a.WidgetCSP == nil) != (b.WidgetCSP == nil) {
			return false
		}
		if a.WidgetCSP != nil {
			return slices.Equal(a.WidgetCSP.ConnectDomains, b.WidgetCSP.ConnectDomains) &&
				slices.Equal(a.WidgetCSP.ResourceDomains, b.WidgetCSP.ResourceDomains)
		}
		return true
	case TypeGenericApps:
		a, b := c.Apps, other.Apps
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	default:
		return true
	}
}

type wireConfig struct {
	Type Type `json:"type"`
	ChatGPTConfig
}

// MarshalJSON flattens the active member next to the type tag.
func (c Config) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case TypeChatGPT:
		if c.ChatGPT == nil {
			return json.Marshal(Defaults(TypeChatGPT))
		}
		return json.Marshal(wireConfig{Type: c.Type, ChatGPTConfig: *c.ChatGPT})
	case TypeGenericApps:
		enabled := c.Apps != nil && c.Apps.Enabled
		return json.Marshal(struct {
			Type    Type `json:"type"`
			Enabled bool `json:"enabled"`
		}{c.Type, enabled})
	default:
		return []byte(`{"type":"none"}`), nil
	}
}

// UnmarshalJSON reads the flattened form written by MarshalJSON.
func (c *Config) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	t, err := ParseType(head.Type)
	if err != nil {
		return err
	}

	switch t {
	case TypeChatGPT:
		w := wireConfig{ChatGPTConfig: *Defaults(TypeChatGPT).ChatGPT}
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		gpt := w.ChatGPTConfig
		if gpt.IntentHandling != IntentPrompt && gpt.IntentHandling != IntentTool {
			return fmt.Errorf("unknown intentHandling %q", gpt.IntentHandling)
		}
		*c = Config{Type: TypeChatGPT, ChatGPT: &gpt}
	case TypeGenericApps:
		apps := AppsConfig{Enabled: true}
		if err := json.Unmarshal(data, &apps); err != nil {
			return err
		}
		*c = Config{Type: TypeGenericApps, Apps: &apps}
	default:
		*c = None()
	}
	return nil
}
