package preview

import "strings"

// Policy decides which inbound messages reach the console.
type Policy struct {
	// AcceptedTypes lists the message "type" values recorded from the
	// generic message channel.
	AcceptedTypes []string
	// IgnoredSourcePrefixes drops messages whose "source" starts with any
	// prefix, such as browser dev tooling.
	IgnoredSourcePrefixes []string
	// IgnoredTypePrefixes drops messages whose "type" starts with any
	// prefix, such as bundler hot-reload chatter.
	IgnoredTypePrefixes []string
}

// DefaultPolicy accepts tool calls and intents and ignores react-devtools
// and webpack traffic.
func DefaultPolicy() Policy {
	return Policy{
		AcceptedTypes:         []string{"tool", "intent"},
		IgnoredSourcePrefixes: []string{"react-devtools"},
		IgnoredTypePrefixes:   []string{"webpack"},
	}
}

// Accept reports whether m should be logged.
func (p Policy) Accept(m Message) bool {
	switch m.Channel {
	case ChannelAction:
		return p.acceptAction(m.Data)
	case ChannelMessage:
		return p.acceptMessage(m.Data)
	default:
		return false
	}
}

// acceptAction drops the renderer's internal array-shaped events.
func (p Policy) acceptAction(data interface{}) bool {
	_, internal := data.([]interface{})
	return !internal
}

func (p Policy) acceptMessage(data interface{}) bool {
	obj, ok := data.(map[string]interface{})
	if !ok {
		return false
	}
	if source, ok := obj["source"].(string); ok && hasAnyPrefix(source, p.IgnoredSourcePrefixes) {
		return false
	}
	typ, ok := obj["type"].(string)
	if !ok || hasAnyPrefix(typ, p.IgnoredTypePrefixes) {
		return false
	}
	for _, accepted := range p.AcceptedTypes {
		if typ == accepted {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
