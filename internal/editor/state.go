package editor

import (
	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
)

// state is the complete editable state. Every payload variant keeps its last
// value so switching the active kind back and forth loses nothing.
type state struct {
	uri       string
	encoding  content.Encoding
	kind      content.Kind
	html      string
	url       string
	script    string
	framework content.Framework
	adapter   adapter.Config
}

func stateFrom(env content.Envelope) state {
	s := state{
		uri:       env.URI,
		encoding:  env.Encoding,
		framework: content.FrameworkReact,
		adapter:   env.Adapter.Clone(),
	}
	if s.encoding == "" {
		s.encoding = content.EncodingText
	}
	if s.adapter.Type == "" {
		s.adapter = adapter.None()
	}
	s.absorb(env.Content)
	return s
}

// absorb makes p the active payload and records it in the variant cache. The
// caches of the other variants are left alone.
func (s *state) absorb(p content.Payload) {
	switch v := p.(type) {
	case content.RawHTML:
		s.kind, s.html = content.KindRawHTML, v.HTML
	case content.ExternalURL:
		s.kind, s.url = content.KindExternalURL, v.URL
	case content.RemoteScript:
		s.kind, s.script = content.KindRemoteDOM, v.Script
		if v.Framework != "" {
			s.framework = v.Framework
		}
	default:
		s.kind = content.KindRawHTML
	}
}

func (s state) payload() content.Payload {
	switch s.kind {
	case content.KindExternalURL:
		return content.ExternalURL{URL: s.url}
	case content.KindRemoteDOM:
		return content.RemoteScript{Script: s.script, Framework: s.framework}
	default:
		return content.RawHTML{HTML: s.html}
	}
}

func (s state) envelope() content.Envelope {
	return content.Envelope{
		URI:      s.uri,
		Encoding: s.encoding,
		Content:  s.payload(),
		Adapter:  s.adapter.Clone(),
	}
}

func (s state) clone() state {
	out := s
	out.adapter = s.adapter.Clone()
	return out
}

func (s state) equal(o state) bool {
	return s.uri == o.uri &&
		s.encoding == o.encoding &&
		s.kind == o.kind &&
		s.html == o.html &&
		s.url == o.url &&
		s.script == o.script &&
		s.framework == o.framework &&
		s.adapter.Equal(o.adapter)
}
