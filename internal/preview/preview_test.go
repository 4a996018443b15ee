package preview

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
)

type viewRecorder struct {
	views []View
}

func (r *viewRecorder) Render(v View) { r.views = append(r.views, v) }

func fixedClock() func() time.Time {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func newStartedBridge(t *testing.T) (*Bridge, *LocalChannel, *viewRecorder) {
	t.Helper()
	ch := NewLocalChannel()
	rec := &viewRecorder{}
	b := NewBridge(rec, ch, Config{Clock: fixedClock()})
	b.Start()
	t.Cleanup(b.Close)
	return b, ch, rec
}

func TestDevToolingMessageIgnored(t *testing.T) {
	b, ch, _ := newStartedBridge(t)

	ch.Publish(Message{Channel: ChannelMessage, Data: map[string]interface{}{
		"source": "react-devtools-bridge",
		"type":   "tool",
	}})
	assert.Equal(t, 0, b.Log().Len())

	ch.Publish(Message{Channel: ChannelMessage, Data: map[string]interface{}{
		"type":    "tool",
		"payload": map[string]interface{}{"x": float64(1)},
	}})
	entries := b.Log().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, SeverityAction, entries[0].Severity)
	assert.Equal(t, ChannelMessage, entries[0].Channel)
	assert.Equal(t, map[string]interface{}{"x": float64(1)}, entries[0].Data.(map[string]interface{})["payload"])
}

func TestPolicy(t *testing.T) {
	p := DefaultPolicy()
	testCases := []struct {
		name string
		msg  Message
		want bool
	}{
		{"tool", Message{ChannelMessage, map[string]interface{}{"type": "tool"}}, true},
		{"intent", Message{ChannelMessage, map[string]interface{}{"type": "intent"}}, true},
		{"notify not accepted", Message{ChannelMessage, map[string]interface{}{"type": "notify"}}, false},
		{"webpack", Message{ChannelMessage, map[string]interface{}{"type": "webpackOk"}}, false},
		{"no type", Message{ChannelMessage, map[string]interface{}{"payload": 1}}, false},
		{"not an object", Message{ChannelMessage, "tool"}, false},
		{"action object", Message{ChannelAction, map[string]interface{}{"type": "notify"}}, true},
		{"action string", Message{ChannelAction, "clicked"}, true},
		{"action array", Message{ChannelAction, []interface{}{"internal"}}, false},
		{"action null", Message{ChannelAction, nil}, true},
		{"unknown channel", Message{"other", map[string]interface{}{"type": "tool"}}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Accept(tc.msg))
		})
	}
}

func TestPolicyIsConfigurable(t *testing.T) {
	ch := NewLocalChannel()
	b := NewBridge(nil, ch, Config{Policy: &Policy{
		AcceptedTypes:       []string{"notify"},
		IgnoredTypePrefixes: []string{"vite"},
	}})
	b.Start()
	defer b.Close()

	ch.Publish(Message{Channel: ChannelMessage, Data: map[string]interface{}{"type": "tool"}})
	ch.Publish(Message{Channel: ChannelMessage, Data: map[string]interface{}{"type": "notify"}})
	ch.Publish(Message{Channel: ChannelMessage, Data: map[string]interface{}{"type": "notify", "source": "react-devtools"}})
	assert.Equal(t, 2, b.Log().Len())
}

func TestCloseUnsubscribes(t *testing.T) {
	ch := NewLocalChannel()
	b := NewBridge(nil, ch, Config{})
	b.Start()
	b.Start()
	assert.Equal(t, 1, ch.Subscribers())

	b.Close()
	assert.Equal(t, 0, ch.Subscribers())
	ch.Publish(Message{Channel: ChannelAction, Data: "late"})
	assert.Equal(t, 0, b.Log().Len())
	b.Close()
}

func TestUpdateRemountsOnlyOnContentChange(t *testing.T) {
	b, _, rec := newStartedBridge(t)

	env := content.NewEnvelope(content.RawHTML{HTML: "<p>a</p>"})
	b.Update(env)
	b.Update(env)
	require.Len(t, rec.views, 1)
	assert.True(t, rec.views[0].Remount)
	assert.Equal(t, DefaultHTMLSandbox, rec.views[0].Props.Sandbox)
	assert.Equal(t, "<p>a</p>", rec.views[0].Resource.Text)

	env.URI = "ui://other/1"
	b.Update(env)
	require.Len(t, rec.views, 2)
	assert.False(t, rec.views[1].Remount)
	assert.Equal(t, rec.views[0].Key, rec.views[1].Key)

	env.Content = content.RawHTML{HTML: "<p>b</p>"}
	b.Update(env)
	require.Len(t, rec.views, 3)
	assert.True(t, rec.views[2].Remount)
	assert.NotEqual(t, rec.views[1].Key, rec.views[2].Key)
}

func TestViewProps(t *testing.T) {
	b, _, rec := newStartedBridge(t)

	b.Update(content.NewEnvelope(content.ExternalURL{URL: "https://example.com"}))
	b.Update(content.NewEnvelope(content.RemoteScript{Script: "x", Framework: content.FrameworkReact}))
	require.Len(t, rec.views, 2)
	assert.Equal(t, DefaultURLSandbox, rec.views[0].Props.Sandbox)
	assert.Contains(t, rec.views[0].Props.Sandbox, "allow-same-origin")
	assert.Equal(t, "text/uri-list", rec.views[0].Resource.MimeType)
	assert.Equal(t, DefaultRemoteElements, rec.views[1].Props.RemoteElements)
	assert.Empty(t, rec.views[1].Props.Sandbox)
}

func TestRefreshRemountsAndClearsConsole(t *testing.T) {
	b, ch, rec := newStartedBridge(t)

	b.Refresh()
	assert.Empty(t, rec.views)

	b.Update(content.NewEnvelope(content.RawHTML{HTML: "<p/>"}))
	ch.Publish(Message{Channel: ChannelAction, Data: map[string]interface{}{"type": "tool"}})
	require.Equal(t, 1, b.Log().Len())

	before := b.Key()
	b.Refresh()
	assert.Equal(t, 0, b.Log().Len())
	assert.Equal(t, 0, b.Log().Unread())
	require.Len(t, rec.views, 2)
	assert.True(t, rec.views[1].Remount)
	assert.NotEqual(t, before, b.Key())
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(content.RawHTML{HTML: "x"}, 0)
	assert.Equal(t, a, CacheKey(content.RawHTML{HTML: "x"}, 0))
	assert.NotEqual(t, a, CacheKey(content.RawHTML{HTML: "x"}, 1))
	assert.NotEqual(t, a, CacheKey(content.ExternalURL{URL: "x"}, 0))
	assert.NotEqual(t,
		CacheKey(content.RemoteScript{Script: "x", Framework: content.FrameworkReact}, 0),
		CacheKey(content.RemoteScript{Script: "x", Framework: content.FrameworkWebComponents}, 0))
	assert.NotEmpty(t, CacheKey(nil, 0))
}

func TestLogOrderingAndUnread(t *testing.T) {
	l := NewLog(fixedClock())
	first := l.Append(SeverityAction, ChannelAction, "a")
	second := l.Append(SeverityError, "", "b")
	l.Append(SeverityInfo, "", "c")

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Less(t, first.ID, second.ID)
	assert.True(t, entries[0].Timestamp.Before(entries[1].Timestamp))
	assert.Equal(t, 3, l.Unread())

	l.MarkRead()
	assert.Equal(t, 0, l.Unread())
	assert.Equal(t, 3, l.Len())

	entries[0].Data = "mutated"
	assert.Equal(t, "a", l.Entries()[0].Data)

	l.Clear()
	assert.Empty(t, l.Entries())
}

func TestLogConcurrentAppend(t *testing.T) {
	l := NewLog(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Append(SeverityAction, ChannelMessage, j)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, l.Len())

	seen := make(map[string]bool)
	for _, e := range l.Entries() {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestOnEntryAndReport(t *testing.T) {
	var got []Entry
	ch := NewLocalChannel()
	b := NewBridge(nil, ch, Config{OnEntry: func(e Entry) { got = append(got, e) }})
	b.Start()
	defer b.Close()

	ch.Publish(Message{Channel: ChannelAction, Data: map[string]interface{}{"type": "intent"}})
	b.Report(SeverityError, "bad frame")
	require.Len(t, got, 2)
	assert.Equal(t, SeverityError, got[1].Severity)
}

func TestDecodeMessage(t *testing.T) {
	m, err := DecodeMessage([]byte(`{"channel":"action","data":{"type":"tool"}}`))
	require.NoError(t, err)
	assert.Equal(t, ChannelAction, m.Channel)

	m, err = DecodeMessage([]byte(`{"data":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, ChannelMessage, m.Channel)
	assert.Equal(t, []interface{}{float64(1), float64(2)}, m.Data)

	_, err = DecodeMessage([]byte(`{`))
	assert.True(t, errors.IsParse(err))

	_, err = DecodeMessage([]byte(`{"channel":"dom"}`))
	assert.True(t, errors.IsValidation(err))
}
