package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
)

type recorder struct {
	envelopes []content.Envelope
	history   [][2]bool
}

func (r *recorder) config() Config {
	return Config{
		OnChange: func(env content.Envelope) { r.envelopes = append(r.envelopes, env) },
		OnHistoryChange: func(canUndo, canRedo bool) {
			r.history = append(r.history, [2]bool{canUndo, canRedo})
		},
	}
}

func (r *recorder) last() content.Envelope {
	return r.envelopes[len(r.envelopes)-1]
}

func newHTMLEditor(t *testing.T, markup string) (*Editor, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(content.NewEnvelope(content.RawHTML{HTML: markup}), rec.config()), rec
}

func TestSwitchTypeThenUndoRestoresMarkup(t *testing.T) {
	ed, rec := newHTMLEditor(t, "<p>hi</p>")

	ed.SetContentType(content.KindExternalURL)
	ed.SetIframeURL("https://x.test")
	assert.Equal(t, content.ExternalURL{URL: "https://x.test"}, rec.last().Content)

	ed.Undo()
	assert.Equal(t, content.RawHTML{HTML: "<p>hi</p>"}, ed.Envelope().Content)
	assert.Equal(t, content.RawHTML{HTML: "<p>hi</p>"}, rec.last().Content)

	ed.Redo()
	assert.Equal(t, content.ExternalURL{URL: "https://x.test"}, ed.Envelope().Content)
}

func TestCommittedURLUndoesSeparately(t *testing.T) {
	ed, _ := newHTMLEditor(t, "<p>hi</p>")

	ed.SetContentType(content.KindExternalURL)
	ed.SetIframeURL("https://x.test")
	ed.CommitEdit()

	ed.Undo()
	assert.Equal(t, content.ExternalURL{URL: ""}, ed.Envelope().Content)
	assert.Equal(t, content.RawHTML{HTML: "<p>hi</p>"}, ed.Cached(content.KindRawHTML))

	ed.Undo()
	assert.Equal(t, content.RawHTML{HTML: "<p>hi</p>"}, ed.Envelope().Content)
}

func TestVariantCacheSurvivesSwitching(t *testing.T) {
	ed, _ := newHTMLEditor(t, "<p>keep</p>")

	ed.SetContentType(content.KindRemoteDOM)
	ed.SetScript("root.appendChild(x)")
	ed.CommitEdit()
	ed.SetFramework(content.FrameworkWebComponents)
	ed.SetContentType(content.KindRawHTML)

	assert.Equal(t, content.RawHTML{HTML: "<p>keep</p>"}, ed.Envelope().Content)

	ed.SetContentType(content.KindRemoteDOM)
	assert.Equal(t, content.RemoteScript{Script: "root.appendChild(x)", Framework: content.FrameworkWebComponents},
		ed.Envelope().Content)
}

func TestKeystrokesCoalesce(t *testing.T) {
	ed, rec := newHTMLEditor(t, "")

	ed.BeginEdit()
	for _, s := range []string{"<", "<p", "<p>", "<p>a", "<p>ab"} {
		ed.SetHTMLString(s)
	}
	assert.Len(t, rec.envelopes, 5)
	assert.Empty(t, ed.hist.undo)
	assert.True(t, ed.CanUndo())

	ed.CommitEdit()
	assert.Len(t, ed.hist.undo, 1)

	ed.Undo()
	assert.Equal(t, content.RawHTML{HTML: ""}, ed.Envelope().Content)
	assert.True(t, ed.CanRedo())

	ed.Redo()
	assert.Equal(t, content.RawHTML{HTML: "<p>ab"}, ed.Envelope().Content)
}

func TestEmptyRunRecordsNothing(t *testing.T) {
	ed, _ := newHTMLEditor(t, "x")
	ed.BeginEdit()
	ed.SetHTMLString("xy")
	ed.SetHTMLString("x")
	ed.CommitEdit()
	assert.Empty(t, ed.hist.undo)
	assert.False(t, ed.CanUndo())
}

func TestStructuralEditCommitsPendingRun(t *testing.T) {
	ed, _ := newHTMLEditor(t, "a")
	ed.SetHTMLString("abc")
	ed.SetURI("ui://next/1")
	require.Len(t, ed.hist.undo, 2)

	ed.Undo()
	assert.Equal(t, content.DefaultURI, ed.Envelope().URI)
	assert.Equal(t, content.RawHTML{HTML: "abc"}, ed.Envelope().Content)
	ed.Undo()
	assert.Equal(t, content.RawHTML{HTML: "a"}, ed.Envelope().Content)
}

func TestUndoWhilePendingRevertsRun(t *testing.T) {
	ed, _ := newHTMLEditor(t, "a")
	ed.SetHTMLString("ab")
	ed.Undo()
	assert.Equal(t, content.RawHTML{HTML: "a"}, ed.Envelope().Content)
	ed.Redo()
	assert.Equal(t, content.RawHTML{HTML: "ab"}, ed.Envelope().Content)
}

func TestUndoCommitsPendingRunFirst(t *testing.T) {
	ed, _ := newHTMLEditor(t, "a")
	ed.SetURI("ui://moved/1")
	ed.SetHTMLString("abc")

	ed.Undo()
	assert.Equal(t, "ui://moved/1", ed.Envelope().URI)
	assert.Equal(t, content.RawHTML{HTML: "a"}, ed.Envelope().Content)
	assert.True(t, ed.CanUndo())

	ed.Redo()
	assert.Equal(t, content.RawHTML{HTML: "abc"}, ed.Envelope().Content)

	ed.Undo()
	ed.Undo()
	assert.Equal(t, content.DefaultURI, ed.Envelope().URI)
	assert.False(t, ed.CanUndo())

	ed.Redo()
	assert.Equal(t, "ui://moved/1", ed.Envelope().URI)
	assert.Equal(t, content.RawHTML{HTML: "a"}, ed.Envelope().Content)
}

func TestUndoFoldsURLRunIntoPreviousStep(t *testing.T) {
	ed, _ := newHTMLEditor(t, "<p>hi</p>")
	ed.SetURI("ui://moved/1")
	ed.SetContentType(content.KindExternalURL)
	ed.SetIframeURL("https://x.test")

	ed.Undo()
	assert.Equal(t, content.RawHTML{HTML: "<p>hi</p>"}, ed.Envelope().Content)
	assert.Equal(t, "ui://moved/1", ed.Envelope().URI)

	ed.Redo()
	assert.Equal(t, content.ExternalURL{URL: "https://x.test"}, ed.Envelope().Content)
}

func TestTypingAfterUndoDropsStaleRedo(t *testing.T) {
	ed, _ := newHTMLEditor(t, "a")
	ed.SetURI("ui://one/1")
	ed.SetURI("ui://two/1")
	ed.Undo()
	ed.SetHTMLString("typed")
	assert.False(t, ed.CanRedo())

	ed.Undo()
	assert.Equal(t, "ui://one/1", ed.Envelope().URI)
	assert.Equal(t, content.RawHTML{HTML: "a"}, ed.Envelope().Content)
	ed.Redo()
	assert.Equal(t, content.RawHTML{HTML: "typed"}, ed.Envelope().Content)
	ed.Redo()
	assert.Equal(t, "ui://one/1", ed.Envelope().URI)
	assert.Equal(t, content.RawHTML{HTML: "typed"}, ed.Envelope().Content)
}

func TestNewEditAfterUndoClearsRedo(t *testing.T) {
	ed, _ := newHTMLEditor(t, "")
	ed.SetURI("ui://a/1")
	ed.SetURI("ui://b/1")
	ed.Undo()
	require.True(t, ed.CanRedo())

	ed.SetEncoding(content.EncodingBlob)
	assert.False(t, ed.CanRedo())

	before := ed.Envelope()
	ed.Redo()
	assert.True(t, before.Equal(ed.Envelope()))
}

func TestUndoRedoNoopOnEmpty(t *testing.T) {
	ed, rec := newHTMLEditor(t, "x")
	ed.Undo()
	ed.Redo()
	assert.Empty(t, rec.envelopes)
	assert.Empty(t, rec.history)
}

func TestHistoryNotifications(t *testing.T) {
	ed, rec := newHTMLEditor(t, "x")

	ed.SetURI("ui://a/1")
	ed.SetURI("ui://b/1")
	ed.Undo()
	ed.Undo()
	ed.Redo()

	assert.Equal(t, [][2]bool{
		{true, false},
		{true, true},
		{false, true},
		{true, true},
	}, rec.history)
}

func TestAdapterEdits(t *testing.T) {
	ed, rec := newHTMLEditor(t, "x")

	ed.SetAdapterType(adapter.TypeChatGPT)
	gpt := ed.Envelope().Adapter.ChatGPT
	require.NotNil(t, gpt)
	assert.True(t, gpt.Enabled)
	assert.Equal(t, adapter.IntentPrompt, gpt.IntentHandling)
	assert.True(t, gpt.WidgetPrefersBorder)

	require.NoError(t, ed.SetAdapterField(adapter.FieldIntentHandling, "tool"))
	assert.Equal(t, adapter.IntentTool, rec.last().Adapter.ChatGPT.IntentHandling)

	depth := len(ed.hist.undo)
	emitted := len(rec.envelopes)
	err := ed.SetAdapterField(adapter.FieldIntentHandling, 7)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Len(t, ed.hist.undo, depth)
	assert.Len(t, rec.envelopes, emitted)

	ed.SetAdapterType(adapter.TypeGenericApps)
	assert.Error(t, ed.SetAdapterField(adapter.FieldWidgetDescription, "nope"))

	ed.Undo()
	assert.Equal(t, adapter.IntentTool, ed.Envelope().Adapter.ChatGPT.IntentHandling)
}

func TestEnvelopeIsACopy(t *testing.T) {
	ed, _ := newHTMLEditor(t, "x")
	ed.SetAdapterType(adapter.TypeChatGPT)

	env := ed.Envelope()
	env.Adapter.ChatGPT.IntentHandling = adapter.IntentTool
	assert.Equal(t, adapter.IntentPrompt, ed.Envelope().Adapter.ChatGPT.IntentHandling)
}

func TestRejectsUnknownTags(t *testing.T) {
	ed, rec := newHTMLEditor(t, "x")
	ed.SetContentType(content.Kind("svg"))
	ed.SetFramework(content.Framework("vue"))
	assert.Empty(t, rec.envelopes)
	assert.False(t, ed.CanUndo())
}

func TestHistoryLimit(t *testing.T) {
	ed := New(content.NewEnvelope(content.RawHTML{}), Config{HistoryLimit: 2})
	ed.SetURI("ui://1")
	ed.SetURI("ui://2")
	ed.SetURI("ui://3")
	require.Len(t, ed.hist.undo, 2)

	ed.Undo()
	ed.Undo()
	ed.Undo()
	assert.Equal(t, "ui://1", ed.Envelope().URI)
}

func TestApplyEnvelopeAndLoad(t *testing.T) {
	ed, _ := newHTMLEditor(t, "<p>a</p>")
	ed.SetContentType(content.KindRemoteDOM)
	ed.SetScript("one()")
	ed.CommitEdit()

	parsed := content.NewEnvelope(content.RawHTML{HTML: "<p>b</p>"})
	parsed.URI = "ui://edited/1"
	ed.ApplyEnvelope(parsed)
	ed.CommitEdit()

	assert.Equal(t, "ui://edited/1", ed.Envelope().URI)
	assert.Equal(t, content.RemoteScript{Script: "one()", Framework: content.FrameworkReact},
		ed.Cached(content.KindRemoteDOM))

	ed.Undo()
	assert.Equal(t, content.RemoteScript{Script: "one()", Framework: content.FrameworkReact}, ed.Envelope().Content)

	ed.Load(content.NewEnvelope(content.ExternalURL{URL: "https://fresh.test"}))
	assert.False(t, ed.CanUndo())
	assert.False(t, ed.CanRedo())
	assert.Equal(t, content.RawHTML{}, ed.Cached(content.KindRawHTML))
}
