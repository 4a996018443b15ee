// Package studio ties the authoring pieces together into sessions: one
// editor, its editable text, the preview bridge and the console, driven by
// structured edits and code-editor changes and observed through events.
package studio

import (
	"context"
	"sync"
	"time"

	"github.com/conneroisu/uistudio/internal/codesync"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/editor"
	"github.com/conneroisu/uistudio/internal/errors"
	"github.com/conneroisu/uistudio/internal/export"
	"github.com/conneroisu/uistudio/internal/logging"
	"github.com/conneroisu/uistudio/internal/preview"
)

// EventType names a session event pushed to observers.
type EventType string

const (
	EventEnvelope EventType = "envelope"
	EventText     EventType = "text"
	EventHistory  EventType = "history"
	EventPreview  EventType = "preview"
	EventConsole  EventType = "console"
	EventSnapshot EventType = "snapshot"
)

// Event is one change notification.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// TextEvent carries the editable text and its diagnostic, if any.
type TextEvent struct {
	Text       string             `json:"text"`
	Diagnostic *errors.Diagnostic `json:"diagnostic,omitempty"`
}

// HistoryEvent carries the undo/redo availability.
type HistoryEvent struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// ConsoleEvent reports a new console entry or a cleared console.
type ConsoleEvent struct {
	Entry   *preview.Entry `json:"entry,omitempty"`
	Cleared bool           `json:"cleared,omitempty"`
	Unread  int            `json:"unread"`
}

// Snapshot is the full observable state of a session.
type Snapshot struct {
	ID         string             `json:"id"`
	TemplateID string             `json:"templateId,omitempty"`
	Envelope   content.Envelope   `json:"envelope"`
	Resource   content.UIResource `json:"resource"`
	Text       string             `json:"text"`
	Diagnostic *errors.Diagnostic `json:"diagnostic,omitempty"`
	Findings   []content.Finding  `json:"findings,omitempty"`
	CanUndo    bool               `json:"canUndo"`
	CanRedo    bool               `json:"canRedo"`
	PreviewKey string             `json:"previewKey"`
	Unread     int                `json:"unread"`
	Editors    []EditorDescriptor `json:"editors"`
}

// SessionOptions configures a session.
type SessionOptions struct {
	ID           string
	TemplateID   string
	HistoryLimit int
	Language     export.Language
	Minify       bool
	Bridge       preview.Config
	Logger       logging.Logger
}

// Session is one authoring workspace. All methods are safe for concurrent
// use; observers are called outside the session lock, in event order.
type Session struct {
	id         string
	templateID string
	language   export.Language
	minify     bool
	created    time.Time
	logger     logging.Logger

	mu         sync.Mutex
	editor     *editor.Editor
	text       string
	diagnostic *errors.Diagnostic
	applying   bool
	pending    []Event
	touched    time.Time

	channel *preview.LocalChannel
	bridge  *preview.Bridge

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
	emitMu  sync.Mutex
}

// NewSession creates a session seeded with env and starts its preview.
func NewSession(env content.Envelope, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	now := time.Now()
	s := &Session{
		id:         opts.ID,
		templateID: opts.TemplateID,
		language:   opts.Language,
		minify:     opts.Minify,
		created:    now,
		touched:    now,
		logger:     logger.WithComponent("studio").With("session", opts.ID),
		channel:    preview.NewLocalChannel(),
		subs:       make(map[int]func(Event)),
	}
	if s.language == "" {
		s.language = export.TypeScript
	}

	bridgeCfg := opts.Bridge
	bridgeCfg.Logger = logger
	userEntry := bridgeCfg.OnEntry
	bridgeCfg.OnEntry = func(e preview.Entry) {
		if userEntry != nil {
			userEntry(e)
		}
		s.dispatch([]Event{{Type: EventConsole, Data: ConsoleEvent{Entry: &e, Unread: s.bridge.Log().Unread()}}})
	}
	s.bridge = preview.NewBridge(preview.RendererFunc(s.render), s.channel, bridgeCfg)

	s.editor = editor.New(env, editor.Config{
		OnChange:        s.onChange,
		OnHistoryChange: s.onHistory,
		HistoryLimit:    opts.HistoryLimit,
		Logger:          logger,
	})

	s.mu.Lock()
	s.text = codesync.ModelToText(s.editor.Envelope())
	s.bridge.Update(s.editor.Envelope())
	s.pending = nil
	s.mu.Unlock()

	s.bridge.Start()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// TemplateID returns the template the session was opened from.
func (s *Session) TemplateID() string { return s.templateID }

// LastActive returns the time of the last edit.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// onChange, onHistory and render run inside editor and bridge calls, which
// the session only makes while holding mu.
func (s *Session) onChange(env content.Envelope) {
	s.pending = append(s.pending, Event{Type: EventEnvelope, Data: env})
	if !s.applying {
		s.text = codesync.ModelToText(env)
		s.diagnostic = nil
		s.pending = append(s.pending, Event{Type: EventText, Data: TextEvent{Text: s.text}})
	}
	s.bridge.Update(env)
}

func (s *Session) onHistory(canUndo, canRedo bool) {
	s.pending = append(s.pending, Event{Type: EventHistory, Data: HistoryEvent{CanUndo: canUndo, CanRedo: canRedo}})
}

func (s *Session) render(v preview.View) {
	s.pending = append(s.pending, Event{Type: EventPreview, Data: v})
}

// mutate runs fn under the session lock and dispatches the events it
// produced once the lock is released.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.touched = time.Now()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	s.dispatch(events)
	return err
}

func (s *Session) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

// Subscribe registers fn for every subsequent event. The returned function
// removes the subscription.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Watch subscribes fn and delivers a snapshot event to it first. No event is
// dispatched between the snapshot and the subscription, so fn sees every
// change after the state it was handed.
func (s *Session) Watch(fn func(Event)) (unsubscribe func()) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	unsubscribe = s.Subscribe(fn)
	fn(Event{Type: EventSnapshot, Data: s.Snapshot()})
	return unsubscribe
}

// Apply performs one structured edit from the visual editor.
func (s *Session) Apply(e Edit) error {
	err := s.mutate(func() error { return e.apply(s.editor) })
	if err != nil {
		s.logger.Debug(context.Background(), "edit rejected", "op", e.Op, "error", err.Error())
	}
	return err
}

// EditText handles a code-editor change. Text that parses replaces the
// model, keeping the current adapter, and clears the console. Text that does
// not parse leaves the model untouched and is reported through the returned
// diagnostic.
func (s *Session) EditText(text string) *errors.Diagnostic {
	var diag *errors.Diagnostic
	cleared := false
	_ = s.mutate(func() error {
		s.text = text
		s.applying = true
		diag = codesync.Apply(text, func(env content.Envelope) {
			env.Adapter = s.editor.Envelope().Adapter
			s.editor.ApplyEnvelope(env)
		})
		s.applying = false
		s.diagnostic = diag
		if diag == nil {
			s.bridge.Log().Clear()
			cleared = true
		}
		s.pending = append(s.pending, Event{Type: EventText, Data: TextEvent{Text: text, Diagnostic: diag}})
		if cleared {
			s.pending = append(s.pending, Event{Type: EventConsole, Data: ConsoleEvent{Cleared: true}})
		}
		return nil
	})
	if diag != nil {
		s.logger.Debug(context.Background(), "editable text rejected", "code", diag.Code, "line", diag.Line)
	}
	return diag
}

// Undo reverts the last committed step.
func (s *Session) Undo() {
	_ = s.mutate(func() error {
		s.editor.Undo()
		return nil
	})
}

// Redo re-applies the last undone step.
func (s *Session) Redo() {
	_ = s.mutate(func() error {
		s.editor.Redo()
		return nil
	})
}

// Commit closes the current keystroke run.
func (s *Session) Commit() {
	_ = s.mutate(func() error {
		s.editor.CommitEdit()
		return nil
	})
}

// Refresh remounts the preview and clears the console.
func (s *Session) Refresh() {
	_ = s.mutate(func() error {
		s.bridge.Refresh()
		s.pending = append(s.pending, Event{Type: EventConsole, Data: ConsoleEvent{Cleared: true}})
		return nil
	})
}

// Publish delivers a message from the previewed resource to the bridge.
func (s *Session) Publish(m preview.Message) {
	s.channel.Publish(m)
}

// Report appends a studio-originated console entry, such as a frame from
// the preview that could not be decoded.
func (s *Session) Report(sev preview.Severity, data interface{}) preview.Entry {
	return s.bridge.Report(sev, data)
}

// Console returns the console entries and marks them read.
func (s *Session) Console() []preview.Entry {
	log := s.bridge.Log()
	entries := log.Entries()
	log.MarkRead()
	return entries
}

// Envelope returns the current envelope.
func (s *Session) Envelope() content.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Envelope()
}

// Export generates handler source for the current envelope. An empty
// language selects the session default.
func (s *Session) Export(lang export.Language) (export.Artifact, error) {
	if lang == "" {
		lang = s.language
	}
	opts := export.FromEnvelope(s.Envelope(), lang)
	opts.Minify = s.minify
	return export.GenerateWith(opts)
}

// Snapshot returns the full session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	env := s.editor.Envelope()
	snap := Snapshot{
		ID:         s.id,
		TemplateID: s.templateID,
		Envelope:   env,
		Resource:   env.UIResource(),
		Text:       s.text,
		Diagnostic: s.diagnostic,
		CanUndo:    s.editor.CanUndo(),
		CanRedo:    s.editor.CanRedo(),
		PreviewKey: s.bridge.Key(),
		Editors:    Descriptors(env.Content.Kind()),
	}
	s.mu.Unlock()

	snap.Findings = content.Lint(env.Content)
	snap.Unread = s.bridge.Log().Unread()
	return snap
}

// Close stops the preview and drops every subscriber.
func (s *Session) Close() {
	s.bridge.Close()
	s.subMu.Lock()
	s.subs = make(map[int]func(Event))
	s.subMu.Unlock()
}
