// Package editor implements the visual editor state machine: the single
// authoritative copy of a resource being authored, its structured field
// edits, and the undo/redo history over whole-state snapshots.
//
// Structural edits (URI, encoding, content type, framework, adapter) each
// record one snapshot. Keystroke edits to the free-text fields (markup, URL,
// script) are coalesced: the state before the first keystroke of a run is
// held as pending and only recorded when the run is committed, either
// explicitly through CommitEdit or implicitly by the next structural edit,
// undo or redo. An uncommitted run that touched the iframe URL is the
// exception: undo treats it as part of the step it follows, so switching to
// an external URL and typing one is undone in one step.
//
// An Editor is not safe for concurrent use; callers serialize access.
package editor

import (
	"context"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
	"github.com/conneroisu/uistudio/internal/logging"
)

// DefaultHistoryLimit bounds the undo stack when Config leaves it unset.
const DefaultHistoryLimit = 100

// Config wires an Editor to its observers.
type Config struct {
	// OnChange receives the derived envelope after every state change.
	OnChange func(content.Envelope)
	// OnHistoryChange fires whenever CanUndo or CanRedo flips.
	OnHistoryChange func(canUndo, canRedo bool)
	// HistoryLimit caps the undo stack. Zero selects DefaultHistoryLimit and
	// a negative value disables the cap.
	HistoryLimit int
	Logger       logging.Logger
}

// Editor owns the authoritative resource state.
type Editor struct {
	cur     state
	pending *state
	// foldRun marks a pending run that undo merges into the previous step.
	foldRun bool
	hist    history

	onChange  func(content.Envelope)
	onHistory func(canUndo, canRedo bool)
	canUndo   bool
	canRedo   bool
	logger    logging.Logger
}

// New creates an editor seeded from env with empty history.
func New(env content.Envelope, cfg Config) *Editor {
	limit := cfg.HistoryLimit
	switch {
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit < 0:
		limit = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Editor{
		cur:       stateFrom(env),
		hist:      history{limit: limit},
		onChange:  cfg.OnChange,
		onHistory: cfg.OnHistoryChange,
		logger:    logger.WithComponent("editor"),
	}
}

// Envelope returns the current derived envelope.
func (e *Editor) Envelope() content.Envelope {
	return e.cur.envelope()
}

// CanUndo reports whether Undo would change the state. An uncommitted
// keystroke run counts as undoable.
func (e *Editor) CanUndo() bool {
	return len(e.hist.undo) > 0 || e.pending != nil
}

// CanRedo reports whether Redo would change the state.
func (e *Editor) CanRedo() bool {
	return len(e.hist.redo) > 0 && e.pending == nil
}

// Cached returns the last value entered for kind, whether or not it is
// active.
func (e *Editor) Cached(kind content.Kind) content.Payload {
	s := e.cur
	s.kind = kind
	return s.payload()
}

// Load replaces the whole state with env and clears history, as when a new
// template is selected.
func (e *Editor) Load(env content.Envelope) {
	e.cur = stateFrom(env)
	e.pending, e.foldRun = nil, false
	e.hist.reset()
	e.emit()
}

// SetURI sets the resource identifier.
func (e *Editor) SetURI(uri string) {
	e.structural(func(s *state) { s.uri = uri })
}

// SetEncoding sets the payload encoding. Unknown values fall back to text.
func (e *Editor) SetEncoding(enc content.Encoding) {
	if enc != content.EncodingBlob {
		enc = content.EncodingText
	}
	e.structural(func(s *state) { s.encoding = enc })
}

// SetContentType switches the active payload variant. The other variants
// keep their cached values.
func (e *Editor) SetContentType(kind content.Kind) {
	if _, err := content.ParseKind(string(kind)); err != nil {
		e.logger.Warn(context.Background(), err, "ignoring unknown content type")
		return
	}
	e.structural(func(s *state) { s.kind = kind })
}

// SetIframeURL updates the external URL without recording history. Undo
// folds the run into the step before it.
func (e *Editor) SetIframeURL(url string) {
	e.keystroke(func(s *state) { s.url = url })
	e.foldRun = true
}

// SetFramework sets the remote-DOM framework.
func (e *Editor) SetFramework(fw content.Framework) {
	if _, err := content.ParseFramework(string(fw)); err != nil {
		e.logger.Warn(context.Background(), err, "ignoring unknown framework")
		return
	}
	e.structural(func(s *state) { s.framework = fw })
}

// SetAdapterType switches the adapter and re-initializes its defaults.
func (e *Editor) SetAdapterType(t adapter.Type) {
	e.structural(func(s *state) { s.adapter = adapter.Defaults(t) })
}

// SetAdapterField edits one field of the active adapter. A field that does
// not exist on that adapter, or a value of the wrong shape, is rejected with
// the state and history untouched.
func (e *Editor) SetAdapterField(field adapter.Field, value interface{}) error {
	next := e.cur.adapter.Clone()
	if err := next.Set(field, value); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeAdapterField, err.Error()).
			WithField(string(field))
	}
	e.structural(func(s *state) { s.adapter = next })
	return nil
}

// SetHTMLString updates the markup body without recording history.
func (e *Editor) SetHTMLString(markup string) {
	e.keystroke(func(s *state) { s.html = markup })
}

// SetScript updates the remote-DOM script without recording history.
func (e *Editor) SetScript(script string) {
	e.keystroke(func(s *state) { s.script = script })
}

// ApplyEnvelope merges an envelope produced by the code editor. It behaves
// like a keystroke edit: the change joins the pending run and is recorded on
// the next commit. Cached values of inactive variants survive.
func (e *Editor) ApplyEnvelope(env content.Envelope) {
	e.keystroke(func(s *state) {
		s.uri = env.URI
		s.encoding = env.Encoding
		if s.encoding != content.EncodingBlob {
			s.encoding = content.EncodingText
		}
		s.absorb(env.Content)
		s.adapter = env.Adapter.Clone()
		if s.adapter.Type == "" {
			s.adapter = adapter.None()
		}
	})
}

// BeginEdit marks the start of a keystroke run. It is optional: the first
// keystroke edit opens a run implicitly.
func (e *Editor) BeginEdit() {
	if e.pending == nil {
		snap := e.cur.clone()
		e.pending = &snap
	}
	e.notifyHistory()
}

// CommitEdit closes the current keystroke run, recording the state captured
// before it. A run that changed nothing records nothing.
func (e *Editor) CommitEdit() {
	e.commitPending()
	e.notifyHistory()
}

// Undo commits any uncommitted run and restores the snapshot before it, so
// one undo reverts one step. A run that touched the iframe URL is discarded
// along with the step it follows instead. The replaced state is always
// redoable.
func (e *Editor) Undo() {
	if e.pending != nil && e.foldRun {
		before := *e.pending
		e.pending, e.foldRun = nil, false
		if !before.equal(e.cur) {
			e.hist.clearRedo()
			if len(e.hist.undo) == 0 {
				e.hist.redo = append(e.hist.redo, e.cur.clone())
				e.cur = before
				e.emit()
				return
			}
		}
	}
	e.commitPending()
	prev, ok := e.hist.popUndo()
	if !ok {
		e.notifyHistory()
		return
	}
	e.hist.redo = append(e.hist.redo, e.cur.clone())
	e.cur = prev
	e.emit()
}

// Redo re-applies the most recently undone snapshot. It is a no-op when
// there is none.
func (e *Editor) Redo() {
	e.commitPending()
	next, ok := e.hist.popRedo()
	if !ok {
		e.notifyHistory()
		return
	}
	e.hist.push(e.cur.clone())
	e.cur = next
	e.emit()
}

func (e *Editor) structural(mutate func(*state)) {
	e.commitPending()
	e.hist.push(e.cur.clone())
	e.hist.clearRedo()
	mutate(&e.cur)
	e.emit()
}

func (e *Editor) keystroke(mutate func(*state)) {
	if e.pending == nil {
		snap := e.cur.clone()
		e.pending = &snap
	}
	mutate(&e.cur)
	e.emit()
}

func (e *Editor) commitPending() {
	if e.pending == nil {
		return
	}
	before := *e.pending
	e.pending, e.foldRun = nil, false
	if before.equal(e.cur) {
		return
	}
	e.hist.push(before)
	e.hist.clearRedo()
}

func (e *Editor) emit() {
	if e.onChange != nil {
		e.onChange(e.cur.envelope())
	}
	e.notifyHistory()
}

func (e *Editor) notifyHistory() {
	canUndo, canRedo := e.CanUndo(), e.CanRedo()
	if canUndo == e.canUndo && canRedo == e.canRedo {
		return
	}
	e.canUndo, e.canRedo = canUndo, canRedo
	if e.onHistory != nil {
		e.onHistory(canUndo, canRedo)
	}
}
