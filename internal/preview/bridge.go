// Package preview connects the authored resource to the live renderer and
// collects the messages the rendered UI sends back.
//
// The Bridge forwards the active payload to a Renderer under a
// content-derived key, listens on an injected MessageChannel for the
// lifetime between Start and Close, filters messages through a Policy and
// appends the accepted ones to a console Log.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/logging"
)

// Default sandbox permissions for framed previews. External URLs also get
// allow-same-origin so the framed site can use its own storage.
const (
	DefaultHTMLSandbox = "allow-scripts allow-forms allow-modals allow-popups"
	DefaultURLSandbox  = "allow-scripts allow-forms allow-same-origin allow-modals allow-popups"
)

// DefaultRemoteElements is the component vocabulary offered to remote DOM
// scripts.
var DefaultRemoteElements = []string{"ui-button", "ui-text"}

// Props are the renderer options that accompany a view.
type Props struct {
	Sandbox        string   `json:"sandboxPermissions,omitempty"`
	RemoteElements []string `json:"remoteElements,omitempty"`
}

// View is what the renderer is asked to show.
type View struct {
	// Key identifies the mounted instance; a new key means remount.
	Key      string           `json:"key"`
	Resource content.Resource `json:"resource"`
	Props    Props            `json:"props"`
	// Remount is true when Key differs from the previous view's key.
	Remount bool `json:"remount"`
}

// Renderer displays views. Implementations must not call back into the
// Bridge from Render.
type Renderer interface {
	Render(v View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

// Render implements Renderer.
func (f RendererFunc) Render(v View) { f(v) }

// Config holds the bridge policy and presentation settings. Zero values
// select the defaults above.
type Config struct {
	Policy         *Policy
	HTMLSandbox    string
	URLSandbox     string
	RemoteElements []string
	// Clock timestamps console entries.
	Clock func() time.Time
	// OnEntry is called after an accepted message is logged.
	OnEntry func(Entry)
	Logger  logging.Logger
}

// Bridge forwards the model to the renderer and records preview messages.
type Bridge struct {
	renderer Renderer
	channel  MessageChannel
	policy   Policy
	props    func(content.Payload) Props
	onEntry  func(Entry)
	logger   logging.Logger
	log      *Log

	mu          sync.Mutex
	unsubscribe func()
	env         content.Envelope
	hasEnv      bool
	refresh     int
	last        View
	rendered    bool
}

// NewBridge creates a bridge. r and ch may be nil for a headless bridge.
func NewBridge(r Renderer, ch MessageChannel, cfg Config) *Bridge {
	policy := DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	htmlSandbox := cfg.HTMLSandbox
	if htmlSandbox == "" {
		htmlSandbox = DefaultHTMLSandbox
	}
	urlSandbox := cfg.URLSandbox
	if urlSandbox == "" {
		urlSandbox = DefaultURLSandbox
	}
	elements := cfg.RemoteElements
	if len(elements) == 0 {
		elements = DefaultRemoteElements
	}
	elements = append([]string(nil), elements...)

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Bridge{
		renderer: r,
		channel:  ch,
		policy:   policy,
		props: func(p content.Payload) Props {
			switch p.(type) {
			case content.ExternalURL:
				return Props{Sandbox: urlSandbox}
			case content.RemoteScript:
				return Props{RemoteElements: append([]string(nil), elements...)}
			default:
				return Props{Sandbox: htmlSandbox}
			}
		},
		onEntry: cfg.OnEntry,
		logger:  logger.WithComponent("preview"),
		log:     NewLog(cfg.Clock),
	}
}

// Start subscribes to the message channel. Calling Start twice is a no-op.
func (b *Bridge) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe != nil || b.channel == nil {
		return
	}
	b.unsubscribe = b.channel.Subscribe(func(m Message) { b.Handle(m) })
}

// Close unsubscribes from the message channel.
func (b *Bridge) Close() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Update forwards env to the renderer. Nothing is rendered when the view
// would be identical to the last one.
func (b *Bridge) Update(env content.Envelope) {
	b.mu.Lock()
	b.env = env.Clone()
	b.hasEnv = true
	v, changed := b.viewLocked()
	b.mu.Unlock()

	if changed && b.renderer != nil {
		b.renderer.Render(v)
	}
}

// Refresh forces a remount of the current view and clears the console.
func (b *Bridge) Refresh() {
	b.log.Clear()

	b.mu.Lock()
	b.refresh++
	if !b.hasEnv {
		b.mu.Unlock()
		return
	}
	v, changed := b.viewLocked()
	b.mu.Unlock()

	if changed && b.renderer != nil {
		b.renderer.Render(v)
	}
}

// View returns the last computed view and whether one exists.
func (b *Bridge) View() (View, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.rendered
}

// Key returns the current cache key.
func (b *Bridge) Key() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return CacheKey(b.env.Content, b.refresh)
}

func (b *Bridge) viewLocked() (View, bool) {
	key := CacheKey(b.env.Content, b.refresh)
	v := View{
		Key:      key,
		Resource: b.env.Resource(),
		Props:    b.props(b.env.Content),
		Remount:  !b.rendered || key != b.last.Key,
	}
	if b.rendered && !v.Remount && v.Resource == b.last.Resource {
		return b.last, false
	}
	b.last = v
	b.rendered = true
	return v, true
}

// Handle applies the policy to m and logs it when accepted. It reports
// whether the message was logged. Handle is safe to call from any goroutine.
func (b *Bridge) Handle(m Message) bool {
	if !b.policy.Accept(m) {
		b.logger.Debug(context.Background(), "preview message ignored", "channel", m.Channel)
		return false
	}
	e := b.log.Append(SeverityAction, m.Channel, m.Data)
	b.logger.Debug(context.Background(), "preview message logged", "channel", m.Channel, "id", e.ID)
	if b.onEntry != nil {
		b.onEntry(e)
	}
	return true
}

// Report appends a studio-originated entry, such as an error raised while
// handling a preview frame.
func (b *Bridge) Report(sev Severity, data interface{}) Entry {
	e := b.log.Append(sev, "", data)
	if b.onEntry != nil {
		b.onEntry(e)
	}
	return e
}

// Log returns the console.
func (b *Bridge) Log() *Log {
	return b.log
}
