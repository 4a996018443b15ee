package studio

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/conneroisu/uistudio/internal/catalog"
	"github.com/conneroisu/uistudio/internal/config"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
	"github.com/conneroisu/uistudio/internal/logging"
)

// Manager owns the open sessions of a studio server.
type Manager struct {
	catalog *catalog.Catalog
	cfg     *config.Config
	logger  logging.Logger
	newID   func() string

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager that opens sessions from cat with the
// defaults in cfg. A nil cfg selects config.Default().
func NewManager(cat *catalog.Catalog, cfg *config.Config, log logging.Logger) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		catalog:  cat,
		cfg:      cfg,
		logger:   log.WithComponent("sessions"),
		newID:    uuid.NewString,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the catalog sessions are opened from.
func (m *Manager) Catalog() *catalog.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog
}

// SetCatalog replaces the catalog new sessions are opened from. Open
// sessions keep their content.
func (m *Manager) SetCatalog(cat *catalog.Catalog) {
	m.mu.Lock()
	m.catalog = cat
	m.mu.Unlock()
	m.logger.Info(context.Background(), "catalog replaced", "templates", cat.Len())
}

// MaxSessions returns the open-session limit.
func (m *Manager) MaxSessions() int {
	if m.cfg.Studio.MaxSessions <= 0 {
		return config.Default().Studio.MaxSessions
	}
	return m.cfg.Studio.MaxSessions
}

// Create opens a session on a copy of the template's content with the
// configured default URI, encoding and adapter.
func (m *Manager) Create(templateID string) (*Session, error) {
	tmpl, err := m.Catalog().Get(templateID)
	if err != nil {
		return nil, err
	}

	env := tmpl.Envelope()
	env.URI = m.cfg.Studio.DefaultURI
	env.Encoding = m.cfg.Encoding()
	env.Adapter = m.cfg.Adapter()
	return m.Open(env, tmpl.ID)
}

// Open starts a session on env as given.
func (m *Manager) Open(env content.Envelope, templateID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.MaxSessions() {
		return nil, errors.NewValidationError(errors.ErrCodeSessionLimit,
			fmt.Sprintf("too many open sessions (limit %d)", m.MaxSessions()))
	}

	id := m.newID()
	s := NewSession(env, SessionOptions{
		ID:           id,
		TemplateID:   templateID,
		HistoryLimit: m.cfg.Studio.HistoryLimit,
		Language:     m.cfg.Language(),
		Minify:       m.cfg.Export.Minify,
		Bridge:       m.cfg.BridgeConfig(),
		Logger:       m.logger,
	})
	m.sessions[id] = s

	m.logger.Info(context.Background(), "session opened", "session", id, "template", templateID)
	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound(id)
	}
	return s, nil
}

// Close ends the session with id.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return errors.ErrSessionNotFound(id)
	}
	s.Close()
	m.logger.Info(context.Background(), "session closed", "session", id)
	return nil
}

// List returns the open session ids, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll ends every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
