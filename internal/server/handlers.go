package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/conneroisu/uistudio/internal/catalog"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
	"github.com/conneroisu/uistudio/internal/export"
	"github.com/conneroisu/uistudio/internal/logging"
	"github.com/conneroisu/uistudio/internal/preview"
	"github.com/conneroisu/uistudio/internal/studio"
	"github.com/conneroisu/uistudio/internal/version"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *studio.Session)

// withSession resolves the {id} path value to an open session.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"version":   version.GetShortVersion(),
		"checks": map[string]interface{}{
			"sessions":  map[string]interface{}{"status": "healthy", "open": s.sessions.Len(), "limit": s.sessions.MaxSessions()},
			"catalog":   map[string]interface{}{"status": "healthy", "templates": s.sessions.Catalog().Len()},
			"websocket": map[string]interface{}{"status": "healthy", "clients": s.Clients()},
		},
	}
	writeJSON(w, http.StatusOK, health)
}

type templateSummary struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Category      string            `json:"category"`
	Type          content.Kind      `json:"type"`
	Framework     content.Framework `json:"framework,omitempty"`
	PreviewMarkup string            `json:"previewMarkup,omitempty"`
}

func summarize(t catalog.Template) templateSummary {
	sum := templateSummary{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Category:      t.Category,
		Type:          t.Content.Kind(),
		PreviewMarkup: t.PreviewMarkup,
	}
	if rs, ok := t.Content.(content.RemoteScript); ok {
		sum.Framework = rs.Framework
	}
	return sum
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	cat := s.sessions.Catalog()

	var templates []catalog.Template
	if category := r.URL.Query().Get("category"); category != "" {
		templates = cat.InCategory(category)
	} else {
		templates = cat.All()
	}

	out := make([]templateSummary, 0, len(templates))
	for _, t := range templates {
		out = append(out, summarize(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"templates":  out,
		"categories": cat.Categories(),
	})
}

type createSessionRequest struct {
	TemplateID string `json:"templateId"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TemplateID == "" {
		writeError(w, errors.NewValidationError(errors.ErrCodeInvalidField, "templateId is required").WithField("templateId"))
		return
	}

	sess, err := s.sessions.Create(req.TemplateID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request, sess *studio.Session) {
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	var edit studio.Edit
	if err := decodeBody(r, &edit); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.Apply(edit); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type textRequest struct {
	Text string `json:"text"`
}

// handleText answers 200 even when the text does not parse; the snapshot
// carries the diagnostic and the unchanged model.
func (s *Server) handleText(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	var req textRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess.EditText(req.Text)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleUndo(w http.ResponseWriter, _ *http.Request, sess *studio.Session) {
	sess.Undo()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleRedo(w http.ResponseWriter, _ *http.Request, sess *studio.Session) {
	sess.Redo()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleCommit(w http.ResponseWriter, _ *http.Request, sess *studio.Session) {
	sess.Commit()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request, sess *studio.Session) {
	sess.Refresh()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleMessage injects a preview message, as the websocket does. It exists
// for hosts that relay iframe messages over plain HTTP.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, errors.WrapIO(err, errors.ErrCodeInternalError, "failed to read request body"))
		return
	}
	msg, err := preview.DecodeMessage(data)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Publish(msg)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	var lang export.Language
	if raw := r.URL.Query().Get("lang"); raw != "" {
		lang = export.ParseLanguage(raw)
	}

	perf := logging.StartOperation(s.logger, "export")
	art, err := sess.Export(lang)
	if err != nil {
		perf.EndWithError(r.Context(), err)
		writeError(w, err)
		return
	}
	perf.End(r.Context())

	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Type", art.MIME)
		w.Header().Set("Content-Disposition", `attachment; filename="`+art.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, art.Source); err != nil {
			s.logger.Warn(r.Context(), err, "failed to write export")
		}
		return
	}
	writeJSON(w, http.StatusOK, art)
}

func (s *Server) handleConsole(w http.ResponseWriter, _ *http.Request, sess *studio.Session) {
	entries := sess.Console()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) handleConsoleView(w http.ResponseWriter, r *http.Request, sess *studio.Session) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ConsoleView(sess.ID(), sess.Console()).Render(r.Context(), w); err != nil {
		s.logger.Warn(context.Background(), err, "failed to render console view", "session", sess.ID())
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeInvalidField, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.CodeOf(err) == errors.ErrCodeSessionLimit:
		return http.StatusTooManyRequests
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsValidation(err), errors.IsParse(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]interface{}{
		"error": errors.ToDiagnostic(err),
	})
}
