package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/uistudio/internal/preview"
)

const consoleStyle = `body { font-family: ui-monospace, monospace; margin: 0; padding: 16px; background: #111827; color: #e5e7eb; }
h1 { font-size: 14px; color: #9ca3af; margin: 0 0 12px; }
ol { list-style: none; margin: 0; padding: 0; }
li { padding: 6px 8px; border-bottom: 1px solid #1f2937; font-size: 12px; white-space: pre-wrap; }
.time { color: #6b7280; margin-right: 8px; }
.action { color: #93c5fd; }
.error { color: #fca5a5; }
.info { color: #d1d5db; }
.empty { color: #6b7280; font-style: italic; }`

// ConsoleView renders the console entries of a session as a standalone page.
func ConsoleView(sessionID string, entries []preview.Entry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="UTF-8"><title>Console %s</title><style>%s</style></head><body>`,
			templ.EscapeString(sessionID), consoleStyle); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<h1>Console &middot; %d entries</h1>`, len(entries)); err != nil {
			return err
		}

		if len(entries) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No messages from the preview yet.</p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, "<ol>"); err != nil {
				return err
			}
			for _, e := range entries {
				if err := consoleEntry(e).Render(ctx, w); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</ol>"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func consoleEntry(e preview.Entry) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<li id="entry-%s" class="%s"><span class="time">%s</span>%s</li>`,
			templ.EscapeString(e.ID),
			templ.EscapeString(string(e.Severity)),
			e.Timestamp.Format("15:04:05.000"),
			templ.EscapeString(formatData(e.Data)))
		return err
	})
}

// formatData pretty-prints entry data. Markup is left unescaped here and
// escaped once by the caller.
func formatData(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
