// Package internal contains the core implementation packages for uistudio.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the functionality behind the uistudio CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - content: Payload variants, envelopes, renderer resources and lint findings
//   - adapter: Host adapter metadata and its typed field setter
//   - export: Handler code generation for TypeScript, Python and Ruby
//   - editor: Visual editor state with undo and redo history
//   - codesync: Editable text rendering and parsing
//   - preview: Preview bridge, message channel, policy and console log
//   - catalog: Builtin and YAML-loaded templates
//   - studio: Sessions tying the editor, code sync and preview together
//   - server: HTTP API, websocket transport and console view
//   - watcher: File system monitoring with debouncing
//   - config, logging, errors, validation, version: Ambient support
//
// # Data Flow
//
// A session owns one envelope. Visual edits go through the editor, text
// edits go through codesync, and both end in the same change callback:
//
//   - The editor records history and reports the new envelope
//   - The session regenerates the editable text and updates the preview
//   - Subscribers (websocket clients) receive envelope, text and preview
//     events, then a history event, in that order
//   - Export reads the current envelope and never mutates it
//
// Text that does not parse never reaches the editor; callers get a
// diagnostic and the previous model stays in place.
//
// For detailed documentation, see the individual package documentation.
package internal
