package cmd

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/uistudio/internal/codesync"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
)

var (
	validateStrict bool
	validateFormat string
)

// errValidationFailed is returned after a report has been printed so that
// the process exits non-zero without repeating the diagnostics.
var errValidationFailed = stderrors.New("validation failed")

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an editable-text file for errors",
	Long: `Parse an editable-text file the way the studio's code editor does and
report what it finds:

- Syntax errors in the options object, with line and column
- Schema errors (missing content, unknown type, wrong field types)
- Markup warnings for raw HTML (unclosed tags, images without alt text)
- URL warnings for external pages
- Script errors for remote DOM content

Warnings never fail the command unless --strict is given.

Examples:
  uistudio validate card.ts             # Report problems
  uistudio validate card.ts --strict    # Fail on warnings too
  uistudio validate card.ts -f json     # Output the report as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")

	AddFlagValidation(validateCmd.Flags(), "format", choice([]string{"text", "json"}))
}

// FileReport is the outcome of checking one editable-text file.
type FileReport struct {
	File       string             `json:"file"`
	Type       content.Kind       `json:"type,omitempty"`
	Valid      bool               `json:"valid"`
	Diagnostic *errors.Diagnostic `json:"diagnostic,omitempty"`
	Findings   []content.Finding  `json:"findings,omitempty"`

	envelope content.Envelope
}

// Failed reports whether the file should fail a check: it did not parse or
// a finding is an error. Strict mode also fails on warnings.
func (r *FileReport) Failed(strict bool) bool {
	if !r.Valid {
		return true
	}
	for _, f := range r.Findings {
		if strict || f.Severity == content.SeverityError {
			return true
		}
	}
	return false
}

func (r *FileReport) writeText(w io.Writer) {
	if r.Diagnostic != nil {
		d := r.Diagnostic
		loc := r.File
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d:%d", r.File, d.Line, d.Column)
		}
		msg := d.Message
		if d.Field != "" {
			msg = d.Field + ": " + msg
		}
		if d.Code != "" {
			msg += " [" + d.Code + "]"
		}
		fmt.Fprintf(w, "%s: %s error: %s\n", loc, d.Kind, msg)
		return
	}

	for _, f := range r.Findings {
		loc := r.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", r.File, f.Line)
		}
		fmt.Fprintf(w, "%s: %s [%s] %s\n", loc, f.Severity, f.Rule, f.Message)
	}

	summary := "ok"
	if n := len(r.Findings); n > 0 {
		summary = fmt.Sprintf("ok with %d finding(s)", n)
	}
	fmt.Fprintf(w, "%s: %s (%s)\n", r.File, summary, r.Type)
}

// checkFile reads and parses path. I/O failures are returned as errors;
// parse and schema failures land in the report.
func checkFile(path string) (*FileReport, error) {
	text, err := readEditorText(path)
	if err != nil {
		return nil, err
	}

	report := &FileReport{File: path}
	env, err := codesync.TextToModel(text)
	if err != nil {
		report.Diagnostic = errors.ToDiagnostic(err)
		return report, nil
	}

	report.Valid = true
	report.Type = env.Content.Kind()
	report.Findings = content.Lint(env.Content)
	report.envelope = env
	return report, nil
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	report, err := checkFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(validateFormat) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	default:
		report.writeText(out)
	}

	if report.Failed(validateStrict) {
		return errValidationFailed
	}
	return nil
}
