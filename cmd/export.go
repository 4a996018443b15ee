package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/uistudio/internal/codesync"
	"github.com/conneroisu/uistudio/internal/config"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
	"github.com/conneroisu/uistudio/internal/export"
	"github.com/conneroisu/uistudio/internal/validation"
)

var exportCmd = &cobra.Command{
	Use:   "export <template-id | file>",
	Short: "Generate handler code for a template or an editable-text file",
	Long: `Generate MCP handler source for a UI resource.

The argument is either an editable-text file (the options object shown in
the studio's code editor) or the id of a catalog template. Language,
encoding and adapter default to the studio configuration.

Examples:
  uistudio export product-cards                   # TypeScript to stdout
  uistudio export card.ts --lang python -o h.py   # Python to a file
  uistudio export remote-dom-card --adapter apps  # Generic apps adapter
  uistudio export chatgpt-button --encoding blob  # Base64 blob resource`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportFlags *ExportFlags

func init() {
	rootCmd.AddCommand(exportCmd)
	exportFlags = AddExportFlags(exportCmd, "-")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	env, err := resolveEnvelope(args[0], cfg)
	if err != nil {
		return err
	}
	artifact, err := generate(env, exportFlags, cfg)
	if err != nil {
		return err
	}
	return writeArtifact(cmd.OutOrStdout(), exportFlags, artifact)
}

// resolveEnvelope reads arg as an editable-text file when one exists and
// otherwise looks it up in the catalog.
func resolveEnvelope(arg string, cfg *config.Config) (content.Envelope, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return readEnvelope(arg, cfg)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return content.Envelope{}, err
	}
	tmpl, err := cat.Get(arg)
	if err != nil {
		return content.Envelope{}, fmt.Errorf("no file or template named %q: %w", arg, err)
	}
	env := tmpl.Envelope()
	env.URI = cfg.Studio.DefaultURI
	env.Encoding = cfg.Encoding()
	env.Adapter = cfg.Adapter()
	return env, nil
}

// readEnvelope parses an editable-text file. The text never carries an
// adapter, so the configured default is attached.
func readEnvelope(path string, cfg *config.Config) (content.Envelope, error) {
	text, err := readEditorText(path)
	if err != nil {
		return content.Envelope{}, err
	}
	env, err := codesync.TextToModel(text)
	if err != nil {
		return content.Envelope{}, fmt.Errorf("%s: %w", path, err)
	}
	env.Adapter = cfg.Adapter()
	return env, nil
}

// readEditorText reads an editable-text file with control characters other
// than whitespace removed.
func readEditorText(path string) (string, error) {
	if err := validation.ValidatePath(path); err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if err := validation.ValidateFileExtension(path, validation.EditorTextExtensions); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapIO(err, errors.ErrCodeFileNotFound, "read "+path)
	}
	return validation.SanitizeInput(string(data)), nil
}

func generate(env content.Envelope, flags *ExportFlags, cfg *config.Config) (export.Artifact, error) {
	opts, err := flags.Options(env, cfg)
	if err != nil {
		return export.Artifact{}, err
	}
	artifact, err := export.GenerateWith(opts)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("failed to generate %s handler: %w", opts.Language, err)
	}
	return artifact, nil
}

func writeArtifact(out io.Writer, flags *ExportFlags, artifact export.Artifact) error {
	if flags.ToStdout() {
		_, err := io.WriteString(out, artifact.Source)
		return err
	}
	if err := validation.ValidatePath(flags.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.WriteFile(flags.Out, []byte(artifact.Source), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.Out, err)
	}
	fmt.Fprintf(out, "Wrote %s handler to %s\n", artifact.Language, flags.Out)
	return nil
}
