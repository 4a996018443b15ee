package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/uistudio/internal/catalog"
	"github.com/conneroisu/uistudio/internal/content"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"ls"},
	Short:   "List the template catalog",
	Long: `List the templates sessions can be started from: the builtin seed
templates plus the entries of the configured catalog file.

Examples:
  uistudio templates                       # Table of every template
  uistudio ls --category "Remote DOM"      # One category
  uistudio templates -f json               # Output as JSON
  uistudio templates --format yaml         # Output as YAML`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

var (
	templatesFormat   string
	templatesCategory string
)

func init() {
	rootCmd.AddCommand(templatesCmd)

	templatesCmd.Flags().StringVarP(&templatesFormat, "format", "f", "table", "Output format (table|json|yaml)")
	templatesCmd.Flags().StringVar(&templatesCategory, "category", "", "Only list templates in this category")

	AddFlagValidation(templatesCmd.Flags(), "format", choice(outputFormats))
}

// templateRow is the listing shape shared by the json and yaml formats.
type templateRow struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Type        string `json:"type" yaml:"type"`
	Framework   string `json:"framework,omitempty" yaml:"framework,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	templates := cat.All()
	if templatesCategory != "" {
		templates = cat.InCategory(templatesCategory)
	}

	rows := make([]templateRow, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, newTemplateRow(t))
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(templatesFormat) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(rows)
	case "table", "":
		return outputTemplateTable(out, rows)
	default:
		return fmt.Errorf("unsupported format: %s", templatesFormat)
	}
}

func newTemplateRow(t catalog.Template) templateRow {
	row := templateRow{
		ID:          t.ID,
		Name:        t.Name,
		Category:    t.Category,
		Type:        string(t.Content.Kind()),
		Description: t.Description,
	}
	if rs, ok := t.Content.(content.RemoteScript); ok {
		row.Framework = string(rs.Framework)
	}
	return row
}

func outputTemplateTable(out io.Writer, rows []templateRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No templates found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTYPE")
	fmt.Fprintln(w, "--\t----\t--------\t----")
	for _, row := range rows {
		typ := row.Type
		if row.Framework != "" {
			typ += " (" + row.Framework + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.ID, row.Name, row.Category, typ)
	}
	fmt.Fprintf(w, "\nTotal: %d templates\n", len(rows))
	return w.Flush()
}
