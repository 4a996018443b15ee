package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/config"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/export"
)

var (
	outputFormats   = []string{"table", "json", "yaml"}
	exportLanguages = []string{"typescript", "ts", "python", "py", "ruby", "rb"}
	adapterTypes    = []string{"none", "chatgpt", "apps"}
	encodings       = []string{"text", "blob"}
)

// ExportFlags are the generation options shared by export and watch.
type ExportFlags struct {
	Lang     string
	Encoding string
	Adapter  string
	Out      string
	Minify   bool
}

// AddExportFlags registers the generation flags on cmd. Empty values fall
// back to the configured defaults.
func AddExportFlags(cmd *cobra.Command, out string) *ExportFlags {
	flags := &ExportFlags{}
	fs := cmd.Flags()

	fs.StringVar(&flags.Lang, "lang", "", "Export language (typescript|python|ruby)")
	fs.StringVar(&flags.Encoding, "encoding", "", "Resource encoding (text|blob)")
	fs.StringVar(&flags.Adapter, "adapter", "", "Host adapter (none|chatgpt|apps)")
	fs.StringVarP(&flags.Out, "out", "o", out, "Output file, - for stdout")
	fs.BoolVar(&flags.Minify, "minify", false, "Minify remote-DOM scripts")

	AddFlagValidation(fs, "lang", choice(exportLanguages))
	AddFlagValidation(fs, "encoding", choice(encodings))
	AddFlagValidation(fs, "adapter", choice(adapterTypes))

	return flags
}

// Options builds generation options for env. Flags that were set override
// the envelope and cfg.
func (f *ExportFlags) Options(env content.Envelope, cfg *config.Config) (export.Options, error) {
	lang := cfg.Language()
	if f.Lang != "" {
		lang = export.ParseLanguage(f.Lang)
	}
	if f.Encoding != "" {
		enc, err := content.ParseEncoding(f.Encoding)
		if err != nil {
			return export.Options{}, err
		}
		env.Encoding = enc
	}
	if f.Adapter != "" {
		t, err := adapter.ParseType(f.Adapter)
		if err != nil {
			return export.Options{}, err
		}
		env.Adapter = adapter.Defaults(t)
	}

	opts := export.FromEnvelope(env, lang)
	opts.Minify = f.Minify || cfg.Export.Minify
	return opts, nil
}

// ToStdout reports whether output goes to standard output.
func (f *ExportFlags) ToStdout() bool {
	return f.Out == "" || f.Out == "-"
}

// AddFlagValidation wraps a flag so that values are checked as they are parsed.
func AddFlagValidation(fs *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := fs.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: flag.Value.Set,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// ValidateFormat checks value against the allowed list, case-insensitively.
func ValidateFormat(value string, allowed []string) error {
	if slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return fmt.Errorf("invalid value %q, must be one of: %s", value, strings.Join(allowed, ", "))
}

func choice(allowed []string) func(string) error {
	return func(value string) error {
		return ValidateFormat(value, allowed)
	}
}

// ValidatePort checks that portStr is a usable TCP port.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	return nil
}

// changedFlags lists the flags set on the command line, for debug logging.
func changedFlags(cmd *cobra.Command) []string {
	var names []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		names = append(names, f.Name+"="+f.Value.String())
	})
	return names
}
