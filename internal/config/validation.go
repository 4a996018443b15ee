package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/logging"
	"github.com/conneroisu/uistudio/internal/validation"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("❌ Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("⚠️  Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

// validateConfig returns the first hard error found in config.
func validateConfig(config *Config) error {
	result := ValidateConfigWithDetails(config)
	if !result.HasErrors() {
		return nil
	}
	first := result.Errors[0]
	return &first
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateServerConfigDetails(&config.Server, result)
	validateStudioConfigDetails(&config.Studio, result)
	validatePreviewConfigDetails(&config.Preview, result)
	validateCatalogConfigDetails(&config.Catalog, result)
	validateLogConfigDetails(&config.Log, result)

	result.Valid = !result.HasErrors()
	return result
}

func validateServerConfigDetails(config *ServerConfig, result *ValidationResult) {
	if config.Port < 0 || config.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			Suggestions: []string{
				"Use a port between 1024-65535 for non-privileged access",
				"Port 0 allows system to assign an available port",
			},
		})
	} else if config.Port > 0 && config.Port < 1024 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: "port below 1024 requires elevated privileges",
			Suggestions: []string{
				"Consider using a port above 1024 for development",
			},
		})
	}

	if config.Host != "" {
		if err := validation.ValidateHost(config.Host); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.host",
				Value:   config.Host,
				Message: err.Error(),
				Suggestions: []string{
					"Use 'localhost' for local development",
					"Use '0.0.0.0' to bind to all interfaces",
				},
			})
		}
	}

	for _, origin := range config.AllowedOrigins {
		if err := validation.ValidateOriginEntry(origin); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.allowed_origins",
				Value:   origin,
				Message: err.Error(),
				Suggestions: []string{
					"Use a full origin such as https://studio.example.com",
				},
			})
		} else if origin == "*" {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "server.allowed_origins",
				Value:   origin,
				Message: "every origin may open a websocket to the studio",
				Suggestions: []string{
					"List the origins that embed the studio instead",
				},
			})
		}
	}

	if config.ShutdownTimeout < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.shutdown_timeout",
			Value:   config.ShutdownTimeout,
			Message: "shutdown timeout cannot be negative",
		})
	}
}

func validateStudioConfigDetails(config *StudioConfig, result *ValidationResult) {
	if strings.TrimSpace(config.DefaultURI) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "studio.default_uri",
			Value:   config.DefaultURI,
			Message: "default URI cannot be empty",
			Suggestions: []string{
				"Use " + content.DefaultURI,
			},
		})
	} else if !strings.HasPrefix(config.DefaultURI, "ui://") {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "studio.default_uri",
			Value:   config.DefaultURI,
			Message: "hosts expect UI resource URIs to use the ui:// scheme",
		})
	}

	if _, err := content.ParseEncoding(config.DefaultEncoding); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "studio.default_encoding",
			Value:   config.DefaultEncoding,
			Message: fmt.Sprintf("unknown encoding '%s'", config.DefaultEncoding),
			Suggestions: []string{
				"Available encodings: text, blob",
			},
		})
	}

	switch strings.ToLower(strings.TrimSpace(config.DefaultLanguage)) {
	case "typescript", "ts", "python", "py", "ruby", "rb":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "studio.default_language",
			Value:   config.DefaultLanguage,
			Message: fmt.Sprintf("unknown export language '%s'", config.DefaultLanguage),
			Suggestions: []string{
				"Available languages: typescript, python, ruby",
			},
		})
	}

	if _, err := adapter.ParseType(config.DefaultAdapter); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "studio.default_adapter",
			Value:   config.DefaultAdapter,
			Message: err.Error(),
			Suggestions: []string{
				"Available adapters: none, chatgpt, apps",
			},
		})
	}

	if config.HistoryLimit < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "studio.history_limit",
			Value:   config.HistoryLimit,
			Message: "history limit cannot be negative",
		})
	}

	if config.MaxSessions < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "studio.max_sessions",
			Value:   config.MaxSessions,
			Message: "max sessions cannot be negative",
			Suggestions: []string{
				"Use 0 to keep the default limit",
			},
		})
	}
}

func validatePreviewConfigDetails(config *PreviewConfig, result *ValidationResult) {
	if len(config.AcceptedTypes) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "preview.accepted_types",
			Value:   config.AcceptedTypes,
			Message: "at least one message type must be accepted",
			Suggestions: []string{
				"Use the defaults: tool, intent",
			},
		})
	}
	for _, typ := range config.AcceptedTypes {
		if strings.TrimSpace(typ) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "preview.accepted_types",
				Value:   typ,
				Message: "message types cannot be blank",
			})
		}
	}

	for _, prefix := range config.IgnoredTypePrefixes {
		if containsPrefixOf(config.AcceptedTypes, prefix) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "preview.ignored_type_prefixes",
				Value:   prefix,
				Message: fmt.Sprintf("prefix '%s' hides an accepted message type", prefix),
			})
		}
	}

	if !strings.Contains(config.HTMLSandbox, "allow-scripts") {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "preview.html_sandbox",
			Value:   config.HTMLSandbox,
			Message: "markup previews cannot run scripts without allow-scripts",
		})
	}
	if strings.Contains(config.HTMLSandbox, "allow-same-origin") && strings.Contains(config.HTMLSandbox, "allow-scripts") {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "preview.html_sandbox",
			Value:   config.HTMLSandbox,
			Message: "allow-scripts with allow-same-origin lets previewed markup escape the sandbox",
		})
	}
}

func validateCatalogConfigDetails(config *CatalogConfig, result *ValidationResult) {
	if config.Path == "" {
		if config.Watch {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "catalog.watch",
				Value:   config.Watch,
				Message: "watch has no effect without catalog.path",
			})
		}
		return
	}

	if err := validation.ValidatePath(config.Path); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "catalog.path",
			Value:   config.Path,
			Message: err.Error(),
			Suggestions: []string{
				"Use a path inside the project, e.g. ./templates.yaml",
			},
		})
		return
	}

	if err := validation.ValidateFileExtension(config.Path, validation.CatalogExtensions); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "catalog.path",
			Value:   config.Path,
			Message: err.Error(),
			Suggestions: []string{
				"Catalogs are YAML files ending in .yaml or .yml",
			},
		})
		return
	}

	if !pathExists(config.Path) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "catalog.path",
			Value:   config.Path,
			Message: "catalog file does not exist",
		})
	}
}

func validateLogConfigDetails(config *LogConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log.level",
			Value:   config.Level,
			Message: err.Error(),
		})
	}
	if config.Format != "text" && config.Format != "json" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log.format",
			Value:   config.Format,
			Message: fmt.Sprintf("unknown log format '%s'", config.Format),
			Suggestions: []string{
				"Available formats: text, json",
			},
		})
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func containsPrefixOf(slice []string, prefix string) bool {
	for _, s := range slice {
		if prefix != "" && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
