// Package config provides configuration management for the studio using
// Viper for loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports a .uistudio.yml file, environment
// variable overrides with the UISTUDIO_ prefix, defaults, and validation. It
// covers the HTTP server, editing defaults, preview message policy, the
// template catalog, export naming, and logging.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/export"
	"github.com/conneroisu/uistudio/internal/preview"
)

// EnvPrefix is the prefix of environment overrides, e.g. UISTUDIO_SERVER_PORT.
const EnvPrefix = "UISTUDIO"

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Studio  StudioConfig  `mapstructure:"studio" yaml:"studio"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type StudioConfig struct {
	DefaultURI      string `mapstructure:"default_uri" yaml:"default_uri"`
	DefaultEncoding string `mapstructure:"default_encoding" yaml:"default_encoding"`
	DefaultLanguage string `mapstructure:"default_language" yaml:"default_language"`
	DefaultAdapter  string `mapstructure:"default_adapter" yaml:"default_adapter"`
	HistoryLimit    int    `mapstructure:"history_limit" yaml:"history_limit"`
	MaxSessions     int    `mapstructure:"max_sessions" yaml:"max_sessions"`
}

type PreviewConfig struct {
	AcceptedTypes         []string `mapstructure:"accepted_types" yaml:"accepted_types"`
	IgnoredSourcePrefixes []string `mapstructure:"ignored_source_prefixes" yaml:"ignored_source_prefixes"`
	IgnoredTypePrefixes   []string `mapstructure:"ignored_type_prefixes" yaml:"ignored_type_prefixes"`
	HTMLSandbox           string   `mapstructure:"html_sandbox" yaml:"html_sandbox"`
	URLSandbox            string   `mapstructure:"url_sandbox" yaml:"url_sandbox"`
	RemoteElements        []string `mapstructure:"remote_elements" yaml:"remote_elements"`
}

type CatalogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

type ExportConfig struct {
	Minify bool `mapstructure:"minify" yaml:"minify"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers every default with v so that environment overrides
// of unset keys are honoured by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("studio.default_uri", d.Studio.DefaultURI)
	v.SetDefault("studio.default_encoding", d.Studio.DefaultEncoding)
	v.SetDefault("studio.default_language", d.Studio.DefaultLanguage)
	v.SetDefault("studio.default_adapter", d.Studio.DefaultAdapter)
	v.SetDefault("studio.history_limit", d.Studio.HistoryLimit)
	v.SetDefault("studio.max_sessions", d.Studio.MaxSessions)
	v.SetDefault("preview.accepted_types", d.Preview.AcceptedTypes)
	v.SetDefault("preview.ignored_source_prefixes", d.Preview.IgnoredSourcePrefixes)
	v.SetDefault("preview.ignored_type_prefixes", d.Preview.IgnoredTypePrefixes)
	v.SetDefault("preview.html_sandbox", d.Preview.HTMLSandbox)
	v.SetDefault("preview.url_sandbox", d.Preview.URLSandbox)
	v.SetDefault("preview.remote_elements", d.Preview.RemoteElements)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("catalog.watch", d.Catalog.Watch)
	v.SetDefault("export.minify", d.Export.Minify)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// ConfigureEnv enables UISTUDIO_ environment overrides on v, mapping
// nested keys with underscores (server.port becomes UISTUDIO_SERVER_PORT).
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Default returns the built-in configuration.
func Default() *Config {
	policy := preview.DefaultPolicy()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "localhost",
			AllowedOrigins:  []string{},
			ShutdownTimeout: 5 * time.Second,
		},
		Studio: StudioConfig{
			DefaultURI:      content.DefaultURI,
			DefaultEncoding: string(content.EncodingText),
			DefaultLanguage: string(export.TypeScript),
			DefaultAdapter:  string(adapter.TypeNone),
			HistoryLimit:    100,
			MaxSessions:     64,
		},
		Preview: PreviewConfig{
			AcceptedTypes:         policy.AcceptedTypes,
			IgnoredSourcePrefixes: policy.IgnoredSourcePrefixes,
			IgnoredTypePrefixes:   policy.IgnoredTypePrefixes,
			HTMLSandbox:           preview.DefaultHTMLSandbox,
			URLSandbox:            preview.DefaultURLSandbox,
			RemoteElements:        append([]string(nil), preview.DefaultRemoteElements...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals v, fills unset values with defaults and validates the
// result.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults fills zero values left by a viper instance without
// registered defaults.
func applyDefaults(config *Config) {
	d := Default()

	if config.Server.Host == "" {
		config.Server.Host = d.Server.Host
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if config.Server.AllowedOrigins == nil {
		config.Server.AllowedOrigins = d.Server.AllowedOrigins
	}

	if config.Studio.DefaultURI == "" {
		config.Studio.DefaultURI = d.Studio.DefaultURI
	}
	if config.Studio.DefaultEncoding == "" {
		config.Studio.DefaultEncoding = d.Studio.DefaultEncoding
	}
	if config.Studio.DefaultLanguage == "" {
		config.Studio.DefaultLanguage = d.Studio.DefaultLanguage
	}
	if config.Studio.DefaultAdapter == "" {
		config.Studio.DefaultAdapter = d.Studio.DefaultAdapter
	}
	if config.Studio.HistoryLimit == 0 {
		config.Studio.HistoryLimit = d.Studio.HistoryLimit
	}
	if config.Studio.MaxSessions == 0 {
		config.Studio.MaxSessions = d.Studio.MaxSessions
	}

	// A nil slice means unset; an explicit empty list is kept and rejected
	// by validation for accepted_types.
	if config.Preview.AcceptedTypes == nil {
		config.Preview.AcceptedTypes = d.Preview.AcceptedTypes
	}
	if config.Preview.IgnoredSourcePrefixes == nil {
		config.Preview.IgnoredSourcePrefixes = d.Preview.IgnoredSourcePrefixes
	}
	if config.Preview.IgnoredTypePrefixes == nil {
		config.Preview.IgnoredTypePrefixes = d.Preview.IgnoredTypePrefixes
	}
	if config.Preview.HTMLSandbox == "" {
		config.Preview.HTMLSandbox = d.Preview.HTMLSandbox
	}
	if config.Preview.URLSandbox == "" {
		config.Preview.URLSandbox = d.Preview.URLSandbox
	}
	if len(config.Preview.RemoteElements) == 0 {
		config.Preview.RemoteElements = d.Preview.RemoteElements
	}

	if config.Log.Level == "" {
		config.Log.Level = d.Log.Level
	}
	if config.Log.Format == "" {
		config.Log.Format = d.Log.Format
	}
	config.Log.Level = strings.ToLower(config.Log.Level)
	config.Log.Format = strings.ToLower(config.Log.Format)
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Policy converts the preview section into a message policy.
func (c *Config) Policy() preview.Policy {
	return preview.Policy{
		AcceptedTypes:         append([]string(nil), c.Preview.AcceptedTypes...),
		IgnoredSourcePrefixes: append([]string(nil), c.Preview.IgnoredSourcePrefixes...),
		IgnoredTypePrefixes:   append([]string(nil), c.Preview.IgnoredTypePrefixes...),
	}
}

// BridgeConfig returns the preview bridge settings for a session.
func (c *Config) BridgeConfig() preview.Config {
	policy := c.Policy()
	return preview.Config{
		Policy:         &policy,
		HTMLSandbox:    c.Preview.HTMLSandbox,
		URLSandbox:     c.Preview.URLSandbox,
		RemoteElements: append([]string(nil), c.Preview.RemoteElements...),
	}
}

// Language returns the default export language.
func (c *Config) Language() export.Language {
	return export.ParseLanguage(c.Studio.DefaultLanguage)
}

// Encoding returns the default envelope encoding. Validation guarantees it
// parses.
func (c *Config) Encoding() content.Encoding {
	enc, err := content.ParseEncoding(c.Studio.DefaultEncoding)
	if err != nil {
		return content.EncodingText
	}
	return enc
}

// Adapter returns the default adapter configuration for new sessions.
func (c *Config) Adapter() adapter.Config {
	t, err := adapter.ParseType(c.Studio.DefaultAdapter)
	if err != nil {
		return adapter.None()
	}
	return adapter.Defaults(t)
}
