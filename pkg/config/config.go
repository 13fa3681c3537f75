// Package config loads command line and server settings from defaults, a
// YAML file, FORMDESCRIPTOR_ environment variables and flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
)

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "formdescriptor.yaml"

// EnvPrefix prefixes environment overrides: FORMDESCRIPTOR_LOG_LEVEL sets
// log.level and FORMDESCRIPTOR_GENERATOR_MAX_DEPTH sets generator.max_depth.
const EnvPrefix = "FORMDESCRIPTOR_"

// Config is the resolved configuration.
type Config struct {
	Locale    string          `koanf:"locale"`
	Messages  MessagesConfig  `koanf:"messages"`
	OpenAPI   OpenAPIConfig   `koanf:"openapi"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Generator GeneratorConfig `koanf:"generator"`
}

// MessagesConfig locates message catalogs. Fallback is the locale of
// catalog files without a locale segment and the last resort of lookups.
type MessagesConfig struct {
	Dir      string `koanf:"dir"`
	Fallback string `koanf:"fallback"`
}

// OpenAPIConfig names the document providing models.
type OpenAPIConfig struct {
	Source    string `koanf:"source"`
	Namespace string `koanf:"namespace"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// GeneratorConfig mirrors the generator options.
type GeneratorConfig struct {
	MaxDepth   int    `koanf:"max_depth"`
	DateLayout string `koanf:"date_layout"`
}

func defaults() map[string]any {
	return map[string]any{
		"locale":                "en",
		"messages.fallback":     "en",
		"server.addr":           ":8080",
		"log.level":             "info",
		"log.pretty":            false,
		"generator.max_depth":   8,
		"generator.date_layout": "2006-01-02",
	}
}

// flagKeys maps flag names registered by BindFlags to config keys.
var flagKeys = map[string]string{
	"locale":       "locale",
	"messages-dir": "messages.dir",
	"openapi":      "openapi.source",
	"openapi-ns":   "openapi.namespace",
	"addr":         "server.addr",
	"log-level":    "log.level",
	"log-pretty":   "log.pretty",
	"max-depth":    "generator.max_depth",
	"date-layout":  "generator.date_layout",
}

// BindFlags registers the flags understood by Load on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default ./"+DefaultFile+" when present)")
	fs.String("locale", "", "default locale")
	fs.String("messages-dir", "", "directory with message catalogs")
	fs.String("openapi", "", "OpenAPI document (file path or URL)")
	fs.String("openapi-ns", "", "message namespace for OpenAPI models")
	fs.String("addr", "", "HTTP listen address")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Bool("log-pretty", false, "console log output")
	fs.Int("max-depth", 0, "maximum nested model depth")
	fs.String("date-layout", "", "layout for audit dates")
}

// Load resolves the configuration. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path == "" && flags != nil {
		path, _ = flags.GetString("config")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns GENERATOR_MAX_DEPTH into generator.max_depth: the first
// underscore separates the section.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("config: locale %q: %w", c.Locale, err))
	}
	if _, err := language.Parse(c.Messages.Fallback); err != nil {
		errs = append(errs, fmt.Errorf("config: messages.fallback %q: %w", c.Messages.Fallback, err))
	}
	if c.Generator.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("config: generator.max_depth must be positive, got %d", c.Generator.MaxDepth))
	}
	if strings.TrimSpace(c.Generator.DateLayout) == "" {
		errs = append(errs, errors.New("config: generator.date_layout is required"))
	}
	return errors.Join(errs...)
}

// LocaleTag returns the parsed default locale.
func (c *Config) LocaleTag() language.Tag {
	return parseTag(c.Locale)
}

// FallbackTag returns the parsed catalog fallback locale.
func (c *Config) FallbackTag() language.Tag {
	return parseTag(c.Messages.Fallback)
}

func parseTag(raw string) language.Tag {
	tag, err := language.Parse(raw)
	if err != nil {
		return language.English
	}
	return tag
}
