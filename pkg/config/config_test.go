package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formdescriptor.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Config{
		Locale:    "en",
		Messages:  MessagesConfig{Fallback: "en"},
		Server:    ServerConfig{Addr: ":8080"},
		Log:       LogConfig{Level: "info"},
		Generator: GeneratorConfig{MaxDepth: 8, DateLayout: "2006-01-02"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, `
locale: fr
messages:
  dir: ./i18n
openapi:
  source: ./api.yaml
log:
  level: debug
generator:
  max_depth: 4
`)
	t.Setenv("FORMDESCRIPTOR_LOG_LEVEL", "warn")
	t.Setenv("FORMDESCRIPTOR_GENERATOR_MAX_DEPTH", "5")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse([]string{"--max-depth=6", "--addr=127.0.0.1:9000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		Locale:    "fr",
		Messages:  MessagesConfig{Dir: "./i18n", Fallback: "en"},
		OpenAPI:   OpenAPIConfig{Source: "./api.yaml"},
		Server:    ServerConfig{Addr: "127.0.0.1:9000"},
		Log:       LogConfig{Level: "warn"},
		Generator: GeneratorConfig{MaxDepth: 6, DateLayout: "2006-01-02"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.LocaleTag() != language.French {
		t.Fatalf("expected french locale, got %s", cfg.LocaleTag())
	}
}

func TestLoadConfigFlag(t *testing.T) {
	path := writeFile(t, "server:\n  addr: :7070\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse([]string{"--config", path, "--log-pretty"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" || !cfg.Log.Pretty {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "locale: \"not a locale\"\ngenerator:\n  max_depth: 0\n")

	_, err := Load(path, nil)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"locale", "max_depth"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"FORMDESCRIPTOR_LOCALE":                "locale",
		"FORMDESCRIPTOR_MESSAGES_DIR":          "messages.dir",
		"FORMDESCRIPTOR_GENERATOR_DATE_LAYOUT": "generator.date_layout",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
