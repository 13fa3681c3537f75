package messages

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

func TestBundleResolvesExactLocale(t *testing.T) {
	b := NewBundle(language.English)
	if err := b.Add(language.English, map[string]string{"submit.label": "Save"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add(language.French, map[string]string{"submit.label": "Enregistrer"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := b.Resolve(language.French, "submit.label")
	if err != nil || got != "Enregistrer" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestBundleFallsBackToClosestThenDefaultLocale(t *testing.T) {
	b := NewBundle(language.English)
	_ = b.Add(language.English, map[string]string{"submit.label": "Save", "cancel.label": "Cancel"})
	_ = b.Add(language.French, map[string]string{"submit.label": "Enregistrer"})

	got, err := b.Resolve(language.MustParse("fr-CA"), "submit.label")
	if err != nil || got != "Enregistrer" {
		t.Fatalf("closest locale: got %q, %v", got, err)
	}
	got, err = b.Resolve(language.French, "cancel.label")
	if err != nil || got != "Cancel" {
		t.Fatalf("fallback locale: got %q, %v", got, err)
	}
}

func TestBundleMissingKey(t *testing.T) {
	b := NewBundle(language.English)
	_, err := b.Resolve(language.English, "missing.key")
	if !errors.Is(err, ErrMissingMessage) {
		t.Fatalf("expected ErrMissingMessage, got %v", err)
	}
}

func TestBundleFormatsParameters(t *testing.T) {
	b := NewBundle(language.English)
	_ = b.Add(language.English, map[string]string{
		"user.name.maxlength": "At most %d characters",
		"user.code.pattern":   "Must match %s",
	})

	got, err := b.Resolve(language.English, "user.name.maxlength", 40)
	if err != nil || got != "At most 40 characters" {
		t.Fatalf("got %q, %v", got, err)
	}
	got, err = b.Resolve(language.English, "user.code.pattern", "^[A-Z]+$")
	if err != nil || got != "Must match ^[A-Z]+$" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestBundleStripsMarkup(t *testing.T) {
	b := NewBundle(language.English)
	_ = b.Add(language.English, map[string]string{"title": `<b>Users</b> & <script>alert(1)</script>roles`})

	got, _ := b.Resolve(language.English, "title")
	if got != "Users & roles" {
		t.Fatalf("expected markup to be stripped, got %q", got)
	}

	raw := NewBundle(language.English, WithoutSanitizer())
	_ = raw.Add(language.English, map[string]string{"title": "<b>Users</b>"})
	got, _ = raw.Resolve(language.English, "title")
	if got != "<b>Users</b>" {
		t.Fatalf("expected verbatim entry, got %q", got)
	}
}

func TestBundleStripsEntityEncodedMarkup(t *testing.T) {
	b := NewBundle(language.English)
	_ = b.Add(language.English, map[string]string{
		"encoded": "&lt;img src=x onerror=alert(1)&gt;Welcome",
		"double":  "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;Hi",
		"compare": "a &lt; b",
	})

	cases := map[string]string{
		"encoded": "Welcome",
		"double":  "Hi",
		"compare": "a < b",
	}
	for key, want := range cases {
		got, err := b.Resolve(language.English, key)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if got != want {
			t.Fatalf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestLookupFallsBackToKey(t *testing.T) {
	b := NewBundle(language.English)
	_ = b.Add(language.English, map[string]string{"empty": "   "})

	if got := Lookup(b, nil, language.English, "missing.key"); got != "missing.key" {
		t.Fatalf("expected raw key, got %q", got)
	}
	if got := Lookup(b, nil, language.English, "empty"); got != "empty" {
		t.Fatalf("expected empty message to fall back, got %q", got)
	}
	if got := Lookup(nil, nil, language.English, "no.resolver"); got != "no.resolver" {
		t.Fatalf("expected raw key without resolver, got %q", got)
	}

	var seen error
	handler := func(_ language.Tag, key string, _ []any, err error) string {
		seen = err
		return "!" + key
	}
	if got := Lookup(b, handler, language.English, "missing.key"); got != "!missing.key" {
		t.Fatalf("expected custom handler result, got %q", got)
	}
	if !errors.Is(seen, ErrMissingMessage) {
		t.Fatalf("expected handler to receive ErrMissingMessage, got %v", seen)
	}
}

func TestLoadFSReadsCatalogs(t *testing.T) {
	fsys := fstest.MapFS{
		"messages.yaml": &fstest.MapFile{Data: []byte(`
submit:
  label: Save
users:
  UserCreate:
    success:
      create:
        message: User created
`)},
		"messages.fr.json": &fstest.MapFile{Data: []byte(`{"submit": {"label": "Enregistrer"}}`)},
		"pt_BR.yml":        &fstest.MapFile{Data: []byte("submit.label: Salvar\n")},
		"README.md":        &fstest.MapFile{Data: []byte("ignored")},
	}

	b, err := LoadFS(fsys, language.English)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cases := []struct {
		locale language.Tag
		key    string
		want   string
	}{
		{language.English, "submit.label", "Save"},
		{language.English, "users.UserCreate.success.create.message", "User created"},
		{language.French, "submit.label", "Enregistrer"},
		{language.MustParse("pt-BR"), "submit.label", "Salvar"},
		{language.French, "users.UserCreate.success.create.message", "User created"},
	}
	for _, tc := range cases {
		got, err := b.Resolve(tc.locale, tc.key)
		if err != nil || got != tc.want {
			t.Fatalf("%s/%s: got %q, %v", tc.locale, tc.key, got, err)
		}
	}

	want := []language.Tag{language.French, language.English, language.MustParse("pt-BR")}
	if diff := cmp.Diff(want, b.Locales(), cmp.Comparer(func(a, b language.Tag) bool { return a == b })); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSRejectsInvalidCatalog(t *testing.T) {
	fsys := fstest.MapFS{"messages.json": &fstest.MapFile{Data: []byte("{")}}
	if _, err := LoadFS(fsys, language.English); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLocaleFromPath(t *testing.T) {
	cases := map[string]language.Tag{
		"messages.yaml":        language.English,
		"i18n/messages.de.yml": language.German,
		"fr.json":              language.French,
		"app.yaml":             language.English,
	}
	for p, want := range cases {
		if got := localeFromPath(p, language.English); got != want {
			t.Fatalf("localeFromPath(%q) = %s, want %s", p, got, want)
		}
	}
}
