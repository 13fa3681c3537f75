package messages

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and loads every JSON/YAML catalog into a new Bundle. The
// locale is taken from the last dot-separated segment of the file name
// ("messages.fr.yaml", "fr-CA.json"); files without a locale segment
// ("messages.yaml") feed the fallback locale. Nested mappings are flattened
// into dotted keys.
func LoadFS(fsys fs.FS, fallback language.Tag, opts ...BundleOption) (*Bundle, error) {
	bundle := NewBundle(fallback, opts...)
	if fsys == nil {
		return bundle, nil
	}

	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("messages: walk catalogs: %w", err)
	}
	sort.Strings(files)

	for _, p := range files {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("messages: read %s: %w", p, err)
		}
		entries, err := parseCatalog(data, p)
		if err != nil {
			return nil, err
		}
		if err := bundle.Add(localeFromPath(p, fallback), entries); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}

func isCatalogFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func localeFromPath(p string, fallback language.Tag) language.Tag {
	base := path.Base(p)
	base = strings.TrimSuffix(base, path.Ext(base))
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[idx+1:]
	}
	if !looksLikeLocale(base) {
		return fallback
	}
	return language.MustParse(strings.ReplaceAll(base, "_", "-"))
}

// looksLikeLocale accepts short BCP 47 shapes with a two-letter language
// such as "en", "pt-BR" or "zh_Hant".
func looksLikeLocale(s string) bool {
	s = strings.ReplaceAll(s, "_", "-")
	primary, _, _ := strings.Cut(s, "-")
	if len(primary) != 2 || len(s) > 10 {
		return false
	}
	_, err := language.Parse(s)
	return err == nil
}

func parseCatalog(data []byte, p string) (map[string]string, error) {
	var raw map[string]any
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("messages: parse %s: %w", p, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("messages: parse %s: %w", p, err)
		}
	}
	out := make(map[string]string)
	flatten("", raw, out)
	return out, nil
}

func flatten(prefix string, value any, out map[string]string) {
	switch typed := value.(type) {
	case map[string]any:
		for key, nested := range typed {
			flatten(joinKey(prefix, key), nested, out)
		}
	case map[any]any:
		for key, nested := range typed {
			flatten(joinKey(prefix, fmt.Sprint(key)), nested, out)
		}
	case nil:
		return
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(typed)
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
