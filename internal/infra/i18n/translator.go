package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// Bundle is a two-level lookup: language code -> message key -> template.
// Missing keys fall back to the default language, then to the key itself,
// so a half-translated locale degrades gracefully instead of erroring.
type Bundle struct {
	fallback  string
	languages map[string]map[string]string
}

// NewBundle loads every locales/<code>.yaml from fsys.
func NewBundle(fsys fs.FS, fallback string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	langs := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read translation file %s: %w", name, err)
		}
		var translations map[string]string
		if err := yaml.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("parse translation file %s: %w", name, err)
		}
		langs[strings.TrimSuffix(name, ".yaml")] = translations
	}

	if _, ok := langs[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no translation file", fallback)
	}
	return &Bundle{fallback: fallback, languages: langs}, nil
}

// T resolves key for lang and formats it with args.
func (b *Bundle) T(lang, key string, args ...interface{}) string {
	format, ok := b.languages[lang][key]
	if !ok {
		format, ok = b.languages[b.fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// Has reports whether lang has its own translation file.
func (b *Bundle) Has(lang string) bool {
	_, ok := b.languages[lang]
	return ok
}

// Languages lists the loaded language codes, sorted.
func (b *Bundle) Languages() []string {
	out := make([]string, 0, len(b.languages))
	for code := range b.languages {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
