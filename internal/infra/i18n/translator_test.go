//go:build !integration

package i18n_test

import (
	"reflect"
	"testing"
	"testing/fstest"

	"telegram-broadcast-bot/internal/infra/i18n"
)

func testBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("greet: \"Hello, %s!\"\nonly_en: \"english only\"\n")},
		"locales/es.yaml": {Data: []byte("greet: \"¡Hola, %s!\"\n")},
	}
	b, err := i18n.NewBundle(fsys, "en")
	if err != nil {
		t.Fatalf("new bundle: %v", err)
	}
	return b
}

func TestBundle_T(t *testing.T) {
	b := testBundle(t)

	t.Run("should format in the requested language", func(t *testing.T) {
		if got := b.T("es", "greet", "Ana"); got != "¡Hola, Ana!" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("should fall back to the default language for missing keys", func(t *testing.T) {
		if got := b.T("es", "only_en"); got != "english only" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("should fall back to the default language for unknown locales", func(t *testing.T) {
		if got := b.T("fr", "greet", "Ana"); got != "Hello, Ana!" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("should return the key when nothing matches", func(t *testing.T) {
		if got := b.T("en", "nope"); got != "nope" {
			t.Fatalf("got %q", got)
		}
	})
}

func TestBundle_Languages(t *testing.T) {
	b := testBundle(t)
	if got := b.Languages(); !reflect.DeepEqual(got, []string{"en", "es"}) {
		t.Fatalf("got %v", got)
	}
	if !b.Has("es") || b.Has("fr") {
		t.Fatal("Has must reflect loaded locales")
	}
}

func TestBundle_RejectsMissingFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/es.yaml": {Data: []byte("greet: hola\n")},
	}
	if _, err := i18n.NewBundle(fsys, "en"); err == nil {
		t.Fatal("want error for missing fallback locale")
	}
}

func TestEmbeddedLocales(t *testing.T) {
	b, err := i18n.NewBundle(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("embedded locales must load: %v", err)
	}
	for _, lang := range b.Languages() {
		for _, key := range []string{"welcome_new", "help", "bot_disabled", "access_denied"} {
			if got := b.T(lang, key); got == key {
				t.Fatalf("lang %s missing key %s", lang, key)
			}
		}
	}
}
