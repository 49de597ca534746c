package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(env, "")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"LANGUAGE wins", map[string]string{"LANGUAGE": "pl_PL.UTF-8:en_US", "LC_ALL": "de_DE.UTF-8"}, "pl_PL"},
		{"C and POSIX skipped", map[string]string{"LANGUAGE": "C", "LC_ALL": "POSIX", "LC_MESSAGES": "fr_FR.UTF-8"}, "fr_FR"},
		{"modifier stripped", map[string]string{"LANG": "sr_RS@latin"}, "sr_RS"},
		{"fallback", nil, "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLocaleEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := detectLanguage(); got != tt.want {
				t.Fatalf("detectLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFallbackWhenUninitialized(t *testing.T) {
	old := po
	po = nil
	t.Cleanup(func() { po = old })

	if got := T("Saved %s"); got != "Saved %s" {
		t.Fatalf("T() = %q", got)
	}
	if got := N("key", "keys", 1); got != "key" {
		t.Fatalf("N(1) = %q", got)
	}
	if got := N("key", "keys", 2); got != "keys" {
		t.Fatalf("N(2) = %q", got)
	}
}

func TestEmbeddedPolishCatalog(t *testing.T) {
	old := po
	t.Cleanup(func() { po = old })

	Init("pl")
	if Lang() != "pl" {
		t.Fatalf("Lang() = %q", Lang())
	}
	if got := T("No projects"); got != "Brak projektów" {
		t.Fatalf("T(No projects) = %q", got)
	}
	for n, want := range map[int]string{
		1: "Wyeksportowano %d klucz do %s",
		3: "Wyeksportowano %d klucze do %s",
		5: "Wyeksportowano %d kluczy do %s",
	} {
		if got := N("Exported %d key to %s", "Exported %d keys to %s", n); got != want {
			t.Fatalf("N(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestUnknownLanguagePassesThrough(t *testing.T) {
	old := po
	t.Cleanup(func() { po = old })

	Init("xx")
	if got := T("No projects"); got != "No projects" {
		t.Fatalf("T() = %q", got)
	}
}
