package android

import (
	"path/filepath"
	"testing"
)

func TestMarshal(t *testing.T) {
	f := &File{}
	f.AddComment("TestProject -- en-US")
	f.Add("app_title", "Hello World!")
	f.Add("quote", `Don't say "no" & <stop>`)
	f.Add("markup", "Tap <b>here</b>")

	want := `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <!-- TestProject - - en-US -->
    <string name="app_title">Hello World!</string>
    <string name="quote">Don\'t say \"no\" &amp; &lt;stop&gt;</string>
    <string name="markup">Tap <b>here</b></string>
</resources>
`
	if got := string(f.Marshal()); got != want {
		t.Fatalf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestXMLEscape(t *testing.T) {
	tests := map[string]string{
		"a < b & c > d":                   "a &lt; b &amp; c &gt; d",
		"x > 1":                           "x &gt; 1",
		"Tap <b>here</b> & go":            "Tap &lt;b&gt;here&lt;/b&gt; &amp; go",
		`Hi <xliff:g id="n">%s</xliff:g>`: `Hi <xliff:g id="n">%s</xliff:g>`,
		"<b>it's</b>":                     `<b>it\'s</b>`,
		"<b>unclosed":                     "&lt;b&gt;unclosed",
	}
	for in, want := range tests {
		if got := xmlEscape(in); got != want {
			t.Fatalf("xmlEscape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeQuotesDoesNotDoubleEscape(t *testing.T) {
	if got := escapeQuotes(`it\'s`); got != `it\'s` {
		t.Fatalf("escapeQuotes() = %q, want %q", got, `it\'s`)
	}
}

func TestResourceName(t *testing.T) {
	tests := map[string]string{
		"app.title":           "app_title",
		"mainScreen.okButton": "main_screen_ok_button",
		"error-404":           "error_404",
		"404.title":           "_404_title",
	}
	for key, want := range tests {
		if got := ResourceName(key); got != want {
			t.Fatalf("ResourceName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestStringsXMLPath(t *testing.T) {
	if got := StringsXMLPath("res", "en-US", "en-US"); got != filepath.Join("res", "values", "strings.xml") {
		t.Fatalf("default lang path = %q", got)
	}
	if got := StringsXMLPath("res", "pt-BR", "en-US"); got != filepath.Join("res", "values-pt-rBR", "strings.xml") {
		t.Fatalf("pt-BR path = %q", got)
	}
	if got := LocaleDirName("ru"); got != "values-ru" {
		t.Fatalf("LocaleDirName(ru) = %q", got)
	}
}
