package export

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/strman/store"
)

func testStore(t *testing.T) (*store.Store, store.Project) {
	t.Helper()
	s, err := store.Parse([]byte(`{
  "projects": [
    {"id": 1, "name": "App", "langs": ["en-US", "pl-PL"], "defaultLang": "en-US"},
    {"id": 2, "name": "Web", "langs": ["en-US"], "defaultLang": "en-US"}
  ],
  "translations": {
    "b.greet": {"projects": [1], "values": {"1": {"en-US": "Hello %s", "pl-PL": "Witaj %s"}}},
    "a.title": {"projects": [1, 2], "values": {"1": {"en-US": "Title"}}},
    "c.web":   {"projects": [2], "values": {"2": {"en-US": "Web only"}}}
  }
}`))
	if err != nil {
		t.Fatalf("store.Parse() error: %v", err)
	}
	p, _ := s.ProjectByName("App")
	return s, p
}

func TestCollectSortedWithFallback(t *testing.T) {
	s, p := testStore(t)

	got := Collect(s, p, "pl-PL")
	want := []Pair{
		{Key: "a.title", Value: "a.title"},
		{Key: "b.greet", Value: "Witaj %s"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Collect() = %#v, want %#v", got, want)
	}

	web, _ := s.ProjectByName("Web")
	got = Collect(s, web, "en-US")
	// a.title has no value for project 2, only for project 1.
	want = []Pair{
		{Key: "a.title", Value: "a.title"},
		{Key: "c.web", Value: "Web only"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Collect(Web) = %#v, want %#v", got, want)
	}
}

func TestEscapeIOS(t *testing.T) {
	got := EscapeIOS(`Hello %s, "%d," %c%@`)
	want := `Hello %@, \"%@,\" %@%@`
	if got != want {
		t.Fatalf("EscapeIOS() = %q, want %q", got, want)
	}
}

func TestIOSRender(t *testing.T) {
	s, p := testStore(t)

	data, err := Bundle(s, p, "en-US", IOS{})
	if err != nil {
		t.Fatalf("Bundle() error: %v", err)
	}
	want := "\"a.title\" = \"Title\";\n\"b.greet\" = \"Hello %@\";\n"
	if string(data) != want {
		t.Fatalf("Render() = %q, want %q", data, want)
	}
	if got := (IOS{}).FileName(p, "en-US"); got != "Localized_en-US.strings" {
		t.Fatalf("FileName() = %q", got)
	}
}

func TestAndroidRender(t *testing.T) {
	s, p := testStore(t)

	data, err := Bundle(s, p, "pl-PL", Android{})
	if err != nil {
		t.Fatalf("Bundle() error: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`<string name="a_title">a.title</string>`,
		`<string name="b_greet">Witaj %s</string>`,
		`<!-- App (pl-PL) -->`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("Render() missing %q:\n%s", want, out)
		}
	}

	if got := (Android{}).FileName(p, "pl-PL"); got != filepath.Join("values-pl-rPL", "strings.xml") {
		t.Fatalf("FileName(pl-PL) = %q", got)
	}
	if got := (Android{}).FileName(p, "en-US"); got != filepath.Join("values", "strings.xml") {
		t.Fatalf("FileName(en-US) = %q", got)
	}
}

func TestAndroidRenderIsWellFormed(t *testing.T) {
	pairs := []Pair{
		{Key: "cmp", Value: "a < b & c > d"},
		{Key: "bold", Value: "Tap <b>here</b>"},
		{Key: "quote", Value: `Don't "quote" me`},
	}
	data, err := (Android{}).Render(store.Project{Name: "App"}, "en", pairs)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var doc struct {
		Strings []struct {
			Name  string `xml:"name,attr"`
			Inner string `xml:",innerxml"`
		} `xml:"string"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("rendered strings.xml is not well-formed: %v\n%s", err, data)
	}
	want := map[string]string{
		"cmp":   "a &lt; b &amp; c &gt; d",
		"bold":  "Tap <b>here</b>",
		"quote": `Don\'t \"quote\" me`,
	}
	if len(doc.Strings) != len(want) {
		t.Fatalf("parsed %d strings, want %d", len(doc.Strings), len(want))
	}
	for _, s := range doc.Strings {
		if s.Inner != want[s.Name] {
			t.Fatalf("string %q = %q, want %q", s.Name, s.Inner, want[s.Name])
		}
	}
}

func TestAndroidRenderNameCollision(t *testing.T) {
	pairs := []Pair{{Key: "app.title", Value: "a"}, {Key: "app_title", Value: "b"}}
	if _, err := (Android{}).Render(store.Project{Name: "App"}, "en", pairs); err == nil {
		t.Fatal("Render() should reject keys mapping to the same resource name")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"ios": FormatIOS, "and": FormatAndroid, "Android": FormatAndroid}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("web"); err == nil {
		t.Fatal("ParseFormat(web) should fail")
	}
}

func TestNewFormatterIsExhaustive(t *testing.T) {
	for _, f := range Formats {
		if _, err := NewFormatter(f); err != nil {
			t.Fatalf("NewFormatter(%v) error: %v", f, err)
		}
		if parsed, err := ParseFormat(f.String()); err != nil || parsed != f {
			t.Fatalf("ParseFormat(%q) = %v, %v", f.String(), parsed, err)
		}
	}
	if _, err := NewFormatter(Format(99)); err == nil {
		t.Fatal("NewFormatter(99) should fail")
	}
}

func TestWriteBundle(t *testing.T) {
	s, p := testStore(t)
	dir := t.TempDir()

	path, err := WriteBundle(dir, s, p, "pl-PL", Android{})
	if err != nil {
		t.Fatalf("WriteBundle() error: %v", err)
	}
	if path != filepath.Join(dir, "values-pl-rPL", "strings.xml") {
		t.Fatalf("WriteBundle() path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("bundle not written: %v", err)
	}

	if _, err := WriteBundle(dir, s, p, "de-DE", IOS{}); err == nil {
		t.Fatal("WriteBundle() should reject an undeclared language")
	}
}
