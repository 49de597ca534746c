// Package android writes Android strings.xml resource files.
//
// Only plain <string> resources are produced. Values are XML-escaped and
// apostrophes and double quotes are escaped per AAPT rules.
package android

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Entry is a single <string> resource, or a comment when Name is empty.
type Entry struct {
	Name    string
	Value   string
	Comment string
}

// IsComment reports whether this entry is an XML comment.
func (e *Entry) IsComment() bool { return e.Name == "" }

// File is an Android strings.xml document.
type File struct {
	// Entries in document order.
	Entries []*Entry
}

// Add appends a <string> resource.
func (f *File) Add(name, value string) {
	f.Entries = append(f.Entries, &Entry{Name: name, Value: value})
}

// AddComment appends an XML comment.
func (f *File) AddComment(text string) {
	f.Entries = append(f.Entries, &Entry{Comment: text})
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Marshal produces the XML output in Android strings.xml format.
func (f *File) Marshal() []byte {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<resources>\n")

	for _, e := range f.Entries {
		if e.IsComment() {
			b.WriteString(fmt.Sprintf("    <!-- %s -->\n", strings.ReplaceAll(e.Comment, "--", "- -")))
			continue
		}
		b.WriteString(fmt.Sprintf("    <string name=\"%s\">%s</string>\n", e.Name, xmlEscape(e.Value)))
	}

	b.WriteString("</resources>\n")
	return []byte(b.String())
}

// ---------------------------------------------------------------------------
// Naming
// ---------------------------------------------------------------------------

var reInvalidName = regexp.MustCompile(`[^a-z0-9_]+`)

// ResourceName converts a dictionary key to a valid resource name
// (e.g. "app.title" -> "app_title", "mainScreen.okButton" -> "main_screen_ok_button").
func ResourceName(key string) string {
	name := reInvalidName.ReplaceAllString(strcase.ToSnake(key), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// LocaleDirName converts a language tag to an Android values directory name
// (e.g., "pt-BR" -> "values-pt-rBR", "ru" -> "values-ru").
func LocaleDirName(lang string) string {
	return "values-" + standardToAndroidLocale(lang)
}

// StringsXMLPath returns the strings.xml path for lang under resDir. The
// default language lives in values/.
func StringsXMLPath(resDir, lang, defaultLang string) string {
	if lang == defaultLang {
		return filepath.Join(resDir, "values", "strings.xml")
	}
	return filepath.Join(resDir, LocaleDirName(lang), "strings.xml")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// xmlEscape escapes a value for use inside a <string> element. Values that
// are well-formed XML fragments (inline tags such as <b> or <xliff:g>) keep
// their markup; everything else has &, < and > escaped.
func xmlEscape(s string) string {
	if isMarkup(s) {
		return escapeTextQuotes(s)
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return escapeQuotes(s)
}

// isMarkup reports whether s contains a tag and parses as XML content.
func isMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	d := xml.NewDecoder(strings.NewReader("<r>" + s + "</r>"))
	for {
		if _, err := d.Token(); err != nil {
			return err == io.EOF
		}
	}
}

// escapeTextQuotes applies escapeQuotes to the text between tags, leaving
// attribute quoting intact.
func escapeTextQuotes(s string) string {
	var b strings.Builder
	for s != "" {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			b.WriteString(escapeQuotes(s))
			break
		}
		b.WriteString(escapeQuotes(s[:i]))
		j := strings.IndexByte(s[i:], '>')
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+j+1])
		s = s[i+j+1:]
	}
	return b.String()
}

// escapeQuotes escapes apostrophes and double quotes for Android AAPT
// without double-escaping.
func escapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// standardToAndroidLocale converts standard BCP-47 to Android locale format.
// e.g., "pt-BR" -> "pt-rBR", "zh-CN" -> "zh-rCN", "ru" -> "ru"
func standardToAndroidLocale(lang string) string {
	parts := strings.SplitN(lang, "-", 2)
	if len(parts) == 2 && len(parts[1]) > 0 {
		return parts[0] + "-r" + parts[1]
	}
	return lang
}
