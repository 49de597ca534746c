// Package export projects the dictionary onto per-language string bundles
// for a target platform.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/strman/store"
)

// Pair is one exported key and its value.
type Pair struct {
	Key   string
	Value string
}

// Collect returns the keys used by project in ascending order, each with its
// value for lang. Keys without a value for lang fall back to the key itself,
// so every bundle is complete.
func Collect(st *store.Store, project store.Project, lang string) []Pair {
	var pairs []Pair
	for _, key := range st.ProjectKeys(project.ID) {
		e, _ := st.Entry(key)
		v, ok := e.Value(project.ID, lang)
		if !ok {
			v = key
		}
		pairs = append(pairs, Pair{Key: key, Value: v})
	}
	return pairs
}

// ---------------------------------------------------------------------------
// Formats
// ---------------------------------------------------------------------------

// Format identifies a target platform.
type Format int

const (
	// FormatIOS produces Localizable.strings files.
	FormatIOS Format = iota
	// FormatAndroid produces strings.xml resource files.
	FormatAndroid
)

// Formats lists every supported format.
var Formats = []Format{FormatIOS, FormatAndroid}

func (f Format) String() string {
	switch f {
	case FormatIOS:
		return "ios"
	case FormatAndroid:
		return "and"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses a format name: "ios", "and" or "android".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ios":
		return FormatIOS, nil
	case "and", "android":
		return FormatAndroid, nil
	}
	return 0, fmt.Errorf("unknown output format %q (valid: ios, and)", s)
}

// Formatter renders a bundle for one platform.
type Formatter interface {
	// Render produces the file content for the pairs.
	Render(project store.Project, lang string, pairs []Pair) ([]byte, error)
	// FileName returns the bundle path relative to the output directory.
	FileName(project store.Project, lang string) string
}

// NewFormatter returns the formatter for f.
func NewFormatter(f Format) (Formatter, error) {
	switch f {
	case FormatIOS:
		return IOS{}, nil
	case FormatAndroid:
		return Android{}, nil
	}
	return nil, fmt.Errorf("no formatter for %v", f)
}

// ---------------------------------------------------------------------------
// Bundles
// ---------------------------------------------------------------------------

// Bundle collects and renders the bundle of project for lang.
func Bundle(st *store.Store, project store.Project, lang string, f Formatter) ([]byte, error) {
	if !project.HasLang(lang) {
		return nil, fmt.Errorf("language %q is not declared for project %q", lang, project.Name)
	}
	return f.Render(project, lang, Collect(st, project, lang))
}

// WriteBundle renders the bundle and writes it under dir. It returns the
// path of the written file.
func WriteBundle(dir string, st *store.Store, project store.Project, lang string, f Formatter) (string, error) {
	data, err := Bundle(st, project, lang, f)
	if err != nil {
		return "", err
	}
	return WriteFile(dir, f.FileName(project, lang), data)
}

// WriteFile writes data to dir/rel, creating parent directories.
func WriteFile(dir, rel string, data []byte) (string, error) {
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
