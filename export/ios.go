package export

import (
	"fmt"
	"strings"

	"github.com/minios-linux/strman/store"
)

// iosEscaper rewrites C format verbs to %@ before escaping quotes.
var iosEscaper = []struct{ old, new string }{
	{"%s", "%@"},
	{"%d", "%@"},
	{"%c", "%@"},
	{`"`, `\"`},
}

// EscapeIOS prepares a value for a .strings file.
func EscapeIOS(s string) string {
	for _, r := range iosEscaper {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}

// IOS renders Localized_<lang>.strings files.
type IOS struct{}

// Render writes one `"key" = "value";` line per pair.
func (IOS) Render(_ store.Project, _ string, pairs []Pair) ([]byte, error) {
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "\"%s\" = \"%s\";\n", p.Key, EscapeIOS(p.Value))
	}
	return []byte(b.String()), nil
}

// FileName returns Localized_<lang>.strings.
func (IOS) FileName(_ store.Project, lang string) string {
	return "Localized_" + lang + ".strings"
}
