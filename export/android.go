package export

import (
	"fmt"

	"github.com/minios-linux/strman/android"
	"github.com/minios-linux/strman/store"
)

// Android renders strings.xml resource files.
type Android struct{}

// Render writes one <string> resource per pair. Keys are converted to
// resource names; two keys mapping to the same name are an error.
func (Android) Render(project store.Project, lang string, pairs []Pair) ([]byte, error) {
	f := &android.File{}
	f.AddComment(fmt.Sprintf("%s (%s)", project.Name, lang))

	seen := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name := android.ResourceName(p.Key)
		if name == "" {
			return nil, fmt.Errorf("key %q has no valid resource name", p.Key)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("keys %q and %q both map to resource %q", prev, p.Key, name)
		}
		seen[name] = p.Key
		f.Add(name, p.Value)
	}
	return f.Marshal(), nil
}

// FileName returns values[-<locale>]/strings.xml; the project's default
// language goes to values/.
func (Android) FileName(project store.Project, lang string) string {
	return android.StringsXMLPath(".", lang, project.DefaultLang)
}
