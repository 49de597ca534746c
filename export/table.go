package export

import (
	"github.com/minios-linux/strman/store"
)

// Table lays the project out as sheet rows: a header of "key" followed by
// the project languages, then one row per key with an empty cell for each
// missing value. The result can be imported back with the merge package.
//
// With untranslatedOnly set, only keys missing at least one value are kept.
func Table(st *store.Store, project store.Project, untranslatedOnly bool) [][]string {
	header := append([]string{"key"}, project.Langs...)
	rows := [][]string{header}

	for _, key := range st.ProjectKeys(project.ID) {
		e, _ := st.Entry(key)
		row := make([]string, 0, len(header))
		row = append(row, key)
		complete := true
		for _, lang := range project.Langs {
			v, ok := e.Value(project.ID, lang)
			if !ok {
				complete = false
			}
			row = append(row, v)
		}
		if untranslatedOnly && complete {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
