// Package merge reconciles a translation sheet into the dictionary for one
// project.
//
// The sheet header is validated first: every language column must be
// declared by the target project. Only then is the store touched, so a
// rejected sheet never leaves a partial merge behind.
package merge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/minios-linux/strman/store"
)

// Source produces sheet rows. Row 0 is the header.
type Source interface {
	Rows() ([][]string, error)
}

// InvalidLanguageError reports a sheet column whose language is not
// declared for the target project.
type InvalidLanguageError struct {
	Lang    string
	Column  int
	Project string
}

func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("language %q in column %d is not declared for project %q", e.Lang, e.Column, e.Project)
}

// Result lists the keys touched by a merge. The three lists are disjoint
// and hold each key at most once, in the order the keys were first seen.
type Result struct {
	// Added holds keys created by this merge.
	Added []string
	// Updated holds keys that existed before the merge and received values.
	Updated []string
	// Ignored holds unknown keys skipped because unknown keys were ignored.
	Ignored []string
}

// Changed reports whether the merge modified the store.
func (r *Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Updated) > 0
}

// Total returns the number of distinct keys recorded.
func (r *Result) Total() int {
	return len(r.Added) + len(r.Updated) + len(r.Ignored)
}

// column is an active language column of the sheet.
type column struct {
	lang  string
	index int
}

// Merge reads src and writes its values into st for project.
//
// With ignoreUnknown unset, a header language not declared by the project
// fails the merge with *InvalidLanguageError and unknown keys are added.
// With ignoreUnknown set, such columns are dropped and unknown keys are
// recorded in Result.Ignored without touching the store.
//
// Cells missing from short rows are treated as empty strings.
func Merge(src Source, st *store.Store, project store.Project, ignoreUnknown bool) (*Result, error) {
	rows, err := src.Rows()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if len(rows) == 0 {
		return result, nil
	}

	columns, err := activeColumns(rows[0], project, ignoreUnknown)
	if err != nil {
		return nil, err
	}

	// Keys created by this merge keep receiving values from later columns
	// and rows but stay in Added.
	added := make(map[string]bool)

	for _, row := range rows[1:] {
		key := strings.TrimSpace(cell(row, 0))
		if key == "" {
			continue
		}

		for _, col := range columns {
			value := cell(row, col.index)

			entry, exists := st.Entry(key)
			switch {
			case exists:
				entry.SetValue(project.ID, col.lang, value)
				if !added[key] {
					result.Updated = appendOnce(result.Updated, key)
				}
			case !ignoreUnknown:
				log.Debug("adding new key", "key", key, "project", project.Name)
				entry = store.NewEntry(project.ID)
				entry.SetValue(project.ID, col.lang, value)
				st.Put(key, entry)
				added[key] = true
				result.Added = appendOnce(result.Added, key)
			default:
				result.Ignored = appendOnce(result.Ignored, key)
			}
		}
	}

	log.Debug("merge finished", "project", project.Name,
		"added", len(result.Added), "updated", len(result.Updated), "ignored", len(result.Ignored))
	return result, nil
}

// activeColumns validates the header row and returns the columns whose
// language is declared by the project, in header order.
func activeColumns(header []string, project store.Project, ignoreUnknown bool) ([]column, error) {
	var columns []column
	for i := 1; i < len(header); i++ {
		lang := strings.TrimSpace(header[i])
		if project.HasLang(lang) {
			columns = append(columns, column{lang: lang, index: i})
			continue
		}
		if !ignoreUnknown {
			return nil, &InvalidLanguageError{Lang: lang, Column: i, Project: project.Name}
		}
		log.Debug("dropping column with undeclared language", "column", i, "lang", lang)
	}
	return columns, nil
}

// cell returns row[i], or "" when the row is shorter than the header.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func appendOnce(list []string, key string) []string {
	if slices.Contains(list, key) {
		return list
	}
	return append(list, key)
}
