// Package store implements the strman translation dictionary: a set of
// projects and a key-indexed table of per-project, per-language values.
//
// The dictionary is persisted as a single JSON document:
//
//	{
//	  "projects": [ {"id": 1, "name": "App", "langs": ["en-US"], "defaultLang": "en-US"} ],
//	  "translations": {
//	    "app.title": { "projects": [1], "values": { "1": { "en-US": "Hello" } } }
//	  }
//	}
//
// A key may be declared for a project before any value exists for it, but a
// value written for project p always implies that p is listed in the entry's
// projects.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnknownProject is returned when a project cannot be found by name or id.
var ErrUnknownProject = errors.New("unknown project")

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// Project is a target application with a fixed set of supported languages.
type Project struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Langs       []string `json:"langs"`
	DefaultLang string   `json:"defaultLang"`
}

// HasLang reports whether lang is declared for the project.
func (p Project) HasLang(lang string) bool {
	return slices.Contains(p.Langs, lang)
}

// Entry is the per-key record of which projects use the key and the values
// stored for each of them.
type Entry struct {
	Projects []int                    `json:"projects"`
	Values   map[int]map[string]string `json:"values"`
}

// NewEntry returns an entry declared for the given project with no values.
func NewEntry(projectID int) *Entry {
	return &Entry{
		Projects: []int{projectID},
		Values:   make(map[int]map[string]string),
	}
}

// HasProject reports whether the key is used by the project.
func (e *Entry) HasProject(id int) bool {
	return slices.Contains(e.Projects, id)
}

// AddProject declares the key for a project. It is a no-op when the project
// is already listed.
func (e *Entry) AddProject(id int) {
	if !e.HasProject(id) {
		e.Projects = append(e.Projects, id)
	}
}

// Value returns the value stored for (project, lang).
func (e *Entry) Value(id int, lang string) (string, bool) {
	langs, ok := e.Values[id]
	if !ok {
		return "", false
	}
	v, ok := langs[lang]
	return v, ok
}

// SetValue writes the value for (project, lang), creating the intermediate
// maps as needed and declaring the key for the project.
func (e *Entry) SetValue(id int, lang, value string) {
	if e.Values == nil {
		e.Values = make(map[int]map[string]string)
	}
	langs, ok := e.Values[id]
	if !ok {
		langs = make(map[string]string)
		e.Values[id] = langs
	}
	langs[lang] = value
	e.AddProject(id)
}

// Store holds every project and every translation key.
type Store struct {
	Projects     []Project         `json:"projects"`
	Translations map[string]*Entry `json:"translations"`
}

// New returns an empty store.
func New() *Store {
	return &Store{
		Projects:     []Project{},
		Translations: make(map[string]*Entry),
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Keys returns all translation keys in ascending order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.Translations))
	for k := range s.Translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProjectKeys returns the keys used by the project in ascending order.
func (s *Store) ProjectKeys(id int) []string {
	var keys []string
	for _, k := range s.Keys() {
		if s.Translations[k].HasProject(id) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Entry returns the entry for key.
func (s *Store) Entry(key string) (*Entry, bool) {
	e, ok := s.Translations[key]
	return e, ok
}

// Put stores an entry under key, replacing any existing one.
func (s *Store) Put(key string, e *Entry) {
	if s.Translations == nil {
		s.Translations = make(map[string]*Entry)
	}
	s.Translations[key] = e
}

// ProjectByName looks a project up by its name.
func (s *Store) ProjectByName(name string) (Project, error) {
	for _, p := range s.Projects {
		if p.Name == name {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %q", ErrUnknownProject, name)
}

// ProjectByID looks a project up by its id.
func (s *Store) ProjectByID(id int) (Project, error) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: id %d", ErrUnknownProject, id)
}

// Stats returns the number of keys declared for the project and the number
// of (key, lang) values stored for it.
func (s *Store) Stats(p Project) (keys, values int) {
	for _, e := range s.Translations {
		if !e.HasProject(p.ID) {
			continue
		}
		keys++
		for _, lang := range p.Langs {
			if _, ok := e.Value(p.ID, lang); ok {
				values++
			}
		}
	}
	return keys, values
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		Projects:     make([]Project, len(s.Projects)),
		Translations: make(map[string]*Entry, len(s.Translations)),
	}
	for i, p := range s.Projects {
		p.Langs = slices.Clone(p.Langs)
		c.Projects[i] = p
	}
	for k, e := range s.Translations {
		ce := &Entry{
			Projects: slices.Clone(e.Projects),
			Values:   make(map[int]map[string]string, len(e.Values)),
		}
		for id, langs := range e.Values {
			cl := make(map[string]string, len(langs))
			for lang, v := range langs {
				cl[lang] = v
			}
			ce.Values[id] = cl
		}
		c.Translations[k] = ce
	}
	return c
}

// ---------------------------------------------------------------------------
// Administration
// ---------------------------------------------------------------------------

// AddProject validates p and appends it to the store. A zero ID is replaced
// with the next free id; an empty DefaultLang defaults to the first language.
// The stored project is returned.
func (s *Store) AddProject(p Project) (Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Project{}, errors.New("project name is empty")
	}
	if len(p.Langs) == 0 {
		return Project{}, fmt.Errorf("project %q has no languages", p.Name)
	}
	for _, lang := range p.Langs {
		if _, err := language.Parse(lang); err != nil {
			return Project{}, fmt.Errorf("project %q: invalid language tag %q: %w", p.Name, lang, err)
		}
	}
	if p.DefaultLang == "" {
		p.DefaultLang = p.Langs[0]
	}
	if p.ID < 0 {
		return Project{}, fmt.Errorf("project %q: negative id %d", p.Name, p.ID)
	}
	if p.ID == 0 {
		for _, existing := range s.Projects {
			p.ID = max(p.ID, existing.ID)
		}
		p.ID++
	}

	candidate := append(slices.Clone(s.Projects), p)
	if err := validateProjects(candidate); err != nil {
		return Project{}, err
	}
	s.Projects = candidate
	return p, nil
}

// Validate checks the store invariants.
func (s *Store) Validate() error {
	if err := validateProjects(s.Projects); err != nil {
		return err
	}
	for _, key := range s.Keys() {
		if key == "" {
			return errors.New("translation with empty key")
		}
		e := s.Translations[key]
		if e == nil {
			return fmt.Errorf("translation %q: empty entry", key)
		}
		for id := range e.Values {
			if !e.HasProject(id) {
				return fmt.Errorf("translation %q: values for project %d which is not listed in projects", key, id)
			}
		}
	}
	return nil
}

func validateProjects(projects []Project) error {
	ids := make(map[int]bool)
	names := make(map[string]bool)
	for _, p := range projects {
		if ids[p.ID] {
			return fmt.Errorf("duplicate project id %d", p.ID)
		}
		ids[p.ID] = true
		if names[p.Name] {
			return fmt.Errorf("duplicate project name %q", p.Name)
		}
		names[p.Name] = true

		langs := make(map[string]bool)
		for _, lang := range p.Langs {
			if langs[lang] {
				return fmt.Errorf("project %q: duplicate language %q", p.Name, lang)
			}
			langs[lang] = true
		}
		if !langs[p.DefaultLang] {
			return fmt.Errorf("project %q: default language %q is not one of %v", p.Name, p.DefaultLang, p.Langs)
		}
	}
	return nil
}
