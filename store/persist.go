package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads and parses the dictionary at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a dictionary document. Project-level invariants are checked;
// entry values are accepted as stored.
func Parse(data []byte) (*Store, error) {
	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.Translations == nil {
		s.Translations = make(map[string]*Entry)
	}
	for key, e := range s.Translations {
		if key == "" {
			return nil, errors.New("translation with empty key")
		}
		if e == nil {
			e = &Entry{}
			s.Translations[key] = e
		}
		if e.Projects == nil {
			e.Projects = []int{}
		}
		if e.Values == nil {
			e.Values = make(map[int]map[string]string)
		}
	}
	if err := validateProjects(s.Projects); err != nil {
		return nil, err
	}
	return s, nil
}

// Marshal encodes the store as pretty-printed JSON. Map keys are emitted in
// sorted order, so the output is stable across runs.
func (s *Store) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the store to path, overwriting any existing file.
func (s *Store) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Template
// ---------------------------------------------------------------------------

// Template returns a starter dictionary with one project and one key.
func Template() *Store {
	s := New()
	s.Projects = append(s.Projects, Project{
		ID:          1,
		Name:        "TestProject",
		Langs:       []string{"en-US", "pl-PL"},
		DefaultLang: "en-US",
	})
	e := NewEntry(1)
	e.SetValue(1, "en-US", "Hello World!")
	e.SetValue(1, "pl-PL", "Witaj świecie!")
	s.Put("app.title", e)
	return s
}

// WriteTemplate writes Template() to path. An existing file is only
// replaced when force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	return Template().Save(path)
}
