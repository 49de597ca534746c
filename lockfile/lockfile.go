// Package lockfile implements strman.lock, which records the checksum of
// every exported bundle so unchanged bundles are not rewritten.
//
// The lock lives in the export directory next to the bundles it describes.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// FileName is the lock file name inside the export directory.
const FileName = "strman.lock"

// Version is the lock file format version.
const Version = 1

// LockFile maps target -> bundle path -> content checksum. A target is one
// project rendered in one format, see Target.
type LockFile struct {
	Version int                          `yaml:"version"`
	Bundles map[string]map[string]string `yaml:"bundles"`

	path string `yaml:"-"`
}

// Load reads the lock file from dir. A missing file yields an empty lock.
func Load(dir string) (*LockFile, error) {
	lf := &LockFile{
		Version: Version,
		Bundles: make(map[string]map[string]string),
		path:    filepath.Join(dir, FileName),
	}

	data, err := os.ReadFile(lf.path)
	if os.IsNotExist(err) {
		return lf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", lf.path, err)
	}
	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", lf.path, err)
	}
	if lf.Version > Version {
		return nil, fmt.Errorf("%s: unsupported lock version %d", lf.path, lf.Version)
	}
	if lf.Bundles == nil {
		lf.Bundles = make(map[string]map[string]string)
	}
	lf.Version = Version
	return lf, nil
}

// Save writes the lock file.
func (lf *LockFile) Save() error {
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lf.path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(lf.path), err)
	}
	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Target names the bundle set of project in format.
func Target(project, format string) string {
	return project + "/" + format
}

// IsChanged reports whether bundle differs from what was last recorded for
// target. Unrecorded bundles count as changed.
func (lf *LockFile) IsChanged(target, bundle string, data []byte) bool {
	old, ok := lf.Bundles[target][filepath.ToSlash(bundle)]
	return !ok || old != Hash(data)
}

// Update records the checksum of a written bundle.
func (lf *LockFile) Update(target, bundle string, data []byte) {
	if lf.Bundles[target] == nil {
		lf.Bundles[target] = make(map[string]string)
	}
	lf.Bundles[target][filepath.ToSlash(bundle)] = Hash(data)
}

// Clean drops the bundles of target that are not in keep. Other targets are
// left alone.
func (lf *LockFile) Clean(target string, keep []string) {
	bundles := lf.Bundles[target]
	for b := range bundles {
		if !slices.Contains(keep, b) {
			delete(bundles, b)
		}
	}
	if len(bundles) == 0 {
		delete(lf.Bundles, target)
	}
}
