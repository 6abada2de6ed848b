package lrc

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// lengthTolerance is how far a song duration may differ from an .lrc
// [length:] tag and still count as the same recording.
const lengthTolerance = 2 * time.Second

// Key identifies a song for lyric lookup. Artist and Title are normalised
// with NormalizeKey before use.
type Key struct {
	Artist string
	Title  string
}

// NormalizeKey lowercases and collapses whitespace so that tag variations
// ("The Cure " vs "the cure") map to the same index slot.
func NormalizeKey(artist, title string) Key {
	return Key{
		Artist: strings.Join(strings.Fields(strings.ToLower(artist)), " "),
		Title:  strings.Join(strings.Fields(strings.ToLower(title)), " "),
	}
}

// Entry records one indexed lyric file.
type Entry struct {
	Key    Key
	Path   string
	Length time.Duration
}

// Index maps song metadata to lyric file paths. It is built by the indexing
// worker and afterwards owned by a single goroutine; it is not safe for
// concurrent mutation.
type Index struct {
	byKey  map[Key][]Entry
	byPath map[string]Key
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		byKey:  make(map[Key][]Entry),
		byPath: make(map[string]Key),
	}
}

// Len reports the number of indexed files.
func (x *Index) Len() int { return len(x.byPath) }

// ReadEntry parses the .lrc at path into an index entry. A file without
// both artist and title tags cannot be looked up and is rejected.
func ReadEntry(path string) (Entry, error) {
	lyr, err := ParseFile(path)
	if err != nil {
		return Entry{}, err
	}
	if lyr.Artist == "" || lyr.Title == "" {
		return Entry{}, fmt.Errorf("lrc %s: missing ar/ti tags", filepath.Base(path))
	}
	return Entry{
		Key:    NormalizeKey(lyr.Artist, lyr.Title),
		Path:   path,
		Length: lyr.Length,
	}, nil
}

// AddFile parses the .lrc at path and records it. Re-adding a path
// replaces its previous entry.
func (x *Index) AddFile(path string) (Entry, error) {
	entry, err := ReadEntry(path)
	if err != nil {
		return Entry{}, err
	}
	x.Add(entry)
	return entry, nil
}

// Add records an entry, replacing any previous entry for the same path.
func (x *Index) Add(entry Entry) {
	x.RemovePath(entry.Path)
	x.byKey[entry.Key] = append(x.byKey[entry.Key], entry)
	x.byPath[entry.Path] = entry.Key
}

// RemovePath drops the entry for path, if any.
func (x *Index) RemovePath(path string) {
	key, ok := x.byPath[path]
	if !ok {
		return
	}
	delete(x.byPath, path)
	entries := x.byKey[key]
	for i, e := range entries {
		if e.Path == path {
			x.byKey[key] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(x.byKey[key]) == 0 {
		delete(x.byKey, key)
	}
}

// Lookup returns the lyric path for the given song metadata. When several
// files share artist and title, one whose [length:] tag is within
// lengthTolerance of length wins; otherwise the first indexed file is used.
// A zero length on either side skips the duration check.
func (x *Index) Lookup(artist, title string, length time.Duration) (string, bool) {
	entries := x.byKey[NormalizeKey(artist, title)]
	if len(entries) == 0 {
		return "", false
	}
	if length > 0 {
		for _, e := range entries {
			if e.Length == 0 {
				continue
			}
			diff := e.Length - length
			if diff < 0 {
				diff = -diff
			}
			if diff <= lengthTolerance {
				return e.Path, true
			}
		}
	}
	return entries[0].Path, true
}

// IndexDir walks dir recursively and indexes every .lrc file. Files that
// fail to parse are skipped and counted; only the walk itself can fail.
func IndexDir(dir string) (*Index, int, error) {
	x := NewIndex()
	skipped := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".lrc") {
			return nil
		}
		if _, err := x.AddFile(path); err != nil {
			skipped++
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walk %s: %w", dir, err)
	}
	return x, skipped, nil
}
