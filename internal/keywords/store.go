// Package keywords maintains the shared, file-backed list of canonical
// keyword strings and fuzzy-merges newly extracted keywords into it.
// Keyword tracking is advisory: persistence failures are swallowed and the
// in-memory canonicalization result remains valid for the current session.
package keywords

import (
	"bufio"
	"os"
	"sort"
	"strings"
	"sync"
)

// Store is the process-wide keyword database. Sessions from concurrent
// documents merge into the same store; MergeAndSave performs the whole
// load-merge-save cycle under one lock so concurrent finishers cannot lose
// each other's updates.
type Store struct {
	mu        sync.Mutex
	path      string
	threshold float64
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path, threshold: DefaultThreshold}
}

// Load returns the stored keywords in file order. A missing or unreadable
// file yields an empty list, never an error.
func (s *Store) Load() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() []string {
	f, err := os.Open(s.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// saveLocked writes the keywords one per line, deduplicated and sorted
// case-insensitively. Write failures are swallowed.
func (s *Store) saveLocked(db []string) {
	seen := make(map[string]struct{}, len(db))
	uniq := make([]string, 0, len(db))
	for _, kw := range db {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		uniq = append(uniq, kw)
	}
	sort.SliceStable(uniq, func(i, j int) bool {
		return strings.ToLower(uniq[i]) < strings.ToLower(uniq[j])
	})

	f, err := os.Create(s.path)
	if err != nil {
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, kw := range uniq {
		w.WriteString(kw)
		w.WriteByte('\n')
	}
	w.Flush()
}

// MergeAndSave canonicalizes extracted keywords against the store as one
// atomic operation. For each keyword: an existing similar entry substitutes
// its stored form; otherwise the keyword is appended verbatim. The returned
// list preserves first-occurrence order with empty normalizations skipped.
// The store file is rewritten unconditionally, even when nothing changed.
func (s *Store) MergeAndSave(extracted []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.loadLocked()
	var canonical []string

	for _, kw := range extracted {
		clean := Normalize(kw)
		if clean == "" {
			continue
		}
		if similar := FindSimilar(db, clean, s.threshold); similar != "" {
			if !contains(canonical, similar) {
				canonical = append(canonical, similar)
			}
			continue
		}
		db = append(db, kw)
		if !contains(canonical, kw) {
			canonical = append(canonical, kw)
		}
	}

	s.saveLocked(db)
	return canonical
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
