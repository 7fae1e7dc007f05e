// Package taxonomy maintains the self-expanding two-level category tree used
// to file documents, persisted as a JSON object of main category -> ordered
// subcategory list. The tree grows from directives scraped out of model
// answers; parsing is isolated in ParseDirective so mutation logic stays
// independently testable.
package taxonomy

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"
)

// Tree maps main categories to their ordered subcategory lists.
// Subcategories within a main category are unique.
type Tree map[string][]string

// Store is the process-wide category tree. Like the keyword store it is
// shared by concurrent sessions, so every load-mutate-save cycle runs under
// one lock.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored tree. A missing or malformed file yields an empty
// tree, never an error.
func (s *Store) Load() Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() Tree {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Tree{}
	}
	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return Tree{}
	}
	return tree
}

// saveLocked persists the tree. Write failures are swallowed: taxonomy
// decisions already made in memory stay valid for the current session.
func (s *Store) saveLocked(tree Tree) {
	data, err := json.MarshalIndent(tree, "", "    ")
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0644)
}

// Apply parses a directive out of the model's answer and folds it into the
// persisted tree as one atomic operation. New-subcategory edits are
// idempotent: the subcategory is appended only when the main category exists
// and does not already list it. The tree is saved unconditionally after any
// parse attempt. The returned Edit (possibly an informational assignment) is
// nil when the text carried no directive.
func (s *Store) Apply(llmText string) *Edit {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree := s.loadLocked()
	edit := ParseDirective(llmText)

	if edit != nil {
		switch edit.Kind {
		case EditNewCategory:
			tree[edit.Main] = edit.Subs
		case EditNewSubcategory:
			if subs, ok := tree[edit.Main]; ok && !containsSub(subs, edit.Sub) {
				tree[edit.Main] = append(subs, edit.Sub)
			}
		case EditAssignment:
			// Informational only; no tree mutation.
		}
	}

	s.saveLocked(tree)
	return edit
}

// PromptList renders the tree as "Main -> sub1, sub2" lines for inclusion in
// the category-assignment question. Main categories are sorted so the prompt
// is stable across runs.
func (s *Store) PromptList() string {
	tree := s.Load()

	mains := make([]string, 0, len(tree))
	for main := range tree {
		mains = append(mains, main)
	}
	sort.Strings(mains)

	lines := make([]string, 0, len(mains))
	for _, main := range mains {
		lines = append(lines, main+" -> "+strings.Join(tree[main], ", "))
	}
	return strings.Join(lines, "\n")
}

func containsSub(subs []string, sub string) bool {
	for _, s := range subs {
		if s == sub {
			return true
		}
	}
	return false
}
