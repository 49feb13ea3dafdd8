package vault

import (
	"path"
	"strings"

	"github.com/mattn/go-zglob"
)

// DefaultTagRoot marks a note as containing flashcards when no roots are
// configured.
const DefaultTagRoot = "#flashcards"

// DeckResolver derives the deck path(s) a note's cards belong to. Tags under
// a configured flashcard-tag root win; when a note carries none and
// FoldersToDecks is set, the note's folder path is used instead. A note that
// resolves to nothing is not scanned at all.
type DeckResolver struct {
	TagRoots       []string
	FoldersToDecks bool
}

// Resolve returns the deck paths for a note, in first-appearance order with
// duplicates removed.
func (r DeckResolver) Resolve(n *Note) []string {
	roots := r.TagRoots
	if len(roots) == 0 {
		roots = []string{DefaultTagRoot}
	}

	var decks []string
	seen := make(map[string]struct{})
	add := func(deck string) {
		if _, ok := seen[deck]; ok {
			return
		}
		seen[deck] = struct{}{}
		decks = append(decks, deck)
	}

	for _, tag := range n.Tags {
		for _, root := range roots {
			root = strings.TrimSuffix(root, "/")
			if tag == root || strings.HasPrefix(tag, root+"/") {
				add(strings.TrimPrefix(tag, "#"))
				break
			}
		}
	}
	if len(decks) > 0 {
		return decks
	}

	if r.FoldersToDecks {
		dir := path.Dir(n.RelPath)
		if dir == "." {
			dir = ""
		}
		return []string{dir}
	}
	return nil
}

// NewIgnore compiles folder-ignore glob patterns into a predicate over
// slash-separated vault-relative paths. A pattern matches a note when it
// matches the note's path or any of its parent directories, so ignoring
// "templates" hides everything under that folder. Invalid patterns never
// match.
func NewIgnore(patterns []string) func(rel string) bool {
	return func(rel string) bool {
		for _, pattern := range patterns {
			if pattern == "" {
				continue
			}
			if ok, err := zglob.Match(pattern, rel); err == nil && ok {
				return true
			}
			for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
				if ok, err := zglob.Match(pattern, dir); err == nil && ok {
					return true
				}
			}
		}
		return false
	}
}
