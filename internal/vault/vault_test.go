package vault

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFrontmatterTags(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "List form",
			text:     "---\ntags:\n  - flashcards/math\n  - review\n---\nbody",
			expected: []string{"#flashcards/math", "#review"},
		},
		{
			name:     "Comma separated string form",
			text:     "---\ntags: flashcards, notes\n---\nbody",
			expected: []string{"#flashcards", "#notes"},
		},
		{
			name:     "Hash prefixes are preserved",
			text:     "---\ntags:\n  - \"#flashcards\"\n---\n",
			expected: []string{"#flashcards"},
		},
		{
			name:     "No frontmatter",
			text:     "just a note",
			expected: nil,
		},
		{
			name:     "Unclosed frontmatter",
			text:     "---\ntags: [a]\nbody without closer",
			expected: nil,
		},
		{
			name:     "Malformed yaml is ignored",
			text:     "---\ntags: [unclosed\n---\nbody",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := frontmatterTags(tc.text); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("frontmatterTags() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestReadNoteCollectsInlineTags(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntags:\n  - flashcards/go\n---\nSome text #flashcards/extra and #other.\n"
	if err := os.WriteFile(filepath.Join(dir, "note.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	note, err := ReadNote(dir, "note.md")
	if err != nil {
		t.Fatalf("ReadNote() error: %v", err)
	}
	if note.Text != content {
		t.Error("Expected note text to be the unmodified file content")
	}
	expected := []string{"#flashcards/go", "#flashcards/extra", "#other"}
	if !reflect.DeepEqual(note.Tags, expected) {
		t.Errorf("Tags = %v, want %v", note.Tags, expected)
	}
}

func TestDeckResolver(t *testing.T) {
	testCases := []struct {
		name     string
		resolver DeckResolver
		note     Note
		expected []string
	}{
		{
			name:     "Tag under default root",
			resolver: DeckResolver{},
			note:     Note{RelPath: "a/b.md", Tags: []string{"#flashcards/math/algebra"}},
			expected: []string{"flashcards/math/algebra"},
		},
		{
			name:     "Bare root tag",
			resolver: DeckResolver{},
			note:     Note{RelPath: "a/b.md", Tags: []string{"#flashcards"}},
			expected: []string{"flashcards"},
		},
		{
			name:     "Non-matching root is not a prefix match",
			resolver: DeckResolver{},
			note:     Note{RelPath: "a/b.md", Tags: []string{"#flashcardsextra"}},
			expected: nil,
		},
		{
			name:     "Duplicate tags collapse",
			resolver: DeckResolver{},
			note:     Note{RelPath: "a/b.md", Tags: []string{"#flashcards/go", "#flashcards/go"}},
			expected: []string{"flashcards/go"},
		},
		{
			name:     "Folder fallback when enabled",
			resolver: DeckResolver{FoldersToDecks: true},
			note:     Note{RelPath: "topics/go/basics.md"},
			expected: []string{"topics/go"},
		},
		{
			name:     "Root-level note with folder fallback",
			resolver: DeckResolver{FoldersToDecks: true},
			note:     Note{RelPath: "basics.md"},
			expected: []string{""},
		},
		{
			name:     "No tags and no fallback skips the note",
			resolver: DeckResolver{},
			note:     Note{RelPath: "a/b.md", Tags: []string{"#journal"}},
			expected: nil,
		},
		{
			name:     "Custom tag roots",
			resolver: DeckResolver{TagRoots: []string{"#cards", "#review"}},
			note:     Note{RelPath: "n.md", Tags: []string{"#review/history"}},
			expected: []string{"review/history"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.resolver.Resolve(&tc.note); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Resolve() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestNewIgnore(t *testing.T) {
	ignore := NewIgnore([]string{"templates", "**/*.excalidraw.md", "archive/**"})

	testCases := []struct {
		rel      string
		expected bool
	}{
		{"templates/card.md", true},
		{"notes/sketch.excalidraw.md", true},
		{"archive/old/note.md", true},
		{"notes/keep.md", false},
	}
	for _, tc := range testCases {
		if got := ignore(tc.rel); got != tc.expected {
			t.Errorf("ignore(%q) = %v, want %v", tc.rel, got, tc.expected)
		}
	}
}

func TestListNotes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.md":              "x",
		"sub/b.md":          "y",
		"sub/skip.txt":      "z",
		"templates/tmpl.md": "t",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	notes, err := ListNotes(dir, NewIgnore([]string{"templates"}))
	if err != nil {
		t.Fatalf("ListNotes() error: %v", err)
	}
	expected := []string{"a.md", "sub/b.md"}
	if !reflect.DeepEqual(notes, expected) {
		t.Errorf("ListNotes() = %v, want %v", notes, expected)
	}
}
