// Package vault supplies the host-side collaborators around the parsing
// core: listing and reading notes, resolving a note's deck paths from tags or
// folder structure, and glob-based path ignoring.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Note is one markdown file read from the vault. Text is the complete,
// unmodified file content so that parser line numbers match the file on disk;
// frontmatter is only parsed on the side for its tags.
type Note struct {
	RelPath string
	Text    string
	Tags    []string
}

var inlineTagRe = regexp.MustCompile(`#[\p{L}\d_][\p{L}\d_/-]*`)

// ReadNote loads the note at rel (slash-separated, relative to root) and
// collects its tags from both YAML frontmatter and inline #tag occurrences.
// Malformed frontmatter is ignored rather than failing the note.
func ReadNote(root, rel string) (*Note, error) {
	raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("failed to read note %s: %w", rel, err)
	}
	text := string(raw)

	note := &Note{RelPath: rel, Text: text}
	note.Tags = append(note.Tags, frontmatterTags(text)...)
	note.Tags = append(note.Tags, inlineTagRe.FindAllString(text, -1)...)
	return note, nil
}

// frontmatterTags parses the leading YAML frontmatter block, if any, and
// returns its tags normalized to the inline "#tag" form. Tags may be a YAML
// list or a single comma-separated string.
func frontmatterTags(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return nil
	}

	var fm struct {
		Tags any `yaml:"tags"`
	}
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		return nil
	}

	var tags []string
	addTag := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		tags = append(tags, s)
	}
	switch v := fm.Tags.(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			addTag(s)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				addTag(s)
			}
		}
	}
	return tags
}

// ListNotes walks the vault and returns the slash-separated relative paths of
// all markdown notes not excluded by the ignore predicate, in lexical order.
func ListNotes(root string, ignore func(rel string) bool) ([]string, error) {
	var notes []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ignore != nil && ignore(rel) {
			return nil
		}
		notes = append(notes, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault %s: %w", root, err)
	}
	return notes, nil
}
