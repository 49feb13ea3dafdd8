package card

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize concatenates a record's identifying content after cleaning each
// part. It trims whitespace, lowercases, and normalizes line endings so that
// cosmetic edits to a note do not change a card's identity.
func Normalize(r Record) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	front := normalizePart(r.Front)
	back := normalizePart(r.Back)
	deck := normalizePart(r.DeckPath)

	// Joined with a newline so adjacent fields cannot run together and
	// collide, e.g. front "ab" + back "c" vs front "a" + back "bc".
	return strings.Join([]string{deck, front, back}, "\n")
}

// Fingerprint returns the SHA-256 of a record's normalized content as a hex
// string. It is stable across scans as long as the card's deck and faces are
// unchanged, which makes it usable as a persistence key.
func Fingerprint(r Record) string {
	sum := sha256.Sum256([]byte(Normalize(r)))
	return fmt.Sprintf("%x", sum)
}
