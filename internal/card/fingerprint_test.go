package card

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		record   Record
		expected string
	}{
		{
			name:     "Lowercases and trims",
			record:   Record{DeckPath: "Maths", Front: "  What is 1+1?  ", Back: "Two"},
			expected: "maths\nwhat is 1+1?\ntwo",
		},
		{
			name:     "Normalizes CRLF line endings",
			record:   Record{DeckPath: "a", Front: "line1\r\nline2", Back: "b"},
			expected: "a\nline1\nline2\nb",
		},
		{
			name:     "Empty fields keep their separators",
			record:   Record{Front: "q"},
			expected: "\nq\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.record); got != tc.expected {
				t.Errorf("Normalize() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Record{DeckPath: "Deck", Front: "Question", Back: "Answer"}
	b := Record{DeckPath: "deck", Front: "  question  ", Back: "answer"}
	c := Record{DeckPath: "deck", Front: "question", Back: "different"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("Expected fingerprints of equivalent records to match")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("Expected fingerprints of different records to differ")
	}
	if len(Fingerprint(a)) != 64 {
		t.Errorf("Expected a 64-char hex digest, got %d chars", len(Fingerprint(a)))
	}
	if strings.ToLower(Fingerprint(a)) != Fingerprint(a) {
		t.Error("Expected a lowercase hex digest")
	}
}

func TestRecordID(t *testing.T) {
	id := RecordID("notes/algebra.md", 12, 1)
	if id != "notes/algebra.md:12:1" {
		t.Errorf("RecordID() = %q", id)
	}
}
