package card

import "fmt"

// Type identifies the markup dialect a question block was written in.
type Type int

const (
	SingleLineBasic Type = iota
	SingleLineReversed
	MultiLineBasic
	MultiLineReversed
	Cloze
)

func (t Type) String() string {
	switch t {
	case SingleLineBasic:
		return "single-line"
	case SingleLineReversed:
		return "single-line-reversed"
	case MultiLineBasic:
		return "multi-line"
	case MultiLineReversed:
		return "multi-line-reversed"
	case Cloze:
		return "cloze"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Block is one raw question block recognized in a note: the dialect it was
// written in, its text with trailing whitespace trimmed, and the inclusive
// 0-based line span it consumed.
type Block struct {
	Type      Type
	Text      string
	FirstLine int
	LastLine  int
}

// Pair is one quizzable front/back direction derived from a block.
type Pair struct {
	Front string
	Back  string
}

// Schedule carries previously persisted review state recovered from note
// text. Due is empty and Interval zero when no marker was found; Ease always
// holds at least the configured base ease. A marker with a literal zero
// interval is indistinguishable from an absent one and round-trips as
// absent.
type Schedule struct {
	Due      string `json:"due,omitempty"`
	Interval int    `json:"interval,omitempty"`
	Ease     int    `json:"ease"`
}

// Record is one fully resolved flashcard: a pair zipped with its schedule and
// the deck path its note resolved to.
type Record struct {
	ID       string `json:"id"`
	DeckPath string `json:"deckPath"`
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Ease     int    `json:"ease"`
	Interval int    `json:"interval,omitempty"`
	Due      string `json:"due,omitempty"`
}

// RecordID derives the scan-unique record identifier from a card's origin.
func RecordID(filePath string, firstLine, pairIndex int) string {
	return fmt.Sprintf("%s:%d:%d", filePath, firstLine, pairIndex)
}
