// Package parser extracts flashcard blocks from note text. It is a pure,
// synchronous pipeline: Segment finds raw question blocks, Expand turns a
// block into front/back pairs, and ExtractSchedules recovers previously
// persisted review state embedded in the block text.
package parser

import "sort"

// Default separator tokens and base ease, applied whenever the corresponding
// Options field is left empty.
const (
	DefaultSingleLineSeparator         = "::"
	DefaultSingleLineReversedSeparator = ":::"
	DefaultMultilineSeparator          = "?"
	DefaultMultilineReversedSeparator  = "??"
	DefaultBaseEase                    = 250
)

// Options holds the markup tokens and conversion flags the parser honors.
// The zero value is usable: empty separators fall back to the defaults above,
// an empty end marker selects blank-line block termination, and all legacy
// cloze conversions stay off.
type Options struct {
	SingleLineSeparator         string
	SingleLineReversedSeparator string
	MultilineSeparator          string
	MultilineReversedSeparator  string
	MultilineEndMarker          string
	ClozeHighlights             bool
	ClozeBold                   bool
	ClozeCurlyBrackets          bool
}

// DefaultOptions returns the documented default markup configuration.
func DefaultOptions() Options {
	return Options{
		SingleLineSeparator:         DefaultSingleLineSeparator,
		SingleLineReversedSeparator: DefaultSingleLineReversedSeparator,
		MultilineSeparator:          DefaultMultilineSeparator,
		MultilineReversedSeparator:  DefaultMultilineReversedSeparator,
	}
}

func (o Options) withDefaults() Options {
	if o.SingleLineSeparator == "" {
		o.SingleLineSeparator = DefaultSingleLineSeparator
	}
	if o.SingleLineReversedSeparator == "" {
		o.SingleLineReversedSeparator = DefaultSingleLineReversedSeparator
	}
	if o.MultilineSeparator == "" {
		o.MultilineSeparator = DefaultMultilineSeparator
	}
	if o.MultilineReversedSeparator == "" {
		o.MultilineReversedSeparator = DefaultMultilineReversedSeparator
	}
	return o
}

// singleLineCandidates returns the single-line separators ordered longest
// first, so that when one separator is a prefix of the other (":::" vs "::")
// the longer match wins.
func (o Options) singleLineCandidates() []separatorCandidate {
	cands := []separatorCandidate{
		{sep: o.SingleLineReversedSeparator, reversed: true},
		{sep: o.SingleLineSeparator, reversed: false},
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return len(cands[i].sep) > len(cands[j].sep)
	})
	return cands
}

type separatorCandidate struct {
	sep      string
	reversed bool
}
