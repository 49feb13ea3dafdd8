package parser

import (
	"regexp"
	"sort"
	"strings"

	"deckscan/internal/card"
)

// clozePlaceholder hides an answer with no hint on the front of a cloze card.
const clozePlaceholder = "[...]"

// Expand converts one raw question block into its front/back pairs,
// dispatching on the block's card type. Every block yields at least one pair;
// reversed types yield both orderings and cloze blocks yield one pair per
// cloze group. Schedule markers embedded in the text are stripped before
// splitting so recovered review state never appears on a card face.
func Expand(b card.Block, opts Options) []card.Pair {
	opts = opts.withDefaults()
	text := stripScheduleMarkers(b.Text)

	switch b.Type {
	case card.SingleLineBasic:
		front, back := splitInline(text, opts.SingleLineSeparator)
		return []card.Pair{{Front: front, Back: back}}
	case card.SingleLineReversed:
		side1, side2 := splitInline(text, opts.SingleLineReversedSeparator)
		return []card.Pair{
			{Front: side1, Back: side2},
			{Front: side2, Back: side1},
		}
	case card.MultiLineBasic:
		front, back := splitAtSeparatorLine(text, opts.MultilineSeparator)
		return []card.Pair{{Front: front, Back: back}}
	case card.MultiLineReversed:
		side1, side2 := splitAtSeparatorLine(text, opts.MultilineReversedSeparator)
		return []card.Pair{
			{Front: side1, Back: side2},
			{Front: side2, Back: side1},
		}
	case card.Cloze:
		return expandCloze(text, opts)
	}
	return []card.Pair{{Front: text, Back: text}}
}

var srCommentStripRe = regexp.MustCompile(`[ \t]*<!--SR:.*?-->`)

func stripScheduleMarkers(text string) string {
	text = srCommentStripRe.ReplaceAllString(text, "")
	text = inlineScheduleRe.ReplaceAllString(text, "")
	return strings.TrimRight(text, " \t\n")
}

// splitInline splits at the first occurrence of sep that counts as a
// separator, using the same exclusions as detection, so a line is never
// split inside inline code or cloze markup. Both sides are trimmed.
func splitInline(text, sep string) (string, string) {
	i := separatorIndex(text, sep)
	if i < 0 {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+len(sep):])
}

// splitAtSeparatorLine splits a multi-line block at the first line whose
// trimmed content equals sep.
func splitAtSeparatorLine(text, sep string) (string, string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == sep {
			front := strings.TrimSpace(strings.Join(lines[:i], "\n"))
			back := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return front, back
		}
	}
	return strings.TrimSpace(text), ""
}

// clozeSpan is one cloze occurrence located in the block text.
type clozeSpan struct {
	start  int
	end    int
	answer string
	hint   string
}

// clozeSpans returns all cloze occurrences in appearance order: explicit
// {{c<n>::answer}} / {{c<n>::answer::hint}} markup always, plus highlight,
// bold, and curly-bracket spans when the corresponding conversion is enabled.
// Overlapping later matches are dropped so an explicit marker is never also
// counted as a bare curly-bracket group.
func clozeSpans(text string, opts Options) []clozeSpan {
	var spans []clozeSpan
	add := func(start, end int, answer, hint string) {
		for _, s := range spans {
			if start < s.end && s.start < end {
				return
			}
		}
		spans = append(spans, clozeSpan{start: start, end: end, answer: answer, hint: hint})
	}

	for _, m := range explicitClozeRe.FindAllStringSubmatchIndex(text, -1) {
		inner := text[m[4]:m[5]]
		answer, hint := inner, ""
		if j := strings.Index(inner, "::"); j >= 0 {
			answer, hint = inner[:j], inner[j+2:]
		}
		add(m[0], m[1], answer, hint)
	}
	legacy := []struct {
		enabled bool
		re      *regexp.Regexp
	}{
		{opts.ClozeHighlights, highlightRe},
		{opts.ClozeBold, boldRe},
		{opts.ClozeCurlyBrackets, curlyRe},
	}
	for _, l := range legacy {
		if !l.enabled {
			continue
		}
		for _, m := range l.re.FindAllStringSubmatchIndex(text, -1) {
			add(m[0], m[1], text[m[2]:m[3]], "")
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// expandCloze emits one pair per cloze occurrence, in appearance order. The
// numeric group id in explicit markup is cosmetic and does not affect
// ordering. Substitution is positional: output is rebuilt from the located
// spans, so two groups with identical literal markup can never be confused.
func expandCloze(text string, opts Options) []card.Pair {
	spans := clozeSpans(text, opts)
	if len(spans) == 0 {
		return []card.Pair{{Front: text, Back: text}}
	}

	render := func(hidden int) string {
		var sb strings.Builder
		prev := 0
		for j, s := range spans {
			sb.WriteString(text[prev:s.start])
			if j == hidden {
				if s.hint != "" {
					sb.WriteString("[" + s.hint + "]")
				} else {
					sb.WriteString(clozePlaceholder)
				}
			} else {
				sb.WriteString(s.answer)
			}
			prev = s.end
		}
		sb.WriteString(text[prev:])
		return sb.String()
	}

	back := render(-1)
	pairs := make([]card.Pair, 0, len(spans))
	for i := range spans {
		pairs = append(pairs, card.Pair{Front: render(i), Back: back})
	}
	return pairs
}
