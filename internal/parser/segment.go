package parser

import (
	"regexp"
	"strings"

	"deckscan/internal/card"
)

const (
	srCommentPrefix   = "<!--SR:"
	htmlCommentPrefix = "<!--"
	htmlCommentClose  = "-->"
)

var (
	explicitClozeRe = regexp.MustCompile(`(?s)\{\{c(\d*)::(.+?)\}\}`)
	highlightRe     = regexp.MustCompile(`(?s)==(.+?)==`)
	boldRe          = regexp.MustCompile(`(?s)\*\*(.+?)\*\*`)
	curlyRe         = regexp.MustCompile(`(?s)\{\{(.+?)\}\}`)
)

// Segment scans note text and returns the raw question blocks it contains,
// in order of appearance. Line spans are 0-based and inclusive. Text inside
// fenced code blocks is captured verbatim and never inspected for markup;
// HTML comments other than schedule markers are consumed without contributing
// to any block.
func Segment(text string, opts Options) []card.Block {
	opts = opts.withDefaults()
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var blocks []card.Block
	var cur []string
	var typ card.Type
	typed := false
	first := 0
	inFence := false
	var fenceChar byte
	fenceLen := 0

	flush := func(last int) {
		if typed && len(cur) > 0 {
			blocks = append(blocks, card.Block{
				Type:      typ,
				Text:      strings.TrimRight(strings.Join(cur, "\n"), " \t\n"),
				FirstLine: first,
				LastLine:  last,
			})
		}
		cur = nil
		typed = false
		inFence = false
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if inFence {
			cur = append(cur, line)
			if closesFence(line, fenceChar, fenceLen) {
				inFence = false
			}
			continue
		}

		if strings.HasPrefix(line, htmlCommentPrefix) && !strings.HasPrefix(line, srCommentPrefix) {
			for i < len(lines)-1 && !strings.Contains(lines[i], htmlCommentClose) {
				i++
			}
			continue
		}

		if ch, n, ok := opensFence(line); ok {
			if len(cur) == 0 {
				first = i
			}
			cur = append(cur, line)
			inFence, fenceChar, fenceLen = true, ch, n
			continue
		}

		trimmed := strings.TrimSpace(line)

		if opts.MultilineEndMarker != "" {
			if trimmed == opts.MultilineEndMarker {
				flush(i)
				continue
			}
			if trimmed == "" {
				// With an end marker in effect blank lines stay inside
				// an open block; outside a block they are a boundary.
				if len(cur) > 0 {
					cur = append(cur, line)
				}
				continue
			}
		} else if trimmed == "" {
			flush(i - 1)
			continue
		}

		if len(cur) == 0 {
			first = i
		}
		cur = append(cur, line)

		if singleType, ok := detectSingleLine(line, opts); ok {
			// Single-line cards are exactly this line plus an optional
			// schedule comment on the next; anything accumulated before
			// is dropped.
			lineNo := i
			blockText := line
			if i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), srCommentPrefix) {
				i++
				blockText += "\n" + lines[i]
			}
			blocks = append(blocks, card.Block{
				Type:      singleType,
				Text:      strings.TrimRight(blockText, " \t\n"),
				FirstLine: lineNo,
				LastLine:  i,
			})
			cur = nil
			typed = false
			continue
		}

		switch {
		case trimmed == opts.MultilineSeparator && len(cur) > 1:
			typ, typed = card.MultiLineBasic, true
		case trimmed == opts.MultilineReversedSeparator && len(cur) > 1:
			typ, typed = card.MultiLineReversed, true
		default:
			if !typed && isClozeLine(line, opts) {
				typ, typed = card.Cloze, true
			}
		}
	}
	flush(len(lines) - 1)

	return blocks
}

// detectSingleLine reports whether the line contains a single-line card
// separator outside of any inline code span, checking the longer separator
// first so a reversed separator is never mistaken for the basic one.
func detectSingleLine(line string, opts Options) (card.Type, bool) {
	for _, c := range opts.singleLineCandidates() {
		if c.sep == "" {
			continue
		}
		if hasSeparatorOutsideCode(line, c.sep) {
			if c.reversed {
				return card.SingleLineReversed, true
			}
			return card.SingleLineBasic, true
		}
	}
	return 0, false
}

// hasSeparatorOutsideCode reports whether sep occurs in line at a position
// that is neither inside an inline code span nor inside explicit cloze
// markup.
func hasSeparatorOutsideCode(line, sep string) bool {
	return separatorIndex(line, sep) >= 0
}

// separatorIndex returns the offset of the first occurrence of sep in line
// that counts as a card separator, or -1. An occurrence does not count when
// the backtick counts both before and after it are odd (inside an inline
// code span), or when it falls inside explicit {{c<n>::...}} markup, whose
// own :: must not be mistaken for a separator.
func separatorIndex(line, sep string) int {
	cloze := explicitClozeRe.FindAllStringIndex(line, -1)
	for from := 0; ; {
		i := strings.Index(line[from:], sep)
		if i < 0 {
			return -1
		}
		i += from
		from = i + 1
		if insideSpan(cloze, i, i+len(sep)) {
			continue
		}
		before := strings.Count(line[:i], "`")
		after := strings.Count(line[i+len(sep):], "`")
		if before%2 == 0 || after%2 == 0 {
			return i
		}
	}
}

func insideSpan(spans [][]int, start, end int) bool {
	for _, s := range spans {
		if start >= s[0] && end <= s[1] {
			return true
		}
	}
	return false
}

func isClozeLine(line string, opts Options) bool {
	if explicitClozeRe.MatchString(line) {
		return true
	}
	if opts.ClozeHighlights && highlightRe.MatchString(line) {
		return true
	}
	if opts.ClozeBold && boldRe.MatchString(line) {
		return true
	}
	if opts.ClozeCurlyBrackets && curlyRe.MatchString(line) {
		return true
	}
	return false
}

// opensFence recognizes a fenced code block opener: a run of three or more
// backticks or tildes at the start of the line, optionally followed by an
// info string.
func opensFence(line string) (byte, int, bool) {
	if len(line) < 3 {
		return 0, 0, false
	}
	ch := line[0]
	if ch != '`' && ch != '~' {
		return 0, 0, false
	}
	n := 0
	for n < len(line) && line[n] == ch {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return ch, n, true
}

// closesFence recognizes a closing fence: a line of nothing but the opening
// fence character, at least as long as the opener.
func closesFence(line string, ch byte, openLen int) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < openLen {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != ch {
			return false
		}
	}
	return true
}
