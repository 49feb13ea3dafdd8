package parser

import (
	"regexp"
	"strconv"

	"deckscan/internal/card"
)

var (
	// inlineScheduleRe matches the legacy inline marker !<due>,<interval>,<ease>.
	inlineScheduleRe = regexp.MustCompile(`!([\d-]+),(\d+),(\d+)`)
	// commentScheduleRe matches the comment marker <!--SR:<due>,<interval>,<ease>-->.
	commentScheduleRe = regexp.MustCompile(`<!--SR:([\d-]+),(\d+),(\d+)-->`)
)

// ExtractSchedules scans a block's text for embedded scheduling markers and
// returns exactly pairCount schedule records, assigned positionally in
// textual order. Inline markers take precedence; comment markers are only
// consulted when no inline marker exists. Positions without a marker get the
// base ease and no due date or interval; excess markers are ignored.
func ExtractSchedules(text string, pairCount, baseEase int) []card.Schedule {
	if pairCount <= 0 {
		return nil
	}

	matches := inlineScheduleRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		matches = commentScheduleRe.FindAllStringSubmatch(text, -1)
	}

	records := make([]card.Schedule, pairCount)
	for i := range records {
		if i >= len(matches) {
			records[i] = card.Schedule{Ease: baseEase}
			continue
		}
		interval, _ := strconv.Atoi(matches[i][2])
		ease, _ := strconv.Atoi(matches[i][3])
		records[i] = card.Schedule{
			Due:      matches[i][1],
			Interval: interval,
			Ease:     ease,
		}
	}
	return records
}
