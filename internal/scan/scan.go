// Package scan runs the full parsing pipeline over a vault and materializes
// the flattened card list plus the deck tree as one disposable snapshot.
package scan

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"deckscan/internal/card"
	"deckscan/internal/deck"
	"deckscan/internal/parser"
	"deckscan/internal/vault"
)

// Stats summarizes one scan pass.
type Stats struct {
	Notes        int `json:"notes"`
	SkippedNotes int `json:"skippedNotes"`
	FailedNotes  int `json:"failedNotes"`
}

// Result is a complete materialized scan: the flattened records, the deck
// tree built from them, and the sorted distinct deck paths. A Result is
// immutable once published; rescans produce a fresh one.
type Result struct {
	Cards      []card.Record
	Decks      *deck.Node
	DeckPaths  []string
	Stats      Stats
	Generation uint64
	ScannedAt  time.Time
}

// Scanner scans a vault directory. Notes are parsed concurrently (each note
// is independent of every other); aggregation into the deck tree is a single
// sequential pass over the flattened list.
type Scanner struct {
	Root     string
	Options  parser.Options
	BaseEase int
	Resolver vault.DeckResolver
	Ignore   func(rel string) bool
	Workers  int
	Logger   *slog.Logger
}

// Scan walks the vault, parses every eligible note, and returns the complete
// result. A note that fails to read or resolves to no deck is skipped without
// aborting the batch.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	notes, err := vault.ListNotes(s.Root, s.Ignore)
	if err != nil {
		return nil, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(notes) && len(notes) > 0 {
		workers = len(notes)
	}

	// Per-note output is collected by index so the flattened list is in
	// deterministic note order regardless of worker scheduling.
	perNote := make([][]card.Record, len(notes))
	var skipped, failed atomic.Int64

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rel := notes[idx]
				note, err := vault.ReadNote(s.Root, rel)
				if err != nil {
					logger.Warn("skipping unreadable note", "path", rel, "error", err)
					failed.Add(1)
					continue
				}
				deckPaths := s.Resolver.Resolve(note)
				if len(deckPaths) == 0 {
					skipped.Add(1)
					continue
				}
				perNote[idx] = ParseNote(rel, note.Text, deckPaths, s.Options, s.BaseEase)
			}
		}()
	}

feed:
	for i := range notes {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cards []card.Record
	for _, recs := range perNote {
		cards = append(cards, recs...)
	}

	result := &Result{
		Cards:     cards,
		Decks:     deck.Build(cards),
		DeckPaths: deck.DistinctPaths(cards),
		Stats: Stats{
			Notes:        len(notes),
			SkippedNotes: int(skipped.Load()),
			FailedNotes:  int(failed.Load()),
		},
		ScannedAt: time.Now(),
	}
	logger.Info("scan complete",
		"notes", result.Stats.Notes,
		"cards", len(result.Cards),
		"decks", len(result.DeckPaths),
		"skipped", result.Stats.SkippedNotes,
		"failed", result.Stats.FailedNotes,
	)
	return result, nil
}

// ParseNote runs segmentation, expansion, and schedule extraction over one
// note's text and zips the outputs into card records, one set per resolved
// deck path. It is pure and safe to call concurrently across notes.
func ParseNote(filePath, text string, deckPaths []string, opts parser.Options, baseEase int) []card.Record {
	if baseEase <= 0 {
		baseEase = parser.DefaultBaseEase
	}
	var records []card.Record
	for _, block := range parser.Segment(text, opts) {
		pairs := parser.Expand(block, opts)
		schedules := parser.ExtractSchedules(block.Text, len(pairs), baseEase)
		for pi, pair := range pairs {
			sched := schedules[pi]
			for _, deckPath := range deckPaths {
				records = append(records, card.Record{
					ID:       card.RecordID(filePath, block.FirstLine, pi),
					DeckPath: deckPath,
					FilePath: filePath,
					Line:     block.FirstLine,
					Front:    pair.Front,
					Back:     pair.Back,
					Ease:     sched.Ease,
					Interval: sched.Interval,
					Due:      sched.Due,
				})
			}
		}
	}
	return records
}
