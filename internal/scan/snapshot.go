package scan

import "sync/atomic"

// Holder publishes completed scan results with single-writer, read-after-
// complete visibility. Readers either see a fully materialized result or
// none; a monotonic generation counter distinguishes rebuilds. Publish
// assumes one writer at a time: with concurrent publishers the generation
// stamp and the pointer store are not ordered together.
type Holder struct {
	current atomic.Pointer[Result]
	gen     atomic.Uint64
}

// Publish stamps the result with the next generation and makes it the
// current snapshot.
func (h *Holder) Publish(r *Result) *Result {
	r.Generation = h.gen.Add(1)
	h.current.Store(r)
	return r
}

// Current returns the latest published snapshot, or nil when no scan has
// completed yet.
func (h *Holder) Current() *Result {
	return h.current.Load()
}
