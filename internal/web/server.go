// Package web serves the latest published scan snapshot as a small JSON API.
// It renders nothing: decks and cards go out as data for other tools to
// present.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"deckscan/internal/card"
	"deckscan/internal/deck"
	"deckscan/internal/scan"
)

// Server holds the dependencies for the HTTP API.
type Server struct {
	holder  *scan.Holder
	scanner *scan.Scanner
	router  *http.ServeMux
}

// NewServer creates and configures a new server around a snapshot holder and
// the scanner used for on-demand rescans.
func NewServer(holder *scan.Holder, scanner *scan.Scanner) *Server {
	s := &Server{
		holder:  holder,
		scanner: scanner,
		router:  http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/api/decks", s.handleGetDecks())
	s.router.HandleFunc("/api/cards", s.handleGetCards())
	s.router.HandleFunc("/api/due", s.handleGetDue())
	s.router.HandleFunc("/api/scan", s.handlePostScan())
}

// deckView is the serialized form of one deck node.
type deckView struct {
	Name       string     `json:"name"`
	Path       string     `json:"path,omitempty"`
	CardCount  int        `json:"cardCount"`
	TotalCount int        `json:"totalCount"`
	Children   []deckView `json:"children,omitempty"`
}

func viewOf(n *deck.Node) deckView {
	v := deckView{
		Name:       n.Name,
		Path:       n.Path(),
		CardCount:  len(n.Cards),
		TotalCount: n.TotalCount(),
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, viewOf(c))
	}
	return v
}

func (s *Server) snapshot(w http.ResponseWriter) *scan.Result {
	result := s.holder.Current()
	if result == nil {
		http.Error(w, "No scan has completed yet", http.StatusServiceUnavailable)
		return nil
	}
	return result
}

func (s *Server) handleGetDecks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result := s.snapshot(w)
		if result == nil {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"generation": result.Generation,
			"scannedAt":  result.ScannedAt,
			"deckPaths":  result.DeckPaths,
			"stats":      result.Stats,
			"decks":      viewOf(result.Decks).Children,
		})
	}
}

func (s *Server) handleGetCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result := s.snapshot(w)
		if result == nil {
			return
		}

		deckPath := r.URL.Query().Get("deck")
		if deckPath == "" {
			writeJSON(w, http.StatusOK, result.Cards)
			return
		}
		node := result.Decks.Lookup(deckPath)
		if node == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, subtreeCards(node))
	}
}

func subtreeCards(n *deck.Node) []card.Record {
	cards := append([]card.Record(nil), n.Cards...)
	for _, c := range n.Children {
		cards = append(cards, subtreeCards(c)...)
	}
	return cards
}

func (s *Server) handleGetDue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result := s.snapshot(w)
		if result == nil {
			return
		}

		on := r.URL.Query().Get("on")
		if on == "" {
			on = time.Now().Format("2006-01-02")
		} else if _, err := time.Parse("2006-01-02", on); err != nil {
			http.Error(w, "Invalid date; want YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		// Recovered due dates are ISO strings, so lexicographic order is
		// date order.
		due := []card.Record{}
		for _, c := range result.Cards {
			if c.Due != "" && c.Due <= on {
				due = append(due, c)
			}
		}
		writeJSON(w, http.StatusOK, due)
	}
}

func (s *Server) handlePostScan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result, err := s.scanner.Scan(r.Context())
		if err != nil {
			slog.Error("rescan failed", "error", err)
			http.Error(w, "Scan failed", http.StatusInternalServerError)
			return
		}
		result = s.holder.Publish(result)
		writeJSON(w, http.StatusOK, map[string]any{
			"generation": result.Generation,
			"cards":      len(result.Cards),
			"stats":      result.Stats,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
