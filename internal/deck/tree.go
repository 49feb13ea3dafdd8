// Package deck builds the hierarchical deck tree over a flattened card list.
// The tree is always rebuilt from scratch alongside the card list; nothing is
// patched incrementally.
package deck

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"deckscan/internal/card"
)

// DefaultDeckName holds cards whose deck path is empty or decomposes into no
// segments.
const DefaultDeckName = "Default"

// Node is one deck in the hierarchy. The root is a sentinel with no name and
// no parent. Children are unique by name among siblings and sorted by name
// with locale-aware comparison once the tree is fully populated.
type Node struct {
	Name     string
	Children []*Node
	Cards    []card.Record

	parent *Node
}

// Build places every card into the tree addressed by its deck path and
// returns the root. Deck paths split on "/" with empty segments dropped; a
// path with no usable segments resolves to the default deck. After placement
// every node's children are sorted by name, so building twice from the same
// card list yields structurally identical trees.
func Build(cards []card.Record) *Node {
	root := &Node{}
	for _, c := range cards {
		node := root
		for _, segment := range Segments(c.DeckPath) {
			node = node.child(segment)
		}
		node.Cards = append(node.Cards, c)
	}
	root.sortChildren(newCollator())
	return root
}

// Segments decomposes a deck path into its non-empty path segments. An empty
// or all-empty-segment path resolves to the single default segment.
func Segments(deckPath string) []string {
	var segments []string
	for _, s := range strings.Split(deckPath, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return []string{DefaultDeckName}
	}
	return segments
}

// child returns the named child, creating it in insertion order when absent.
func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Node{Name: name, parent: n}
	n.Children = append(n.Children, c)
	return c
}

// TotalCount returns the number of cards in this deck and every deck below
// it. It is computed on every call rather than cached, so it cannot go stale
// across rebuilds.
func (n *Node) TotalCount() int {
	total := len(n.Cards)
	for _, c := range n.Children {
		total += c.TotalCount()
	}
	return total
}

// Path reconstructs the node's full deck path from its parent links. The
// root's path is empty.
func (n *Node) Path() string {
	if n.parent == nil {
		return ""
	}
	if parent := n.parent.Path(); parent != "" {
		return parent + "/" + n.Name
	}
	return n.Name
}

// Lookup walks the tree to the node at the given deck path, or nil when no
// such deck exists.
func (n *Node) Lookup(deckPath string) *Node {
	node := n
	for _, segment := range Segments(deckPath) {
		var next *Node
		for _, c := range node.Children {
			if c.Name == segment {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

func (n *Node) sortChildren(c *collate.Collator) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return c.CompareString(n.Children[i].Name, n.Children[j].Name) < 0
	})
	for _, child := range n.Children {
		child.sortChildren(c)
	}
}

// DistinctPaths returns the sorted set of distinct deck path strings carried
// by the given cards, using the same locale-aware ordering as the tree.
func DistinctPaths(cards []card.Record) []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, c := range cards {
		p := strings.Join(Segments(c.DeckPath), "/")
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	coll := newCollator()
	sort.SliceStable(paths, func(i, j int) bool {
		return coll.CompareString(paths[i], paths[j]) < 0
	})
	return paths
}

// Collators are cheap to build and not safe for concurrent use, so each sort
// pass gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}
