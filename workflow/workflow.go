// Package workflow loads and mutates ComfyUI API-format workflow documents.
//
// A workflow is a JSON object mapping node id to a node record. Nodes carry
// arbitrary keys that must survive a load/modify/serialize round trip
// untouched, so the document is held as a generic tree and only projected
// into typed records for lookup.
package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
)

// LoadError reports a workflow template that is missing, unreadable, or not
// a JSON object of node records.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load workflow %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrNodeNotFound is returned when no node carries the requested title.
var ErrNodeNotFound = errors.New("no node with matching title")

// Node is the typed projection of a node record used for lookup. The full
// record, including keys not listed here, stays in the underlying tree.
type Node struct {
	ID        string
	ClassType string
	Title     string
}

// Graph is an in-memory workflow document.
type Graph struct {
	nodes map[string]map[string]any
}

// Load reads and parses a workflow template from disk.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	g, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return g, nil
}

// Parse builds a Graph from raw JSON. The top level must be an object and
// every value in it must itself be an object; anything beyond that is
// deferred to lookup time.
func Parse(data []byte) (*Graph, error) {
	var nodes map[string]map[string]any
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("not a node collection: %w", err)
	}
	// Unmarshal leaves the map nil for a top-level null; that is not a node
	// collection either.
	if nodes == nil {
		return nil, fmt.Errorf("not a node collection: top-level value is null")
	}
	return &Graph{nodes: nodes}, nil
}

// Len reports the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the typed projection of one node record.
func (g *Graph) Node(id string) (Node, bool) {
	raw, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return project(id, raw), true
}

func project(id string, raw map[string]any) Node {
	n := Node{ID: id}
	if ct, ok := raw["class_type"].(string); ok {
		n.ClassType = ct
	}
	// The node title set in the ComfyUI interface lives under "_meta".
	if meta, ok := raw["_meta"].(map[string]any); ok {
		if title, ok := meta["title"].(string); ok {
			n.Title = title
		}
	}
	return n
}

// FindByTitle returns the id of the node whose title exactly equals the
// given string. Node ids are scanned in sorted order so repeated calls
// resolve ties the same way; a tie is logged since the template author
// almost certainly meant the title to be unique.
func (g *Graph) FindByTitle(title string) (string, error) {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var matches []string
	for _, id := range ids {
		if project(id, g.nodes[id]).Title == title {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrNodeNotFound, title)
	case 1:
		return matches[0], nil
	default:
		log.Printf("Warning: %d nodes share the title %q, using node %s", len(matches), title, matches[0])
		return matches[0], nil
	}
}

// SetInput overwrites one input field of one node. All other nodes and
// fields are left untouched.
func (g *Graph) SetInput(nodeID, field string, value any) error {
	raw, ok := g.nodes[nodeID]
	if !ok {
		return fmt.Errorf("node %s does not exist", nodeID)
	}
	inputs, ok := raw["inputs"].(map[string]any)
	if !ok {
		inputs = map[string]any{}
		raw["inputs"] = inputs
	}
	inputs[field] = value
	return nil
}

// Clone deep-copies the graph so a per-submission mutation never touches
// the caller's copy.
func (g *Graph) Clone() *Graph {
	nodes := make(map[string]map[string]any, len(g.nodes))
	for id, raw := range g.nodes {
		nodes[id] = deepCopyObject(raw)
	}
	return &Graph{nodes: nodes}
}

func deepCopyObject(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyObject(t)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = deepCopyValue(e)
		}
		return cp
	default:
		// JSON scalars (string, float64, bool, nil) are immutable.
		return v
	}
}

// MarshalJSON emits the full document, unknown keys included.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.nodes)
}
