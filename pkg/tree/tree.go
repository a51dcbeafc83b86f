package tree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/transition"
)

var (
	// ErrDuplicateKey is returned when inserting a node id or edge that is already present
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrMissingReference is returned when a node or edge does not exist
	ErrMissingReference = errors.New("missing reference")
	// ErrProtectedEntity is returned when trying to remove the root
	ErrProtectedEntity = errors.New("protected entity")
	// ErrCycle is returned by analyses that require acyclic edges
	ErrCycle = errors.New("transitions contain a cycle")
)

// Tree owns the battle states and the weighted transitions between them.
// It is not safe for concurrent use.
type Tree struct {
	root       *state.Node
	nodes      map[int]*state.Node
	edges      []*transition.Edge
	nextEdgeID int
}

// New creates a tree containing only root
func New(root *state.Node) *Tree {
	return &Tree{
		root:       root,
		nodes:      map[int]*state.Node{root.ID: root},
		nextEdgeID: 1,
	}
}

func (t *Tree) Root() *state.Node {
	return t.root
}

// Node lifecycle

// AddNode registers n. Only id uniqueness is checked.
func (t *Tree) AddNode(n *state.Node) error {
	if n == nil {
		return fmt.Errorf("add node: %w", ErrMissingReference)
	}
	if _, exists := t.nodes[n.ID]; exists {
		return fmt.Errorf("add node %d: %w", n.ID, ErrDuplicateKey)
	}
	t.nodes[n.ID] = n
	return nil
}

func (t *Tree) Node(id int) (*state.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// RemoveNode deletes a non-root node and every edge touching it
func (t *Tree) RemoveNode(id int) error {
	if id == t.root.ID {
		return fmt.Errorf("remove node %d: %w", id, ErrProtectedEntity)
	}
	if _, exists := t.nodes[id]; !exists {
		return fmt.Errorf("remove node %d: %w", id, ErrMissingReference)
	}

	t.edges = slices.DeleteFunc(t.edges, func(e *transition.Edge) bool {
		return e.From == id || e.To == id
	})
	delete(t.nodes, id)
	return nil
}

// Nodes returns every node ordered by id
func (t *Tree) Nodes() []*state.Node {
	nodes := make([]*state.Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *state.Node) int { return a.ID - b.ID })
	return nodes
}

// NodesByTurn groups nodes by turn; each group is ordered by id
func (t *Tree) NodesByTurn() map[int][]*state.Node {
	byTurn := make(map[int][]*state.Node)
	for _, n := range t.Nodes() {
		byTurn[n.Turn] = append(byTurn[n.Turn], n)
	}
	return byTurn
}

// Turns returns the distinct turns in ascending order
func (t *Tree) Turns() []int {
	var turns []int
	for turn := range t.NodesByTurn() {
		turns = append(turns, turn)
	}
	slices.Sort(turns)
	return turns
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Edge lifecycle

// AddEdge appends e after checking both endpoints exist, and assigns its ID
func (t *Tree) AddEdge(e *transition.Edge) error {
	if e == nil {
		return fmt.Errorf("add edge: %w", ErrMissingReference)
	}
	if e.ID != 0 && slices.Contains(t.edges, e) {
		return fmt.Errorf("add edge %d: %w", e.ID, ErrDuplicateKey)
	}
	if _, ok := t.nodes[e.From]; !ok {
		return fmt.Errorf("add edge %d->%d: from: %w", e.From, e.To, ErrMissingReference)
	}
	if _, ok := t.nodes[e.To]; !ok {
		return fmt.Errorf("add edge %d->%d: to: %w", e.From, e.To, ErrMissingReference)
	}

	e.ID = t.nextEdgeID
	t.nextEdgeID++
	t.edges = append(t.edges, e)
	return nil
}

// EdgesFrom returns the edges leaving id in insertion order
func (t *Tree) EdgesFrom(id int) []*transition.Edge {
	var out []*transition.Edge
	for _, e := range t.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// EdgesTo returns the edges entering id in insertion order
func (t *Tree) EdgesTo(id int) []*transition.Edge {
	var out []*transition.Edge
	for _, e := range t.edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Edges returns a copy of the edge list
func (t *Tree) Edges() []*transition.Edge {
	return slices.Clone(t.edges)
}

// Edge looks up a registered edge by its ID
func (t *Tree) Edge(id int) (*transition.Edge, bool) {
	for _, e := range t.edges {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// RemoveEdge removes exactly e, even if structurally identical edges exist
func (t *Tree) RemoveEdge(e *transition.Edge) error {
	if e == nil {
		return fmt.Errorf("remove edge: %w", ErrMissingReference)
	}
	idx := slices.Index(t.edges, e)
	if idx < 0 {
		return fmt.Errorf("remove edge %d: %w", e.ID, ErrMissingReference)
	}
	t.edges = slices.Delete(t.edges, idx, idx+1)
	return nil
}

// RemoveEdgeByID removes the edge carrying id
func (t *Tree) RemoveEdgeByID(id int) error {
	e, ok := t.Edge(id)
	if !ok {
		return fmt.Errorf("remove edge %d: %w", id, ErrMissingReference)
	}
	return t.RemoveEdge(e)
}

func (t *Tree) EdgeCount() int {
	return len(t.edges)
}

// ApplyEffects fires e: its effects run in order against the destination node,
// which is returned.
func (t *Tree) ApplyEffects(e *transition.Edge) (*state.Node, error) {
	if e == nil {
		return nil, fmt.Errorf("apply effects: %w", ErrMissingReference)
	}
	dst, ok := t.nodes[e.To]
	if !ok {
		return nil, fmt.Errorf("apply effects to %d: %w", e.To, ErrMissingReference)
	}
	for _, eff := range e.Effects {
		eff.Apply(dst)
	}
	return dst, nil
}

func (t *Tree) String() string {
	return fmt.Sprintf("StateTree(root=%q, states=%d, transitions=%d)", t.root.Name, len(t.nodes), len(t.edges))
}
