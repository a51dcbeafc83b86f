package session

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/battle-tree/pkg/tree"
)

// Issue codes
const (
	CodeUnbalanced  = "unbalanced"
	CodeCycle       = "cycle"
	CodeUnreachable = "unreachable"
	CodeTurnOrder   = "turn_order"
)

// Report is the outcome of checking a tree
type Report struct {
	Valid    bool      `json:"valid"`
	Errors   []Issue   `json:"errors,omitempty"`
	Warnings []Issue   `json:"warnings,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Issue describes one problem found in the tree
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	State   *int   `json:"state,omitempty"`
	Fix     string `json:"fix,omitempty"`
}

// Analysis holds the figures derived from a valid tree
type Analysis struct {
	States      int             `json:"states"`
	Transitions int             `json:"transitions"`
	Turns       []int           `json:"turns"`
	Leaves      []int           `json:"leaves"`
	Unreachable []int           `json:"unreachable,omitempty"`
	Reach       map[int]float64 `json:"reach,omitempty"`
}

// Validate checks every state's outgoing probabilities and, when the
// transitions are acyclic, how likely each state is to be reached.
func (e *Editor) Validate() *Report {
	t := e.p.Tree
	r := &Report{
		Analysis: &Analysis{
			States:      t.Len(),
			Transitions: t.EdgeCount(),
			Turns:       t.Turns(),
			Leaves:      t.Leaves(),
		},
	}

	for _, n := range t.Nodes() {
		if !t.ValidateProbabilities(n.ID) {
			r.Errors = append(r.Errors, Issue{
				Code:    CodeUnbalanced,
				Message: fmt.Sprintf("transitions from %q sum to %.3f", n.Name, t.OutgoingTotal(n.ID)),
				State:   ptr(n.ID),
				Fix:     "rebalance the state",
			})
		}
		for _, edge := range t.EdgesFrom(n.ID) {
			dst, _ := t.Node(edge.To)
			if dst.Turn < n.Turn {
				r.Warnings = append(r.Warnings, Issue{
					Code:    CodeTurnOrder,
					Message: fmt.Sprintf("transition %d goes from turn %d back to turn %d", edge.ID, n.Turn, dst.Turn),
					State:   ptr(n.ID),
				})
			}
		}
	}

	reach, err := t.ReachProbabilities()
	switch {
	case errors.Is(err, tree.ErrCycle):
		r.Errors = append(r.Errors, Issue{Code: CodeCycle, Message: err.Error()})
	case err == nil:
		r.Analysis.Reach = reach
		// zero-probability branches stay reachable; only missing paths count
		reachable := t.Reachable()
		for _, n := range t.Nodes() {
			if reachable[n.ID] {
				continue
			}
			msg := fmt.Sprintf("%q has no incoming transitions", n.Name)
			if len(t.EdgesTo(n.ID)) > 0 {
				msg = fmt.Sprintf("%q only follows states the root never reaches", n.Name)
			}
			r.Analysis.Unreachable = append(r.Analysis.Unreachable, n.ID)
			r.Warnings = append(r.Warnings, Issue{
				Code:    CodeUnreachable,
				Message: msg,
				State:   ptr(n.ID),
				Fix:     "link it from an earlier state or remove it",
			})
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func ptr[T any](v T) *T {
	return &v
}
