// Package session implements the editing flows on top of the state tree.
// Every flow that touches transitions rebalances the affected source nodes.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/transition"
	"github.com/jwebster45206/battle-tree/pkg/tree"
)

var (
	// ErrInvalidInput marks requests that can never succeed as given
	ErrInvalidInput = errors.New("invalid input")
	// ErrSlotDisabled is returned when writing a second slot on a single battle
	ErrSlotDisabled = errors.New("slot not available for this battle type")
	// ErrNoTrainer is returned by trainer flows when none is selected or left
	ErrNoTrainer = errors.New("no trainer available")
)

// Editor applies editing flows to one project. It is not safe for concurrent use.
type Editor struct {
	p      *project.Project
	logger *slog.Logger
}

func NewEditor(p *project.Project, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{p: p, logger: logger}
}

func (e *Editor) Project() *project.Project {
	return e.p
}

func (e *Editor) Tree() *tree.Tree {
	return e.p.Tree
}

func (e *Editor) node(id int) (*state.Node, error) {
	n, ok := e.p.Tree.Node(id)
	if !ok {
		return nil, fmt.Errorf("state %d: %w", id, tree.ErrMissingReference)
	}
	return n, nil
}

func (e *Editor) edge(id int) (*transition.Edge, error) {
	edge, ok := e.p.Tree.Edge(id)
	if !ok {
		return nil, fmt.Errorf("transition %d: %w", id, tree.ErrMissingReference)
	}
	return edge, nil
}

// AddNextTurn creates the default continuation of from: the next turn, same
// battle type and a copy of every combatant, reached with an unset probability.
func (e *Editor) AddNextTurn(from int) (*state.Node, error) {
	src, err := e.node(from)
	if err != nil {
		return nil, err
	}

	n := e.p.IDs.NewNode(src.Turn+1, "")
	n.Arity = src.Arity
	n.CopyCombatantsFrom(src)

	if err := e.attach(src, n, transition.DefaultProbability); err != nil {
		return nil, err
	}
	e.logger.Debug("Added next turn", "from", src.ID, "state", n.ID, "turn", n.Turn)
	return n, nil
}

// AddPossibility creates an alternative outcome on the same turn as from.
// A nil probability leaves the new edge unset so it shares what is left.
func (e *Editor) AddPossibility(from int, name string, arity state.Arity, probability *float64) (*state.Node, error) {
	src, err := e.node(from)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("possibility name is required: %w", ErrInvalidInput)
	}
	if arity == "" {
		arity = src.Arity
	}
	p := transition.DefaultProbability
	if probability != nil {
		p = *probability
	}

	n := e.p.IDs.NewNode(src.Turn, name)
	n.Arity = arity
	n.CopyCombatantsFrom(src)

	if err := e.attach(src, n, p); err != nil {
		return nil, err
	}
	e.logger.Debug("Added possibility", "from", src.ID, "state", n.ID, "name", name)
	return n, nil
}

// AddStateInTurn creates an unlinked single-battle state on turn
func (e *Editor) AddStateInTurn(turn int, name string) (*state.Node, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("state name is required: %w", ErrInvalidInput)
	}
	if turn < 0 {
		return nil, fmt.Errorf("turn %d: %w", turn, ErrInvalidInput)
	}
	n := e.p.IDs.NewNode(turn, name)
	if err := e.p.Tree.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (e *Editor) attach(src, n *state.Node, p float64) error {
	if err := e.p.Tree.AddNode(n); err != nil {
		return err
	}
	if err := e.p.Tree.AddEdge(transition.New(src.ID, n.ID, p)); err != nil {
		return err
	}
	e.p.Tree.AutoBalance(src.ID)
	return nil
}

// Link adds a transition between existing states and rebalances from
func (e *Editor) Link(from, to int, p float64, effects ...transition.Effect) (*transition.Edge, error) {
	for i, eff := range effects {
		if err := eff.Validate(); err != nil {
			return nil, fmt.Errorf("effect %d: %v: %w", i, err, ErrInvalidInput)
		}
	}
	edge := transition.New(from, to, p, effects...)
	if err := e.p.Tree.AddEdge(edge); err != nil {
		return nil, err
	}
	e.p.Tree.AutoBalance(from)
	return edge, nil
}

// SetProbability stores p on the transition and rebalances its source
func (e *Editor) SetProbability(edgeID int, p float64) error {
	edge, err := e.edge(edgeID)
	if err != nil {
		return err
	}
	edge.SetProbability(p)
	e.p.Tree.AutoBalance(edge.From)
	return nil
}

// Unlink removes a transition and rebalances what its source has left
func (e *Editor) Unlink(edgeID int) error {
	edge, err := e.edge(edgeID)
	if err != nil {
		return err
	}
	if err := e.p.Tree.RemoveEdge(edge); err != nil {
		return err
	}
	e.p.Tree.AutoBalance(edge.From)
	return nil
}

// AddEffect appends a validated effect to a transition
func (e *Editor) AddEffect(edgeID int, eff transition.Effect) error {
	edge, err := e.edge(edgeID)
	if err != nil {
		return err
	}
	if err := eff.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	edge.AddEffect(eff)
	return nil
}

// RemoveState deletes a state with its transitions and rebalances every former parent
func (e *Editor) RemoveState(id int) error {
	var parents []int
	for _, edge := range e.p.Tree.EdgesTo(id) {
		if edge.From != id {
			parents = append(parents, edge.From)
		}
	}
	if err := e.p.Tree.RemoveNode(id); err != nil {
		return err
	}
	for _, parent := range parents {
		e.p.Tree.AutoBalance(parent)
	}
	e.logger.Debug("Removed state", "state", id, "rebalanced", len(parents))
	return nil
}

func (e *Editor) Rename(id int, name string) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("state name cannot be empty: %w", ErrInvalidInput)
	}
	n.SetName(name)
	return nil
}

func (e *Editor) SetWeather(id int, w state.Weather) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if !w.Valid() {
		return fmt.Errorf("weather %q: %w", w, ErrInvalidInput)
	}
	n.SetWeather(w)
	return nil
}

// SetArity switches the battle type. Second-slot combatants are kept but
// ignored while the state is a single battle.
func (e *Editor) SetArity(id int, a state.Arity) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if a != state.AritySingle && a != state.ArityDouble {
		return fmt.Errorf("battle type %q: %w", a, ErrInvalidInput)
	}
	n.Arity = a
	return nil
}

// Fire applies a transition's effects to its destination
func (e *Editor) Fire(edgeID int) (*state.Node, error) {
	edge, err := e.edge(edgeID)
	if err != nil {
		return nil, err
	}
	return e.p.Tree.ApplyEffects(edge)
}

// Balance rebalances every state
func (e *Editor) Balance() {
	e.p.Tree.BalanceAll()
}
