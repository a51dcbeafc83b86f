package session

import (
	"fmt"

	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/roster"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/tree"
)

// CurrentTrainer returns the trainer the tree is being built against
func (e *Editor) CurrentTrainer() (*roster.Trainer, bool) {
	if e.p.CurrentTrainer == "" {
		return nil, false
	}
	return e.p.Enemies.Trainer(e.p.CurrentTrainer)
}

// SelectTrainer starts a new tree against name. The tree is replaced by a
// fresh root in the trainer's battle type; the box and library are kept.
func (e *Editor) SelectTrainer(name string) (*roster.Trainer, error) {
	t, ok := e.p.Enemies.Trainer(name)
	if !ok {
		return nil, fmt.Errorf("trainer %q: %w", name, tree.ErrMissingReference)
	}

	fresh := project.NewWithArity(t.Arity)
	e.p.Tree = fresh.Tree
	e.p.IDs = fresh.IDs
	e.p.CurrentTrainer = t.Name

	e.logger.Info("Selected trainer", "trainer", t.Name, "battle_type", t.Arity)
	return t, nil
}

// MarkDefeated flags the current trainer as beaten
func (e *Editor) MarkDefeated() (*roster.Trainer, error) {
	t, ok := e.CurrentTrainer()
	if !ok {
		return nil, ErrNoTrainer
	}
	t.Defeated = true
	t.Skipped = false
	return t, nil
}

// MarkSkipped flags the current trainer as passed over
func (e *Editor) MarkSkipped() (*roster.Trainer, error) {
	t, ok := e.CurrentTrainer()
	if !ok {
		return nil, ErrNoTrainer
	}
	if !t.Defeated {
		t.Skipped = true
	}
	return t, nil
}

// ResetProgress clears the defeated and skipped flags on every trainer
func (e *Editor) ResetProgress() {
	for _, name := range e.p.Enemies.TrainerNames() {
		t, _ := e.p.Enemies.Trainer(name)
		t.Defeated = false
		t.Skipped = false
	}
}

// NextTrainer selects the first trainer after the current one that is
// neither defeated nor skipped.
func (e *Editor) NextTrainer() (*roster.Trainer, error) {
	t, ok := e.p.Enemies.NextActive(e.p.CurrentTrainer)
	if !ok {
		return nil, ErrNoTrainer
	}
	return e.SelectTrainer(t.Name)
}

// AddTrainer registers an empty trainer
func (e *Editor) AddTrainer(name string, arity state.Arity) (*roster.Trainer, error) {
	if name == "" {
		return nil, fmt.Errorf("trainer name is required: %w", ErrInvalidInput)
	}
	if arity == "" {
		arity = state.AritySingle
	}
	if arity != state.AritySingle && arity != state.ArityDouble {
		return nil, fmt.Errorf("battle type %q: %w", arity, ErrInvalidInput)
	}
	t := roster.NewTrainer(name, arity)
	if !e.p.Enemies.AddTrainer(t) {
		return nil, fmt.Errorf("trainer %q: %w", name, tree.ErrDuplicateKey)
	}
	return t, nil
}

// RemoveTrainer drops a trainer; the current selection is cleared if it was that trainer
func (e *Editor) RemoveTrainer(name string) error {
	if !e.p.Enemies.RemoveTrainer(name) {
		return fmt.Errorf("trainer %q: %w", name, tree.ErrMissingReference)
	}
	if e.p.CurrentTrainer == name {
		e.p.CurrentTrainer = ""
	}
	return nil
}
