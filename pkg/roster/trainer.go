package roster

import (
	"slices"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/state"
)

// Trainer is an opponent with an ordered team
type Trainer struct {
	Name     string
	Arity    state.Arity
	Defeated bool
	Skipped  bool
	team     []*combatant.Snapshot
}

func NewTrainer(name string, arity state.Arity) *Trainer {
	if arity == "" {
		arity = state.AritySingle
	}
	return &Trainer{Name: name, Arity: arity}
}

// Add appends a copy of s to the end of the team
func (t *Trainer) Add(s *combatant.Snapshot) {
	if s == nil {
		return
	}
	t.team = append(t.team, s.Clone())
}

func (t *Trainer) Remove(i int) bool {
	if i < 0 || i >= len(t.team) {
		return false
	}
	t.team = slices.Delete(t.team, i, i+1)
	return true
}

func (t *Trainer) At(i int) (*combatant.Snapshot, bool) {
	if i < 0 || i >= len(t.team) {
		return nil, false
	}
	return t.team[i], true
}

// FindByName returns the first team member named name
func (t *Trainer) FindByName(name string) (*combatant.Snapshot, bool) {
	for _, s := range t.team {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Names lists team member names in team order
func (t *Trainer) Names() []string {
	names := make([]string, len(t.team))
	for i, s := range t.team {
		names[i] = s.Name
	}
	return names
}

func (t *Trainer) Team() []*combatant.Snapshot {
	return slices.Clone(t.team)
}

func (t *Trainer) Len() int {
	return len(t.team)
}

func (t *Trainer) Clear() {
	t.team = nil
}

// Active reports whether the trainer is still to be fought
func (t *Trainer) Active() bool {
	return !t.Defeated && !t.Skipped
}

// Label is the trainer name with its progress marker
func (t *Trainer) Label() string {
	switch {
	case t.Defeated:
		return t.Name + " [DEFEATED]"
	case t.Skipped:
		return t.Name + " [SKIPPED]"
	}
	return t.Name
}

// EnemyLibrary holds trainers by name, in the order they were added
type EnemyLibrary struct {
	names    []string
	trainers map[string]*Trainer
}

func NewEnemyLibrary() *EnemyLibrary {
	return &EnemyLibrary{trainers: make(map[string]*Trainer)}
}

func (l *EnemyLibrary) AddTrainer(t *Trainer) bool {
	if t == nil || t.Name == "" {
		return false
	}
	if _, exists := l.trainers[t.Name]; exists {
		return false
	}
	l.trainers[t.Name] = t
	l.names = append(l.names, t.Name)
	return true
}

func (l *EnemyLibrary) RemoveTrainer(name string) bool {
	if _, exists := l.trainers[name]; !exists {
		return false
	}
	delete(l.trainers, name)
	l.names = slices.DeleteFunc(l.names, func(n string) bool { return n == name })
	return true
}

func (l *EnemyLibrary) Trainer(name string) (*Trainer, bool) {
	t, ok := l.trainers[name]
	return t, ok
}

func (l *EnemyLibrary) TrainerNames() []string {
	return slices.Clone(l.names)
}

// AddToTrainer appends s to the named trainer's team
func (l *EnemyLibrary) AddToTrainer(name string, s *combatant.Snapshot) bool {
	t, ok := l.trainers[name]
	if !ok || s == nil {
		return false
	}
	t.Add(s)
	return true
}

// NextActive returns the first active trainer listed after current.
// An empty or unknown current starts from the beginning.
func (l *EnemyLibrary) NextActive(current string) (*Trainer, bool) {
	start := 0
	if i := slices.Index(l.names, current); i >= 0 {
		start = i + 1
	}
	for _, name := range l.names[start:] {
		if t := l.trainers[name]; t.Active() {
			return t, true
		}
	}
	return nil, false
}

// FindCombatant searches every team, in trainer order, for a member named name
func (l *EnemyLibrary) FindCombatant(name string) (*combatant.Snapshot, bool) {
	for _, tn := range l.names {
		if s, ok := l.trainers[tn].FindByName(name); ok {
			return s, true
		}
	}
	return nil, false
}

func (l *EnemyLibrary) Len() int {
	return len(l.names)
}

func (l *EnemyLibrary) Clear() {
	l.names = nil
	clear(l.trainers)
}
