package roster

import (
	"slices"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
)

// Roster is a named collection of combatants the tree can draw from
type Roster interface {
	// List returns the keys in insertion order
	List() []string
	Get(key string) (*combatant.Snapshot, bool)
	// Add stores a copy of s under key; false if key is taken
	Add(key string, s *combatant.Snapshot) bool
	Remove(key string) bool
}

// Box is the player's ordered library of combatants
type Box struct {
	Name    string
	keys    []string
	entries map[string]*combatant.Snapshot
}

var _ Roster = (*Box)(nil)

// DefaultBoxName names boxes created without one
const DefaultBoxName = "Box 1"

func NewBox(name string) *Box {
	if name == "" {
		name = DefaultBoxName
	}
	return &Box{
		Name:    name,
		entries: make(map[string]*combatant.Snapshot),
	}
}

func (b *Box) List() []string {
	return slices.Clone(b.keys)
}

// Get returns the stored snapshot; callers must clone before mutating it
func (b *Box) Get(key string) (*combatant.Snapshot, bool) {
	s, ok := b.entries[key]
	return s, ok
}

func (b *Box) Add(key string, s *combatant.Snapshot) bool {
	if s == nil || key == "" {
		return false
	}
	if _, exists := b.entries[key]; exists {
		return false
	}
	b.entries[key] = s.Clone()
	b.keys = append(b.keys, key)
	return true
}

func (b *Box) Remove(key string) bool {
	if _, exists := b.entries[key]; !exists {
		return false
	}
	delete(b.entries, key)
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == key })
	return true
}

// FindByName returns the first entry whose combatant is named name
func (b *Box) FindByName(name string) (*combatant.Snapshot, bool) {
	for _, k := range b.keys {
		if s := b.entries[k]; s.Name == name {
			return s, true
		}
	}
	return nil, false
}

func (b *Box) Len() int {
	return len(b.keys)
}

func (b *Box) Clear() {
	b.keys = nil
	clear(b.entries)
}
