package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout for hand-written rosters:
//
//	box:
//	  - key: lead
//	    name: Garchomp
//	    item: Choice Scarf
//	trainers:
//	  - name: Cynthia
//	    battle_type: double
//	    team:
//	      - name: Spiritomb
type File struct {
	Box      []MemberSpec  `yaml:"box" json:"box,omitempty"`
	Trainers []TrainerSpec `yaml:"trainers" json:"trainers,omitempty"`
}

type TrainerSpec struct {
	Name       string       `yaml:"name" json:"name"`
	BattleType string       `yaml:"battle_type" json:"battle_type,omitempty"`
	Team       []MemberSpec `yaml:"team" json:"team,omitempty"`
}

// MemberSpec describes one combatant; HP fields default to 100
type MemberSpec struct {
	Key    string `yaml:"key" json:"key,omitempty"`
	Name   string `yaml:"name" json:"name"`
	Item   string `yaml:"item" json:"item,omitempty"`
	IsMega bool   `yaml:"is_mega" json:"is_mega,omitempty"`
	HPMin  *int   `yaml:"hp_min" json:"hp_min,omitempty"`
	HPMax  *int   `yaml:"hp_max" json:"hp_max,omitempty"`
}

// Snapshot builds the combatant described by m
func (m MemberSpec) Snapshot() (*combatant.Snapshot, error) {
	s, err := combatant.New(strings.TrimSpace(m.Name), m.Item, m.IsMega)
	if err != nil {
		return nil, err
	}
	lo, hi := combatant.HPCeil, combatant.HPCeil
	if m.HPMin != nil {
		lo = *m.HPMin
	}
	if m.HPMax != nil {
		hi = *m.HPMax
	}
	s.SetHPRange(lo, hi)
	return s, nil
}

// DecodeFile reads a roster file
func DecodeFile(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode roster file: %w", err)
	}
	return &f, nil
}

// BuildBox fills a new box from the box section. Entries without a key
// are stored as "<name>_<index>".
func (f *File) BuildBox(name string) (*Box, error) {
	box := NewBox(name)
	for i, m := range f.Box {
		s, err := m.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("box entry %d: %w", i, err)
		}
		key := m.Key
		if key == "" {
			key = fmt.Sprintf("%s_%d", s.Name, i)
		}
		if !box.Add(key, s) {
			return nil, fmt.Errorf("box entry %d: duplicate key %q", i, key)
		}
	}
	return box, nil
}

// BuildLibrary builds the enemy library from the trainers section
func (f *File) BuildLibrary() (*EnemyLibrary, error) {
	lib := NewEnemyLibrary()
	for i, ts := range f.Trainers {
		if strings.TrimSpace(ts.Name) == "" {
			return nil, fmt.Errorf("trainer %d: name is required", i)
		}
		arity, ok := state.ParseArity(ts.BattleType)
		if !ok {
			return nil, fmt.Errorf("trainer %q: unknown battle type %q", ts.Name, ts.BattleType)
		}
		t := NewTrainer(ts.Name, arity)
		for j, m := range ts.Team {
			s, err := m.Snapshot()
			if err != nil {
				return nil, fmt.Errorf("trainer %q member %d: %w", ts.Name, j, err)
			}
			t.Add(s)
		}
		if !lib.AddTrainer(t) {
			return nil, fmt.Errorf("trainer %q listed twice", ts.Name)
		}
	}
	return lib, nil
}

// LoadTrainers decodes a roster file and returns only its trainers
func LoadTrainers(r io.Reader) (*EnemyLibrary, error) {
	f, err := DecodeFile(r)
	if err != nil {
		return nil, err
	}
	return f.BuildLibrary()
}
