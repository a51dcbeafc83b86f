package project

import (
	"fmt"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/transition"
)

// Document is the on-disk project layout. Older files carrying only
// states, transitions, box and enemy_library load unchanged.
type Document struct {
	States       []StateRecord              `json:"states"`
	Transitions  []TransitionRecord         `json:"transitions"`
	Box          map[string]*SnapshotRecord `json:"box"`
	EnemyLibrary map[string][]TrainerEntry  `json:"enemy_library"`

	// Trainers keeps library order and progress; absent in older files
	Trainers       []TrainerRecord `json:"trainers,omitempty"`
	CurrentTrainer string          `json:"current_trainer,omitempty"`
}

type StateRecord struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Turn    int    `json:"turn"`
	Weather string `json:"weather"`
	// Pokemons maps slot to combatant name
	Pokemons   map[string]string          `json:"pokemons"`
	BattleType string                     `json:"battle_type,omitempty"`
	Combatants map[string]*SnapshotRecord `json:"combatants,omitempty"`
}

// SnapshotRecord is a combatant as written to disk. Missing HP fields mean 100.
type SnapshotRecord struct {
	Name        string         `json:"name"`
	Item        string         `json:"item"`
	IsMega      bool           `json:"is_mega"`
	HPMin       *int           `json:"hp_min,omitempty"`
	HPMax       *int           `json:"hp_max,omitempty"`
	MajorStatus string         `json:"major_status,omitempty"`
	MinorStatus string         `json:"minor_status,omitempty"`
	Stats       map[string]int `json:"stats,omitempty"`
}

func recordOf(s *combatant.Snapshot) *SnapshotRecord {
	hpMin, hpMax := s.HPMin, s.HPMax
	rec := &SnapshotRecord{
		Name:        s.Name,
		Item:        s.Item,
		IsMega:      s.IsMega,
		HPMin:       &hpMin,
		HPMax:       &hpMax,
		MajorStatus: string(s.MajorStatus),
		MinorStatus: string(s.MinorStatus),
		Stats:       make(map[string]int, len(s.Stats)),
	}
	for k, v := range s.Stats {
		rec.Stats[string(k)] = v
	}
	return rec
}

// Snapshot validates the record and builds a clamped combatant from it
func (r *SnapshotRecord) Snapshot() (*combatant.Snapshot, error) {
	if r == nil {
		return nil, combatant.ErrEmptyName
	}
	s, err := combatant.New(r.Name, r.Item, r.IsMega)
	if err != nil {
		return nil, err
	}
	major, ok := combatant.ParseMajorStatus(r.MajorStatus)
	if !ok {
		return nil, fmt.Errorf("unknown major status %q", r.MajorStatus)
	}
	minor, ok := combatant.ParseMinorStatus(r.MinorStatus)
	if !ok {
		return nil, fmt.Errorf("unknown minor status %q", r.MinorStatus)
	}
	if r.HPMin != nil {
		s.HPMin = *r.HPMin
	}
	if r.HPMax != nil {
		s.HPMax = *r.HPMax
	}
	s.MajorStatus = major
	s.MinorStatus = minor
	for k, v := range r.Stats {
		s.Stats[combatant.StatKey(k)] = v
	}
	s.Normalize()
	return s, nil
}

type TransitionRecord struct {
	From        int                 `json:"from"`
	To          int                 `json:"to"`
	Probability *float64            `json:"probability,omitempty"`
	Effects     []transition.Effect `json:"effects,omitempty"`
}

type TrainerEntry struct {
	Name   string `json:"name"`
	Item   string `json:"item"`
	IsMega bool   `json:"is_mega"`
}

type TrainerRecord struct {
	Name       string `json:"name"`
	BattleType string `json:"battle_type"`
	Defeated   bool   `json:"defeated,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
}
