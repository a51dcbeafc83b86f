package session

import (
	"fmt"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/state"
)

// CombatantPatch lists the fields to change on a slot's combatant; nil fields are kept
type CombatantPatch struct {
	Item        *string                   `json:"item,omitempty"`
	IsMega      *bool                     `json:"is_mega,omitempty"`
	HPMin       *int                      `json:"hp_min,omitempty"`
	HPMax       *int                      `json:"hp_max,omitempty"`
	MajorStatus *string                   `json:"major_status,omitempty"`
	MinorStatus *string                   `json:"minor_status,omitempty"`
	Stats       map[combatant.StatKey]int `json:"stats,omitempty"`
	ResetStats  bool                      `json:"reset_stats,omitempty"`
}

func isSelfSlot(slot state.Slot) bool {
	return slot == state.SlotSelf || slot == state.SlotSelf2
}

func (e *Editor) writableSlot(id int, slot state.Slot) (*state.Node, error) {
	n, err := e.node(id)
	if err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, fmt.Errorf("slot %q: %w", slot, ErrInvalidInput)
	}
	if !n.SlotEnabled(slot) {
		return nil, fmt.Errorf("state %d slot %s: %w", id, slot, ErrSlotDisabled)
	}
	return n, nil
}

// AssignFromBox places a copy of a box entry (by key, then by name) on a player slot
func (e *Editor) AssignFromBox(id int, slot state.Slot, key string) (*combatant.Snapshot, error) {
	n, err := e.writableSlot(id, slot)
	if err != nil {
		return nil, err
	}
	if !isSelfSlot(slot) {
		return nil, fmt.Errorf("box combatants go on player slots, not %s: %w", slot, ErrInvalidInput)
	}
	s, ok := e.p.Box.Get(key)
	if !ok {
		if s, ok = e.p.Box.FindByName(key); !ok {
			return nil, fmt.Errorf("box entry %q: %w", key, ErrInvalidInput)
		}
	}
	n.SetCombatant(slot, s)
	return n.Combatant(slot), nil
}

// AssignFromTrainer places a copy of the current trainer's team member on an enemy slot
func (e *Editor) AssignFromTrainer(id int, slot state.Slot, member string) (*combatant.Snapshot, error) {
	n, err := e.writableSlot(id, slot)
	if err != nil {
		return nil, err
	}
	if isSelfSlot(slot) {
		return nil, fmt.Errorf("trainer combatants go on enemy slots, not %s: %w", slot, ErrInvalidInput)
	}
	t, ok := e.CurrentTrainer()
	if !ok {
		return nil, ErrNoTrainer
	}
	s, ok := t.FindByName(member)
	if !ok {
		return nil, fmt.Errorf("%s has no %q: %w", t.Name, member, ErrInvalidInput)
	}
	n.SetCombatant(slot, s)
	return n.Combatant(slot), nil
}

// EditCombatant changes the combatant already on a slot
func (e *Editor) EditCombatant(id int, slot state.Slot, patch CombatantPatch) (*combatant.Snapshot, error) {
	n, err := e.writableSlot(id, slot)
	if err != nil {
		return nil, err
	}
	cur := n.Combatant(slot)
	if cur == nil {
		return nil, fmt.Errorf("state %d slot %s is empty: %w", id, slot, ErrInvalidInput)
	}

	s := cur.Clone()
	if patch.Item != nil {
		s.Item = *patch.Item
	}
	if patch.IsMega != nil {
		s.IsMega = *patch.IsMega
	}
	if patch.HPMin != nil || patch.HPMax != nil {
		lo, hi := s.HPMin, s.HPMax
		if patch.HPMin != nil {
			lo = *patch.HPMin
		}
		if patch.HPMax != nil {
			hi = *patch.HPMax
		}
		s.SetHPRange(lo, hi)
	}
	if patch.MajorStatus != nil {
		major, ok := combatant.ParseMajorStatus(*patch.MajorStatus)
		if !ok {
			return nil, fmt.Errorf("major status %q: %w", *patch.MajorStatus, ErrInvalidInput)
		}
		s.SetMajorStatus(major)
	}
	if patch.MinorStatus != nil {
		minor, ok := combatant.ParseMinorStatus(*patch.MinorStatus)
		if !ok {
			return nil, fmt.Errorf("minor status %q: %w", *patch.MinorStatus, ErrInvalidInput)
		}
		s.SetMinorStatus(minor)
	}
	if patch.ResetStats {
		s.ResetStats()
	}
	for k, v := range patch.Stats {
		if !s.SetStat(k, v) {
			return nil, fmt.Errorf("stat %q: %w", k, ErrInvalidInput)
		}
	}

	n.SetCombatant(slot, s)
	return n.Combatant(slot), nil
}

func (e *Editor) ClearSlot(id int, slot state.Slot) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if !n.RemoveCombatant(slot) {
		return fmt.Errorf("slot %q: %w", slot, ErrInvalidInput)
	}
	return nil
}
