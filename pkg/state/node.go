package state

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/textfilter"
)

// Slot is one of the four fixed combatant positions on a node
type Slot string

const (
	SlotSelf   Slot = "Self"
	SlotEnemy  Slot = "Enemy"
	SlotSelf2  Slot = "Self2"
	SlotEnemy2 Slot = "Enemy2"
)

// Slots lists the combatant positions in display order
var Slots = []Slot{SlotSelf, SlotEnemy, SlotSelf2, SlotEnemy2}

// Weather is the ambient field condition of a node
type Weather string

const (
	WeatherNone      Weather = "None"
	WeatherSunny     Weather = "Sunny"
	WeatherRain      Weather = "Rain"
	WeatherSandstorm Weather = "Sandstorm"
)

var Weathers = []Weather{WeatherNone, WeatherSunny, WeatherRain, WeatherSandstorm}

// Arity is the battle format: one or two combatants per side
type Arity string

const (
	AritySingle Arity = "single"
	ArityDouble Arity = "double"
)

// Node is one snapshot-in-time of a battle.
// Combatants are stored as private copies; see SetCombatant.
type Node struct {
	ID      int
	Turn    int
	Name    string
	Weather Weather
	Arity   Arity

	slots map[Slot]*combatant.Snapshot
}

// NewNode builds a node with empty slots. An empty name becomes "Turn {turn}".
func NewNode(id, turn int, name string) *Node {
	if strings.TrimSpace(name) == "" {
		name = DefaultName(turn)
	}
	return &Node{
		ID:      id,
		Turn:    turn,
		Name:    name,
		Weather: WeatherNone,
		Arity:   AritySingle,
		slots:   make(map[Slot]*combatant.Snapshot, len(Slots)),
	}
}

// DefaultName is the name given to nodes created without one
func DefaultName(turn int) string {
	return fmt.Sprintf("Turn %d", turn)
}

// SetCombatant stores a copy of s in slot. A nil s clears the slot.
// Returns false for an unknown slot.
func (n *Node) SetCombatant(slot Slot, s *combatant.Snapshot) bool {
	if !slot.Valid() {
		return false
	}
	if n.slots == nil {
		n.slots = make(map[Slot]*combatant.Snapshot, len(Slots))
	}
	if s == nil {
		delete(n.slots, slot)
		return true
	}
	n.slots[slot] = s.Clone()
	return true
}

// Combatant returns the node's own copy held in slot, or nil
func (n *Node) Combatant(slot Slot) *combatant.Snapshot {
	return n.slots[slot]
}

// RemoveCombatant empties slot. Returns false for an unknown slot.
func (n *Node) RemoveCombatant(slot Slot) bool {
	if !slot.Valid() {
		return false
	}
	delete(n.slots, slot)
	return true
}

// ActiveCombatants returns the occupied slots
func (n *Node) ActiveCombatants() map[Slot]*combatant.Snapshot {
	active := make(map[Slot]*combatant.Snapshot, len(n.slots))
	for _, slot := range Slots {
		if s := n.slots[slot]; s != nil {
			active[slot] = s
		}
	}
	return active
}

// CopyCombatantsFrom replaces this node's slots with copies of other's
func (n *Node) CopyCombatantsFrom(other *Node) {
	n.slots = make(map[Slot]*combatant.Snapshot, len(Slots))
	for slot, s := range other.ActiveCombatants() {
		n.slots[slot] = s.Clone()
	}
}

// SlotEnabled reports whether slot is meaningful under the node's arity
func (n *Node) SlotEnabled(slot Slot) bool {
	switch slot {
	case SlotSelf, SlotEnemy:
		return true
	case SlotSelf2, SlotEnemy2:
		return n.Arity == ArityDouble
	}
	return false
}

func (n *Node) SetWeather(w Weather) {
	n.Weather = w
}

// SetName renames the node; a blank name restores the default
func (n *Node) SetName(name string) {
	if strings.TrimSpace(name) == "" {
		name = DefaultName(n.Turn)
	}
	n.Name = name
}

func (n *Node) String() string {
	return fmt.Sprintf("State(id=%d, name=%q, turn=%d, weather=%s, combatants=%d)",
		n.ID, n.Name, n.Turn, n.Weather, len(n.ActiveCombatants()))
}

// Valid reports whether s is one of the four slots
func (s Slot) Valid() bool {
	for _, slot := range Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Valid reports whether w is one of the declared weathers
func (w Weather) Valid() bool {
	for _, weather := range Weathers {
		if w == weather {
			return true
		}
	}
	return false
}

// ParseSlot resolves a slot label case-insensitively
func ParseSlot(s string) (Slot, bool) {
	for _, slot := range Slots {
		if textfilter.Equal(s, string(slot)) {
			return slot, true
		}
	}
	return "", false
}

// ParseWeather resolves a label such as "SANDSTORM" or "rain".
// An empty label resolves to WeatherNone.
func ParseWeather(s string) (Weather, bool) {
	if textfilter.Key(s) == "" {
		return WeatherNone, true
	}
	for _, w := range Weathers {
		if textfilter.Equal(s, string(w)) {
			return w, true
		}
	}
	return "", false
}

// ParseArity resolves "single" or "double". An empty label resolves to AritySingle.
func ParseArity(s string) (Arity, bool) {
	switch textfilter.Key(s) {
	case "", "single":
		return AritySingle, true
	case "double":
		return ArityDouble, true
	}
	return "", false
}
