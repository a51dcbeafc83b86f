package combatant

import (
	"github.com/jwebster45206/battle-tree/pkg/textfilter"
)

// MajorStatus is the primary (non-volatile) status condition
type MajorStatus string

const (
	MajorNone          MajorStatus = "None"
	MajorBurn          MajorStatus = "Burn"
	MajorFreeze        MajorStatus = "Freeze"
	MajorParalysis     MajorStatus = "Paralysis"
	MajorPoison        MajorStatus = "Poison"
	MajorBadlyPoisoned MajorStatus = "Badly poisoned"
	MajorSleep         MajorStatus = "Sleep"
)

// MajorStatuses lists every major status in display order
var MajorStatuses = []MajorStatus{
	MajorNone, MajorBurn, MajorFreeze, MajorParalysis, MajorPoison, MajorBadlyPoisoned, MajorSleep,
}

// MinorStatus is the secondary (volatile) status condition.
// Only None, Confused and Infatuation are valid; other volatile tags are not modelled.
type MinorStatus string

const (
	MinorNone        MinorStatus = "None"
	MinorConfused    MinorStatus = "Confused"
	MinorInfatuation MinorStatus = "Infatuation"
)

// MinorStatuses lists every minor status in display order
var MinorStatuses = []MinorStatus{MinorNone, MinorConfused, MinorInfatuation}

// ParseMajorStatus resolves a label such as "BADLY_POISONED" or "burn".
// An empty label resolves to MajorNone.
func ParseMajorStatus(s string) (MajorStatus, bool) {
	if textfilter.Key(s) == "" {
		return MajorNone, true
	}
	for _, st := range MajorStatuses {
		if textfilter.Equal(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// ParseMinorStatus resolves a label such as "CONFUSED" or "infatuation".
// An empty label resolves to MinorNone.
func ParseMinorStatus(s string) (MinorStatus, bool) {
	if textfilter.Key(s) == "" {
		return MinorNone, true
	}
	for _, st := range MinorStatuses {
		if textfilter.Equal(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the declared major statuses
func (s MajorStatus) Valid() bool {
	for _, st := range MajorStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the declared minor statuses
func (s MinorStatus) Valid() bool {
	for _, st := range MinorStatuses {
		if s == st {
			return true
		}
	}
	return false
}
