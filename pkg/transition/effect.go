package transition

import (
	"fmt"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/state"
)

// EffectKind tags the variant held by an Effect
type EffectKind string

const (
	KindStatus     EffectKind = "status"
	KindHPDelta    EffectKind = "hp_delta"
	KindStatChange EffectKind = "stat_change"
	KindWeather    EffectKind = "weather"
)

// Effect is one deferred change applied to a destination node when its edge fires.
// Only the fields relevant to Kind are set.
type Effect struct {
	Kind EffectKind `json:"kind"`
	Slot state.Slot `json:"slot,omitempty"`

	// status: an empty status leaves that condition untouched
	Major combatant.MajorStatus `json:"major_status,omitempty"`
	Minor combatant.MinorStatus `json:"minor_status,omitempty"`

	// hp_delta
	HPMinDelta int `json:"hp_min_delta,omitempty"`
	HPMaxDelta int `json:"hp_max_delta,omitempty"`

	// stat_change
	Stat      combatant.StatKey `json:"stat,omitempty"`
	StatDelta int               `json:"stat_delta,omitempty"`

	// weather
	Weather state.Weather `json:"weather,omitempty"`
}

func StatusChange(slot state.Slot, major combatant.MajorStatus, minor combatant.MinorStatus) Effect {
	return Effect{Kind: KindStatus, Slot: slot, Major: major, Minor: minor}
}

func HPChange(slot state.Slot, minDelta, maxDelta int) Effect {
	return Effect{Kind: KindHPDelta, Slot: slot, HPMinDelta: minDelta, HPMaxDelta: maxDelta}
}

func StatChange(slot state.Slot, stat combatant.StatKey, delta int) Effect {
	return Effect{Kind: KindStatChange, Slot: slot, Stat: stat, StatDelta: delta}
}

func WeatherChange(w state.Weather) Effect {
	return Effect{Kind: KindWeather, Weather: w}
}

// Apply mutates n according to the effect.
// Effects targeting an empty slot do nothing.
func (e Effect) Apply(n *state.Node) {
	if n == nil {
		return
	}
	if e.Kind == KindWeather {
		n.SetWeather(e.Weather)
		return
	}

	c := n.Combatant(e.Slot)
	if c == nil {
		return
	}
	switch e.Kind {
	case KindStatus:
		if e.Major != "" {
			c.SetMajorStatus(e.Major)
		}
		if e.Minor != "" {
			c.SetMinorStatus(e.Minor)
		}
	case KindHPDelta:
		c.AdjustHP(e.HPMinDelta, e.HPMaxDelta)
	case KindStatChange:
		c.AdjustStat(e.Stat, e.StatDelta)
	}
}

// Validate checks that the fields required by Kind are present and known
func (e Effect) Validate() error {
	switch e.Kind {
	case KindWeather:
		if !e.Weather.Valid() {
			return fmt.Errorf("weather effect has invalid weather %q", e.Weather)
		}
		return nil
	case KindStatus, KindHPDelta, KindStatChange:
		if !e.Slot.Valid() {
			return fmt.Errorf("%s effect has invalid slot %q", e.Kind, e.Slot)
		}
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}

	switch e.Kind {
	case KindStatus:
		if e.Major == "" && e.Minor == "" {
			return fmt.Errorf("status effect on %s sets nothing", e.Slot)
		}
		if e.Major != "" && !e.Major.Valid() {
			return fmt.Errorf("status effect has invalid major status %q", e.Major)
		}
		if e.Minor != "" && !e.Minor.Valid() {
			return fmt.Errorf("status effect has invalid minor status %q", e.Minor)
		}
	case KindStatChange:
		if !e.Stat.Valid() {
			return fmt.Errorf("stat effect has invalid stat %q", e.Stat)
		}
	}
	return nil
}

func (e Effect) String() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s status major=%s minor=%s", e.Slot, e.Major, e.Minor)
	case KindHPDelta:
		return fmt.Sprintf("%s hp %+d/%+d", e.Slot, e.HPMinDelta, e.HPMaxDelta)
	case KindStatChange:
		return fmt.Sprintf("%s %s %+d", e.Slot, e.Stat, e.StatDelta)
	case KindWeather:
		return fmt.Sprintf("weather -> %s", e.Weather)
	}
	return string(e.Kind)
}
