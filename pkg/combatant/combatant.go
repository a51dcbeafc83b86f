package combatant

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// StatKey names one of the eight stat stages
type StatKey string

const (
	StatHP   StatKey = "HP"
	StatATK  StatKey = "ATK"
	StatDEF  StatKey = "DEF"
	StatSATK StatKey = "SATK"
	StatSDEF StatKey = "SDEF"
	StatSPE  StatKey = "SPE"
	StatACC  StatKey = "ACC"
	StatEVA  StatKey = "EVA"
)

// StatKeys lists the stat stages in display order
var StatKeys = []StatKey{StatHP, StatATK, StatDEF, StatSATK, StatSDEF, StatSPE, StatACC, StatEVA}

const (
	StageMin = -6
	StageMax = 6

	HPFloor = 0
	HPCeil  = 100
)

var ErrEmptyName = errors.New("combatant name cannot be empty")

// Snapshot is the editable battle record of one combatant at one point in time.
// Containers must store a Clone, never the caller's pointer.
type Snapshot struct {
	Name        string          `json:"name"`
	Item        string          `json:"item"` // empty when nothing is held
	IsMega      bool            `json:"is_mega"`
	HPMin       int             `json:"hp_min"`
	HPMax       int             `json:"hp_max"`
	MajorStatus MajorStatus     `json:"major_status"`
	MinorStatus MinorStatus     `json:"minor_status"`
	Stats       map[StatKey]int `json:"stats"`
}

// New creates a healthy snapshot with neutral stat stages
func New(name, item string, isMega bool) (*Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	s := &Snapshot{
		Name:        name,
		Item:        strings.TrimSpace(item),
		IsMega:      isMega,
		MajorStatus: MajorNone,
		MinorStatus: MinorNone,
	}
	s.ResetHP()
	s.ResetStats()
	return s, nil
}

// SetHPRange stores the HP percent interval, clamped to [0,100].
// An inverted pair is swapped rather than rejected.
func (s *Snapshot) SetHPRange(minPercent, maxPercent int) {
	minPercent = clamp(minPercent, HPFloor, HPCeil)
	maxPercent = clamp(maxPercent, HPFloor, HPCeil)
	if minPercent > maxPercent {
		minPercent, maxPercent = maxPercent, minPercent
	}
	s.HPMin = minPercent
	s.HPMax = maxPercent
}

// AdjustHP shifts both HP bounds and re-applies the SetHPRange rule
func (s *Snapshot) AdjustHP(minDelta, maxDelta int) {
	s.SetHPRange(s.HPMin+minDelta, s.HPMax+maxDelta)
}

// SetStat stores a stat stage clamped to [-6,6]. Returns false for an unknown key.
func (s *Snapshot) SetStat(key StatKey, value int) bool {
	if !key.Valid() {
		return false
	}
	if s.Stats == nil {
		s.ResetStats()
	}
	s.Stats[key] = clamp(value, StageMin, StageMax)
	return true
}

// AdjustStat adds delta to a stat stage and re-clamps it
func (s *Snapshot) AdjustStat(key StatKey, delta int) bool {
	current, _ := s.Stat(key)
	return s.SetStat(key, current+delta)
}

// Stat returns the stage for key
func (s *Snapshot) Stat(key StatKey) (int, bool) {
	if !key.Valid() {
		return 0, false
	}
	return s.Stats[key], true
}

func (s *Snapshot) SetMajorStatus(status MajorStatus) {
	s.MajorStatus = status
}

func (s *Snapshot) SetMinorStatus(status MinorStatus) {
	s.MinorStatus = status
}

// ResetStats sets every stage back to 0
func (s *Snapshot) ResetStats() {
	s.Stats = make(map[StatKey]int, len(StatKeys))
	for _, k := range StatKeys {
		s.Stats[k] = 0
	}
}

// ResetStatus clears both status conditions
func (s *Snapshot) ResetStatus() {
	s.MajorStatus = MajorNone
	s.MinorStatus = MinorNone
}

// ResetHP restores the HP range to 100-100
func (s *Snapshot) ResetHP() {
	s.HPMin = HPCeil
	s.HPMax = HPCeil
}

// Clone returns an independent deep copy
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Stats = maps.Clone(s.Stats)
	if c.Stats == nil {
		c.ResetStats()
	}
	return &c
}

// Normalize re-applies every clamp and fills missing fields.
// Used after decoding data that did not pass through the setters.
func (s *Snapshot) Normalize() {
	s.SetHPRange(s.HPMin, s.HPMax)
	if s.MajorStatus == "" {
		s.MajorStatus = MajorNone
	}
	if s.MinorStatus == "" {
		s.MinorStatus = MinorNone
	}
	stats := s.Stats
	s.ResetStats()
	for k, v := range stats {
		s.SetStat(k, v)
	}
}

func (s *Snapshot) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	if s.IsMega {
		sb.WriteString(" (Mega)")
	}
	if s.Item != "" {
		sb.WriteString(" @ " + s.Item)
	}
	fmt.Fprintf(&sb, " hp=%d-%d%%", s.HPMin, s.HPMax)
	if s.MajorStatus != MajorNone && s.MajorStatus != "" {
		sb.WriteString(" " + string(s.MajorStatus))
	}
	if s.MinorStatus != MinorNone && s.MinorStatus != "" {
		sb.WriteString(" " + string(s.MinorStatus))
	}
	for _, k := range StatKeys {
		if v := s.Stats[k]; v != 0 {
			fmt.Fprintf(&sb, " %s%+d", k, v)
		}
	}
	return sb.String()
}

// Valid reports whether k is one of the eight stat stage keys
func (k StatKey) Valid() bool {
	for _, key := range StatKeys {
		if k == key {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
