// Package showdown reads team exports in the Pokemon Showdown text format:
//
//	Mareanie @ Black Sludge
//	Level: 16
//	Calm Nature
//	Ability: Merciless
//	EVs: 4 HP / 252 SpA
//	- Venoshock
//	- Toxic
//
// Sets are separated by blank lines.
package showdown

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/textfilter"
)

var ErrNoName = errors.New("set has no name line")

// Raw holds everything read from one set. Only Name, Item and IsMega
// reach the battle tree; the rest is kept for display.
type Raw struct {
	Name    string
	Item    string
	IsMega  bool
	Level   int // 0 when absent
	Ability string
	Nature  string
	Moves   []string
	EVs     map[combatant.StatKey]int
	IVs     map[combatant.StatKey]int
}

var statNames = map[string]combatant.StatKey{
	"hp":  combatant.StatHP,
	"atk": combatant.StatATK,
	"def": combatant.StatDEF,
	"spa": combatant.StatSATK,
	"spd": combatant.StatSDEF,
	"spe": combatant.StatSPE,
}

// Parse reads a single set
func Parse(block string) (*Raw, error) {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoName
	}

	name, item := splitNameItem(lines[0])
	if name == "" {
		return nil, ErrNoName
	}

	raw := &Raw{
		Name:   name,
		Item:   item,
		IsMega: strings.Contains(name, " Mega") || strings.Contains(name, "-Mega"),
		EVs:    map[combatant.StatKey]int{},
		IVs:    map[combatant.StatKey]int{},
	}

	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "-") {
			if move := strings.TrimSpace(strings.TrimLeft(line, "- ")); move != "" {
				raw.Moves = append(raw.Moves, move)
			}
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			if n, ok := strings.CutSuffix(line, " Nature"); ok {
				raw.Nature = textfilter.Title(n)
			}
			continue
		}
		value = strings.TrimSpace(value)

		switch textfilter.Key(key) {
		case "level":
			if lvl, err := strconv.Atoi(value); err == nil {
				raw.Level = lvl
			}
		case "nature":
			raw.Nature = textfilter.Title(value)
		case "ability":
			raw.Ability = textfilter.Title(value)
		case "evs":
			raw.EVs = parseStats(value)
		case "ivs":
			raw.IVs = parseStats(value)
		}
	}
	return raw, nil
}

// ParseAll reads every set in text, skipping blocks without a name line
func ParseAll(text string) []*Raw {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var sets []*Raw
	var block []string
	flush := func() {
		if raw, err := Parse(strings.Join(block, "\n")); err == nil {
			sets = append(sets, raw)
		}
		block = block[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()
	return sets
}

// Snapshot converts the set into a fresh combatant
func (r *Raw) Snapshot() (*combatant.Snapshot, error) {
	return combatant.New(r.Name, r.Item, r.IsMega)
}

// splitNameItem handles "Name @ Item" and drops a trailing gender marker
func splitNameItem(line string) (string, string) {
	name, item, _ := strings.Cut(line, "@")
	name = strings.TrimSpace(name)
	for _, g := range []string{"(M)", "(F)"} {
		name = strings.TrimSpace(strings.TrimSuffix(name, g))
	}
	return name, strings.TrimSpace(item)
}

// parseStats reads "4 HP / 252 SpA / 252 Spe"; malformed parts are ignored
func parseStats(s string) map[combatant.StatKey]int {
	stats := map[combatant.StatKey]int{}
	for _, part := range strings.Split(s, "/") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		if key, ok := statNames[strings.ToLower(fields[1])]; ok {
			stats[key] = v
		}
	}
	return stats
}
