package project

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/roster"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/transition"
	"github.com/jwebster45206/battle-tree/pkg/tree"
)

// Project bundles a tree with the allocator that numbers its nodes and
// the rosters its slots are filled from.
type Project struct {
	Tree    *tree.Tree
	IDs     *state.IDAllocator
	Box     *roster.Box
	Enemies *roster.EnemyLibrary
	// CurrentTrainer names the opponent the tree is being built against
	CurrentTrainer string
}

// New returns an empty project: a lone root, an empty box and no trainers
func New() *Project {
	return NewWithArity(state.AritySingle)
}

// NewWithArity is New with the root set to arity
func NewWithArity(arity state.Arity) *Project {
	ids := state.NewIDAllocator()
	root := ids.NewRoot()
	root.Arity = arity
	return &Project{
		Tree:    tree.New(root),
		IDs:     ids,
		Box:     roster.NewBox("Main Box"),
		Enemies: roster.NewEnemyLibrary(),
	}
}

// Encode captures p as a document
func Encode(p *Project) *Document {
	doc := &Document{
		States:       []StateRecord{},
		Transitions:  []TransitionRecord{},
		Box:          map[string]*SnapshotRecord{},
		EnemyLibrary: map[string][]TrainerEntry{},
	}

	if _, ok := p.Enemies.Trainer(p.CurrentTrainer); ok {
		doc.CurrentTrainer = p.CurrentTrainer
	}

	for _, n := range p.Tree.Nodes() {
		rec := StateRecord{
			ID:         n.ID,
			Name:       n.Name,
			Turn:       n.Turn,
			Weather:    string(n.Weather),
			Pokemons:   map[string]string{},
			BattleType: string(n.Arity),
		}
		for slot, c := range n.ActiveCombatants() {
			rec.Pokemons[string(slot)] = c.Name
			if rec.Combatants == nil {
				rec.Combatants = map[string]*SnapshotRecord{}
			}
			rec.Combatants[string(slot)] = recordOf(c)
		}
		doc.States = append(doc.States, rec)
	}

	for _, e := range p.Tree.Edges() {
		prob := e.Probability()
		doc.Transitions = append(doc.Transitions, TransitionRecord{
			From:        e.From,
			To:          e.To,
			Probability: &prob,
			Effects:     slices.Clone(e.Effects),
		})
	}

	for _, key := range p.Box.List() {
		s, _ := p.Box.Get(key)
		doc.Box[key] = recordOf(s)
	}

	for _, name := range p.Enemies.TrainerNames() {
		t, _ := p.Enemies.Trainer(name)
		entries := make([]TrainerEntry, 0, t.Len())
		for _, s := range t.Team() {
			entries = append(entries, TrainerEntry{Name: s.Name, Item: s.Item, IsMega: s.IsMega})
		}
		doc.EnemyLibrary[name] = entries
		doc.Trainers = append(doc.Trainers, TrainerRecord{
			Name:       t.Name,
			BattleType: string(t.Arity),
			Defeated:   t.Defeated,
			Skipped:    t.Skipped,
		})
	}
	return doc
}

// Decode rebuilds a project. State id 0 fills the existing root; other ids
// are kept as-is. Transitions naming unknown states are dropped.
func Decode(doc *Document) (*Project, error) {
	p := New()
	if doc == nil {
		return p, nil
	}

	if err := decodeBox(p, doc.Box); err != nil {
		return nil, err
	}
	if err := decodeLibrary(p, doc); err != nil {
		return nil, err
	}
	if _, ok := p.Enemies.Trainer(doc.CurrentTrainer); ok {
		p.CurrentTrainer = doc.CurrentTrainer
	}

	for _, rec := range doc.States {
		if err := decodeState(p, rec); err != nil {
			return nil, err
		}
	}

	for i, rec := range doc.Transitions {
		if _, ok := p.Tree.Node(rec.From); !ok {
			continue
		}
		if _, ok := p.Tree.Node(rec.To); !ok {
			continue
		}
		prob := transition.DefaultProbability
		if rec.Probability != nil {
			prob = *rec.Probability
		}
		for j, eff := range rec.Effects {
			if err := eff.Validate(); err != nil {
				return nil, fmt.Errorf("transition %d effect %d: %w", i, j, err)
			}
		}
		e := transition.New(rec.From, rec.To, prob, rec.Effects...)
		if err := p.Tree.AddEdge(e); err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
	}
	return p, nil
}

// Marshal encodes p as indented JSON
func Marshal(p *Project) ([]byte, error) {
	data, err := json.MarshalIndent(Encode(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return data, nil
}

func Unmarshal(data []byte) (*Project, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return Decode(&doc)
}

func decodeBox(p *Project, box map[string]*SnapshotRecord) error {
	// map order is lost on disk; keys load alphabetically
	for _, key := range slices.Sorted(maps.Keys(box)) {
		s, err := box[key].Snapshot()
		if err != nil {
			return fmt.Errorf("box entry %q: %w", key, err)
		}
		p.Box.Add(key, s)
	}
	return nil
}

func decodeLibrary(p *Project, doc *Document) error {
	meta := make(map[string]TrainerRecord, len(doc.Trainers))
	var order []string
	for _, tr := range doc.Trainers {
		if _, listed := doc.EnemyLibrary[tr.Name]; !listed {
			continue
		}
		if _, seen := meta[tr.Name]; seen {
			continue
		}
		meta[tr.Name] = tr
		order = append(order, tr.Name)
	}
	for _, name := range slices.Sorted(maps.Keys(doc.EnemyLibrary)) {
		if _, seen := meta[name]; !seen {
			order = append(order, name)
		}
	}

	for _, name := range order {
		m := meta[name]
		arity, ok := state.ParseArity(m.BattleType)
		if !ok {
			return fmt.Errorf("trainer %q: unknown battle type %q", name, m.BattleType)
		}
		t := roster.NewTrainer(name, arity)
		t.Defeated = m.Defeated
		t.Skipped = m.Skipped
		for i, entry := range doc.EnemyLibrary[name] {
			s, err := combatant.New(entry.Name, entry.Item, entry.IsMega)
			if err != nil {
				return fmt.Errorf("trainer %q member %d: %w", name, i, err)
			}
			t.Add(s)
		}
		if !p.Enemies.AddTrainer(t) {
			return fmt.Errorf("trainer %q: invalid or duplicate name", name)
		}
	}
	return nil
}

func decodeState(p *Project, rec StateRecord) error {
	var n *state.Node
	if rec.ID == 0 {
		n = p.Tree.Root()
		if rec.Name != "" {
			n.SetName(rec.Name)
		}
	} else {
		if rec.ID < 0 || rec.Turn < 0 {
			return fmt.Errorf("state %d: id and turn must be non-negative", rec.ID)
		}
		n = state.NewNode(rec.ID, rec.Turn, rec.Name)
		if err := p.Tree.AddNode(n); err != nil {
			return fmt.Errorf("state %d: %w", rec.ID, err)
		}
		p.IDs.Observe(rec.ID)
	}

	w, ok := state.ParseWeather(rec.Weather)
	if !ok {
		return fmt.Errorf("state %d: unknown weather %q", rec.ID, rec.Weather)
	}
	n.SetWeather(w)

	arity, ok := state.ParseArity(rec.BattleType)
	if !ok {
		return fmt.Errorf("state %d: unknown battle type %q", rec.ID, rec.BattleType)
	}
	n.Arity = arity

	slots := make(map[state.Slot]string, len(rec.Pokemons))
	for raw, name := range rec.Pokemons {
		slot, ok := state.ParseSlot(raw)
		if !ok {
			return fmt.Errorf("state %d: unknown slot %q", rec.ID, raw)
		}
		slots[slot] = name
	}
	for raw := range rec.Combatants {
		slot, ok := state.ParseSlot(raw)
		if !ok {
			return fmt.Errorf("state %d: unknown slot %q", rec.ID, raw)
		}
		if _, named := slots[slot]; !named {
			slots[slot] = ""
		}
	}

	for _, slot := range state.Slots {
		name, used := slots[slot]
		if !used {
			continue
		}
		s, err := p.resolve(rec, slot, name)
		if err != nil {
			return fmt.Errorf("state %d slot %s: %w", rec.ID, slot, err)
		}
		n.SetCombatant(slot, s)
	}
	return nil
}

// resolve picks the snapshot for a slot: the full record saved with the state,
// then a box entry by key or name, then a trainer's team member, then a fresh one.
func (p *Project) resolve(rec StateRecord, slot state.Slot, name string) (*combatant.Snapshot, error) {
	for raw, s := range rec.Combatants {
		if parsed, _ := state.ParseSlot(raw); parsed == slot && s != nil {
			return s.Snapshot()
		}
	}
	if s, ok := p.Box.Get(name); ok {
		return s, nil
	}
	if s, ok := p.Box.FindByName(name); ok {
		return s, nil
	}
	if s, ok := p.Enemies.FindCombatant(name); ok {
		return s, nil
	}
	return combatant.New(name, "", false)
}
