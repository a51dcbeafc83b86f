package session

import (
	"fmt"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/roster"
	"github.com/jwebster45206/battle-tree/pkg/showdown"
	"github.com/jwebster45206/battle-tree/pkg/tree"
)

// ImportResult reports what an import added and what it passed over
type ImportResult struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// ImportShowdownToBox adds every parsable set in text to the box. The key is
// the combatant name, suffixed with a counter when already taken.
func (e *Editor) ImportShowdownToBox(text string) (*ImportResult, error) {
	sets, err := parseSets(text)
	if err != nil {
		return nil, err
	}
	res := &ImportResult{}
	for _, s := range sets {
		key := e.freeBoxKey(s.Name)
		e.p.Box.Add(key, s)
		res.Imported = append(res.Imported, key)
	}
	e.logger.Info("Imported sets into box", "count", len(res.Imported))
	return res, nil
}

// ImportShowdownToTrainer appends every parsable set in text to a trainer's team.
// With replace the old team is dropped first.
func (e *Editor) ImportShowdownToTrainer(trainer, text string, replace bool) (*ImportResult, error) {
	t, ok := e.p.Enemies.Trainer(trainer)
	if !ok {
		return nil, fmt.Errorf("trainer %q: %w", trainer, tree.ErrMissingReference)
	}
	sets, err := parseSets(text)
	if err != nil {
		return nil, err
	}
	if replace {
		t.Clear()
	}
	res := &ImportResult{}
	for _, s := range sets {
		t.Add(s)
		res.Imported = append(res.Imported, s.Name)
	}
	e.logger.Info("Imported sets into trainer", "trainer", t.Name, "count", len(res.Imported))
	return res, nil
}

// ImportRoster merges a roster file. Box keys and trainer names already present are
// skipped. With replace the box and library are emptied first and no trainer stays selected.
func (e *Editor) ImportRoster(f *roster.File, replace bool) (*ImportResult, error) {
	box, err := f.BuildBox(e.p.Box.Name)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	lib, err := f.BuildLibrary()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	if replace {
		e.p.Box.Clear()
		e.p.Enemies.Clear()
		e.p.CurrentTrainer = ""
	}

	res := &ImportResult{}
	for _, key := range box.List() {
		s, _ := box.Get(key)
		if e.p.Box.Add(key, s) {
			res.Imported = append(res.Imported, key)
		} else {
			res.Skipped = append(res.Skipped, key)
		}
	}
	for _, name := range lib.TrainerNames() {
		t, _ := lib.Trainer(name)
		if e.p.Enemies.AddTrainer(t) {
			res.Imported = append(res.Imported, name)
		} else {
			res.Skipped = append(res.Skipped, name)
		}
	}
	e.logger.Info("Imported roster", "imported", len(res.Imported), "skipped", len(res.Skipped))
	return res, nil
}

func (e *Editor) freeBoxKey(name string) string {
	key := name
	for i := 2; ; i++ {
		if _, taken := e.p.Box.Get(key); !taken {
			return key
		}
		key = fmt.Sprintf("%s_%d", name, i)
	}
}

func parseSets(text string) ([]*combatant.Snapshot, error) {
	raws := showdown.ParseAll(text)
	if len(raws) == 0 {
		return nil, fmt.Errorf("no sets found: %w", ErrInvalidInput)
	}
	sets := make([]*combatant.Snapshot, 0, len(raws))
	for _, r := range raws {
		s, err := r.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
		}
		sets = append(sets, s)
	}
	return sets, nil
}
