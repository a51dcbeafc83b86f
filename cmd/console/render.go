package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/battle-tree/internal/session"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/muesli/reflow/wordwrap"
)

var slotOrder = []string{"Self", "Enemy", "Self2", "Enemy2"}
var statOrder = []string{"HP", "ATK", "DEF", "SATK", "SDEF", "SPE", "ACC", "EVA"}

// stateIDs lists state ids in turn order, then id order
func stateIDs(doc *project.Document) []int {
	states := slices.Clone(doc.States)
	slices.SortFunc(states, func(a, b project.StateRecord) int {
		if a.Turn != b.Turn {
			return a.Turn - b.Turn
		}
		return a.ID - b.ID
	})
	ids := make([]int, len(states))
	for i, s := range states {
		ids[i] = s.ID
	}
	return ids
}

func findState(doc *project.Document, id int) (project.StateRecord, bool) {
	for _, s := range doc.States {
		if s.ID == id {
			return s, true
		}
	}
	return project.StateRecord{}, false
}

// renderTree lists states by turn with their outgoing transitions.
// Transition numbers are the ids the API accepts.
func renderTree(doc *project.Document, selected, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BATTLE TREE") + "\n\n")
	if doc == nil {
		return b.String()
	}

	turn := -1
	for _, id := range stateIDs(doc) {
		s, _ := findState(doc, id)
		if s.Turn != turn {
			turn = s.Turn
			b.WriteString(turnStyle.Render(fmt.Sprintf("Turn %d", turn)) + "\n")
		}

		label := fmt.Sprintf("[%d] %s", s.ID, s.Name)
		if s.Weather != "" && s.Weather != "None" {
			label += " · " + s.Weather
		}
		if s.ID == selected {
			b.WriteString(selectedStyle.Render("▶ "+label) + "\n")
		} else {
			b.WriteString("  " + label + "\n")
		}

		for i, tr := range doc.Transitions {
			if tr.From != s.ID {
				continue
			}
			dst, _ := findState(doc, tr.To)
			p := 1.0
			if tr.Probability != nil {
				p = *tr.Probability
			}
			line := fmt.Sprintf("    └ t%d → [%d] %s  %.0f%%", i+1, dst.ID, dst.Name, p*100)
			if n := len(tr.Effects); n > 0 {
				line += fmt.Sprintf("  (%d effects)", n)
			}
			b.WriteString(edgeStyle.Render(truncate(line, width)) + "\n")
		}
	}
	return b.String()
}

// renderDetails describes the selected state and the project around it
func renderDetails(view *ProjectView, selected, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("STATE") + "\n\n")
	if view == nil || view.Document == nil {
		return b.String()
	}

	s, ok := findState(view.Document, selected)
	if !ok {
		b.WriteString("No state selected\n")
		return b.String()
	}
	battleType := s.BattleType
	if battleType == "" {
		battleType = "single"
	}
	b.WriteString(wordwrap.String(fmt.Sprintf("%s (id %d)", s.Name, s.ID), width) + "\n")
	b.WriteString(fmt.Sprintf("Turn %d · %s · %s\n\n", s.Turn, s.Weather, battleType))

	for _, slot := range slotOrder {
		if battleType != "double" && strings.HasSuffix(slot, "2") {
			continue
		}
		c := s.Combatants[slot]
		if c == nil {
			b.WriteString(fmt.Sprintf("%s: (empty)\n", slot))
			continue
		}
		b.WriteString(wordwrap.String(fmt.Sprintf("%s: %s", slot, describeCombatant(c)), width) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Project: %s\n", view.Name))
	if view.Document.CurrentTrainer != "" {
		b.WriteString(fmt.Sprintf("Trainer: %s\n", view.Document.CurrentTrainer))
	}
	b.WriteString(fmt.Sprintf("Box: %d · Trainers: %d\n", len(view.Document.Box), len(view.Document.EnemyLibrary)))
	b.WriteString(fmt.Sprintf("States: %d · Transitions: %d\n", len(view.Document.States), len(view.Document.Transitions)))

	b.WriteString("\n")
	b.WriteString("Commands:\n")
	b.WriteString("• Tab: Next state\n")
	b.WriteString("• /help: Help\n")
	b.WriteString("• Ctrl+C: Quit\n")
	return b.String()
}

func describeCombatant(c *project.SnapshotRecord) string {
	parts := []string{c.Name}
	if c.IsMega {
		parts[0] += " (Mega)"
	}
	if c.Item != "" {
		parts[0] += " @ " + c.Item
	}
	if c.HPMin != nil && c.HPMax != nil {
		if *c.HPMin == *c.HPMax {
			parts = append(parts, fmt.Sprintf("HP %d%%", *c.HPMin))
		} else {
			parts = append(parts, fmt.Sprintf("HP %d-%d%%", *c.HPMin, *c.HPMax))
		}
	}
	if c.MajorStatus != "" && c.MajorStatus != "None" {
		parts = append(parts, c.MajorStatus)
	}
	if c.MinorStatus != "" && c.MinorStatus != "None" {
		parts = append(parts, c.MinorStatus)
	}
	for _, k := range statOrder {
		if v := c.Stats[k]; v != 0 {
			parts = append(parts, fmt.Sprintf("%s%+d", k, v))
		}
	}
	return strings.Join(parts, " · ")
}

// renderReport formats a validation report for the tree panel
func renderReport(r *session.Report, width int) string {
	var b strings.Builder
	if r.Valid {
		b.WriteString(okStyle.Render("Tree is valid") + "\n")
	} else {
		b.WriteString(errorStyle.Render("Tree has problems") + "\n")
	}
	for _, is := range r.Errors {
		b.WriteString(errorStyle.Render(wordwrap.String("✗ "+is.Message, width)) + "\n")
	}
	for _, is := range r.Warnings {
		b.WriteString(loadingStyle.Render(wordwrap.String("! "+is.Message, width)) + "\n")
	}
	if r.Analysis != nil && r.Analysis.Reach != nil {
		for _, id := range r.Analysis.Leaves {
			b.WriteString(fmt.Sprintf("  leaf [%d] reached %.1f%%\n", id, r.Analysis.Reach[id]*100))
		}
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 1 || len([]rune(s)) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
