package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <project.json>",
	Short: "Print the tree, its trainers and how likely each outcome is",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEditor(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		p := e.Project()

		t := e.Tree()
		fmt.Fprintln(w, t.String())
		byTurn := t.NodesByTurn()
		for _, turn := range t.Turns() {
			fmt.Fprintf(w, "Turn %d\n", turn)
			for _, n := range byTurn[turn] {
				fmt.Fprintf(w, "  [%d] %s\n", n.ID, n.Name)
				for _, edge := range t.EdgesFrom(n.ID) {
					dst, _ := t.Node(edge.To)
					fmt.Fprintf(w, "      -> [%d] %s %.0f%%\n", dst.ID, dst.Name, edge.Probability()*100)
				}
			}
		}

		if names := p.Enemies.TrainerNames(); len(names) > 0 {
			fmt.Fprintln(w, "\nTrainers:")
			for _, name := range names {
				t, _ := p.Enemies.Trainer(name)
				marker := " "
				if name == p.CurrentTrainer {
					marker = "*"
				}
				fmt.Fprintf(w, " %s %s: %v\n", marker, t.Label(), t.Names())
			}
		}
		fmt.Fprintf(w, "\nBox: %d entries\n", p.Box.Len())

		report := e.Validate()
		if report.Analysis == nil || report.Analysis.Reach == nil {
			fmt.Fprintln(w, "\nOutcome odds unavailable, run validate for details")
			return nil
		}
		fmt.Fprintln(w, "\nOutcomes:")
		for _, id := range report.Analysis.Leaves {
			n, _ := e.Tree().Node(id)
			fmt.Fprintf(w, "  [%d] %s: %.1f%%\n", id, n.Name, report.Analysis.Reach[id]*100)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
