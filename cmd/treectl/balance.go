package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <project.json>",
	Short: "Rebalance every state's outgoing probabilities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEditor(args[0])
		if err != nil {
			return err
		}
		e.Balance()
		out := outPath(cmd, args[0])
		if err := writeProject(out, e.Project()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "balanced %d transitions into %s\n", e.Tree().EdgeCount(), out)
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringP("out", "o", "", "write to this file instead of the input")
	rootCmd.AddCommand(balanceCmd)
}
