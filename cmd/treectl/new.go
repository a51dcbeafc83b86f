package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <project.json>",
	Short: "Create an empty project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("type")
		arity, ok := state.ParseArity(raw)
		if !ok {
			return fmt.Errorf("unknown battle type %q", raw)
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(args[0]); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", args[0])
		}
		if err := writeProject(args[0], project.NewWithArity(arity)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s battle)\n", args[0], arity)
		return nil
	},
}

func init() {
	newCmd.Flags().StringP("type", "t", "single", "battle type of the root state (single or double)")
	newCmd.Flags().Bool("force", false, "overwrite an existing file")
	rootCmd.AddCommand(newCmd)
}
