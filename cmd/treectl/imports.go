package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/battle-tree/pkg/roster"
	"github.com/spf13/cobra"
)

var importShowdownCmd = &cobra.Command{
	Use:   "import-showdown <project.json> <sets.txt>",
	Short: "Import Showdown sets into the box or a trainer's team",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEditor(args[0])
		if err != nil {
			return err
		}
		text, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read sets: %w", err)
		}

		trainer, _ := cmd.Flags().GetString("trainer")
		replace, _ := cmd.Flags().GetBool("replace")
		if trainer == "" {
			res, err := e.ImportShowdownToBox(string(text))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
		} else {
			res, err := e.ImportShowdownToTrainer(trainer, string(text), replace)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
		}
		return writeProject(outPath(cmd, args[0]), e.Project())
	},
}

var importRosterCmd = &cobra.Command{
	Use:   "import-roster <project.json> <roster.yaml>",
	Short: "Merge a YAML roster's box and trainers into a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEditor(args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open roster: %w", err)
		}
		defer func() {
			_ = f.Close() // Ignore error in defer
		}()
		rf, err := roster.DecodeFile(f)
		if err != nil {
			return err
		}
		replace, _ := cmd.Flags().GetBool("replace")
		res, err := e.ImportRoster(rf, replace)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return writeProject(outPath(cmd, args[0]), e.Project())
	},
}

func init() {
	importShowdownCmd.Flags().String("trainer", "", "add the sets to this trainer instead of the box")
	importShowdownCmd.Flags().StringP("out", "o", "", "write to this file instead of the input")
	importShowdownCmd.Flags().Bool("replace", false, "drop the trainer's current team first")
	importRosterCmd.Flags().StringP("out", "o", "", "write to this file instead of the input")
	importRosterCmd.Flags().Bool("replace", false, "empty the box and trainer list first")
	rootCmd.AddCommand(importShowdownCmd, importRosterCmd)
}
