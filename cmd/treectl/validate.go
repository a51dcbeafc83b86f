package main

import (
	"fmt"

	"github.com/jwebster45206/battle-tree/internal/session"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <project.json>...",
	Short: "Check project files for unbalanced, cyclic or unreachable states",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		failed := 0
		for _, path := range args {
			e, err := openEditor(path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
				failed++
				continue
			}
			report := e.Validate()
			printReport(cmd, path, report)
			if !report.Valid || (strict && len(report.Warnings) > 0) {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed validation", failed, len(args))
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, path string, r *session.Report) {
	w := cmd.OutOrStdout()
	if r.Valid {
		fmt.Fprintf(w, "✓ %s\n", path)
	} else {
		fmt.Fprintf(w, "✗ %s\n", path)
	}
	for _, is := range r.Errors {
		fmt.Fprintf(w, "  error [%s] %s\n", is.Code, is.Message)
		if is.Fix != "" {
			fmt.Fprintf(w, "        fix: %s\n", is.Fix)
		}
	}
	for _, is := range r.Warnings {
		fmt.Fprintf(w, "  warning [%s] %s\n", is.Code, is.Message)
	}
}

func init() {
	validateCmd.Flags().Bool("strict", false, "treat warnings as failures")
	rootCmd.AddCommand(validateCmd)
}
