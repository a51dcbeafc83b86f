package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/battle-tree/internal/session"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "treectl",
	Short: "Inspect and edit battle tree project files",
	Long: `treectl works directly on project JSON files, the same documents the
API stores and exports. Edits are written back in place unless --out is given.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log editing operations to stderr")
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// readDocument strictly decodes a project file. Unknown fields are rejected.
func readDocument(path string) (*project.Document, error) {
	if !strings.HasSuffix(filepath.Base(path), ".json") {
		return nil, fmt.Errorf("project file must have .json extension: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("file %s contains invalid JSON", path)
	}

	var doc project.Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("file %s failed strict JSON unmarshaling: %w", path, err)
	}
	return &doc, nil
}

// openEditor loads a project file into an editor
func openEditor(path string) (*session.Editor, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	p, err := project.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", path, err)
	}
	return session.NewEditor(p, logger()), nil
}

// writeProject saves p to path through a temp file in the same directory
func writeProject(path string, p *project.Project) error {
	data, err := project.Marshal(p)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".treectl-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // gone after a successful rename
	}()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// outPath is where an editing command writes: --out or the input itself
func outPath(cmd *cobra.Command, in string) string {
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		return out
	}
	return in
}

func printResult(w io.Writer, res *session.ImportResult) {
	for _, name := range res.Imported {
		fmt.Fprintf(w, "imported %s\n", name)
	}
	for _, name := range res.Skipped {
		fmt.Fprintf(w, "skipped %s (already present)\n", name)
	}
}
