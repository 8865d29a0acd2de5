package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/neon/webtidy/constants/lipgloss"
	"github.com/neon/webtidy/reactbits"
	"github.com/spf13/cobra"
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Move ReactBits components into their manifest category folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		cfg := rootDependencies.Config
		dir := cfg.ProjectPath(rootDependencies.Cwd, cfg.ReactBits.Dir)
		manifest, err := reactbits.LoadManifest(rootDependencies.FS, reactbits.ManifestPath(dir, cfg.ReactBits.Manifest))
		if err != nil {
			return err
		}

		result, err := reactbits.Organize(rootDependencies.FS, dir, manifest)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, move := range result.Moves {
			fmt.Fprintf(out, "✓ %s -> %s/\n", filepath.Base(move.From), move.Category)
		}
		for _, failure := range result.Failed {
			fmt.Fprintln(out, lipgloss.Red.Render(fmt.Sprintf("✗ %s: %v", failure.Path, failure.Err)))
		}
		fmt.Fprintln(out, lipgloss.Green.Render(fmt.Sprintf("\nDone! Moved %d components into %d folders.", result.Components, len(manifest.Components))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(organizeCmd)
}
