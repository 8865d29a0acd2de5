package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/neon/webtidy/constants/lipgloss"
	"github.com/neon/webtidy/reactbits"
	"github.com/spf13/cobra"
)

var nocheckCmd = &cobra.Command{
	Use:   "nocheck",
	Short: "Prepend // @ts-nocheck to vendored ReactBits components",
	Long: `The 'nocheck' command adds a "// @ts-nocheck" first line to every .tsx file directly
inside the ReactBits folder, except the files listed in reactbits.nocheck_exclude.
Files that already start with the marker are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		cfg := rootDependencies.Config
		dir := cfg.ProjectPath(rootDependencies.Cwd, cfg.ReactBits.Dir)
		result, err := reactbits.AddNoCheck(rootDependencies.FS, dir, cfg.ReactBits.NoCheckExclude, dryRun)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		verb := "Adding"
		if dryRun {
			verb = "Would add"
		}
		for _, path := range result.Updated {
			fmt.Fprintf(out, "%s @ts-nocheck to %s\n", verb, filepath.Base(path))
		}
		for _, failure := range result.Failed {
			fmt.Fprintln(out, lipgloss.Red.Render(fmt.Sprintf("✗ %s: %v", failure.Path, failure.Err)))
		}
		fmt.Fprintln(out, lipgloss.Green.Render(fmt.Sprintf("\nDone! %d files updated.", len(result.Updated))))
		return nil
	},
}

func init() {
	nocheckCmd.Flags().Bool("dry-run", false, "List the files without changing them")
	rootCmd.AddCommand(nocheckCmd)
}
