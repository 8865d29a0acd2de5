package cmd

import (
	"fmt"

	"github.com/neon/webtidy/constants/lipgloss"
	"github.com/neon/webtidy/reactbits"
	"github.com/spf13/cobra"
)

var rewriteImportsCmd = &cobra.Command{
	Use:   "rewrite-imports",
	Short: "Point ReactBits imports at the category folders after 'organize'",
	Long: `The 'rewrite-imports' command rewrites imports such as
  from "@/components/reactbits/Aurora"
to
  from "@/components/reactbits/Backgrounds/Aurora"
in every .tsx file of the project, using the manifest to find each category.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

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

		rewriter := reactbits.NewImportRewriter(
			rootDependencies.FS,
			cfg.AbsProjectRoot(rootDependencies.Cwd),
			cfg.ReactBits.Dir,
			cfg.AliasPrefix,
			cfg.SkipDirs,
			manifest,
		)
		result, err := rewriter.Run(dryRun)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, rewrite := range result.Rewritten {
			fmt.Fprintf(out, "✓ Updated: %s\n", rewrite.RelativePath)
			if dryRun {
				fmt.Fprint(out, lipgloss.Gray.Render(rewrite.Patch))
				fmt.Fprintln(out)
			}
		}
		for _, failure := range result.Failed {
			fmt.Fprintln(out, lipgloss.Red.Render(fmt.Sprintf("✗ %s: %v", failure.Path, failure.Err)))
		}

		summary := fmt.Sprintf("\nDone! Updated %d files.", len(result.Rewritten))
		if dryRun {
			summary = fmt.Sprintf("\nDry run: %d files would be updated.", len(result.Rewritten))
		}
		fmt.Fprintln(out, lipgloss.Green.Render(summary))
		return nil
	},
}

func init() {
	rewriteImportsCmd.Flags().Bool("dry-run", false, "Print a patch per file instead of writing")
	rootCmd.AddCommand(rewriteImportsCmd)
}
