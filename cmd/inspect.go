package cmd

import (
	"fmt"
	"io"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/constants/lipgloss"
	"github.com/neon/webtidy/utils"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show what one file imports and where each import resolves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		inspection, err := rootDependencies.Analyzer.InspectFile(args[0])
		if err != nil {
			return err
		}
		return writeInspection(cmd.OutOrStdout(), inspection, rootDependencies.Config.Theme)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func writeInspection(out io.Writer, inspection *models.FileInspection, theme string) error {
	fmt.Fprintln(out, lipgloss.BoxStyle.Render(inspection.File.RelativePath))

	if len(inspection.Resolutions) == 0 {
		fmt.Fprintln(out, lipgloss.Gray.Render("No imports found."))
		return nil
	}

	fmt.Fprintln(out, lipgloss.Info.Render("Imports:"))
	for _, resolution := range inspection.Resolutions {
		switch {
		case resolution.Target != "":
			fmt.Fprintf(out, "  %s -> %s\n", resolution.Specifier, lipgloss.Green.Render(resolution.Target))
		case resolution.External:
			fmt.Fprintf(out, "  %s %s\n", resolution.Specifier, lipgloss.Gray.Render("(external)"))
		default:
			fmt.Fprintf(out, "  %s %s\n", resolution.Specifier, lipgloss.Yellow.Render("(unresolved)"))
		}
	}

	fmt.Fprintln(out, lipgloss.Info.Render("\nImport lines:"))
	return utils.HighlightLines(out, inspection.ImportLines, inspection.File.Path, theme)
}
