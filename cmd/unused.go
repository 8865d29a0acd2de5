package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/neon/webtidy/cleanup"
	"github.com/neon/webtidy/utils"
	"github.com/spf13/cobra"
)

var unusedCmd = &cobra.Command{
	Use:   "unused [report|delete]",
	Short: "Report, or delete, source files that nothing imports",
	Long: `The 'unused' command collects every source file under the configured source dirs,
extracts their import specifiers, resolves them against the project, and lists the
files no other file references. 'delete' removes those files and any directories
left empty; any other argument, or none, only prints the report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := cleanup.ModeReport
		if len(args) > 0 {
			mode = cleanup.ParseMode(args[0])
		}
		showUsed, _ := cmd.Flags().GetBool("show-used")

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		return handleUnusedCommand(rootDependencies, mode, showUsed, cmd.OutOrStdout())
	},
}

func init() {
	unusedCmd.Flags().Bool("show-used", false, "Show how many files each keep reason covers")
	rootCmd.AddCommand(unusedCmd)
}

func handleUnusedCommand(rootDependencies *RootDependencies, mode cleanup.Mode, showUsed bool, out io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinnerInstance, _ := newSpinner().Start("Scanning source files...")

	result, err := rootDependencies.Analyzer.FindUnusedFiles(ctx)
	_ = spinnerInstance.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFound %d source files to analyze\n\n", len(result.Files))

	reporter := cleanup.NewReporter(out, "webtidy unused delete")
	reporter.WriteReport(result, mode)
	reporter.WriteReadFailures(result.ReadFailures)
	if showUsed {
		reporter.WriteUsageBreakdown(result)
	}

	if len(result.Unused) == 0 {
		return nil
	}

	if mode == cleanup.ModeDelete {
		roots := rootDependencies.Config.ScanRoots(rootDependencies.Cwd)
		warnUncommittedChanges(ctx, rootDependencies, roots)

		fmt.Fprintln(out, "\nDELETING FILES...")
		remover := cleanup.NewRemover(rootDependencies.FS, roots, rootDependencies.Config.SkipDirs, rootDependencies.Logger)
		reporter.WriteDeletionSummary(remover.Delete(result.Unused))
	}

	reporter.WriteFooter()
	return nil
}

// warnUncommittedChanges logs when deleted files may take uncommitted work with them.
func warnUncommittedChanges(ctx context.Context, rootDependencies *RootDependencies, roots []string) {
	logger := rootDependencies.Logger
	git := utils.NewGitOperations(rootDependencies.Config.AbsProjectRoot(rootDependencies.Cwd))
	if err := git.CheckGitRepo(ctx); err != nil {
		logger.Debug("skipping uncommitted changes check", logger.Args("reason", err))
		return
	}

	changed, err := git.UncommittedChanges(ctx, roots...)
	if err != nil {
		logger.Debug("git status failed", logger.Args("error", err))
		return
	}
	if len(changed) > 0 {
		logger.Warn("deleting files in a tree with uncommitted changes", logger.Args("changed", len(changed), "first", changed[0]))
	}
}
