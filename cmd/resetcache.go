package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/neon/webtidy/code_analyzer"
	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/constants/lipgloss"
	"github.com/neon/webtidy/utils"
	"github.com/spf13/cobra"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Reset the extracted imports cache",
	Long: `The 'reset-cache' command removes every cached import list in the cache directory.
Use this command to clear corrupted cache or after switching extractors on a large tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")
		return handleResetCacheCommand(cmd, force, stats)
	},
}

func init() {
	// Define command-specific flags
	resetCacheCmd.Flags().BoolP("force", "f", false, "Force cache reset without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")

	// Add the reset-cache command to the root command
	rootCmd.AddCommand(resetCacheCmd)
}

// cacheStore is the part of the analyzer cache reset-cache works with.
type cacheStore interface {
	GetCacheStats() (*models.CacheEntryStats, error)
	ClearCache() error
}

func handleResetCacheCommand(cmd *cobra.Command, force bool, showStats bool) error {
	out := cmd.OutOrStdout()

	rootDependencies, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}

	cfg := rootDependencies.Config
	cacheDir := cfg.ProjectPath(rootDependencies.Cwd, cfg.CacheDir)
	if _, err := os.Stat(cacheDir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, lipgloss.Yellow.Render("No cache to reset."))
		return nil
	}

	// With enable_cache off the analyzer has no cache, but an old one can still be cleared.
	var store cacheStore = rootDependencies.Analyzer
	if !cfg.EnableCache {
		cacheManager, err := code_analyzer.NewCacheManager(cacheDir)
		if err != nil {
			return err
		}
		store = cacheManager
	}

	if showStats {
		return writeCacheStats(out, store)
	}

	// Confirm reset for full cache reset (if not forced)
	if !force {
		confirmed, err := utils.ConfirmPrompt("Are you sure you want to reset the entire cache?", bufio.NewReader(cmd.InOrStdin()))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, lipgloss.Yellow.Render("Cache reset cancelled."))
			return nil
		}
	}

	spinnerInstance, _ := newSpinner().Start("Resetting cache...")

	err = store.ClearCache()
	_ = spinnerInstance.Stop()
	if err != nil {
		return fmt.Errorf("error resetting cache: %w", err)
	}

	fmt.Fprintln(out, lipgloss.Green.Render("✓ Cache has been successfully reset!"))
	return nil
}

func writeCacheStats(out io.Writer, store cacheStore) error {
	cacheStats, err := store.GetCacheStats()
	if err != nil {
		return fmt.Errorf("could not show statistics: %w", err)
	}

	fmt.Fprintln(out, lipgloss.Info.Render("Cache Statistics:"))
	fmt.Fprintf(out, "  Cache Directory: %s\n", cacheStats.Dir)
	fmt.Fprintf(out, "  Cached Files: %d\n", cacheStats.Files)
	fmt.Fprintf(out, "  Total Size: %s\n", humanize.IBytes(uint64(cacheStats.TotalBytes)))
	if !cacheStats.Oldest.IsZero() {
		fmt.Fprintf(out, "  Oldest Entry: %s\n", humanize.Time(cacheStats.Oldest))
		fmt.Fprintf(out, "  Newest Entry: %s\n", humanize.Time(cacheStats.Newest))
	}
	return nil
}
