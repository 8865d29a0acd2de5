package cmd

import (
	"fmt"
	"os"

	"github.com/neon/webtidy/code_analyzer"
	"github.com/neon/webtidy/code_analyzer/contracts"
	"github.com/neon/webtidy/config"
	"github.com/neon/webtidy/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// RootDependencies is what every subcommand needs after configuration is loaded.
type RootDependencies struct {
	Config   *config.Config
	Cwd      string
	Logger   *pterm.Logger
	FS       utils.FileSystem
	Analyzer contracts.ICodeAnalyzer
}

var rootCmd = &cobra.Command{
	Use:   "webtidy",
	Short: "Find and remove unused source files in a Next.js project",
	Long: `webtidy walks the source folders of a Next.js/React project, follows every
import, require and dynamic import, and reports the files nothing references.
Entry points such as page.tsx and protected paths such as ui/button are always kept.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads the configuration and builds the analyzer.
func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfigWithCache(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}

	logger := utils.NewLogger(cfg.LogLevel, os.Stderr)

	cacheDir := cfg.AnalyzerCacheDir(cwd)

	analyzer, err := code_analyzer.NewCodeAnalyzer(code_analyzer.NewCodeAnalyzerParams{
		Options:  cfg.AnalyzerOptions(cwd),
		CacheDir: cacheDir,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded", logger.Args(
		"project_root", cfg.AbsProjectRoot(cwd),
		"extractor", cfg.Extractor,
		"cache_dir", cacheDir,
	))

	return &RootDependencies{
		Config:   cfg,
		Cwd:      cwd,
		Logger:   logger,
		FS:       utils.NewFileSystem(),
		Analyzer: analyzer,
	}, nil
}

func newSpinner() *pterm.SpinnerPrinter {
	return pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true).WithWriter(os.Stderr)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
