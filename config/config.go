package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configCacheEntry holds cached configuration with metadata
type configCacheEntry struct {
	config  *Config
	modTime time.Time
}

// Global cache for configuration files
var (
	configCache = make(map[string]*configCacheEntry)
	cacheMutex  sync.RWMutex
)

// ConfigFileName is the base name looked up in the working directory.
const ConfigFileName = "webtidy-config"

// Config represents the structure of the configuration file
type Config struct {
	ProjectRoot       string           `mapstructure:"project_root"`
	SourceDirs        []string         `mapstructure:"source_dirs"`
	Extensions        []string         `mapstructure:"extensions"`
	SkipDirs          []string         `mapstructure:"skip_dirs"`
	EntryPoints       []string         `mapstructure:"entry_points"`
	ProtectedPatterns []string         `mapstructure:"protected_patterns"`
	AliasPrefix       string           `mapstructure:"alias_prefix"`
	Extractor         string           `mapstructure:"extractor"`
	EnableCache       bool             `mapstructure:"enable_cache"`
	CacheDir          string           `mapstructure:"cache_dir"`
	LogLevel          string           `mapstructure:"log_level"`
	Theme             string           `mapstructure:"theme"`
	ReactBits         *ReactBitsConfig `mapstructure:"reactbits"`
	Assets            *AssetsConfig    `mapstructure:"assets"`
}

// ReactBitsConfig locates the vendored component folder.
type ReactBitsConfig struct {
	Dir            string   `mapstructure:"dir"`
	Manifest       string   `mapstructure:"manifest"`
	NoCheckExclude []string `mapstructure:"nocheck_exclude"`
}

// AssetsConfig lists the binary assets fetched for the components.
type AssetsConfig struct {
	TargetDir string        `mapstructure:"target_dir"`
	Files     []string      `mapstructure:"files"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DefaultConfig values
var DefaultConfig = Config{
	ProjectRoot: ".",
	SourceDirs:  []string{"components", "app", "lib", "hooks"},
	Extensions:  []string{".tsx", ".ts", ".jsx", ".js"},
	SkipDirs:    []string{"node_modules", ".next", ".git", "public", "scripts"},
	EntryPoints: []string{
		"layout.tsx", "page.tsx", "layout.js", "page.js", "globals.css",
		"not-found.tsx", "error.tsx", "loading.tsx", "route.ts", "route.js",
	},
	ProtectedPatterns: []string{
		"app/api/",
		"ui/button", "ui/input", "ui/sheet", "ui/tooltip", "ui/tabs",
		"ui/select", "ui/scroll-area", "ui/dialog",
		"lib/utils", "lib/data", "lib/accentColor",
		"hooks/use",
	},
	AliasPrefix: "@/",
	Extractor:   "regex",
	EnableCache: false,
	CacheDir:    ".cache/webtidy",
	LogLevel:    "info",
	Theme:       "dracula",
	ReactBits: &ReactBitsConfig{
		Dir:            "components/reactbits",
		Manifest:       ".manifest.json",
		NoCheckExclude: []string{"Aurora.tsx", "Squares.tsx", "Waves.tsx", "Threads.tsx"},
	},
	Assets: &AssetsConfig{
		TargetDir: "components/reactbits/Components",
		Files: []string{
			"https://raw.githubusercontent.com/DavidHDev/react-bits/main/src/demo/Components/Lanyard/card.glb",
			"https://raw.githubusercontent.com/DavidHDev/react-bits/main/src/demo/Components/Lanyard/lanyard.png",
		},
		Timeout: 30 * time.Second,
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from .env, file, flags, and environment
// variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	var config *Config

	viper.Reset()

	// A missing .env is fine
	if err := godotenv.Load(filepath.Join(cwd, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// Set default values using Viper
	setDefaults()

	// Explicitly bind environment variables to config keys
	bindEnv()

	if cfgFile != "" {
		// Use the config file from the flag
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToReadConfig, err)
		}
	} else if path := findConfigFile(cwd); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToReadConfig, err)
		}
	} else {
		fmt.Fprintln(os.Stderr, lipgloss.Yellow.Render("No configuration file found, using defaults"))
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	// Unmarshal the configuration into the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToDecodeConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// findConfigFile returns the first default config file present in dir.
func findConfigFile(dir string) string {
	for _, ext := range []string{".yml", ".yaml", ".json"} {
		path := filepath.Join(dir, ConfigFileName+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("project_root", DefaultConfig.ProjectRoot)
	viper.SetDefault("source_dirs", DefaultConfig.SourceDirs)
	viper.SetDefault("extensions", DefaultConfig.Extensions)
	viper.SetDefault("skip_dirs", DefaultConfig.SkipDirs)
	viper.SetDefault("entry_points", DefaultConfig.EntryPoints)
	viper.SetDefault("protected_patterns", DefaultConfig.ProtectedPatterns)
	viper.SetDefault("alias_prefix", DefaultConfig.AliasPrefix)
	viper.SetDefault("extractor", DefaultConfig.Extractor)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("cache_dir", DefaultConfig.CacheDir)
	viper.SetDefault("log_level", DefaultConfig.LogLevel)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("reactbits.dir", DefaultConfig.ReactBits.Dir)
	viper.SetDefault("reactbits.manifest", DefaultConfig.ReactBits.Manifest)
	viper.SetDefault("reactbits.nocheck_exclude", DefaultConfig.ReactBits.NoCheckExclude)
	viper.SetDefault("assets.target_dir", DefaultConfig.Assets.TargetDir)
	viper.SetDefault("assets.files", DefaultConfig.Assets.Files)
	viper.SetDefault("assets.timeout", DefaultConfig.Assets.Timeout)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("project_root", "WEBTIDY_PROJECT_ROOT")
	_ = viper.BindEnv("extractor", "WEBTIDY_EXTRACTOR")
	_ = viper.BindEnv("log_level", "WEBTIDY_LOG_LEVEL")
	_ = viper.BindEnv("enable_cache", "WEBTIDY_ENABLE_CACHE")
	_ = viper.BindEnv("cache_dir", "WEBTIDY_CACHE_DIR")
	_ = viper.BindEnv("theme", "WEBTIDY_THEME")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	if rootCmd == nil {
		return
	}
	for _, key := range []string{"project_root", "extractor", "log_level", "enable_cache", "theme"} {
		if flag := rootCmd.PersistentFlags().Lookup(key); flag != nil {
			_ = viper.BindPFlag(key, flag)
		}
	}
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("project_root", DefaultConfig.ProjectRoot, "Root of the Next.js project to analyze.")
	rootCmd.PersistentFlags().String("extractor", DefaultConfig.Extractor, "Import extraction strategy: 'regex' (textual) or 'ast' (tree-sitter).")
	rootCmd.PersistentFlags().String("log_level", DefaultConfig.LogLevel, "Log level: 'debug', 'info', 'warn' or 'error'.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Cache extracted imports on disk between runs.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Syntax highlighting theme for 'inspect' (e.g., 'dracula', 'monokai', 'github').")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// Validate checks the values the analyzer cannot work without.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("%w: project_root is empty", ErrInvalidConfig)
	}
	if len(c.SourceDirs) == 0 {
		return fmt.Errorf("%w: source_dirs is empty", ErrInvalidConfig)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: extensions is empty", ErrInvalidConfig)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, ext)
		}
	}
	if c.ReactBits == nil {
		c.ReactBits = &ReactBitsConfig{}
	}
	if c.Assets == nil {
		c.Assets = &AssetsConfig{}
	}
	return nil
}

// AbsProjectRoot resolves project_root against cwd.
func (c *Config) AbsProjectRoot(cwd string) string {
	if filepath.IsAbs(c.ProjectRoot) {
		return filepath.Clean(c.ProjectRoot)
	}
	return filepath.Join(cwd, c.ProjectRoot)
}

// ProjectPath resolves a project-relative setting against the project root.
func (c *Config) ProjectPath(cwd, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(c.AbsProjectRoot(cwd), filepath.FromSlash(rel))
}

// AnalyzerOptions converts the configuration into the options handed to the analyzer.
func (c *Config) AnalyzerOptions(cwd string) models.ScanOptions {
	return models.ScanOptions{
		ProjectRoot:       c.AbsProjectRoot(cwd),
		SourceDirs:        c.SourceDirs,
		Extensions:        c.Extensions,
		SkipDirs:          c.SkipDirs,
		EntryPoints:       c.EntryPoints,
		ProtectedPatterns: c.ProtectedPatterns,
		AliasPrefix:       c.AliasPrefix,
		Extractor:         c.Extractor,
	}
}

// AnalyzerCacheDir returns the cache directory, or "" when caching is disabled.
func (c *Config) AnalyzerCacheDir(cwd string) string {
	if !c.EnableCache || c.CacheDir == "" {
		return ""
	}
	return c.ProjectPath(cwd, c.CacheDir)
}

// ScanRoots returns the absolute source directories.
func (c *Config) ScanRoots(cwd string) []string {
	roots := make([]string, 0, len(c.SourceDirs))
	for _, dir := range c.SourceDirs {
		roots = append(roots, c.ProjectPath(cwd, dir))
	}
	return roots
}

// LoadConfigWithCache loads configuration with caching support
func LoadConfigWithCache(rootCmd *cobra.Command, cwd string) (*Config, error) {
	configFilePath := cfgFile
	if configFilePath == "" {
		configFilePath = findConfigFile(cwd)
	}

	// If no config file exists, return default configuration loading
	if configFilePath == "" {
		return LoadConfigs(rootCmd, cwd)
	}

	// Check file modification time
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		return LoadConfigs(rootCmd, cwd)
	}

	// Flags and env can change between calls, so only the file contents are keyed here.
	cacheMutex.RLock()
	if cached, exists := configCache[configFilePath]; exists && fileInfo.ModTime().Equal(cached.modTime) && !flagsChanged(rootCmd) {
		cacheMutex.RUnlock()
		return cached.config, nil
	}
	cacheMutex.RUnlock()

	config, err := LoadConfigs(rootCmd, cwd)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	configCache[configFilePath] = &configCacheEntry{
		config:  config,
		modTime: fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return config, nil
}

func flagsChanged(rootCmd *cobra.Command) bool {
	if rootCmd == nil {
		return false
	}
	changed := false
	rootCmd.PersistentFlags().Visit(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			changed = true
		}
	})
	return changed
}

// ClearConfigCache clears all cached configuration files
func ClearConfigCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	configCache = make(map[string]*configCacheEntry)
}
