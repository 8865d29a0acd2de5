package code_analyzer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOptions(root string) models.ScanOptions {
	return models.ScanOptions{
		ProjectRoot:       root,
		SourceDirs:        []string{"components", "app", "lib", "hooks"},
		Extensions:        defaultExtensions,
		SkipDirs:          []string{"node_modules", ".next", ".git", "public", "scripts"},
		EntryPoints:       []string{"layout.tsx", "page.tsx"},
		ProtectedPatterns: []string{"lib/utils"},
		AliasPrefix:       "@/",
		Extractor:         ExtractorRegex,
	}
}

func newTestAnalyzer(t *testing.T, options models.ScanOptions, cacheDir string) *CodeAnalyzer {
	t.Helper()
	analyzer, err := NewCodeAnalyzer(NewCodeAnalyzerParams{Options: options, CacheDir: cacheDir})
	require.NoError(t, err)
	return analyzer
}

func unusedRelativePaths(result *models.ScanResult) []string {
	var rels []string
	for _, f := range result.Unused {
		rels = append(rels, f.RelativePath)
	}
	return rels
}

func writeScenario(t *testing.T, root string) {
	writeFile(t, root, "app/page.tsx", `import A from "@/components/A";

export default function Page() { return <A />; }
`)
	writeFile(t, root, "components/A.tsx", "export default function A() { return null; }\n")
	writeFile(t, root, "components/B.tsx", "export default function B() { return null; }\n")
}

func TestFindUnusedFiles_Scenario(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root)

	analyzer := newTestAnalyzer(t, scanOptions(root), "")
	result, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Files, 3)
	assert.Equal(t, []string{"components/B.tsx"}, unusedRelativePaths(result))
	assert.Equal(t, models.UsageEntryPoint, result.Reasons[filepath.Join(root, "app", "page.tsx")])
	assert.Equal(t, models.UsageImported, result.Reasons[filepath.Join(root, "components", "A.tsx")])
	assert.Empty(t, result.ReadFailures)

	for _, rel := range []string{"app/page.tsx", "components/A.tsx", "components/B.tsx"} {
		assert.FileExists(t, filepath.Join(root, rel))
	}
}

func TestFindUnusedFiles_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root)
	writeFile(t, root, "lib/utils.ts", "export const cn = () => '';\n")
	writeFile(t, root, "hooks/useThing.ts", "import { cn } from '../lib/utils';\n")

	analyzer := newTestAnalyzer(t, scanOptions(root), "")

	first, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)
	second, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Unused, second.Unused)
	assert.Equal(t, first.Reasons, second.Reasons)
	assert.Equal(t, []string{"components/B.tsx", "hooks/useThing.ts"}, unusedRelativePaths(first))
}

func TestFindUnusedFiles_RescanSeesNewFiles(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root)
	writeFile(t, root, "app/page.tsx", `import A from "@/components/A";
import New from "@/components/New";
`)

	analyzer := newTestAnalyzer(t, scanOptions(root), "")

	first, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"components/B.tsx"}, unusedRelativePaths(first))

	writeFile(t, root, "components/New.tsx", "export default function New() { return null; }\n")

	second, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"components/B.tsx"}, unusedRelativePaths(second))
	assert.Contains(t, second.ResolvedTargets, filepath.Join(root, "components", "New.tsx"))
}

func TestFindUnusedFiles_RelativeAndIndexImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/page.tsx", `import { Card } from "../components/card";
const helpers = require("@/lib/helpers");
`)
	writeFile(t, root, "components/card/index.tsx", `import "./card.css";
import { Icon } from "./Icon";
`)
	writeFile(t, root, "components/card/Icon.tsx", "export const Icon = () => null;\n")
	writeFile(t, root, "lib/helpers.js", "module.exports = {};\n")

	analyzer := newTestAnalyzer(t, scanOptions(root), "")
	result, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Unused)
}

func TestFindUnusedFiles_ReadFailureContinues(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root)
	// Invalid UTF-8 makes the file unreadable as source; its imports are lost.
	writeFile(t, root, "components/Broken.tsx", "import A from \"@/components/C\";\xff\xfe\n")
	writeFile(t, root, "components/C.tsx", "export const C = 1;\n")

	analyzer := newTestAnalyzer(t, scanOptions(root), "")
	result, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)

	require.Len(t, result.ReadFailures, 1)
	assert.Equal(t, filepath.Join(root, "components", "Broken.tsx"), result.ReadFailures[0].Path)
	assert.ErrorIs(t, result.ReadFailures[0].Err, ErrInvalidEncoding)
	assert.Equal(t, []string{"components/B.tsx", "components/Broken.tsx", "components/C.tsx"}, unusedRelativePaths(result))
}

func TestFindUnusedFiles_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := newTestAnalyzer(t, scanOptions(root), "")
	_, err := analyzer.FindUnusedFiles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindUnusedFiles_ASTExtractorSkipsCommentedImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/page.tsx", `// import Old from "@/components/Old";
import A from "@/components/A";
`)
	writeFile(t, root, "components/A.tsx", "export default function A() { return null; }\n")
	writeFile(t, root, "components/Old.tsx", "export default function Old() { return null; }\n")

	regexOptions := scanOptions(root)
	regexResult, err := newTestAnalyzer(t, regexOptions, "").FindUnusedFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, regexResult.Unused)

	astOptions := scanOptions(root)
	astOptions.Extractor = ExtractorAST
	astResult, err := newTestAnalyzer(t, astOptions, "").FindUnusedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"components/Old.tsx"}, unusedRelativePaths(astResult))
}

func TestFindUnusedFiles_UsesCache(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root)
	cacheDir := filepath.Join(t.TempDir(), "cache")

	analyzer := newTestAnalyzer(t, scanOptions(root), cacheDir)

	first, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)
	second, err := analyzer.FindUnusedFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, unusedRelativePaths(first), unusedRelativePaths(second))

	stats, err := analyzer.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Files)
	assert.InDelta(t, 50.0, stats.HitRate, 0.01)

	require.NoError(t, analyzer.ClearCache())
	stats, err = analyzer.GetCacheStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Files)
}

func TestCodeAnalyzer_CacheDisabled(t *testing.T) {
	analyzer := newTestAnalyzer(t, scanOptions(t.TempDir()), "")

	_, err := analyzer.GetCacheStats()
	assert.ErrorIs(t, err, ErrCacheDisabled)
	assert.ErrorIs(t, analyzer.ClearCache(), ErrCacheDisabled)
}

func TestNewCodeAnalyzer_UnknownExtractor(t *testing.T) {
	options := scanOptions(t.TempDir())
	options.Extractor = "babel"

	_, err := NewCodeAnalyzer(NewCodeAnalyzerParams{Options: options})
	assert.ErrorIs(t, err, ErrUnknownExtractor)
}

func TestInspectFile(t *testing.T) {
	root := t.TempDir()
	writeScenario(t, root)
	page := writeFile(t, root, "app/dashboard/page.tsx", `import React from "react";
import A from "@/components/A";
import Missing from "./Missing";
`)

	analyzer := newTestAnalyzer(t, scanOptions(root), "")
	inspection, err := analyzer.InspectFile(page)
	require.NoError(t, err)

	assert.Equal(t, "app/dashboard/page.tsx", inspection.File.RelativePath)
	assert.Len(t, inspection.ImportLines, 3)
	require.Len(t, inspection.Resolutions, 3)

	byName := make(map[string]models.Resolution)
	for _, r := range inspection.Resolutions {
		byName[r.Specifier] = r
	}
	assert.True(t, byName["react"].External)
	assert.Equal(t, filepath.Join(root, "components", "A.tsx"), byName["@/components/A"].Target)
	assert.False(t, byName["./Missing"].External)
	assert.Empty(t, byName["./Missing"].Target)
}
