package cleanup

import (
	"bytes"
	"errors"
	"testing"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/stretchr/testify/assert"
)

func sourceFile(rel string, size int64) models.SourceFile {
	return models.SourceFile{Path: "/p/" + rel, RelativePath: rel, Extension: ".tsx", Size: size}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		arg  string
		want Mode
	}{
		{"", ModeReport},
		{"report", ModeReport},
		{"delete", ModeDelete},
		{"DELETE", ModeReport},
		{"dry-run", ModeReport},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMode(tt.arg))
		})
	}
}

func TestWriteReport_GroupedAndSorted(t *testing.T) {
	result := &models.ScanResult{
		Files: make([]models.SourceFile, 7),
		Unused: []models.SourceFile{
			sourceFile("lib/old.ts", 10),
			sourceFile("components/ui/x.tsx", 1234),
			sourceFile("components/B.tsx", 45),
			sourceFile("components/A2.tsx", 0),
		},
	}

	var buf bytes.Buffer
	NewReporter(&buf, "webtidy unused delete").WriteReport(result, ModeReport)

	want := `============================================================
UNUSED FILES REPORT
============================================================

Total source files: 7
Potentially unused files: 4

------------------------------------------------------------

FILES TO BE DELETED:

components/
   ├── A2.tsx (0 bytes)
   ├── B.tsx (45 bytes)

components/ui/
   ├── x.tsx (1,234 bytes)

lib/
   ├── old.ts (10 bytes)

Total: 4 files, 1,289 bytes (1.3 KB)
------------------------------------------------------------

To delete these files, run:
   webtidy unused delete
`
	assert.Equal(t, want, buf.String())
}

func TestWriteReport_Deterministic(t *testing.T) {
	result := &models.ScanResult{
		Unused: []models.SourceFile{
			sourceFile("b/z.ts", 1),
			sourceFile("a/y.ts", 2),
			sourceFile("b/a.ts", 3),
		},
	}
	reversed := &models.ScanResult{
		Unused: []models.SourceFile{result.Unused[2], result.Unused[1], result.Unused[0]},
	}

	var first, second bytes.Buffer
	NewReporter(&first, "").WriteReport(result, ModeReport)
	NewReporter(&second, "").WriteReport(reversed, ModeReport)

	assert.Equal(t, first.String(), second.String())
	assert.NotContains(t, first.String(), "To delete these files")
}

func TestWriteReport_NothingUnused(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, "webtidy unused delete").WriteReport(&models.ScanResult{Files: make([]models.SourceFile, 3)}, ModeReport)

	assert.Contains(t, buf.String(), "Potentially unused files: 0")
	assert.Contains(t, buf.String(), "No unused files found!")
	assert.NotContains(t, buf.String(), "Total:")
}

func TestWriteReport_DeleteModeOmitsHint(t *testing.T) {
	result := &models.ScanResult{Unused: []models.SourceFile{sourceFile("a/b.ts", 1)}}

	var buf bytes.Buffer
	NewReporter(&buf, "webtidy unused delete").WriteReport(result, ModeDelete)

	assert.NotContains(t, buf.String(), "To delete these files")
}

func TestWriteDeletionSummary(t *testing.T) {
	result := &DeletionResult{
		Deleted:     []models.SourceFile{sourceFile("a.ts", 2048)},
		Failed:      []models.FileFailure{{Path: "/p/b.ts", Err: errors.New("permission denied")}},
		BytesFreed:  2048,
		RemovedDirs: []string{"/p/components/old"},
	}

	var buf bytes.Buffer
	NewReporter(&buf, "").WriteDeletionSummary(result)

	out := buf.String()
	assert.Contains(t, out, "Deleted 1 files (2,048 bytes freed, 2.0 KiB)")
	assert.Contains(t, out, "Failed to delete 1 files:")
	assert.Contains(t, out, "   • /p/b.ts: permission denied")
	assert.Contains(t, out, "Removed 1 empty directories")
	assert.Contains(t, out, "Cleanup complete!")
}

func TestWriteUsageBreakdown(t *testing.T) {
	result := &models.ScanResult{
		Reasons: map[string]models.Usage{
			"/p/app/page.tsx":     models.UsageEntryPoint,
			"/p/lib/utils.ts":     models.UsageProtected,
			"/p/components/A.tsx": models.UsageImported,
			"/p/components/C.tsx": models.UsageImported,
			"/p/components/B.tsx": models.UsageNone,
		},
	}

	var buf bytes.Buffer
	NewReporter(&buf, "").WriteUsageBreakdown(result)

	assert.Contains(t, buf.String(), "entry point  1")
	assert.Contains(t, buf.String(), "protected    1")
	assert.Contains(t, buf.String(), "imported     2")
	assert.Contains(t, buf.String(), "unused       1")
}

func TestWriteReadFailures(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, "")

	reporter.WriteReadFailures(nil)
	assert.Empty(t, buf.String())

	reporter.WriteReadFailures([]models.FileFailure{{Path: "/p/x.ts", Err: errors.New("boom")}})
	assert.Contains(t, buf.String(), "Could not read 1 files")
	assert.Contains(t, buf.String(), "/p/x.ts: boom")
}
