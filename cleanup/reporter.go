package cleanup

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/neon/webtidy/code_analyzer/models"
)

const ruleWidth = 60

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)
)

// Reporter renders scan and deletion results as plain text. The output depends only on
// the result, so two reports of the same tree are byte-identical.
type Reporter struct {
	w       io.Writer
	command string
}

// NewReporter writes to w. command is echoed as the hint for switching to delete mode.
func NewReporter(w io.Writer, command string) *Reporter {
	return &Reporter{w: w, command: command}
}

type fileGroup struct {
	dir   string
	files []models.SourceFile
}

// groupByDir buckets files by their project-relative directory, groups sorted by
// directory and files sorted by base name.
func groupByDir(files []models.SourceFile) []fileGroup {
	byDir := make(map[string][]models.SourceFile)
	for _, file := range files {
		dir := path.Dir(file.RelativePath)
		byDir[dir] = append(byDir[dir], file)
	}

	groups := make([]fileGroup, 0, len(byDir))
	for dir, members := range byDir {
		sort.Slice(members, func(i, j int) bool {
			return path.Base(members[i].RelativePath) < path.Base(members[j].RelativePath)
		})
		groups = append(groups, fileGroup{dir: dir, files: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].dir < groups[j].dir
	})
	return groups
}

// TotalSize sums the sizes recorded at collection time.
func TotalSize(files []models.SourceFile) int64 {
	var total int64
	for _, file := range files {
		total += file.Size
	}
	return total
}

// WriteReport prints the header, the grouped unused files and the size total.
// In report mode it ends with the command that deletes them.
func (r *Reporter) WriteReport(result *models.ScanResult, mode Mode) {
	fmt.Fprintln(r.w, heavyRule)
	fmt.Fprintln(r.w, "UNUSED FILES REPORT")
	fmt.Fprintln(r.w, heavyRule)
	fmt.Fprintf(r.w, "\nTotal source files: %d\n", len(result.Files))
	fmt.Fprintf(r.w, "Potentially unused files: %d\n", len(result.Unused))

	if len(result.Unused) == 0 {
		fmt.Fprintln(r.w, "\nNo unused files found!")
		return
	}

	fmt.Fprintf(r.w, "\n%s\n\nFILES TO BE DELETED:\n\n", lightRule)

	for _, group := range groupByDir(result.Unused) {
		fmt.Fprintf(r.w, "%s/\n", group.dir)
		for _, file := range group.files {
			fmt.Fprintf(r.w, "   ├── %s (%s bytes)\n", path.Base(file.RelativePath), humanize.Comma(file.Size))
		}
		fmt.Fprintln(r.w)
	}

	total := TotalSize(result.Unused)
	fmt.Fprintf(r.w, "Total: %d files, %s bytes (%.1f KB)\n", len(result.Unused), humanize.Comma(total), float64(total)/1024)
	fmt.Fprintln(r.w, lightRule)

	if mode != ModeDelete && r.command != "" {
		fmt.Fprintf(r.w, "\nTo delete these files, run:\n   %s\n", r.command)
	}
}

// WriteReadFailures lists the files whose imports could not be extracted.
func (r *Reporter) WriteReadFailures(failures []models.FileFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(r.w, "\nCould not read %d files (their imports were ignored):\n", len(failures))
	for _, failure := range failures {
		fmt.Fprintf(r.w, "   • %s: %v\n", failure.Path, failure.Err)
	}
}

// WriteUsageBreakdown prints how many files each classification reason covers.
func (r *Reporter) WriteUsageBreakdown(result *models.ScanResult) {
	counts := make(map[models.Usage]int)
	for _, usage := range result.Reasons {
		counts[usage]++
	}

	fmt.Fprintln(r.w, "\nClassification:")
	for _, usage := range []models.Usage{models.UsageEntryPoint, models.UsageProtected, models.UsageImported, models.UsageNone} {
		fmt.Fprintf(r.w, "   %-12s %d\n", usage.String(), counts[usage])
	}
}

// WriteDeletionSummary prints the outcome of a delete run.
func (r *Reporter) WriteDeletionSummary(result *DeletionResult) {
	fmt.Fprintf(r.w, "\nDeleted %d files (%s bytes freed, %s)\n",
		len(result.Deleted), humanize.Comma(result.BytesFreed), humanize.IBytes(uint64(result.BytesFreed)))

	if len(result.Failed) > 0 {
		fmt.Fprintf(r.w, "\nFailed to delete %d files:\n", len(result.Failed))
		for _, failure := range result.Failed {
			fmt.Fprintf(r.w, "   • %s: %v\n", failure.Path, failure.Err)
		}
	}

	if len(result.RemovedDirs) > 0 {
		fmt.Fprintf(r.w, "\nRemoved %d empty directories\n", len(result.RemovedDirs))
	}

	fmt.Fprintln(r.w, "\nCleanup complete!")
}

// WriteFooter closes the report.
func (r *Reporter) WriteFooter() {
	fmt.Fprintf(r.w, "\n%s\n", heavyRule)
}
