// Package output prints run results to the console.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/temirov/codeflat/internal/types"
	"github.com/temirov/codeflat/internal/utils"
)

const (
	noColorEnvironmentVariable = "NO_COLOR"

	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
	colorDim    = "\x1b[2m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"

	summaryRule = "─────────────────────────────────────"

	scanningFormat       = "%s %s\n\n"
	emptyMessage         = "No files found to include."
	foundFormat          = "Found %d files, including %d"
	shardedFormat        = "Large codebase detected - generating %d shards"
	createdLabel         = "Created:"
	shardCreatedFormat   = "  %s %s (%d files, ~%s tokens)%s\n"
	indexCreatedFormat   = "  %s %s (index)\n"
	fullCreatedFormat    = "%s %s (%s)%s\n"
	countedTokensFormat  = " [%s tokens, %s]"
	copiedFormat         = "Copied %s to clipboard\n"
	unreadableFormat     = "Skipped %d unreadable directories"
	summaryLineFormat    = "  %-18s%s\n"
	summaryTitle         = "Summary:"
	filesScannedLabel    = "Files scanned:"
	filesIncludedLabel   = "Files included:"
	totalSizeLabel       = "Total size:"
	estimatedTokensLabel = "Est. tokens:"
	countedTokensLabel   = "Tokens:"
	shardsLabel          = "Shards:"
)

// ColorEnabled reports whether colored output should be written to file.
func ColorEnabled(file *os.File) bool {
	if file == nil {
		return false
	}
	if _, disabled := os.LookupEnv(noColorEnvironmentVariable); disabled {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Reporter prints human-readable progress and results of a flatten run.
type Reporter struct {
	stdout  io.Writer
	colored bool
}

// NewReporter constructs a Reporter writing to stdout.
func NewReporter(stdout io.Writer, colored bool) *Reporter {
	return &Reporter{stdout: stdout, colored: colored}
}

func (reporter *Reporter) paint(color string, text string) string {
	if !reporter.colored {
		return text
	}
	return color + text + colorReset
}

// Scanning announces the root about to be scanned.
func (reporter *Reporter) Scanning(root string) {
	fmt.Fprintf(reporter.stdout, scanningFormat, reporter.paint(colorCyan, "Scanning:"), root)
}

// Result prints the documents written by a run followed by the summary block.
func (reporter *Reporter) Result(result types.RunResult) {
	if result.Empty {
		fmt.Fprintln(reporter.stdout, reporter.paint(colorYellow, emptyMessage))
		return
	}
	statistics := result.Statistics
	fmt.Fprintln(reporter.stdout, reporter.paint(colorDim, fmt.Sprintf(foundFormat, statistics.TotalFiles, statistics.IncludedFiles)))
	if statistics.UnreadableDirectories > 0 {
		fmt.Fprintln(reporter.stdout, reporter.paint(colorYellow, fmt.Sprintf(unreadableFormat, statistics.UnreadableDirectories)))
	}
	fmt.Fprintln(reporter.stdout)

	if result.Sharded {
		fmt.Fprintln(reporter.stdout, reporter.paint(colorYellow, fmt.Sprintf(shardedFormat, statistics.Shards)))
		fmt.Fprintln(reporter.stdout)
	}
	for _, document := range result.Documents {
		reporter.document(document, result.TokenizerModel)
	}
	if result.Copied && len(result.Documents) > 0 {
		fmt.Fprintf(reporter.stdout, copiedFormat, displayName(result.Documents[len(result.Documents)-1].Path))
	}
	reporter.summary(result)
}

func (reporter *Reporter) document(document types.WrittenDocument, model string) {
	label := reporter.paint(colorGreen, createdLabel)
	name := displayName(document.Path)
	counted := ""
	if document.CountedTokens > 0 && model != "" {
		counted = fmt.Sprintf(countedTokensFormat, utils.FormatCount(document.CountedTokens), model)
	}
	switch document.Kind {
	case types.DocumentKindShard:
		fmt.Fprintf(reporter.stdout, shardCreatedFormat, label, name, document.FileCount, utils.FormatCount(document.EstimatedTokens), counted)
	case types.DocumentKindIndex:
		fmt.Fprintf(reporter.stdout, indexCreatedFormat, label, name)
	default:
		fmt.Fprintf(reporter.stdout, fullCreatedFormat, label, name, utils.FormatFileSize(document.SizeBytes), counted)
	}
}

func (reporter *Reporter) summary(result types.RunResult) {
	statistics := result.Statistics
	var builder strings.Builder
	builder.WriteString("\n")
	builder.WriteString(reporter.paint(colorBold, summaryTitle))
	builder.WriteString("\n")
	builder.WriteString(summaryRule + "\n")
	fmt.Fprintf(&builder, summaryLineFormat, filesScannedLabel, utils.FormatCount(statistics.TotalFiles))
	fmt.Fprintf(&builder, summaryLineFormat, filesIncludedLabel, utils.FormatCount(statistics.IncludedFiles))
	fmt.Fprintf(&builder, summaryLineFormat, totalSizeLabel, utils.FormatKilobytes(statistics.TotalSizeBytes))
	fmt.Fprintf(&builder, summaryLineFormat, estimatedTokensLabel, "~"+utils.FormatCount(statistics.EstimatedTokens))
	if counted := countedTotal(result.Documents); counted > 0 && result.TokenizerModel != "" {
		fmt.Fprintf(&builder, summaryLineFormat, countedTokensLabel, utils.FormatCount(counted)+" ("+result.TokenizerModel+")")
	}
	if statistics.Shards > 1 {
		fmt.Fprintf(&builder, summaryLineFormat, shardsLabel, utils.FormatCount(statistics.Shards))
	}
	builder.WriteString(summaryRule + "\n")
	io.WriteString(reporter.stdout, builder.String())
}

func countedTotal(documents []types.WrittenDocument) int {
	total := 0
	for _, document := range documents {
		if document.Kind == types.DocumentKindIndex {
			continue
		}
		total += document.CountedTokens
	}
	return total
}

// displayName shortens paths under the working directory.
func displayName(documentPath string) string {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return documentPath
	}
	if !utils.IsWithinDirectory(documentPath, workingDirectory) {
		return documentPath
	}
	return filepath.FromSlash(utils.RelativePathOrSelf(documentPath, workingDirectory))
}
