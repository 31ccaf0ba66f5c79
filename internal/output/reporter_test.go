package output_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/temirov/codeflat/internal/output"
	"github.com/temirov/codeflat/internal/types"
)

func TestReporterResult(t *testing.T) {
	testCases := []struct {
		name       string
		result     types.RunResult
		expected   []string
		unexpected []string
	}{
		{
			name:       "empty_run",
			result:     types.RunResult{Empty: true},
			expected:   []string{"No files found to include."},
			unexpected: []string{"Summary:"},
		},
		{
			name: "single_document",
			result: types.RunResult{
				Statistics: types.ScanStatistics{TotalFiles: 3, IncludedFiles: 2, TotalSizeBytes: 1536, EstimatedTokens: 48500, Shards: 1},
				Documents: []types.WrittenDocument{
					{Path: "/tmp/out/CODEBASE_CONTEXT.md", Kind: types.DocumentKindFull, FileCount: 2, SizeBytes: 2048, EstimatedTokens: 48500},
				},
			},
			expected: []string{
				"Found 3 files, including 2",
				"Created: /tmp/out/CODEBASE_CONTEXT.md (2kb)",
				"Files scanned:    3",
				"Total size:       1.50 KB",
				"Est. tokens:      ~48,500",
			},
			unexpected: []string{"Shards:", "\x1b["},
		},
		{
			name: "sharded_run",
			result: types.RunResult{
				Sharded:        true,
				TokenizerModel: "gpt-4o",
				Statistics:     types.ScanStatistics{TotalFiles: 10, IncludedFiles: 10, TotalSizeBytes: 240000, EstimatedTokens: 61000, Shards: 2},
				Documents: []types.WrittenDocument{
					{Path: "/tmp/out/context_shard1.md", Kind: types.DocumentKindShard, Ordinal: 1, FileCount: 8, EstimatedTokens: 48600, CountedTokens: 47000},
					{Path: "/tmp/out/context_shard2.md", Kind: types.DocumentKindShard, Ordinal: 2, FileCount: 2, EstimatedTokens: 12400, CountedTokens: 12000},
					{Path: "/tmp/out/context_index.md", Kind: types.DocumentKindIndex, FileCount: 10, CountedTokens: 300},
				},
			},
			expected: []string{
				"generating 2 shards",
				"Created: /tmp/out/context_shard1.md (8 files, ~48,600 tokens) [47,000 tokens, gpt-4o]",
				"Created: /tmp/out/context_index.md (index)",
				"Tokens:           59,000 (gpt-4o)",
				"Shards:           2",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var buffer bytes.Buffer
			reporter := output.NewReporter(&buffer, false)
			reporter.Result(testCase.result)
			printed := buffer.String()
			for _, fragment := range testCase.expected {
				if !strings.Contains(printed, fragment) {
					t.Fatalf("expected %q in output:\n%s", fragment, printed)
				}
			}
			for _, fragment := range testCase.unexpected {
				if strings.Contains(printed, fragment) {
					t.Fatalf("did not expect %q in output:\n%s", fragment, printed)
				}
			}
		})
	}
}

func TestReporterScanningColors(t *testing.T) {
	var plain bytes.Buffer
	output.NewReporter(&plain, false).Scanning("/repo")
	if plain.String() != "Scanning: /repo\n\n" {
		t.Fatalf("unexpected plain output %q", plain.String())
	}
	var colored bytes.Buffer
	output.NewReporter(&colored, true).Scanning("/repo")
	if !strings.Contains(colored.String(), "\x1b[36mScanning:\x1b[0m") {
		t.Fatalf("expected colored label, got %q", colored.String())
	}
}

func TestColorEnabledHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if output.ColorEnabled(os.Stdout) {
		t.Fatalf("expected colors disabled when NO_COLOR is set")
	}
	if output.ColorEnabled(nil) {
		t.Fatalf("expected colors disabled for nil file")
	}
}
