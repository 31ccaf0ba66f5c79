// Package types defines every cross‑package data structure used by the codeflat CLI.
package types

// Priority classes assigned by the matcher. Lower values sort first.
const (
	PriorityHigh         = 1
	PriorityMedium       = 2
	PriorityLow          = 3
	PriorityUnclassified = 4
)

// DocumentKind identifies which layout a rendered document uses.
type DocumentKind string

const (
	DocumentKindFull  DocumentKind = "full"
	DocumentKindShard DocumentKind = "shard"
	DocumentKindIndex DocumentKind = "index"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// FileRecord is one admissible file in the catalog. Content is never stored;
// it is read from AbsolutePath when the file is rendered.
type FileRecord struct {
	RelativePath    string
	AbsolutePath    string
	SizeBytes       int64
	Priority        int
	EstimatedTokens int
}

// ScanStatistics aggregates counters gathered while scanning and rendering.
type ScanStatistics struct {
	// TotalFiles counts regular files that survived the ignore filter,
	// including those later excluded as binary or oversized.
	TotalFiles            int
	IncludedFiles         int
	TotalSizeBytes        int64
	EstimatedTokens       int
	Shards                int
	UnreadableDirectories int
}

// Shard is a contiguous slice of the ordered catalog rendered as one document.
type Shard struct {
	Files           []FileRecord
	EstimatedTokens int
}

// WrittenDocument describes one document persisted by a run.
type WrittenDocument struct {
	Path            string
	Kind            DocumentKind
	Ordinal         int
	FileCount       int
	SizeBytes       int64
	EstimatedTokens int
	CountedTokens   int
}

// RunResult is the plain structured outcome of one flatten run.
type RunResult struct {
	Root           string
	Statistics     ScanStatistics
	Documents      []WrittenDocument
	Empty          bool
	Sharded        bool
	TokenizerModel string
	Copied         bool
}
