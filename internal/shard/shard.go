// Package shard partitions an ordered catalog into token-bounded groups.
package shard

import (
	"github.com/temirov/codeflat/internal/types"
)

const (
	// DefaultBudget is the per-document token budget used when none is configured.
	DefaultBudget = 50000
	// OverheadTokens is reserved per document for headers and boilerplate.
	OverheadTokens = 500
)

// Partition packs the ordered catalog greedily into shards without reordering
// or splitting files. A file that does not fit closes the current non-empty
// shard and starts the next one; a single file larger than the budget forms
// its own shard. A non-positive budget disables the bound and yields one shard.
func Partition(catalog []types.FileRecord, budget int) []types.Shard {
	var shards []types.Shard
	var current types.Shard
	for _, fileRecord := range catalog {
		if budget > 0 && len(current.Files) > 0 && current.EstimatedTokens+fileRecord.EstimatedTokens+OverheadTokens > budget {
			shards = append(shards, current)
			current = types.Shard{}
		}
		current.Files = append(current.Files, fileRecord)
		current.EstimatedTokens += fileRecord.EstimatedTokens
	}
	if len(current.Files) > 0 {
		shards = append(shards, current)
	}
	return shards
}

// IndexEntry summarises one shard for the index document.
type IndexEntry struct {
	Ordinal         int
	FileCount       int
	EstimatedTokens int
	DocumentName    string
	Paths           []string
}

// Index lists every shard in order together with the budget they were packed against.
type Index struct {
	Entries []IndexEntry
	Budget  int
}

// BuildIndex summarises shards; documentName maps a 1-based ordinal to the shard's document name.
func BuildIndex(shards []types.Shard, budget int, documentName func(ordinal int) string) Index {
	index := Index{Budget: budget, Entries: make([]IndexEntry, 0, len(shards))}
	for shardIndex, documentShard := range shards {
		ordinal := shardIndex + 1
		paths := make([]string, 0, len(documentShard.Files))
		for _, fileRecord := range documentShard.Files {
			paths = append(paths, fileRecord.RelativePath)
		}
		entry := IndexEntry{
			Ordinal:         ordinal,
			FileCount:       len(documentShard.Files),
			EstimatedTokens: documentShard.EstimatedTokens,
			Paths:           paths,
		}
		if documentName != nil {
			entry.DocumentName = documentName(ordinal)
		}
		index.Entries = append(index.Entries, entry)
	}
	return index
}
