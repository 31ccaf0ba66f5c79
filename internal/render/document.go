// Package render turns ordered catalogs into Markdown documents.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/temirov/codeflat/internal/shard"
	"github.com/temirov/codeflat/internal/tokenizer"
	"github.com/temirov/codeflat/internal/types"
	"github.com/temirov/codeflat/internal/utils"
)

const (
	codeFence           = "```"
	genericLanguageTag  = "text"
	readErrorMarkerForm = "[Error reading file: %s]"
	invalidUTF8Marker   = "\uFFFD"
)

// FileReader loads file content at render time.
type FileReader func(absolutePath string) ([]byte, error)

// Renderer produces full, shard and index documents for one scan root.
// File content is read when a section is rendered and is never cached.
type Renderer struct {
	rootName     string
	rootLocation string
	generatedAt  time.Time
	readFile     FileReader
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithFileReader replaces os.ReadFile as the content source.
func WithFileReader(reader FileReader) Option {
	return func(renderer *Renderer) {
		if reader != nil {
			renderer.readFile = reader
		}
	}
}

// New constructs a Renderer for the absolute rootLocation stamped with generatedAt.
func New(rootLocation string, generatedAt time.Time, options ...Option) *Renderer {
	renderer := &Renderer{
		rootName:     filepath.Base(rootLocation),
		rootLocation: rootLocation,
		generatedAt:  generatedAt,
		readFile:     os.ReadFile,
	}
	for _, option := range options {
		option(renderer)
	}
	return renderer
}

// WriteFull streams the whole catalog as a single document to writer.
func (renderer *Renderer) WriteFull(writer io.Writer, catalog []types.FileRecord, statistics types.ScanStatistics) error {
	document := newDocumentWriter(writer)
	renderer.writeHeader(document, "# Codebase Context: "+renderer.rootName)

	document.write("## Statistics\n\n")
	document.printf("- Total files scanned: %d\n", statistics.TotalFiles)
	document.printf("- Files included: %d\n", statistics.IncludedFiles)
	document.printf("- Total size: %s\n", utils.FormatKilobytes(statistics.TotalSizeBytes))
	document.printf("- Estimated tokens: ~%s\n\n", utils.FormatCount(tokenizer.EstimateTokens(statistics.TotalSizeBytes)))

	document.write("## File Tree\n\n")
	renderer.writeFencedTree(document, catalog)

	document.write("## File Contents\n\n")
	renderer.writeFileSections(document, catalog)
	return document.err
}

// WriteShard streams one shard document; ordinal is 1-based and total is the shard count.
func (renderer *Renderer) WriteShard(writer io.Writer, documentShard types.Shard, ordinal int, total int) error {
	document := newDocumentWriter(writer)
	renderer.writeHeader(document, fmt.Sprintf("# Codebase Context: %s (Shard %d/%d)", renderer.rootName, ordinal, total))

	document.write("## Shard Information\n\n")
	document.printf("- Shard: %d of %d\n", ordinal, total)
	document.printf("- Files in this shard: %d\n", len(documentShard.Files))
	document.printf("- Estimated tokens: ~%s\n\n", utils.FormatCount(documentShard.EstimatedTokens))

	document.write("## Files in This Shard\n\n")
	for _, fileRecord := range documentShard.Files {
		document.write("- " + fileRecord.RelativePath + "\n")
	}
	document.write("\n## File Contents\n\n")
	renderer.writeFileSections(document, documentShard.Files)
	return document.err
}

// WriteIndex streams the cross-reference document for a sharded run. The tree
// always covers the complete catalog.
func (renderer *Renderer) WriteIndex(writer io.Writer, index shard.Index, catalog []types.FileRecord, statistics types.ScanStatistics) error {
	document := newDocumentWriter(writer)
	renderer.writeHeader(document, "# Codebase Context Index: "+renderer.rootName)

	document.write("## Overview\n\n")
	document.printf("This codebase has been sharded into %d parts for optimal context management.\n\n", len(index.Entries))

	document.write("### Statistics\n\n")
	document.printf("- Total files: %d\n", statistics.IncludedFiles)
	document.printf("- Total size: %s\n", utils.FormatKilobytes(statistics.TotalSizeBytes))
	document.printf("- Total estimated tokens: ~%s\n", utils.FormatCount(tokenizer.EstimateTokens(statistics.TotalSizeBytes)))
	document.printf("- Shards: %d\n\n", len(index.Entries))

	document.write("### Shards\n\n")
	for _, entry := range index.Entries {
		document.printf("- **Shard %d**: %s (%d files, ~%s tokens)\n",
			entry.Ordinal, entry.DocumentName, entry.FileCount, utils.FormatCount(entry.EstimatedTokens))
	}

	document.write("\n## Complete File Tree\n\n")
	renderer.writeFencedTree(document, catalog)

	document.write("## File Distribution\n\n### Shard Contents\n\n")
	for _, entry := range index.Entries {
		document.printf("#### Shard %d\n\n", entry.Ordinal)
		for _, relativePath := range entry.Paths {
			document.write("- " + relativePath + "\n")
		}
		document.write("\n")
	}

	document.write("## Usage Instructions\n\n")
	document.write("1. Start with this index file to understand the structure\n")
	document.write("2. Load shards as needed based on the area you're working on\n")
	document.write("3. High-priority files (config, entry points) are in earlier shards\n")
	document.printf("4. Each shard stays within ~%s tokens unless it holds a single larger file\n\n", utils.FormatCount(index.Budget))
	return document.err
}

// RenderFull returns the document produced by WriteFull.
func (renderer *Renderer) RenderFull(catalog []types.FileRecord, statistics types.ScanStatistics) string {
	var builder strings.Builder
	_ = renderer.WriteFull(&builder, catalog, statistics)
	return builder.String()
}

// RenderShard returns the document produced by WriteShard.
func (renderer *Renderer) RenderShard(documentShard types.Shard, ordinal int, total int) string {
	var builder strings.Builder
	_ = renderer.WriteShard(&builder, documentShard, ordinal, total)
	return builder.String()
}

// RenderIndex returns the document produced by WriteIndex.
func (renderer *Renderer) RenderIndex(index shard.Index, catalog []types.FileRecord, statistics types.ScanStatistics) string {
	var builder strings.Builder
	_ = renderer.WriteIndex(&builder, index, catalog, statistics)
	return builder.String()
}

func (renderer *Renderer) writeHeader(document *documentWriter, title string) {
	document.write(title + "\n\n")
	document.write("Generated: " + utils.FormatTimestamp(renderer.generatedAt) + "\n")
	document.write("Root: " + renderer.rootLocation + "\n\n")
}

func (renderer *Renderer) writeFencedTree(document *documentWriter, catalog []types.FileRecord) {
	document.write(codeFence + "\n")
	WriteTree(document, BuildTree(renderer.rootName, catalog))
	document.write(codeFence + "\n\n")
}

func (renderer *Renderer) writeFileSections(document *documentWriter, catalog []types.FileRecord) {
	for _, fileRecord := range catalog {
		if document.err != nil {
			return
		}
		renderer.writeFileSection(document, fileRecord)
	}
}

// writeFileSection reads the file just before writing it so that only one
// file's content is held at a time.
func (renderer *Renderer) writeFileSection(document *documentWriter, fileRecord types.FileRecord) {
	document.write("### " + fileRecord.RelativePath + "\n\n")
	content, readError := renderer.readFile(fileRecord.AbsolutePath)
	if readError != nil {
		document.write(codeFence + "\n")
		document.printf(readErrorMarkerForm+"\n", readError.Error())
		document.write(codeFence + "\n\n")
		return
	}
	document.write(codeFence + LanguageTag(fileRecord.RelativePath) + "\n")
	document.write(strings.ToValidUTF8(string(content), invalidUTF8Marker))
	document.write("\n" + codeFence + "\n\n")
}

// documentWriter latches the first write error and turns later writes into no-ops.
type documentWriter struct {
	writer io.Writer
	err    error
}

func newDocumentWriter(writer io.Writer) *documentWriter {
	return &documentWriter{writer: writer}
}

func (document *documentWriter) WriteString(text string) (int, error) {
	if document.err != nil {
		return 0, document.err
	}
	written, err := io.WriteString(document.writer, text)
	document.err = err
	return written, err
}

func (document *documentWriter) write(text string) {
	_, _ = document.WriteString(text)
}

func (document *documentWriter) printf(format string, arguments ...any) {
	document.write(fmt.Sprintf(format, arguments...))
}

// LanguageTag derives the fence language from the file extension, or "text" when there is none.
func LanguageTag(relativePath string) string {
	if extension := utils.FileExtension(relativePath); extension != "" {
		return extension
	}
	return genericLanguageTag
}
