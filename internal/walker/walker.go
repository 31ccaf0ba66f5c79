// Package walker traverses a directory tree and builds the file catalog.
package walker

import (
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codeflat/internal/tokenizer"
	"github.com/temirov/codeflat/internal/types"
)

// DefaultMaxFileSize is the byte ceiling above which files are left out of the catalog.
const DefaultMaxFileSize int64 = 50000

const unreadableDirectoryMessage = "cannot read directory"

// Matcher is the subset of path rules the walker consults.
type Matcher interface {
	ShouldIgnore(relativePath string) bool
	IsBinary(filePath string) bool
	Classify(filePath string) int
}

// Walker produces a catalog of admissible files below a root directory.
type Walker struct {
	matcher     Matcher
	maxFileSize int64
	logger      *zap.Logger
}

// New constructs a Walker. A non-positive maxFileSize selects DefaultMaxFileSize
// and a nil logger discards warnings.
func New(matcher Matcher, maxFileSize int64, logger *zap.Logger) *Walker {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{matcher: matcher, maxFileSize: maxFileSize, logger: logger}
}

// Scan visits rootDirectory depth-first and returns the admissible files with
// aggregate statistics. Unreadable directories are logged and skipped; files
// that cannot be stat-ed are skipped silently. An empty catalog is not an error.
func (walker *Walker) Scan(rootDirectory string) ([]types.FileRecord, types.ScanStatistics) {
	var catalog []types.FileRecord
	var statistics types.ScanStatistics
	walker.scanDirectory(rootDirectory, "", &catalog, &statistics)
	return catalog, statistics
}

func (walker *Walker) scanDirectory(absoluteDirectory string, relativeDirectory string, catalog *[]types.FileRecord, statistics *types.ScanStatistics) {
	entries, readError := os.ReadDir(absoluteDirectory)
	if readError != nil {
		statistics.UnreadableDirectories++
		walker.logger.Warn(unreadableDirectoryMessage,
			zap.String("path", absoluteDirectory),
			zap.Error(readError),
		)
		return
	}

	for _, entry := range entries {
		absolutePath := filepath.Join(absoluteDirectory, entry.Name())
		relativePath := path.Join(relativeDirectory, entry.Name())

		if walker.matcher.ShouldIgnore(relativePath) {
			continue
		}

		if entry.IsDir() {
			walker.scanDirectory(absolutePath, relativePath, catalog, statistics)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		statistics.TotalFiles++

		if walker.matcher.IsBinary(relativePath) {
			continue
		}

		fileInfo, statError := os.Stat(absolutePath)
		if statError != nil {
			walker.logger.Debug("skipping unreadable file", zap.String("path", absolutePath), zap.Error(statError))
			continue
		}
		if fileInfo.Size() > walker.maxFileSize {
			continue
		}

		*catalog = append(*catalog, types.FileRecord{
			RelativePath:    relativePath,
			AbsolutePath:    absolutePath,
			SizeBytes:       fileInfo.Size(),
			Priority:        walker.matcher.Classify(relativePath),
			EstimatedTokens: tokenizer.EstimateTokens(fileInfo.Size()),
		})
		statistics.IncludedFiles++
		statistics.TotalSizeBytes += fileInfo.Size()
	}
}
