package flatten

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/temirov/codeflat/internal/utils"
)

const (
	// DefaultOutputPath is the document written when no output is configured.
	DefaultOutputPath       = utils.DefaultOutputPath
	defaultOutputExtension  = ".md"
	shardFileNameSuffixForm = "_shard%d"
	indexFileNameSuffix     = "_index"
)

// splitOutputPath separates the output path into its stem and extension.
// Outputs without an extension, including dotfiles, get ".md".
func splitOutputPath(outputPath string) (string, string) {
	extension := filepath.Ext(outputPath)
	stem := strings.TrimSuffix(outputPath, extension)
	if extension == "" || stem == "" || strings.HasSuffix(stem, "/") || strings.HasSuffix(stem, string(filepath.Separator)) {
		return outputPath, defaultOutputExtension
	}
	return stem, extension
}

// ShardFileName inserts "_shard<ordinal>" before the output extension.
func ShardFileName(outputPath string, ordinal int) string {
	stem, extension := splitOutputPath(outputPath)
	return stem + fmt.Sprintf(shardFileNameSuffixForm, ordinal) + extension
}

// IndexFileName inserts "_index" before the output extension.
func IndexFileName(outputPath string) string {
	stem, extension := splitOutputPath(outputPath)
	return stem + indexFileNameSuffix + extension
}

// artifactExcluder matches the documents a run may write so that an output
// placed inside the scanned root is never scanned back in.
type artifactExcluder struct {
	pattern *regexp.Regexp
}

// newArtifactExcluder returns nil when the output lies outside root.
func newArtifactExcluder(root string, absoluteOutputPath string) *artifactExcluder {
	if !utils.IsWithinDirectory(absoluteOutputPath, root) {
		return nil
	}
	relativeOutput := utils.RelativePathOrSelf(absoluteOutputPath, root)
	stem, extension := splitOutputPath(relativeOutput)
	expression := fmt.Sprintf(`^(%s|%s(_shard\d+|_index)%s)$`,
		regexp.QuoteMeta(relativeOutput), regexp.QuoteMeta(stem), regexp.QuoteMeta(extension))
	return &artifactExcluder{pattern: regexp.MustCompile(expression)}
}

func (excluder *artifactExcluder) MatchesPath(relativePath string) bool {
	return excluder.pattern.MatchString(relativePath)
}
