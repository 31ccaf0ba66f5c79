// Package matcher decides which paths are ignored, which are binary, and how
// admissible files are prioritised.
package matcher

import (
	"path"
	"strings"

	"github.com/temirov/codeflat/internal/types"
	"github.com/temirov/codeflat/internal/utils"
)

const wildcardPrefix = "*"

// DefaultIgnorePatterns covers build output, VCS metadata, dependencies, lock files and secrets.
var DefaultIgnorePatterns = []string{
	"node_modules",
	"vendor",
	".git",
	".claude",
	"__pycache__",
	".pytest_cache",
	".next",
	".nuxt",
	"dist",
	"build",
	"coverage",
	".idea",
	".vscode",
	"*.log",
	"*.lock",
	"package-lock.json",
	"yarn.lock",
	"composer.lock",
	"pubspec.lock",
	"*.min.js",
	"*.min.css",
	"*.map",
	"*.pyc",
	"*.pyo",
	".DS_Store",
	"Thumbs.db",
	"*.sqlite",
	"*.db",
	".env",
	".env.*",
	"*.key",
	"*.pem",
	"*.cert",
}

var binaryExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "ico": {}, "svg": {}, "webp": {},
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	"zip": {}, "tar": {}, "gz": {}, "rar": {}, "7z": {},
	"mp3": {}, "mp4": {}, "wav": {}, "avi": {}, "mov": {},
	"exe": {}, "dll": {}, "so": {}, "dylib": {},
	"ttf": {}, "otf": {}, "woff": {}, "woff2": {}, "eot": {},
}

// priorityBands is consulted in order; the first band containing the extension wins.
var priorityBands = []struct {
	priority   int
	extensions map[string]struct{}
}{
	{
		priority:   types.PriorityHigh,
		extensions: extensionSet("md", "yaml", "yml", "json", "ts", "tsx", "js", "jsx", "py", "php", "dart", "sql"),
	},
	{
		priority:   types.PriorityMedium,
		extensions: extensionSet("html", "css", "scss", "less", "vue", "svelte", "graphql", "prisma"),
	},
	{
		priority:   types.PriorityLow,
		extensions: extensionSet("txt", "xml", "ini", "cfg", "conf", "toml"),
	},
}

// PathExcluder reports whether a forward-slash relative path should be excluded.
// *ignore.GitIgnore from github.com/sabhiram/go-gitignore satisfies it.
type PathExcluder interface {
	MatchesPath(relativePath string) bool
}

// Matcher applies ignore patterns, binary detection and priority classification.
// It holds only static configuration and is safe to share.
type Matcher struct {
	patterns  []string
	excluders []PathExcluder
}

// Option customises a Matcher.
type Option func(*Matcher)

// WithPatterns appends caller supplied ignore patterns after the defaults.
func WithPatterns(patterns ...string) Option {
	return func(matcher *Matcher) {
		matcher.patterns = append(matcher.patterns, patterns...)
	}
}

// WithExcluder adds a path excluder consulted after the patterns.
func WithExcluder(excluder PathExcluder) Option {
	return func(matcher *Matcher) {
		if excluder != nil {
			matcher.excluders = append(matcher.excluders, excluder)
		}
	}
}

// New constructs a Matcher seeded with DefaultIgnorePatterns.
func New(options ...Option) *Matcher {
	matcher := &Matcher{patterns: append([]string{}, DefaultIgnorePatterns...)}
	for _, option := range options {
		option(matcher)
	}
	matcher.patterns = utils.DeduplicatePatterns(matcher.patterns)
	return matcher
}

// ShouldIgnore reports whether the relative path is excluded. Wildcard patterns
// match base name suffixes; literal patterns match anywhere in the path or the
// exact base name.
func (matcher *Matcher) ShouldIgnore(relativePath string) bool {
	normalizedPath := utils.NormalizeSeparators(relativePath)
	baseName := path.Base(normalizedPath)
	for _, pattern := range matcher.patterns {
		if strings.HasPrefix(pattern, wildcardPrefix) {
			if strings.HasSuffix(baseName, strings.TrimPrefix(pattern, wildcardPrefix)) {
				return true
			}
			continue
		}
		if strings.Contains(normalizedPath, pattern) || baseName == pattern {
			return true
		}
	}
	for _, excluder := range matcher.excluders {
		if excluder.MatchesPath(normalizedPath) {
			return true
		}
	}
	return false
}

// IsBinary reports whether the path carries a known binary, media, archive,
// executable or font extension.
func (matcher *Matcher) IsBinary(filePath string) bool {
	_, binary := binaryExtensions[normalizedExtension(filePath)]
	return binary
}

// Classify returns the priority class of the path's extension.
func (matcher *Matcher) Classify(filePath string) int {
	extension := normalizedExtension(filePath)
	for _, band := range priorityBands {
		if _, found := band.extensions[extension]; found {
			return band.priority
		}
	}
	return types.PriorityUnclassified
}

func normalizedExtension(filePath string) string {
	return strings.ToLower(utils.FileExtension(filePath))
}

func extensionSet(extensions ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		set[extension] = struct{}{}
	}
	return set
}
