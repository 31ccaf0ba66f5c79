package matcher_test

import (
	"os"
	"path/filepath"
	"testing"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/codeflat/internal/matcher"
	"github.com/temirov/codeflat/internal/types"
)

type staticExcluder map[string]struct{}

func (excluder staticExcluder) MatchesPath(relativePath string) bool {
	_, excluded := excluder[relativePath]
	return excluded
}

func TestShouldIgnore(t *testing.T) {
	fileMatcher := matcher.New(matcher.WithPatterns("secrets", "*.bak"))
	testCases := []struct {
		name         string
		relativePath string
		expected     bool
	}{
		{name: "plain source", relativePath: "src/app.ts", expected: false},
		{name: "dependency directory", relativePath: "node_modules", expected: true},
		{name: "nested dependency file", relativePath: "web/node_modules/react/index.js", expected: true},
		{name: "wildcard suffix", relativePath: "logs/server.log", expected: true},
		{name: "minified bundle", relativePath: "public/app.min.js", expected: true},
		{name: "exact base name", relativePath: "config/.env", expected: true},
		{name: "lock file", relativePath: "yarn.lock", expected: true},
		{name: "caller literal", relativePath: "deploy/secrets/token.txt", expected: true},
		{name: "caller wildcard", relativePath: "notes.md.bak", expected: true},
		{name: "windows separators", relativePath: "pkg\\vendor\\lib.go", expected: true},
		{name: "similar but allowed", relativePath: "docs/logging.md", expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := fileMatcher.ShouldIgnore(testCase.relativePath); result != testCase.expected {
				t.Fatalf("ShouldIgnore(%q) = %t, expected %t", testCase.relativePath, result, testCase.expected)
			}
		})
	}
}

func TestDefaultDirectoryTokensAlwaysIgnored(t *testing.T) {
	fileMatcher := matcher.New()
	leaves := []string{"README.md", "main.py", "image.png", "huge.sql", "Makefile"}
	for _, pattern := range matcher.DefaultIgnorePatterns {
		if pattern[0] == '*' {
			continue
		}
		for _, leaf := range leaves {
			relativePath := "project/" + pattern + "/" + leaf
			if !fileMatcher.ShouldIgnore(relativePath) {
				t.Fatalf("expected %q to be ignored", relativePath)
			}
		}
	}
}

func TestCallerPatternsAppendToDefaults(t *testing.T) {
	fileMatcher := matcher.New(matcher.WithPatterns("generated", "*.snap"))
	testCases := []struct {
		path     string
		expected bool
	}{
		{path: "internal/generated/models.go", expected: true},
		{path: "ui/__snapshots__/button.snap", expected: true},
		{path: "node_modules/react/index.js", expected: true},
		{path: "debug.log", expected: true},
		{path: "internal/models/models.go", expected: false},
	}
	for _, testCase := range testCases {
		if result := fileMatcher.ShouldIgnore(testCase.path); result != testCase.expected {
			t.Fatalf("ShouldIgnore(%q) = %t, expected %t", testCase.path, result, testCase.expected)
		}
	}
}

func TestExcludersAreConsulted(t *testing.T) {
	fileMatcher := matcher.New(matcher.WithExcluder(staticExcluder{"CODEBASE_CONTEXT.md": {}}))
	if !fileMatcher.ShouldIgnore("CODEBASE_CONTEXT.md") {
		t.Fatalf("expected excluder match to ignore the path")
	}
	if fileMatcher.ShouldIgnore("docs/CODEBASE_CONTEXT.md") {
		t.Fatalf("expected unrelated path to be kept")
	}
}

func TestGitIgnoreExcluder(t *testing.T) {
	root := t.TempDir()
	gitIgnorePath := filepath.Join(root, ".gitignore")
	if err := os.WriteFile(gitIgnorePath, []byte("generated/\n*.tmp\n"), 0o600); err != nil {
		t.Fatalf("write gitignore: %v", err)
	}
	compiled, err := ignore.CompileIgnoreFile(gitIgnorePath)
	if err != nil {
		t.Fatalf("compile gitignore: %v", err)
	}
	fileMatcher := matcher.New(matcher.WithExcluder(compiled))
	if !fileMatcher.ShouldIgnore("generated/models.go") {
		t.Fatalf("expected gitignored directory content to be ignored")
	}
	if !fileMatcher.ShouldIgnore("scratch.tmp") {
		t.Fatalf("expected gitignored extension to be ignored")
	}
	if fileMatcher.ShouldIgnore("src/main.go") {
		t.Fatalf("expected regular file to be kept")
	}
}

func TestIsBinary(t *testing.T) {
	fileMatcher := matcher.New()
	testCases := map[string]bool{
		"logo.png":          true,
		"Photo.JPEG":        true,
		"fonts/inter.woff2": true,
		"lib/native.so":     true,
		"archive.tar.gz":    true,
		"main.go":           false,
		"README.md":         false,
		"Makefile":          false,
		".png":              false,
	}
	for filePath, expected := range testCases {
		if result := fileMatcher.IsBinary(filePath); result != expected {
			t.Fatalf("IsBinary(%q) = %t, expected %t", filePath, result, expected)
		}
	}
}

func TestClassify(t *testing.T) {
	fileMatcher := matcher.New()
	testCases := []struct {
		filePath string
		expected int
	}{
		{filePath: "README.md", expected: types.PriorityHigh},
		{filePath: "src/App.TSX", expected: types.PriorityHigh},
		{filePath: "schema.sql", expected: types.PriorityHigh},
		{filePath: "styles/site.scss", expected: types.PriorityMedium},
		{filePath: "db/schema.prisma", expected: types.PriorityMedium},
		{filePath: "notes.txt", expected: types.PriorityLow},
		{filePath: "pyproject.toml", expected: types.PriorityLow},
		{filePath: "main.go", expected: types.PriorityUnclassified},
		{filePath: "Dockerfile", expected: types.PriorityUnclassified},
		{filePath: ".md", expected: types.PriorityUnclassified},
	}
	for _, testCase := range testCases {
		t.Run(testCase.filePath, func(t *testing.T) {
			if result := fileMatcher.Classify(testCase.filePath); result != testCase.expected {
				t.Fatalf("Classify(%q) = %d, expected %d", testCase.filePath, result, testCase.expected)
			}
		})
	}
}
