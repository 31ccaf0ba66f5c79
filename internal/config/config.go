// Package config loads codeflat configuration and project ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/codeflat/internal/utils"
)

const (
	// IgnoreFileName is the project ignore file read from the scan root.
	IgnoreFileName = utils.IgnoreFileName
	// ignoreSectionHeader identifies the section listing ignore patterns.
	ignoreSectionHeader = "[ignore]"
	commentPrefix       = "#"
	sectionPrefix       = "["
	sectionSuffix       = "]"
)

// LoadIgnoreFilePatterns reads an ignore file and returns the patterns listed
// before any section header or under "[ignore]". Lines in other sections are
// skipped. A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", ignoreFilePath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	inIgnoreSection := true
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.HasPrefix(trimmedLine, sectionPrefix) && strings.HasSuffix(trimmedLine, sectionSuffix) {
			inIgnoreSection = strings.EqualFold(trimmedLine, ignoreSectionHeader)
			continue
		}
		if inIgnoreSection {
			ignorePatterns = append(ignorePatterns, trimmedLine)
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("read %s: %w", ignoreFilePath, scanError)
	}
	return utils.DeduplicatePatterns(ignorePatterns), nil
}

// LoadGitIgnore compiles the .gitignore at the root of rootDirectoryPath.
// It returns nil without error when the file does not exist.
func LoadGitIgnore(rootDirectoryPath string) (*ignore.GitIgnore, error) {
	gitIgnorePath := filepath.Join(rootDirectoryPath, utils.GitIgnoreFileName)
	if _, statError := os.Stat(gitIgnorePath); statError != nil {
		if os.IsNotExist(statError) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", gitIgnorePath, statError)
	}
	compiled, compileError := ignore.CompileIgnoreFile(gitIgnorePath)
	if compileError != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, rootDirectoryPath, compileError)
	}
	return compiled, nil
}
