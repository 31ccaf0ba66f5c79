package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/codeflat/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	explicitContent string
	expectOutput    string
	expectMaxTokens *int
	expectSharding  *bool
	expectClipboard *bool
	expectIgnore    []string
	expectModel     string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "flatten:\n  output: global.md\n  max_tokens: 1000\n  sharding: false\n  clipboard: true\n  ignore:\n    - vendor\n",
			localContent:    "flatten:\n  output: local.md\n  sharding: true\n  ignore:\n    - \"*.snap\"\n    - vendor\n  tokens:\n    model: gpt-4\n",
			expectOutput:    "local.md",
			expectMaxTokens: intPointer(1000),
			expectSharding:  boolPointer(true),
			expectClipboard: boolPointer(true),
			expectIgnore:    []string{"vendor", "*.snap"},
			expectModel:     "gpt-4",
		},
		{
			name:            "explicit_path_replaces_local",
			globalContent:   "flatten:\n  max_tokens: 2000\n",
			localContent:    "flatten:\n  output: ignored.md\n",
			explicitPath:    "custom.yaml",
			explicitContent: "flatten:\n  output: explicit.md\n  clipboard: false\n",
			expectOutput:    "explicit.md",
			expectMaxTokens: intPointer(2000),
			expectClipboard: boolPointer(false),
		},
		{
			name:         "no_files_yield_empty_configuration",
			expectOutput: "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			flatten := loadedConfig.Flatten
			if flatten.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, flatten.Output)
			}
			if testCase.expectMaxTokens == nil {
				if flatten.MaxTokens != nil {
					t.Fatalf("expected no max_tokens override, got %d", *flatten.MaxTokens)
				}
			} else if flatten.MaxTokens == nil || *flatten.MaxTokens != *testCase.expectMaxTokens {
				t.Fatalf("unexpected max_tokens value")
			}
			if testCase.expectSharding == nil {
				if flatten.Sharding != nil {
					t.Fatalf("expected no sharding override")
				}
			} else if flatten.Sharding == nil || *flatten.Sharding != *testCase.expectSharding {
				t.Fatalf("unexpected sharding value")
			}
			if testCase.expectClipboard == nil {
				if flatten.Clipboard != nil {
					t.Fatalf("expected no clipboard override")
				}
			} else if flatten.Clipboard == nil || *flatten.Clipboard != *testCase.expectClipboard {
				t.Fatalf("unexpected clipboard value")
			}
			if len(testCase.expectIgnore) > 0 && !reflect.DeepEqual(flatten.Ignore, testCase.expectIgnore) {
				t.Fatalf("expected ignore %v, got %v", testCase.expectIgnore, flatten.Ignore)
			}
			if flatten.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, flatten.Tokens.Model)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsMissingExplicitFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)

	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: "missing.yaml",
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestFlattenMergeKeepsExplicitFalse(t *testing.T) {
	base := ApplicationConfiguration{Flatten: FlattenConfiguration{UseGitignore: boolPointer(true)}}
	override := ApplicationConfiguration{Flatten: FlattenConfiguration{UseGitignore: boolPointer(false)}}
	merged := base.Merge(override)
	if merged.Flatten.UseGitignore == nil || *merged.Flatten.UseGitignore {
		t.Fatalf("expected explicit false to override true")
	}
	*override.Flatten.UseGitignore = true
	if *merged.Flatten.UseGitignore {
		t.Fatalf("merged configuration must not alias the override")
	}
}
