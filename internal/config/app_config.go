package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codeflat/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Flatten FlattenConfiguration `mapstructure:"flatten" yaml:"flatten"`
}

// FlattenConfiguration defines defaults for the flatten command. Pointer
// fields distinguish an explicit false or zero from an unset value.
type FlattenConfiguration struct {
	Output        string             `mapstructure:"output" yaml:"output"`
	MaxTokens     *int               `mapstructure:"max_tokens" yaml:"max_tokens"`
	MaxFileSize   *int64             `mapstructure:"max_file_size" yaml:"max_file_size"`
	Ignore        []string           `mapstructure:"ignore" yaml:"ignore"`
	Sharding      *bool              `mapstructure:"sharding" yaml:"sharding"`
	UseGitignore  *bool              `mapstructure:"use_gitignore" yaml:"use_gitignore"`
	UseIgnoreFile *bool              `mapstructure:"use_ignore" yaml:"use_ignore"`
	Clipboard     *bool              `mapstructure:"clipboard" yaml:"clipboard"`
	Tokens        TokenConfiguration `mapstructure:"tokens" yaml:"tokens"`
}

// TokenConfiguration controls exact token counting of written documents.
type TokenConfiguration struct {
	Model string `mapstructure:"model" yaml:"model"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// Local values override global ones; ignore lists from both are combined.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		if options.ExplicitFilePath != "" {
			if _, statErr := os.Stat(localPath); statErr != nil {
				return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
			}
		}
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Flatten.Ignore = utils.DeduplicatePatterns(merged.Flatten.Ignore)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Flatten = result.Flatten.merge(override.Flatten)
	return result
}

func (config FlattenConfiguration) merge(override FlattenConfiguration) FlattenConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.MaxTokens != nil {
		result.MaxTokens = cloneInt(override.MaxTokens)
	}
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if len(override.Ignore) > 0 {
		combined := append(append([]string{}, result.Ignore...), override.Ignore...)
		result.Ignore = utils.DeduplicatePatterns(combined)
	}
	if override.Sharding != nil {
		result.Sharding = cloneBool(override.Sharding)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
