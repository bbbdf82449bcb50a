// Package config loads codemerge configuration files and resolves them into run settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codemerge/internal/utils"
)

// keyDelimiter replaces viper's default "." so extension keys such as ".vue" stay intact.
const keyDelimiter = "::"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file layout.
// Pointer fields distinguish an unset value from an explicit false.
type ApplicationConfiguration struct {
	Filter    FilterConfiguration `mapstructure:"filter"`
	Minify    MinifyConfiguration `mapstructure:"minify"`
	Output    OutputConfiguration `mapstructure:"output"`
	Tokens    TokenConfiguration  `mapstructure:"tokens"`
	Clipboard *bool               `mapstructure:"clipboard"`
}

// FilterConfiguration configures which directories and files are merged.
type FilterConfiguration struct {
	ExcludeDirectories         []string `mapstructure:"exclude_directories"`
	ExcludeDirectorySubstrings []string `mapstructure:"exclude_directory_substrings"`
	ExcludeExtensions          []string `mapstructure:"exclude_extensions"`
	IncludeExtensions          []string `mapstructure:"include_extensions"`
	IgnoreDotFiles             *bool    `mapstructure:"ignore_dot_files"`
}

// MinifyConfiguration toggles the content minifier stages.
type MinifyConfiguration struct {
	Enabled            *bool             `mapstructure:"enabled"`
	StripComments      *bool             `mapstructure:"strip_comments"`
	RemoveEmptyLines   *bool             `mapstructure:"remove_empty_lines"`
	RemoveIndentation  *bool             `mapstructure:"remove_indentation"`
	CompressWhitespace *bool             `mapstructure:"compress_whitespace"`
	CommentStyles      map[string]string `mapstructure:"comment_styles"`
}

// OutputConfiguration controls where the merged document is written.
type OutputConfiguration struct {
	Directory   string `mapstructure:"directory"`
	Path        string `mapstructure:"path"`
	ProjectName string `mapstructure:"project_name"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration layers the defaults, the global file and the local file.
// A missing global or local file is not an error; a missing explicit file is.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	merged := DefaultApplicationConfiguration()

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	return merged.Merge(localConfig), nil
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
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	reader.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		reader.SetConfigType("yaml")
	}
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
	result.Filter = result.Filter.merge(override.Filter)
	result.Minify = result.Minify.merge(override.Minify)
	result.Output = result.Output.merge(override.Output)
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

// merge replaces a list whenever the override sets it, so an explicit empty
// list clears the inherited patterns.
func (config FilterConfiguration) merge(override FilterConfiguration) FilterConfiguration {
	result := config
	if override.ExcludeDirectories != nil {
		result.ExcludeDirectories = utils.DeduplicatePatterns(override.ExcludeDirectories)
	}
	if override.ExcludeDirectorySubstrings != nil {
		result.ExcludeDirectorySubstrings = utils.DeduplicatePatterns(override.ExcludeDirectorySubstrings)
	}
	if override.ExcludeExtensions != nil {
		result.ExcludeExtensions = utils.DeduplicatePatterns(override.ExcludeExtensions)
	}
	if override.IncludeExtensions != nil {
		result.IncludeExtensions = utils.DeduplicatePatterns(override.IncludeExtensions)
	}
	if override.IgnoreDotFiles != nil {
		result.IgnoreDotFiles = cloneBool(override.IgnoreDotFiles)
	}
	return result
}

func (config MinifyConfiguration) merge(override MinifyConfiguration) MinifyConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.StripComments != nil {
		result.StripComments = cloneBool(override.StripComments)
	}
	if override.RemoveEmptyLines != nil {
		result.RemoveEmptyLines = cloneBool(override.RemoveEmptyLines)
	}
	if override.RemoveIndentation != nil {
		result.RemoveIndentation = cloneBool(override.RemoveIndentation)
	}
	if override.CompressWhitespace != nil {
		result.CompressWhitespace = cloneBool(override.CompressWhitespace)
	}
	if len(override.CommentStyles) > 0 {
		combinedStyles := make(map[string]string, len(result.CommentStyles)+len(override.CommentStyles))
		for extension, style := range result.CommentStyles {
			combinedStyles[extension] = style
		}
		for extension, style := range override.CommentStyles {
			combinedStyles[extension] = style
		}
		result.CommentStyles = combinedStyles
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Directory != "" {
		result.Directory = override.Directory
	}
	if override.Path != "" {
		result.Path = override.Path
	}
	if override.ProjectName != "" {
		result.ProjectName = override.ProjectName
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
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

// BoolPointer returns a pointer to a copy of value.
func BoolPointer(value bool) *bool {
	return &value
}

func boolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
