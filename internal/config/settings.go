package config

import (
	"fmt"
	"strings"

	"github.com/temirov/codemerge/internal/filter"
	"github.com/temirov/codemerge/internal/minify"
	"github.com/temirov/codemerge/internal/tokenizer"
)

const (
	// DefaultOutputDirectory receives merged documents when no output path is given.
	DefaultOutputDirectory = "merged"
	// AllowAllExtensionsMarker in include_extensions disables the allow-list.
	AllowAllExtensionsMarker = "*"

	unknownCommentStyleFormat = "unknown comment style %q for extension %q"
)

var (
	defaultExcludedDirectories = []string{
		"bin", "obj", "Migrations", "node_modules", "packages",
		".git", ".vs", ".idea", "TestResults", "dist",
	}
	defaultExcludedDirectorySubstrings = []string{".Tests", ".UnitTests"}
	defaultExcludedExtensions          = []string{
		".dll", ".exe", ".pdb", ".cache", ".suo", ".user", ".lock", ".map",
		".png", ".jpg", ".jpeg", ".gif", ".ico", ".zip",
	}
	defaultIncludedExtensions = []string{
		".cs", ".cshtml", ".razor", ".csproj", ".sln", ".json", ".xml", ".config",
		".js", ".ts", ".tsx", ".jsx", ".html", ".css", ".scss", ".sql", ".md",
		".yml", ".yaml",
	}
)

// DefaultApplicationConfiguration returns the built-in defaults with every field set.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Filter: FilterConfiguration{
			ExcludeDirectories:         append([]string(nil), defaultExcludedDirectories...),
			ExcludeDirectorySubstrings: append([]string(nil), defaultExcludedDirectorySubstrings...),
			ExcludeExtensions:          append([]string(nil), defaultExcludedExtensions...),
			IncludeExtensions:          append([]string(nil), defaultIncludedExtensions...),
			IgnoreDotFiles:             BoolPointer(true),
		},
		Minify: MinifyConfiguration{
			Enabled:            BoolPointer(true),
			StripComments:      BoolPointer(true),
			RemoveEmptyLines:   BoolPointer(true),
			RemoveIndentation:  BoolPointer(true),
			CompressWhitespace: BoolPointer(true),
		},
		Output: OutputConfiguration{
			Directory: DefaultOutputDirectory,
		},
		Tokens: TokenConfiguration{
			Enabled: BoolPointer(false),
			Model:   tokenizer.DefaultModel,
		},
		Clipboard: BoolPointer(false),
	}
}

// Settings is the resolved, immutable view of a configuration used for one run.
type Settings struct {
	FilterRules     filter.Rules
	MinifyOptions   minify.Options
	OutputDirectory string
	OutputPath      string
	ProjectName     string
	CountTokens     bool
	TokenModel      string
	CopyToClipboard bool
}

// Settings resolves the configuration into run settings.
// Unset fields fall back to the built-in defaults.
func (config ApplicationConfiguration) Settings() (Settings, error) {
	resolved := DefaultApplicationConfiguration().Merge(config)

	commentStyles := make(map[string]minify.CommentStyle, len(resolved.Minify.CommentStyles))
	for extension, styleName := range resolved.Minify.CommentStyles {
		style := minify.CommentStyle(strings.ToLower(strings.TrimSpace(styleName)))
		if !minify.IsKnownCommentStyle(style) {
			return Settings{}, fmt.Errorf(unknownCommentStyleFormat, styleName, extension)
		}
		commentStyles[extension] = style
	}

	minifyEnabled := boolValue(resolved.Minify.Enabled, true)
	minifyOptions := minify.Options{
		StripComments:      minifyEnabled && boolValue(resolved.Minify.StripComments, true),
		RemoveEmptyLines:   minifyEnabled && boolValue(resolved.Minify.RemoveEmptyLines, true),
		RemoveIndentation:  minifyEnabled && boolValue(resolved.Minify.RemoveIndentation, true),
		CompressWhitespace: minifyEnabled && boolValue(resolved.Minify.CompressWhitespace, true),
	}
	if len(commentStyles) > 0 {
		minifyOptions.CommentStyles = commentStyles
	}

	filterRules := filter.Rules{
		ExcludedDirectoryNames:      append([]string(nil), resolved.Filter.ExcludeDirectories...),
		ExcludedDirectorySubstrings: append([]string(nil), resolved.Filter.ExcludeDirectorySubstrings...),
		ExcludedExtensions:          append([]string(nil), resolved.Filter.ExcludeExtensions...),
		AllowedExtensions:           resolveAllowedExtensions(resolved.Filter.IncludeExtensions),
		IgnoreDotFiles:              boolValue(resolved.Filter.IgnoreDotFiles, true),
	}

	tokenModel := strings.TrimSpace(resolved.Tokens.Model)
	if tokenModel == "" {
		tokenModel = tokenizer.DefaultModel
	}
	outputDirectory := strings.TrimSpace(resolved.Output.Directory)
	if outputDirectory == "" {
		outputDirectory = DefaultOutputDirectory
	}

	return Settings{
		FilterRules:     filterRules,
		MinifyOptions:   minifyOptions,
		OutputDirectory: outputDirectory,
		OutputPath:      strings.TrimSpace(resolved.Output.Path),
		ProjectName:     strings.TrimSpace(resolved.Output.ProjectName),
		CountTokens:     boolValue(resolved.Tokens.Enabled, false),
		TokenModel:      tokenModel,
		CopyToClipboard: boolValue(resolved.Clipboard, false),
	}, nil
}

func resolveAllowedExtensions(extensions []string) []string {
	for _, extension := range extensions {
		if strings.TrimSpace(extension) == AllowAllExtensionsMarker {
			return nil
		}
	}
	return append([]string(nil), extensions...)
}
