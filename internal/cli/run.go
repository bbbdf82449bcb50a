package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codemerge/internal/config"
	"github.com/temirov/codemerge/internal/filter"
	"github.com/temirov/codemerge/internal/merge"
	"github.com/temirov/codemerge/internal/minify"
	"github.com/temirov/codemerge/internal/output"
	"github.com/temirov/codemerge/internal/tokenizer"
	"github.com/temirov/codemerge/internal/tree"
	"github.com/temirov/codemerge/internal/utils"
)

const (
	defaultPath        = "."
	pathPromptMessage  = "Project path [.]: "
	errorPathMissing   = "path '%s' does not exist"
	errorNotDirectory  = "'%s' is not a directory"
	errorStatPath      = "stat failed for '%s': %w"
	errorAbsolutePath  = "abs failed for '%s': %w"
	errorWorkingDir    = "unable to determine working directory: %w"
	errorReadPathInput = "reading project path: %w"
	errorLoggerFormat  = "initialize logger: %w"
)

func runMerge(command *cobra.Command, dependencies Dependencies, flags mergeFlags, arguments []string) (err error) {
	logger, loggerErr := dependencies.LoggerFactory(flags.verbose)
	if loggerErr != nil {
		return fmt.Errorf(errorLoggerFormat, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	inputPath, pathErr := resolveInputPath(dependencies, arguments)
	if pathErr != nil {
		return pathErr
	}
	rootPath, validateErr := validateRootDirectory(inputPath)
	if validateErr != nil {
		return validateErr
	}

	workingDirectory, workingDirectoryErr := os.Getwd()
	if workingDirectoryErr != nil {
		return fmt.Errorf(errorWorkingDir, workingDirectoryErr)
	}
	loadedConfiguration, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if loadErr != nil {
		return loadErr
	}
	settings, settingsErr := applyFlagOverrides(command, flags, loadedConfiguration).Settings()
	if settingsErr != nil {
		return settingsErr
	}

	projectName := settings.ProjectName
	if projectName == "" {
		projectName = filepath.Base(rootPath)
	}
	generatedAt := dependencies.Now()
	documentPath, resolveErr := output.ResolvePath(output.PathOptions{
		OutputPath:       settings.OutputPath,
		OutputDirectory:  settings.OutputDirectory,
		WorkingDirectory: workingDirectory,
	}, projectName, generatedAt)
	if resolveErr != nil {
		return resolveErr
	}

	fileSystem := afero.NewOsFs()
	builder := tree.NewBuilder(fileSystem, filter.NewPolicy(settings.FilterRules), logger).
		ExcludePaths(outputExclusions(settings, documentPath)...)
	root, buildErr := builder.BuildTree(rootPath)
	if buildErr != nil {
		return buildErr
	}
	fileCount := tree.CountFiles(root)
	logger.Info("collected files", zap.String("root", rootPath), zap.Int("files", fileCount))

	if flags.list {
		return output.WriteTree(dependencies.Stdout, root)
	}

	merger := merge.NewMerger(fileSystem, minify.New(settings.MinifyOptions), logger)
	summary, mergeErr := writeDocument(documentPath, merger, root, merge.Header{ProjectName: projectName, GeneratedAt: generatedAt})
	if mergeErr != nil {
		return mergeErr
	}

	summaryFields := []zap.Field{
		zap.String("output", documentPath),
		zap.Int("files", summary.Files),
		zap.String("input", utils.FormatFileSize(summary.InputBytes)),
		zap.String("size", utils.FormatFileSize(summary.OutputBytes)),
	}
	if summary.ReadFailures > 0 {
		summaryFields = append(summaryFields, zap.Int("unreadable", summary.ReadFailures))
	}
	if settings.CountTokens {
		summaryFields = append(summaryFields, countDocumentTokens(fileSystem, documentPath, settings.TokenModel, logger)...)
	}
	logger.Info("merged project", summaryFields...)

	if settings.CopyToClipboard {
		copyDocument(fileSystem, documentPath, dependencies, logger)
	}

	_, printErr := fmt.Fprintln(dependencies.Stdout, documentPath)
	return printErr
}

// outputExclusions keeps earlier merged documents out of the walk. The whole
// output directory is skipped only when documents are named automatically.
func outputExclusions(settings config.Settings, documentPath string) []string {
	exclusions := []string{documentPath}
	if strings.TrimSpace(settings.OutputPath) == "" {
		exclusions = append(exclusions, filepath.Dir(documentPath))
	}
	return exclusions
}

// writeDocument merges root into a new document at path. The document is
// closed on every path and a close failure is reported when the merge succeeded.
func writeDocument(path string, merger *merge.Merger, root *tree.DirectoryNode, header merge.Header) (summary merge.Summary, err error) {
	document, createErr := output.Create(path)
	if createErr != nil {
		return merge.Summary{}, createErr
	}
	defer func() {
		if closeErr := document.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return merger.Merge(document, root, header)
}

func countDocumentTokens(fileSystem afero.Fs, path string, model string, logger *zap.Logger) []zap.Field {
	counter, resolvedModel, counterErr := tokenizer.NewCounter(tokenizer.Config{Model: model})
	if counterErr != nil {
		logger.Warn("token counting unavailable", zap.Error(counterErr))
		return nil
	}
	result, countErr := tokenizer.CountFile(counter, fileSystem, path)
	if countErr != nil {
		logger.Warn("token counting failed", zap.String("output", path), zap.Error(countErr))
		return nil
	}
	if !result.Counted {
		return nil
	}
	return []zap.Field{zap.Int("tokens", result.Tokens), zap.String("model", resolvedModel)}
}

func copyDocument(fileSystem afero.Fs, path string, dependencies Dependencies, logger *zap.Logger) {
	content, readErr := afero.ReadFile(fileSystem, path)
	if readErr != nil {
		logger.Warn("clipboard copy skipped", zap.String("output", path), zap.Error(readErr))
		return
	}
	if copyErr := dependencies.Clipboard.Copy(string(content)); copyErr != nil {
		logger.Warn("clipboard copy failed", zap.Error(copyErr))
		return
	}
	logger.Info("copied merged document to clipboard")
}

// resolveInputPath returns the path argument, asks for one on an interactive
// terminal, or falls back to the current directory.
func resolveInputPath(dependencies Dependencies, arguments []string) (string, error) {
	if len(arguments) > 0 && strings.TrimSpace(arguments[0]) != "" {
		return arguments[0], nil
	}
	if !dependencies.IsTerminal() {
		return defaultPath, nil
	}
	if _, err := io.WriteString(dependencies.Stdout, pathPromptMessage); err != nil {
		return "", err
	}
	answer, readErr := bufio.NewReader(dependencies.Stdin).ReadString('\n')
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return "", fmt.Errorf(errorReadPathInput, readErr)
	}
	answer = strings.Trim(strings.TrimSpace(answer), `"'`)
	if answer == "" {
		return defaultPath, nil
	}
	return answer, nil
}

func validateRootDirectory(inputPath string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePath, inputPath, absolutePathError)
	}
	info, statError := os.Stat(absolutePath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return "", fmt.Errorf(errorPathMissing, inputPath)
		}
		return "", fmt.Errorf(errorStatPath, inputPath, statError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorNotDirectory, inputPath)
	}
	return filepath.Clean(absolutePath), nil
}

// applyFlagOverrides layers explicitly set flags over the loaded configuration.
// List flags for exclusions extend the configured lists; --ext replaces the allow-list.
func applyFlagOverrides(command *cobra.Command, flags mergeFlags, loaded config.ApplicationConfiguration) config.ApplicationConfiguration {
	resolved := config.DefaultApplicationConfiguration().Merge(loaded)
	var override config.ApplicationConfiguration
	changed := command.Flags().Changed

	if changed(outputFlagName) {
		override.Output.Path = flags.outputPath
	}
	if changed(outputDirectoryFlagName) {
		override.Output.Directory = flags.outputDirectory
	}
	if changed(projectNameFlagName) {
		override.Output.ProjectName = flags.projectName
	}
	if extra := utils.SplitList(flags.excludeDirectories); len(extra) > 0 {
		override.Filter.ExcludeDirectories = append(append([]string(nil), resolved.Filter.ExcludeDirectories...), extra...)
	}
	if extra := utils.SplitList(flags.excludeSubstrings); len(extra) > 0 {
		override.Filter.ExcludeDirectorySubstrings = append(append([]string(nil), resolved.Filter.ExcludeDirectorySubstrings...), extra...)
	}
	if extra := utils.SplitList(flags.excludeExtensions); len(extra) > 0 {
		override.Filter.ExcludeExtensions = append(append([]string(nil), resolved.Filter.ExcludeExtensions...), extra...)
	}
	if included := utils.SplitList(flags.includeExtensions); len(included) > 0 {
		override.Filter.IncludeExtensions = included
	}
	if changed(includeDotFilesFlagName) {
		override.Filter.IgnoreDotFiles = config.BoolPointer(!flags.includeDotFiles)
	}
	if changed(minifyFlagName) {
		override.Minify.Enabled = config.BoolPointer(flags.minify)
	}
	if changed(stripCommentsFlagName) {
		override.Minify.StripComments = config.BoolPointer(flags.stripComments)
	}
	if changed(removeEmptyLinesFlagName) {
		override.Minify.RemoveEmptyLines = config.BoolPointer(flags.removeEmptyLines)
	}
	if changed(removeIndentationFlagName) {
		override.Minify.RemoveIndentation = config.BoolPointer(flags.removeIndentation)
	}
	if changed(compressWhitespaceFlagName) {
		override.Minify.CompressWhitespace = config.BoolPointer(flags.compressWhitespace)
	}
	if changed(tokensFlagName) {
		override.Tokens.Enabled = config.BoolPointer(flags.tokens)
	}
	if changed(modelFlagName) {
		override.Tokens.Model = flags.model
	}
	if changed(copyFlagName) {
		override.Clipboard = config.BoolPointer(flags.copy)
	}
	return resolved.Merge(override)
}
