// Package cli provides the codemerge command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/codemerge/internal/services/clipboard"
	"github.com/temirov/codemerge/internal/utils"
)

const (
	rootUse              = utils.ApplicationName + " [path]"
	rootShortDescription = "merge a project's source files into one minified text document"
	rootLongDescription  = `codemerge walks a project directory, keeps the files allowed by the configured
filters, strips comments and redundant whitespace, and writes every file into a
single framed text document suitable for pasting into an AI assistant.
When no path is given and stdin is a terminal, codemerge asks for one.`
	rootUsageExample = `  # Merge the current directory into ./merged
  codemerge

  # Merge a solution, keep comments and copy the result
  codemerge ~/src/Shop --strip-comments=false --copy

  # Only TypeScript, written to an explicit file
  codemerge ./web --ext .ts,.tsx --output /tmp/web.txt`

	configFlagName             = "config"
	outputFlagName             = "output"
	outputDirectoryFlagName    = "output-dir"
	projectNameFlagName        = "name"
	excludeDirectoryFlagName   = "exclude-dir"
	excludeDirectoryShorthand  = "e"
	excludeSubstringFlagName   = "exclude-substring"
	excludeExtensionFlagName   = "exclude-ext"
	includeExtensionFlagName   = "ext"
	includeDotFilesFlagName    = "include-dot-files"
	stripCommentsFlagName      = "strip-comments"
	removeEmptyLinesFlagName   = "remove-empty-lines"
	removeIndentationFlagName  = "remove-indentation"
	compressWhitespaceFlagName = "compress-whitespace"
	minifyFlagName             = "minify"
	tokensFlagName             = "tokens"
	modelFlagName              = "model"
	copyFlagName               = "copy"
	listFlagName               = "list"
	verboseFlagName            = "verbose"
	versionFlagName            = "version"

	configFlagDescription             = "configuration file overriding ./" + utils.ConfigFileName
	outputFlagDescription             = "write the merged document to this file"
	outputDirectoryFlagDescription    = "directory receiving the generated document"
	projectNameFlagDescription        = "project name used in the header and file name"
	excludeDirectoryFlagDescription   = "additional directory name to skip (repeatable, comma separated)"
	excludeSubstringFlagDescription   = "skip directories whose name contains this text (repeatable)"
	excludeExtensionFlagDescription   = "additional file extension to skip (repeatable)"
	includeExtensionFlagDescription   = "only merge these extensions (repeatable, replaces the configured list)"
	includeDotFilesFlagDescription    = "merge files whose name starts with a dot"
	stripCommentsFlagDescription      = "strip comments"
	removeEmptyLinesFlagDescription   = "collapse blank lines"
	removeIndentationFlagDescription  = "remove leading indentation"
	compressWhitespaceFlagDescription = "compress runs of spaces and tabs"
	minifyFlagDescription             = "enable the minifier (false writes files unchanged)"
	tokensFlagDescription             = "count tokens of the merged document"
	modelFlagDescription              = "tokenizer model used for token counting"
	copyFlagDescription               = "copy the merged document to the clipboard"
	listFlagDescription               = "print the selected files as a tree without merging"
	verboseFlagDescription            = "log every pruned directory and file"
	versionFlagDescription            = "display application version"
	versionTemplate                   = utils.ApplicationName + " version: %s\n"
)

// Dependencies are the process-level collaborators of the command tree.
type Dependencies struct {
	Stdin         io.Reader
	Stdout        io.Writer
	Clipboard     clipboard.Copier
	Now           func() time.Time
	IsTerminal    func() bool
	LoggerFactory func(verbose bool) (*zap.Logger, error)
}

// DefaultDependencies wires the real terminal, clock, clipboard and logger.
func DefaultDependencies() Dependencies {
	return Dependencies{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Clipboard: clipboard.NewService(),
		Now:       time.Now,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		LoggerFactory: utils.NewApplicationLogger,
	}
}

func (dependencies Dependencies) withDefaults() Dependencies {
	defaults := DefaultDependencies()
	if dependencies.Stdin == nil {
		dependencies.Stdin = defaults.Stdin
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = defaults.Stdout
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = defaults.Clipboard
	}
	if dependencies.Now == nil {
		dependencies.Now = defaults.Now
	}
	if dependencies.IsTerminal == nil {
		dependencies.IsTerminal = defaults.IsTerminal
	}
	if dependencies.LoggerFactory == nil {
		dependencies.LoggerFactory = defaults.LoggerFactory
	}
	return dependencies
}

// Execute runs codemerge with the process arguments.
func Execute() error {
	rootCommand := NewRootCommand(DefaultDependencies())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// mergeFlags holds the raw values of the merge flags.
type mergeFlags struct {
	configPath         string
	outputPath         string
	outputDirectory    string
	projectName        string
	excludeDirectories []string
	excludeSubstrings  []string
	excludeExtensions  []string
	includeExtensions  []string
	includeDotFiles    bool
	stripComments      bool
	removeEmptyLines   bool
	removeIndentation  bool
	compressWhitespace bool
	minify             bool
	tokens             bool
	model              string
	copy               bool
	list               bool
	verbose            bool
	showVersion        bool
}

// NewRootCommand builds the codemerge command tree.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var flags mergeFlags

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, err := command.OutOrStdout().Write([]byte(formatVersion()))
				return err
			}
			return runMerge(command, dependencies, flags, arguments)
		},
	}
	rootCommand.SetOut(dependencies.Stdout)

	flagSet := rootCommand.Flags()
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringVarP(&flags.outputPath, outputFlagName, "o", "", outputFlagDescription)
	flagSet.StringVar(&flags.outputDirectory, outputDirectoryFlagName, "", outputDirectoryFlagDescription)
	flagSet.StringVar(&flags.projectName, projectNameFlagName, "", projectNameFlagDescription)
	flagSet.StringArrayVarP(&flags.excludeDirectories, excludeDirectoryFlagName, excludeDirectoryShorthand, nil, excludeDirectoryFlagDescription)
	flagSet.StringArrayVar(&flags.excludeSubstrings, excludeSubstringFlagName, nil, excludeSubstringFlagDescription)
	flagSet.StringArrayVar(&flags.excludeExtensions, excludeExtensionFlagName, nil, excludeExtensionFlagDescription)
	flagSet.StringArrayVar(&flags.includeExtensions, includeExtensionFlagName, nil, includeExtensionFlagDescription)
	registerBooleanFlag(flagSet, &flags.includeDotFiles, includeDotFilesFlagName, false, includeDotFilesFlagDescription)
	registerBooleanFlag(flagSet, &flags.stripComments, stripCommentsFlagName, true, stripCommentsFlagDescription)
	registerBooleanFlag(flagSet, &flags.removeEmptyLines, removeEmptyLinesFlagName, true, removeEmptyLinesFlagDescription)
	registerBooleanFlag(flagSet, &flags.removeIndentation, removeIndentationFlagName, true, removeIndentationFlagDescription)
	registerBooleanFlag(flagSet, &flags.compressWhitespace, compressWhitespaceFlagName, true, compressWhitespaceFlagDescription)
	registerBooleanFlag(flagSet, &flags.minify, minifyFlagName, true, minifyFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, "", modelFlagDescription)
	registerBooleanFlag(flagSet, &flags.copy, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flagSet, &flags.list, listFlagName, false, listFlagDescription)
	registerBooleanFlag(flagSet, &flags.verbose, verboseFlagName, false, verboseFlagDescription)
	registerBooleanFlag(flagSet, &flags.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(newInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func formatVersion() string {
	return fmt.Sprintf(versionTemplate, utils.GetApplicationVersion())
}
