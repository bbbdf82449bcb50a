// Package minify reduces source text by stripping comments and redundant whitespace.
//
// The transformations are lexical. Comment-like sequences inside string literals
// are stripped as well.
package minify

import (
	"regexp"
	"strings"

	"github.com/temirov/codemerge/internal/filter"
)

// Options toggles the pipeline stages.
type Options struct {
	StripComments      bool
	RemoveEmptyLines   bool
	RemoveIndentation  bool
	CompressWhitespace bool
	// CommentStyles assigns extra extensions to a known comment style.
	CommentStyles map[string]CommentStyle
}

// DefaultOptions enables every stage.
func DefaultOptions() Options {
	return Options{
		StripComments:      true,
		RemoveEmptyLines:   true,
		RemoveIndentation:  true,
		CompressWhitespace: true,
	}
}

// Enabled reports whether any stage would change text.
func (options Options) Enabled() bool {
	return options.StripComments || options.RemoveEmptyLines || options.RemoveIndentation || options.CompressWhitespace
}

var (
	carriageReturnPattern     = regexp.MustCompile(`\r\n?`)
	whitespaceOnlyLinePattern = regexp.MustCompile(`(?m)^[ \t]+$`)
	leadingNewlinesPattern    = regexp.MustCompile(`\A\n+`)
	excessNewlinesPattern     = regexp.MustCompile(`\n{3,}`)
	trailingNewlinesPattern   = regexp.MustCompile(`\n+\z`)
	indentationPattern        = regexp.MustCompile(`(?m)^[ \t]+`)
	horizontalRunPattern      = regexp.MustCompile(`[ \t]+`)
	trailingSpacePattern      = regexp.MustCompile(`(?m)[ \t]+$`)
	spaceBeforePunctuation    = regexp.MustCompile(`[ \t]+([.,;:)\]}])`)
	spaceAfterOpeningBracket  = regexp.MustCompile(`([(\[{])[ \t]+`)
	spaceAroundAssignment     = regexp.MustCompile(`[ \t]*([!<>=+\-*/%&|^]?=>?)[ \t]*`)
)

// Minifier applies the stage pipeline using an immutable extension rule table.
type Minifier struct {
	options   Options
	ruleTable map[string][]transformStep
}

// New constructs a Minifier for options.
func New(options Options) *Minifier {
	return &Minifier{
		options:   options,
		ruleTable: buildRuleTable(options.CommentStyles),
	}
}

// Options returns the configuration the Minifier was built with.
func (minifier *Minifier) Options() Options {
	return minifier.options
}

// Minify runs the enabled stages over text in a fixed order: comments, empty
// lines, indentation, whitespace. The extension selects the comment rules and is
// matched case-insensitively.
func (minifier *Minifier) Minify(text string, extension string) string {
	result := text
	if minifier.options.StripComments {
		result = minifier.stripComments(result, extension)
	}
	if minifier.options.RemoveEmptyLines {
		result = removeEmptyLines(result)
	}
	if minifier.options.RemoveIndentation {
		result = removeIndentation(result)
	}
	if minifier.options.CompressWhitespace {
		result = compressWhitespace(result)
	}
	return result
}

func (minifier *Minifier) stripComments(text string, extension string) string {
	steps, found := minifier.ruleTable[strings.ToLower(extension)]
	if !found {
		return text
	}
	for _, step := range steps {
		text = step.apply(text)
	}
	return text
}

// removeEmptyLines blanks whitespace-only lines and keeps at most one blank line
// between content blocks.
func removeEmptyLines(text string) string {
	text = carriageReturnPattern.ReplaceAllString(text, "\n")
	text = whitespaceOnlyLinePattern.ReplaceAllString(text, "")
	text = leadingNewlinesPattern.ReplaceAllString(text, "")
	text = excessNewlinesPattern.ReplaceAllString(text, "\n\n")
	return trailingNewlinesPattern.ReplaceAllString(text, "\n")
}

func removeIndentation(text string) string {
	return indentationPattern.ReplaceAllString(text, "")
}

func compressWhitespace(text string) string {
	text = horizontalRunPattern.ReplaceAllString(text, " ")
	text = trailingSpacePattern.ReplaceAllString(text, "")
	text = spaceBeforePunctuation.ReplaceAllString(text, "$1")
	text = spaceAfterOpeningBracket.ReplaceAllString(text, "$1")
	return spaceAroundAssignment.ReplaceAllString(text, "$1")
}

// ExtensionOf returns the extension used to select comment rules for a file name.
func ExtensionOf(fileName string) string {
	return strings.ToLower(filter.Extension(fileName))
}
