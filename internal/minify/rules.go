package minify

import (
	"regexp"
	"strings"

	"github.com/temirov/codemerge/internal/filter"
)

// CommentStyle names a family of comment syntaxes sharing the same strip steps.
type CommentStyle string

const (
	// CommentStyleC covers // line comments, /* */ blocks and /// doc lines.
	CommentStyleC CommentStyle = "c"
	// CommentStyleMarkup covers <!-- --> blocks.
	CommentStyleMarkup CommentStyle = "markup"
	// CommentStyleJSON covers // line comments in annotated JSON variants.
	CommentStyleJSON CommentStyle = "json"
)

// transformStep is one regex replacement applied to the whole text.
type transformStep struct {
	pattern     *regexp.Regexp
	replacement string
}

func (step transformStep) apply(text string) string {
	return step.pattern.ReplaceAllString(text, step.replacement)
}

var (
	lineCommentStep = transformStep{pattern: regexp.MustCompile(`//.*`)}
	// lineOrBlockCommentStep removes // and /* */ comments in a single left-to-right
	// scan, so whichever opens first owns the markers inside it.
	lineOrBlockCommentStep = transformStep{pattern: regexp.MustCompile(`(?s)/\*.*?\*/|//[^\n]*`)}
	docCommentStep         = transformStep{pattern: regexp.MustCompile(`(?m)^[ \t]*///.*$`)}
	markupCommentStep      = transformStep{pattern: regexp.MustCompile(`(?s)<!--.*?-->`)}
)

// commentStyleSteps lists the ordered strip steps for every comment style.
var commentStyleSteps = map[CommentStyle][]transformStep{
	CommentStyleC:      {lineOrBlockCommentStep, docCommentStep},
	CommentStyleMarkup: {markupCommentStep},
	CommentStyleJSON:   {lineCommentStep},
}

// defaultExtensionStyles maps lower-case extensions to their comment style.
var defaultExtensionStyles = map[string]CommentStyle{
	".cs":      CommentStyleC,
	".cshtml":  CommentStyleC,
	".razor":   CommentStyleC,
	".js":      CommentStyleC,
	".jsx":     CommentStyleC,
	".mjs":     CommentStyleC,
	".ts":      CommentStyleC,
	".tsx":     CommentStyleC,
	".java":    CommentStyleC,
	".c":       CommentStyleC,
	".h":       CommentStyleC,
	".cpp":     CommentStyleC,
	".hpp":     CommentStyleC,
	".go":      CommentStyleC,
	".kt":      CommentStyleC,
	".swift":   CommentStyleC,
	".scss":    CommentStyleC,
	".less":    CommentStyleC,
	".php":     CommentStyleC,
	".rs":      CommentStyleC,
	".html":    CommentStyleMarkup,
	".htm":     CommentStyleMarkup,
	".xml":     CommentStyleMarkup,
	".xaml":    CommentStyleMarkup,
	".csproj":  CommentStyleMarkup,
	".props":   CommentStyleMarkup,
	".targets": CommentStyleMarkup,
	".config":  CommentStyleMarkup,
	".svg":     CommentStyleMarkup,
	".vue":     CommentStyleMarkup,
	".json":    CommentStyleJSON,
}

// IsKnownCommentStyle reports whether style has registered strip steps.
func IsKnownCommentStyle(style CommentStyle) bool {
	_, known := commentStyleSteps[CommentStyle(strings.ToLower(string(style)))]
	return known
}

// buildRuleTable resolves the extension table, overlaying extra style assignments.
// Unknown styles in overrides are ignored.
func buildRuleTable(overrides map[string]CommentStyle) map[string][]transformStep {
	ruleTable := make(map[string][]transformStep, len(defaultExtensionStyles)+len(overrides))
	for extension, style := range defaultExtensionStyles {
		ruleTable[extension] = commentStyleSteps[style]
	}
	for extension, style := range overrides {
		normalizedExtension := filter.NormalizeExtension(extension)
		steps, known := commentStyleSteps[CommentStyle(strings.ToLower(string(style)))]
		if normalizedExtension == "" || !known {
			continue
		}
		ruleTable[normalizedExtension] = steps
	}
	return ruleTable
}
