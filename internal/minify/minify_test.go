package minify_test

import (
	"strings"
	"testing"

	"github.com/temirov/codemerge/internal/minify"
)

func commentsOnly() minify.Options {
	return minify.Options{StripComments: true}
}

// TestStripCommentsByExtension verifies that comment rules are scoped to extensions.
func TestStripCommentsByExtension(testingHandle *testing.T) {
	testCases := []struct {
		name      string
		extension string
		input     string
		expected  string
	}{
		{
			name:      "line comment",
			extension: ".cs",
			input:     "int x = 1; // trailing\nint y = 2;",
			expected:  "int x = 1; \nint y = 2;",
		},
		{
			name:      "block comment across lines",
			extension: ".ts",
			input:     "a /* one\ntwo */ b",
			expected:  "a  b",
		},
		{
			name:      "block comment containing slashes",
			extension: ".cs",
			input:     "/* see http://a.b */\nint a = 1;\n/* end */\nint b = 2;\n",
			expected:  "\nint a = 1;\n\nint b = 2;\n",
		},
		{
			name:      "line comment containing block opener",
			extension: ".js",
			input:     "int a; // see /* x\nint b;\n/* c */ int d;",
			expected:  "int a; \nint b;\n int d;",
		},
		{
			name:      "doc comment line",
			extension: ".cs",
			input:     "/// <summary>\nclass A {}",
			expected:  "\nclass A {}",
		},
		{
			name:      "extension matched case-insensitively",
			extension: ".CS",
			input:     "x // y",
			expected:  "x ",
		},
		{
			name:      "markup comment",
			extension: ".html",
			input:     "<p>a</p><!-- hidden\nstill hidden --><p>b</p>",
			expected:  "<p>a</p><p>b</p>",
		},
		{
			name:      "markup keeps slashes",
			extension: ".xml",
			input:     "<a href=\"//cdn\"/>",
			expected:  "<a href=\"//cdn\"/>",
		},
		{
			name:      "json keeps block comment",
			extension: ".json",
			input:     "{\"a\": 1 /* not a real comment */}",
			expected:  "{\"a\": 1 /* not a real comment */}",
		},
		{
			name:      "json strips line comment",
			extension: ".json",
			input:     "{\n\"a\": 1 // note\n}",
			expected:  "{\n\"a\": 1 \n}",
		},
		{
			name:      "unknown extension untouched",
			extension: ".md",
			input:     "# title // not code",
			expected:  "# title // not code",
		},
		{
			name:      "string literal is not protected",
			extension: ".js",
			input:     "const url = \"http://example.com\";",
			expected:  "const url = \"http:",
		},
	}
	minifier := minify.New(commentsOnly())
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			actual := minifier.Minify(testCase.input, testCase.extension)
			if actual != testCase.expected {
				testingHandle.Fatalf("Minify(%q, %q) = %q, want %q", testCase.input, testCase.extension, actual, testCase.expected)
			}
		})
	}
}

// TestCommentStyleOverrides verifies that configuration can extend the rule table.
func TestCommentStyleOverrides(testingHandle *testing.T) {
	options := commentsOnly()
	options.CommentStyles = map[string]minify.CommentStyle{
		"proto": minify.CommentStyleC,
		".json": minify.CommentStyleC,
		".txt":  minify.CommentStyle("unknown"),
	}
	minifier := minify.New(options)
	if actual := minifier.Minify("message A {} // note", ".proto"); actual != "message A {} " {
		testingHandle.Fatalf("expected proto line comment stripped, got %q", actual)
	}
	if actual := minifier.Minify("{/* x */}", ".json"); actual != "{}" {
		testingHandle.Fatalf("expected json reassigned to c style, got %q", actual)
	}
	if actual := minifier.Minify("a // b", ".txt"); actual != "a // b" {
		testingHandle.Fatalf("expected unknown style to be ignored, got %q", actual)
	}
	if !minify.IsKnownCommentStyle("MARKUP") || minify.IsKnownCommentStyle("lisp") {
		testingHandle.Fatalf("unexpected style recognition")
	}
}

// TestRemoveEmptyLinesCollapsesBlankRuns verifies blank line handling.
func TestRemoveEmptyLinesCollapsesBlankRuns(testingHandle *testing.T) {
	minifier := minify.New(minify.Options{RemoveEmptyLines: true})
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "four newlines become two", input: "a\n\n\n\nb", expected: "a\n\nb"},
		{name: "whitespace only lines", input: "a\n  \n\t\n \nb", expected: "a\n\nb"},
		{name: "single blank line kept", input: "a\n\nb", expected: "a\n\nb"},
		{name: "leading blank lines dropped", input: "\n\n\na", expected: "a"},
		{name: "trailing blank lines shrink", input: "a\n\n\n", expected: "a\n"},
		{name: "carriage returns normalized", input: "a\r\n\r\n\r\n\r\nb", expected: "a\n\nb"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			actual := minifier.Minify(testCase.input, ".cs")
			if actual != testCase.expected {
				testingHandle.Fatalf("Minify(%q) = %q, want %q", testCase.input, actual, testCase.expected)
			}
			if strings.Contains(actual, "\n\n\n") {
				testingHandle.Fatalf("more than one blank line survived in %q", actual)
			}
		})
	}
}

func TestRemoveIndentation(testingHandle *testing.T) {
	minifier := minify.New(minify.Options{RemoveIndentation: true})
	actual := minifier.Minify("class A\n{\n    int x;\n\t\tint y;\n}", ".cs")
	expected := "class A\n{\nint x;\nint y;\n}"
	if actual != expected {
		testingHandle.Fatalf("got %q, want %q", actual, expected)
	}
}

func TestCompressWhitespace(testingHandle *testing.T) {
	minifier := minify.New(minify.Options{CompressWhitespace: true})
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "runs collapse", input: "a \t  b", expected: "a b"},
		{name: "before punctuation", input: "call ( a , b ) ;", expected: "call (a, b);"},
		{name: "after opening brackets", input: "x[ 1 ] { y }", expected: "x[1] {y}"},
		{name: "around equals", input: "int x = 1;", expected: "int x=1;"},
		{name: "comparison operators", input: "if (a == b && c != d)", expected: "if (a==b && c!=d)"},
		{name: "trailing spaces", input: "a   \nb", expected: "a\nb"},
		{name: "newlines preserved", input: "a\n\nb", expected: "a\n\nb"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			actual := minifier.Minify(testCase.input, ".cs")
			if actual != testCase.expected {
				testingHandle.Fatalf("Minify(%q) = %q, want %q", testCase.input, actual, testCase.expected)
			}
		})
	}
}

// TestMinifyDefaultPipeline verifies the full pipeline on a small C# file.
func TestMinifyDefaultPipeline(testingHandle *testing.T) {
	minifier := minify.New(minify.DefaultOptions())
	actual := minifier.Minify("// hi\nint x = 1;\n\n\n", ".cs")
	if actual != "int x=1;\n" {
		testingHandle.Fatalf("got %q", actual)
	}

	source := "namespace Demo\n{\n    /* block */\n    public class A\n    {\n        public int Value { get; set; } // note\n\n\n\n        public void Run( int a , int b )\n        {\n        }\n    }\n}\n"
	expected := "namespace Demo\n{\n\npublic class A\n{\npublic int Value {get; set;}\n\npublic void Run(int a, int b)\n{\n}\n}\n}\n"
	if actual := minifier.Minify(source, ".cs"); actual != expected {
		testingHandle.Fatalf("got %q, want %q", actual, expected)
	}

	licensed := "/* @license https://example.com/LICENSE */\nint a = 1;\n/* end */\nint b = 2;\n"
	if actual := minifier.Minify(licensed, ".cs"); actual != "int a=1;\n\nint b=2;\n" {
		testingHandle.Fatalf("code between block comments was lost: %q", actual)
	}
}

// TestMinifyStagesAreIdempotent verifies that normalized text is not reduced further.
func TestMinifyStagesAreIdempotent(testingHandle *testing.T) {
	inputs := []string{
		"  int   x  =  1 ;\n\n\n\n\tif ( a == b ) { call( x , y ) ; }\n   \n",
		"\r\n\r\nline one   \r\n\r\n\r\n  line two\t\t.\n",
		"[ a , b ]  ( c )  { d : e }",
		"",
	}
	stageOptions := []minify.Options{
		{RemoveEmptyLines: true},
		{RemoveIndentation: true},
		{CompressWhitespace: true},
		{RemoveEmptyLines: true, RemoveIndentation: true, CompressWhitespace: true},
	}
	for _, options := range stageOptions {
		minifier := minify.New(options)
		for _, input := range inputs {
			once := minifier.Minify(input, ".txt")
			twice := minifier.Minify(once, ".txt")
			if once != twice {
				testingHandle.Fatalf("options %+v not idempotent for %q: %q then %q", options, input, once, twice)
			}
		}
	}
}

func TestMinifyDisabledIsIdentity(testingHandle *testing.T) {
	minifier := minify.New(minify.Options{})
	input := "  // comment\n\n\n\nx  =  1"
	if actual := minifier.Minify(input, ".cs"); actual != input {
		testingHandle.Fatalf("expected unchanged text, got %q", actual)
	}
	if minifier.Options().Enabled() {
		testingHandle.Fatalf("expected no stage enabled")
	}
}

func TestExtensionOf(testingHandle *testing.T) {
	if actual := minify.ExtensionOf("Index.CSHTML"); actual != ".cshtml" {
		testingHandle.Fatalf("got %q", actual)
	}
	if actual := minify.ExtensionOf("Dockerfile"); actual != "" {
		testingHandle.Fatalf("got %q", actual)
	}
}
