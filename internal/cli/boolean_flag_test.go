package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "keeps_default", defaultValue: true, arguments: []string{}, expected: true},
		{name: "bare_flag_sets_true", defaultValue: false, arguments: []string{"--copy"}, expected: true},
		{name: "inline_false", defaultValue: true, arguments: []string{"--copy=false"}, expected: false},
		{name: "separate_no_literal", defaultValue: true, arguments: []string{"--copy", "no"}, expected: false},
		{name: "separate_on_literal", defaultValue: false, arguments: []string{"--copy", "on"}, expected: true},
		{name: "path_after_flag_stays_positional", defaultValue: false, arguments: []string{"--copy", "./src"}, expected: true},
		{name: "invalid_inline_value", defaultValue: false, arguments: []string{"--copy=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, "copy", testCase.defaultValue, "copy output")
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArguments(t *testing.T) {
	command := NewRootCommand(Dependencies{})
	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "joins_literal",
			arguments: []string{"./Shop", "--strip-comments", "off", "--copy"},
			expected:  []string{"./Shop", "--strip-comments=off", "--copy"},
		},
		{
			name:      "leaves_string_flags",
			arguments: []string{"--model", "yes"},
			expected:  []string{"--model", "yes"},
		},
		{
			name:      "subcommand_toggle",
			arguments: []string{"init", "--force", "1"},
			expected:  []string{"init", "--force=1"},
		},
		{
			name:      "stops_at_terminator",
			arguments: []string{"--", "--copy", "no"},
			expected:  []string{"--", "--copy", "no"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := normalizeBooleanFlagArguments(command, testCase.arguments)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}
