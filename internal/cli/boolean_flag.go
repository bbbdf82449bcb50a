package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName         = "bool"
	toggleImplicitValue        = "true"
	toggleAcceptedLiterals     = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidValueFormat   = "invalid value %q for --%s; accepted values: %s"
	toggleInlineArgumentFormat = "--%s=%s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"1":     true,
	"false": false,
	"f":     false,
	"no":    false,
	"n":     false,
	"off":   false,
	"0":     false,
}

func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleImplicitValue
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleFlagValue is a boolean pflag.Value accepting the literals in toggleLiterals.
type toggleFlagValue struct {
	target *bool
	name   string
}

func (value *toggleFlagValue) Set(input string) error {
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(toggleInvalidValueFormat, input, value.name, toggleAcceptedLiterals)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag registers a toggle that may be given bare (--copy), inline
// (--copy=no) or, after normalizeBooleanFlagArguments, as a separate literal (--copy no).
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleFlagValue{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleImplicitValue
}

// normalizeBooleanFlagArguments joins "--flag literal" pairs into "--flag=literal"
// for toggles of command and its subcommands. A following argument that is not
// a toggle literal, such as a project path, stays positional.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectBooleanFlagNames(command, toggleNames)
	if len(toggleNames) == 0 || len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		flagName, isLongFlag := strings.CutPrefix(argument, "--")
		_, isToggle := toggleNames[flagName]
		if isLongFlag && isToggle && index+1 < len(arguments) {
			next := arguments[index+1]
			if _, known := parseToggleLiteral(next); known && next != "" && !strings.HasPrefix(next, "-") {
				normalized = append(normalized, fmt.Sprintf(toggleInlineArgumentFormat, flagName, next))
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	collect := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == toggleFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(collect)
	command.Flags().VisitAll(collect)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
