package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q for flag %q", booleanFlagInvalidValueErrorLabel, input, value.flagKey)
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return booleanFlagTrueLiteral
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	registerBooleanFlagP(flagSet, target, name, "", defaultValue, usage)
}

// registerBooleanFlagP registers a boolean flag with an optional one-letter shorthand.
func registerBooleanFlagP(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagValue := &booleanFlagValue{
		target:  target,
		flagKey: name,
	}
	flagSet.VarP(flagValue, name, shorthand, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// booleanFlagSpellings holds the long names and shorthands of flags registered
// through registerBooleanFlagP.
type booleanFlagSpellings struct {
	longNames  map[string]struct{}
	shorthands map[string]struct{}
}

// acceptsTrailingLiteral reports whether argument is a bare boolean flag that may
// take its value from the next argument.
func (spellings booleanFlagSpellings) acceptsTrailingLiteral(argument string) bool {
	if strings.HasPrefix(argument, "--") {
		if strings.Contains(argument, "=") {
			return false
		}
		_, known := spellings.longNames[strings.TrimPrefix(argument, "--")]
		return known
	}
	if len(argument) == 2 && argument[0] == '-' {
		_, known := spellings.shorthands[argument[1:]]
		return known
	}
	return false
}

func isBooleanLiteral(argument string) bool {
	if strings.HasPrefix(argument, "-") {
		return false
	}
	_, valid := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(argument))]
	return valid
}

// normalizeBooleanFlagArguments joins a boolean flag and a following literal
// ("--show-dots off", "-D off") into one argument. A literal for which namesPath
// reports true stays a positional argument, so "fzwalk -R on" walks ./on when it exists.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string, namesPath func(string) bool) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	spellings := booleanFlagSpellings{longNames: map[string]struct{}{}, shorthands: map[string]struct{}{}}
	collectBooleanFlagSpellings(command, spellings)
	if len(spellings.longNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if index+1 < len(arguments) && spellings.acceptsTrailingLiteral(currentArgument) {
			nextArgument := arguments[index+1]
			if isBooleanLiteral(nextArgument) && (namesPath == nil || !namesPath(nextArgument)) {
				normalized = append(normalized, currentArgument+"="+nextArgument)
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectBooleanFlagSpellings(command *cobra.Command, spellings booleanFlagSpellings) {
	if command == nil {
		return
	}
	visit := func(flagSet *pflag.FlagSet) {
		if flagSet == nil {
			return
		}
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag == nil {
				return
			}
			if _, registered := flag.Value.(*booleanFlagValue); !registered {
				return
			}
			spellings.longNames[flag.Name] = struct{}{}
			if flag.Shorthand != "" {
				spellings.shorthands[flag.Shorthand] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagSpellings(child, spellings)
	}
}
