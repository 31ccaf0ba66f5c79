package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// toggleTypeName keeps help output identical to a plain pflag bool.
const (
	toggleTypeName       = "bool"
	toggleImplicitValue  = "true"
	toggleAcceptedValues = "yes/no, on/off, true/false, y/n, t/f or 1/0"
)

var errUnboundToggle = errors.New("toggle flag is not bound to a setting")

var toggleLiterals = map[string]bool{
	"yes":   true,
	"y":     true,
	"on":    true,
	"true":  true,
	"t":     true,
	"1":     true,
	"no":    false,
	"n":     false,
	"off":   false,
	"false": false,
	"f":     false,
	"0":     false,
}

// parseToggleLiteral reports the setting named by input and whether input is a
// recognised literal. An empty input enables the setting.
func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	enabled, known := toggleLiterals[normalized]
	return enabled, known
}

// toggleValue backs the on/off switches of flatten and init, such as
// --sharding, --gitignore, --ignore-file, --copy, --global and --force.
type toggleValue struct {
	setting *bool
	name    string
}

func (toggle *toggleValue) Set(input string) error {
	if toggle == nil || toggle.setting == nil {
		return fmt.Errorf("%w: %q", errUnboundToggle, input)
	}
	enabled, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf("invalid value %q for --%s: use %s", input, toggle.name, toggleAcceptedValues)
	}
	*toggle.setting = enabled
	return nil
}

func (toggle *toggleValue) String() string {
	if toggle == nil || toggle.setting == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*toggle.setting)
}

func (toggle *toggleValue) Type() string {
	return toggleTypeName
}

// registerToggle adds a switch that accepts a bare --name, --name=value and,
// after normalizeToggleArguments, --name value.
func registerToggle(flagSet *pflag.FlagSet, setting *bool, name string, enabledByDefault bool, usage string) {
	if flagSet == nil || setting == nil {
		return
	}
	*setting = enabledByDefault
	flag := flagSet.VarPF(&toggleValue{setting: setting, name: name}, name, "", usage)
	flag.DefValue = strconv.FormatBool(enabledByDefault)
	flag.NoOptDefVal = toggleImplicitValue
}

// normalizeToggleArguments joins "--sharding no" into "--sharding=no" so that
// pflag does not treat the literal as a positional root path. Values that are
// not toggle literals stay positional, so "--copy ./service" still flattens ./service.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggles := toggleNames(command)
	if len(toggles) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, "--")
		if isLongFlag && !strings.Contains(name, "=") && index+1 < len(arguments) {
			if _, isToggle := toggles[name]; isToggle {
				next := arguments[index+1]
				if _, known := parseToggleLiteral(next); known && next != "" && !strings.HasPrefix(next, "-") {
					normalized = append(normalized, argument+"="+next)
					index++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

// toggleNames collects every toggle registered on command and its subcommands.
func toggleNames(command *cobra.Command) map[string]struct{} {
	names := map[string]struct{}{}
	if command == nil {
		return names
	}
	var visit func(*cobra.Command)
	visit = func(current *cobra.Command) {
		collect := func(flag *pflag.Flag) {
			if _, isToggle := flag.Value.(*toggleValue); isToggle {
				names[flag.Name] = struct{}{}
			}
		}
		current.PersistentFlags().VisitAll(collect)
		current.Flags().VisitAll(collect)
		for _, child := range current.Commands() {
			visit(child)
		}
	}
	visit(command)
	return names
}
