package cli

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFlattenTogglesParseLiterals(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedSharded bool
		expectedIgnored bool
		expectedCopy    bool
		expectedRoots   []string
	}{
		{
			name:            "defaults",
			arguments:       []string{},
			expectedSharded: true,
			expectedIgnored: true,
			expectedCopy:    false,
			expectedRoots:   []string{},
		},
		{
			name:            "sharding_no_as_separate_argument",
			arguments:       []string{"--sharding", "no"},
			expectedSharded: false,
			expectedIgnored: true,
			expectedRoots:   []string{},
		},
		{
			name:            "bare_copy_enables_clipboard",
			arguments:       []string{"--copy"},
			expectedSharded: true,
			expectedIgnored: true,
			expectedCopy:    true,
			expectedRoots:   []string{},
		},
		{
			name:            "gitignore_off_with_equals",
			arguments:       []string{"--gitignore=off"},
			expectedSharded: true,
			expectedIgnored: false,
			expectedRoots:   []string{},
		},
		{
			name:            "copy_followed_by_root_path",
			arguments:       []string{"--copy", "./service", "--sharding", "0"},
			expectedSharded: false,
			expectedIgnored: true,
			expectedCopy:    true,
			expectedRoots:   []string{"./service"},
		},
		{
			name:            "uppercase_literal",
			arguments:       []string{"--sharding", "OFF", "--copy", "Yes"},
			expectedSharded: false,
			expectedIgnored: true,
			expectedCopy:    true,
			expectedRoots:   []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			flags := &flattenFlags{}
			flattenCommand := bindFlattenCommand(flags, zap.NewNop(), nil)
			if err := flattenCommand.ParseFlags(normalizeToggleArguments(flattenCommand, testCase.arguments)); err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			if flags.sharding != testCase.expectedSharded {
				t.Fatalf("sharding = %t, expected %t", flags.sharding, testCase.expectedSharded)
			}
			if flags.useGitignore != testCase.expectedIgnored {
				t.Fatalf("gitignore = %t, expected %t", flags.useGitignore, testCase.expectedIgnored)
			}
			if flags.copy != testCase.expectedCopy {
				t.Fatalf("copy = %t, expected %t", flags.copy, testCase.expectedCopy)
			}
			roots := append([]string{}, flattenCommand.Flags().Args()...)
			if !reflect.DeepEqual(roots, testCase.expectedRoots) {
				t.Fatalf("positional arguments = %v, expected %v", roots, testCase.expectedRoots)
			}
		})
	}
}

func TestToggleRejectsUnknownLiteral(t *testing.T) {
	flags := &flattenFlags{}
	flattenCommand := bindFlattenCommand(flags, zap.NewNop(), nil)
	err := flattenCommand.ParseFlags([]string{"--sharding=sometimes"})
	if err == nil {
		t.Fatalf("expected an error for an unknown literal")
	}
	if !strings.Contains(err.Error(), "--sharding") || !strings.Contains(err.Error(), toggleAcceptedValues) {
		t.Fatalf("expected the flag name and accepted values in %q", err.Error())
	}
}

func TestUnboundToggleReturnsError(t *testing.T) {
	var unbound *toggleValue
	if err := unbound.Set("yes"); !errors.Is(err, errUnboundToggle) {
		t.Fatalf("expected errUnboundToggle from a nil toggle, got %v", err)
	}
	if unbound.String() != "false" {
		t.Fatalf("expected a nil toggle to read as false, got %q", unbound.String())
	}
	detached := &toggleValue{name: copyFlagName}
	if err := detached.Set("no"); !errors.Is(err, errUnboundToggle) {
		t.Fatalf("expected errUnboundToggle without a setting, got %v", err)
	}
}

func TestNormalizeToggleArgumentsCoversSubcommands(t *testing.T) {
	rootCommand := createRootCommand(zap.NewNop(), nil)
	normalized := normalizeToggleArguments(rootCommand, []string{"init", "--global", "yes", "--force", "--", "--copy", "no"})
	expected := []string{"init", "--global=yes", "--force", "--", "--copy", "no"}
	if !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("normalized = %v, expected %v", normalized, expected)
	}
}
