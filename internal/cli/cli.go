// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codeflat/internal/config"
	"github.com/temirov/codeflat/internal/flatten"
	"github.com/temirov/codeflat/internal/output"
	"github.com/temirov/codeflat/internal/services/clipboard"
	"github.com/temirov/codeflat/internal/types"
	"github.com/temirov/codeflat/internal/utils"
)

const (
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	maxTokensFlagName    = "max-tokens"
	maxFileSizeFlagName  = "max-file-size"
	ignoreFlagName       = "ignore"
	ignoreFlagShorthand  = "e"
	shardingFlagName     = "sharding"
	gitignoreFlagName    = "gitignore"
	ignoreFileFlagName   = "ignore-file"
	copyFlagName         = "copy"
	modelFlagName        = "model"
	configFlagName       = "config"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionTemplate      = "codeflat version: {{.Version}}\n"
	defaultPath          = "."
	rootUse              = utils.ApplicationName
	rootShortDescription = utils.ApplicationName + " command line interface"
	rootLongDescription  = `codeflat flattens a source tree into Markdown documents sized for LLM context windows.
Large codebases are split into shard documents plus an index. Use --version to print the application version.`
	flattenUse              = "flatten [path]"
	flattenAlias            = "f"
	flattenShortDescription = "write the codebase context document (" + flattenAlias + ")"

	// flattenLongDescription provides detailed help for the flatten command.
	flattenLongDescription = `Scan a directory and write a single Markdown document with a project tree and
the content of every included file. When the estimated size exceeds --max-tokens
and sharding is enabled, shard documents and an index are written instead.`
	// flattenUsageExample demonstrates flatten command usage.
	flattenUsageExample = `  # Flatten the current directory into CODEBASE_CONTEXT.md
  codeflat flatten

  # Write context.md, shard at 30000 tokens and skip fixtures
  codeflat flatten ./service -o context.md --max-tokens 30000 -e fixtures

  # Write one document regardless of size and copy it to the clipboard
  codeflat flatten --sharding no --copy`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write config.yaml with the default flatten settings into the working directory,
or into ~/.codeflat with --global.`

	outputFlagDescription       = "output document path"
	maxTokensFlagDescription    = "token budget per document before sharding"
	maxFileSizeFlagDescription  = "skip files larger than this many bytes"
	ignoreFlagDescription       = "exclude path pattern (repeatable)"
	shardingFlagDescription     = "split large codebases into shards plus an index"
	gitignoreFlagDescription    = "honour the root .gitignore"
	ignoreFileFlagDescription   = "honour the root .ignore file"
	copyFlagDescription         = "copy the document (or the index) to the clipboard"
	modelFlagDescription        = "tokenizer model for exact token counts of written documents"
	configFlagDescription       = "configuration file path"
	globalFlagDescription       = "write configuration into the global configuration directory"
	forceFlagDescription        = "overwrite an existing configuration file"
	initCompletedMessageFormat  = "Configuration written to %s\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// Execute runs the codeflat application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger, clipboard.NewService())
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger, copier clipboard.Copier) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.AddCommand(
		createFlattenCommand(logger, copier),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// flattenFlags stores the raw flag values of the flatten command.
type flattenFlags struct {
	output         string
	maxTokens      int
	maxFileSize    int64
	ignorePatterns []string
	sharding       bool
	useGitignore   bool
	useIgnoreFile  bool
	copy           bool
	model          string
	configPath     string
}

// createFlattenCommand returns the flatten subcommand.
func createFlattenCommand(logger *zap.Logger, copier clipboard.Copier) *cobra.Command {
	return bindFlattenCommand(&flattenFlags{}, logger, copier)
}

func bindFlattenCommand(flags *flattenFlags, logger *zap.Logger, copier clipboard.Copier) *cobra.Command {
	flattenCommand := &cobra.Command{
		Use:     flattenUse,
		Aliases: []string{flattenAlias},
		Short:   flattenShortDescription,
		Long:    flattenLongDescription,
		Example: flattenUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			validatedRoot, validationError := flatten.ValidateRoot(rootPath)
			if validationError != nil {
				return validationError
			}
			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			applicationConfiguration, configError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: flags.configPath,
			})
			if configError != nil {
				return configError
			}
			options := resolveFlattenOptions(command, validatedRoot, *flags, applicationConfiguration.Flatten)
			return runFlatten(command.OutOrStdout(), logger, copier, options)
		},
	}

	flagSet := flattenCommand.Flags()
	flagSet.StringVarP(&flags.output, outputFlagName, outputFlagShorthand, flatten.DefaultOutputPath, outputFlagDescription)
	flagSet.IntVar(&flags.maxTokens, maxTokensFlagName, 0, maxTokensFlagDescription)
	flagSet.Int64Var(&flags.maxFileSize, maxFileSizeFlagName, 0, maxFileSizeFlagDescription)
	flagSet.StringArrayVarP(&flags.ignorePatterns, ignoreFlagName, ignoreFlagShorthand, nil, ignoreFlagDescription)
	registerToggle(flagSet, &flags.sharding, shardingFlagName, true, shardingFlagDescription)
	registerToggle(flagSet, &flags.useGitignore, gitignoreFlagName, true, gitignoreFlagDescription)
	registerToggle(flagSet, &flags.useIgnoreFile, ignoreFileFlagName, true, ignoreFileFlagDescription)
	registerToggle(flagSet, &flags.copy, copyFlagName, false, copyFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, "", modelFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	if lookup := flagSet.Lookup(maxTokensFlagName); lookup != nil {
		lookup.DefValue = fmt.Sprint(flatten.DefaultOptions(defaultPath).MaxTokens)
	}
	if lookup := flagSet.Lookup(maxFileSizeFlagName); lookup != nil {
		lookup.DefValue = fmt.Sprint(flatten.DefaultOptions(defaultPath).MaxFileSize)
	}
	return flattenCommand
}

// resolveFlattenOptions layers explicit flags over configuration over defaults.
func resolveFlattenOptions(command *cobra.Command, root types.ValidatedPath, flags flattenFlags, configuration config.FlattenConfiguration) flatten.Options {
	options := flatten.DefaultOptions(root.AbsolutePath)
	changed := func(name string) bool {
		return command.Flags().Changed(name)
	}

	if changed(outputFlagName) {
		options.OutputPath = flags.output
	} else if configuration.Output != "" {
		options.OutputPath = configuration.Output
	}
	if changed(maxTokensFlagName) {
		options.MaxTokens = flags.maxTokens
	} else if configuration.MaxTokens != nil {
		options.MaxTokens = *configuration.MaxTokens
	}
	if changed(maxFileSizeFlagName) {
		options.MaxFileSize = flags.maxFileSize
	} else if configuration.MaxFileSize != nil {
		options.MaxFileSize = *configuration.MaxFileSize
	}
	options.IgnorePatterns = utils.DeduplicatePatterns(append(append([]string{}, configuration.Ignore...), flags.ignorePatterns...))
	options.Sharding = resolveBoolean(changed(shardingFlagName), flags.sharding, configuration.Sharding, options.Sharding)
	options.UseGitignore = resolveBoolean(changed(gitignoreFlagName), flags.useGitignore, configuration.UseGitignore, options.UseGitignore)
	options.UseIgnoreFile = resolveBoolean(changed(ignoreFileFlagName), flags.useIgnoreFile, configuration.UseIgnoreFile, options.UseIgnoreFile)
	options.CopyToClipboard = resolveBoolean(changed(copyFlagName), flags.copy, configuration.Clipboard, options.CopyToClipboard)
	if changed(modelFlagName) {
		options.TokenizerModel = flags.model
	} else if configuration.Tokens.Model != "" {
		options.TokenizerModel = configuration.Tokens.Model
	}
	return options
}

func resolveBoolean(flagChanged bool, flagValue bool, configured *bool, fallback bool) bool {
	if flagChanged {
		return flagValue
	}
	if configured != nil {
		return *configured
	}
	return fallback
}

// runFlatten executes one flatten run and reports the outcome.
func runFlatten(stdout io.Writer, logger *zap.Logger, copier clipboard.Copier, options flatten.Options) error {
	colored := false
	if file, ok := stdout.(*os.File); ok {
		colored = output.ColorEnabled(file)
	}
	reporter := output.NewReporter(stdout, colored)
	reporter.Scanning(options.Root)

	result, runError := flatten.NewService(logger, copier).Run(options)
	if runError != nil {
		return runError
	}
	reporter.Result(result)
	return nil
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), initCompletedMessageFormat, path)
			return nil
		},
	}
	registerToggle(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggle(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
