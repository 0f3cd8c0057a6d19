// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/fzwalk/internal/config"
	"github.com/temirov/fzwalk/internal/output"
	"github.com/temirov/fzwalk/internal/services/clipboard"
	"github.com/temirov/fzwalk/internal/services/stream"
	"github.com/temirov/fzwalk/internal/utils"
	"github.com/temirov/fzwalk/internal/walker"
)

const (
	versionFlagName      = "version"
	configFlagName       = "config"
	globalFlagName       = "global"
	forceFlagName        = "force"
	rootUse              = utils.ApplicationName + " [path]"
	rootShortDescription = "list files and directories for fuzzy finders"
	rootLongDescription  = `fzwalk walks a directory tree and prints one path per line, relative to the
start directory, ready to be piped into a fuzzy finder.
Dot-prefixed and platform-hidden entries are skipped unless requested; excluded names
are neither printed nor descended into. Defaults come from ~/.fzwalk/config.yaml,
./.fzwalk.yaml and FZWALK_* environment variables; explicit flags take precedence.
Switches accept a value as --flag=value, -f=value, or as the next argument
(true/false, yes/no, on/off, 1/0) unless that argument names an existing path.`
	rootUsageExample = `  # List the current directory
  fzwalk

  # Directories only, two levels deep, skipping build outputs
  fzwalk -f -m 2 -e node_modules -e target ~/src

  # Always offer a favourite file and show dotfiles
  fzwalk -I ~/notes/todo.md -D ~`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./.fzwalk.yaml, or to ~/.fzwalk/config.yaml with --global.`

	versionFlagDescription           = "display application version"
	configFlagDescription            = "configuration file to use instead of ./.fzwalk.yaml"
	includedFlagDescription          = "path always printed first, as given (repeatable)"
	excludedFlagDescription          = "name that is neither printed nor descended into, case-insensitive (repeatable)"
	excludeFromFlagDescription       = "file listing excluded names, one per line (repeatable)"
	showRootFlagDescription          = "print the start directory itself"
	maxDepthFlagDescription          = "maximum depth below the start directory, -1 for unlimited"
	dontTraverseLinksFlagDescription = "do not descend into symlinked directories"
	hideFilesFlagDescription         = "do not print files"
	hideDirectoriesFlagDescription   = "do not print directories (they are still walked)"
	showDotsFlagDescription          = "include entries whose name starts with a dot"
	showHiddenFlagDescription        = "include entries carrying the platform hidden attribute"
	absolutePathsFlagDescription     = "print absolute paths instead of ./-relative ones"
	verboseFlagDescription           = "report skipped entries on stderr"
	deepestFirstFlagDescription      = "print the contents of subdirectories before their parents"
	workersFlagDescription           = "number of directories read concurrently; output order is not stable above 1"
	nullFlagDescription              = "terminate lines with NUL instead of newline"
	clipboardFlagDescription         = "also copy the output to the system clipboard"
	globalFlagDescription            = "write the global configuration under the home directory"
	forceFlagDescription             = "overwrite an existing configuration file"

	initializedMessageFormat = "configuration written to %s\n"
	errorLoadConfigFormat    = "loading configuration: %w"
	errorResolveFormat       = "resolving %s: %w"
)

// dependencies are the process resources a command run touches.
type dependencies struct {
	stdout      io.Writer
	stderr      io.Writer
	environment config.Environment
	fileSystem  afero.Fs
	copier      clipboard.Copier
	probe       walker.AttributeProbe
}

func defaultDependencies() dependencies {
	return dependencies{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		environment: config.OSEnvironment{},
		fileSystem:  afero.NewOsFs(),
		copier:      clipboard.NewService(),
	}
}

// Execute runs the fzwalk application.
func Execute() error {
	deps := defaultDependencies()
	rootCommand := createRootCommand(deps)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:], existingPath(deps)))
	return rootCommand.Execute()
}

// existingPath reports whether an argument names a path, relative arguments being
// resolved against the working directory.
func existingPath(deps dependencies) func(string) bool {
	return func(argument string) bool {
		candidate := argument
		if !filepath.IsAbs(candidate) {
			workingDirectory, err := deps.environment.WorkingDirectory()
			if err != nil {
				return false
			}
			candidate = filepath.Join(workingDirectory, candidate)
		}
		exists, err := afero.Exists(deps.fileSystem, candidate)
		return err == nil && exists
	}
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	var showVersion bool
	var configurationPath string
	commandLine := config.DefaultCommandLine()

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := io.WriteString(deps.stdout, utils.FormatVersion())
				return err
			}
			if len(arguments) > 0 {
				commandLine.Path = arguments[0]
			}
			applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
				ExplicitFilePath: configurationPath,
				Environment:      deps.environment,
				FileSystem:       deps.fileSystem,
			})
			if loadError != nil {
				return fmt.Errorf(errorLoadConfigFormat, loadError)
			}
			resolvedCommandLine := commandLine
			applicationConfiguration.ApplyDefaults(&resolvedCommandLine, func(flagName string) bool {
				return command.Flags().Changed(flagName)
			})
			return runWalk(command.Context(), deps, resolvedCommandLine)
		},
	}
	rootCommand.SetOut(deps.stdout)
	rootCommand.SetErr(deps.stderr)

	flagSet := rootCommand.Flags()
	flagSet.BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	flagSet.StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	flagSet.StringArrayVarP(&commandLine.Included, config.FlagName(config.KeyIncluded), "I", nil, includedFlagDescription)
	flagSet.StringArrayVarP(&commandLine.Excluded, config.FlagName(config.KeyExcluded), "e", nil, excludedFlagDescription)
	flagSet.StringArrayVarP(&commandLine.ExclusionFiles, config.FlagName(config.KeyExcludeFrom), "E", nil, excludeFromFlagDescription)
	flagSet.IntVarP(&commandLine.MaxDepth, config.FlagName(config.KeyMaxDepth), "m", commandLine.MaxDepth, maxDepthFlagDescription)
	flagSet.IntVarP(&commandLine.Workers, config.FlagName(config.KeyWorkers), "w", commandLine.Workers, workersFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.ShowRoot, config.FlagName(config.KeyShowRoot), "R", false, showRootFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.DontTraverseLinks, config.FlagName(config.KeyDontTraverseLinks), "l", false, dontTraverseLinksFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.HideFiles, config.FlagName(config.KeyHideFiles), "f", false, hideFilesFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.HideDirectories, config.FlagName(config.KeyHideDirectories), "d", false, hideDirectoriesFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.ShowDots, config.FlagName(config.KeyShowDots), "D", false, showDotsFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.ShowHidden, config.FlagName(config.KeyShowHidden), "H", false, showHiddenFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.AbsolutePaths, config.FlagName(config.KeyAbsolutePaths), "a", false, absolutePathsFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.Verbose, config.FlagName(config.KeyVerbose), "v", false, verboseFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.DeepestFirst, config.FlagName(config.KeyDeepestFirst), "L", false, deepestFirstFlagDescription)
	registerBooleanFlagP(flagSet, &commandLine.NullTerminated, config.FlagName(config.KeyNull), "0", false, nullFlagDescription)
	registerBooleanFlag(flagSet, &commandLine.CopyToClipboard, config.FlagName(config.KeyClipboard), false, clipboardFlagDescription)

	rootCommand.AddCommand(createInitCommand(deps))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func createInitCommand(deps dependencies) *cobra.Command {
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
			destinationPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:      target,
				Force:       force,
				Environment: deps.environment,
				FileSystem:  deps.fileSystem,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.stdout, initializedMessageFormat, destinationPath)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runWalk resolves the command line and streams the walk into the line renderer.
func runWalk(ctx context.Context, deps dependencies, commandLine config.CommandLine) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := utils.NewWriterLogger(commandLine.Verbose, zapcore.AddSync(deps.stderr))
	defer func() {
		_ = logger.Sync()
	}()

	configuration, resolveError := config.Resolve(commandLine, deps.environment, deps.fileSystem, logger)
	if resolveError != nil {
		displayPath := commandLine.Path
		if displayPath == "" {
			displayPath = "."
		}
		return fmt.Errorf(errorResolveFormat, displayPath, resolveError)
	}

	rawOptions := output.RawOptions{NullTerminated: configuration.NullTerminated}
	if configuration.CopyToClipboard {
		rawOptions.Copier = deps.copier
	}
	renderer := output.NewRawStreamRenderer(deps.stdout, rawOptions)
	defer func() {
		if flushErr := renderer.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}()

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		return stream.StreamEntries(streamCtx, stream.TreeOptions{
			Configuration:  configuration,
			FileSystem:     deps.fileSystem,
			AttributeProbe: deps.probe,
			Logger:         logger,
		}, events)
	}
	consumer := func(event stream.Event) error {
		return renderer.Handle(event)
	}

	if dispatchError := dispatchStream(ctx, producer, consumer); dispatchError != nil {
		logger.Debug("walk aborted", zap.Error(dispatchError))
		return dispatchError
	}
	return nil
}

func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
