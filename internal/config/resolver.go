package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/fzwalk/internal/utils"
)

// UnlimitedDepth is the MaxDepth of a walk without a depth limit.
const UnlimitedDepth = math.MaxInt

// unlimitedDepthFlagValue is the command line spelling of UnlimitedDepth.
const unlimitedDepthFlagValue = -1

const (
	errorWorkingDirectoryFormat  = "unable to determine working directory: %w"
	errorStartStatFormat         = "could not get metadata for %s: %w"
	errorStartNotDirectoryFormat = "%w: %s"
	errorHomeUnsetFormat         = "%w: %s is required to expand %q"
	errorExclusionFileFormat     = "reading excluded names from %s: %w"
	errorMaxDepthFormat          = "%w: %d"
	errorWorkersFormat           = "%w: %d"

	debugIncludedMissing = "skipping included path since it does not exist"
)

var (
	// ErrHomeUnset reports a start path using ~ without HOME defined.
	ErrHomeUnset = errors.New("home environment variable needs to be defined")
	// ErrStartNotDirectory reports a start path that is not a directory.
	ErrStartNotDirectory = errors.New("path needs to be a directory")
	// ErrNothingToShow reports a configuration that can never emit an entry.
	ErrNothingToShow = errors.New("nothing to show: files and directories are hidden, no included paths and no root")
	// ErrInvalidMaxDepth reports a depth limit below -1.
	ErrInvalidMaxDepth = errors.New("max depth must be -1 (unlimited) or non-negative")
	// ErrInvalidWorkers reports a non-positive worker count.
	ErrInvalidWorkers = errors.New("workers count must be positive")
	// ErrParallelOrdering reports deepest-first output requested from the parallel walker.
	ErrParallelOrdering = errors.New("deepest-first output requires a single worker")
)

// CommandLine is the raw user input before resolution.
type CommandLine struct {
	Path              string
	Included          []string
	Excluded          []string
	ExclusionFiles    []string
	ShowRoot          bool
	MaxDepth          int
	DontTraverseLinks bool
	HideFiles         bool
	HideDirectories   bool
	ShowDots          bool
	ShowHidden        bool
	AbsolutePaths     bool
	Verbose           bool
	DeepestFirst      bool
	Workers           int
	NullTerminated    bool
	CopyToClipboard   bool
}

// DefaultCommandLine returns the input used when no flag is given.
func DefaultCommandLine() CommandLine {
	return CommandLine{MaxDepth: unlimitedDepthFlagValue, Workers: 1}
}

// Configuration is the resolved, immutable walk configuration.
type Configuration struct {
	// StartDirectory is absolute, separator-normalized and ends with Separator.
	StartDirectory string
	Separator      rune
	// MaxDepth is UnlimitedDepth unless limited; children of the root have depth 1.
	MaxDepth int
	// ExcludedNames holds case-folded base names.
	ExcludedNames map[string]struct{}
	// IncludedPaths existed when the configuration was resolved.
	IncludedPaths   []string
	ShowDirectories bool
	ShowFiles       bool
	ShowDots        bool
	ShowHidden      bool
	FollowLinks     bool
	ShowRoot        bool
	AbsolutePaths   bool
	Verbose         bool
	DeepestFirst    bool
	Workers         int
	NullTerminated  bool
	CopyToClipboard bool
}

// IsExcluded reports whether a base name matches an excluded name, ignoring case.
func (configuration Configuration) IsExcluded(baseName string) bool {
	if len(configuration.ExcludedNames) == 0 {
		return false
	}
	_, excluded := configuration.ExcludedNames[strings.ToLower(baseName)]
	return excluded
}

// Display converts an absolute path into its output form.
func (configuration Configuration) Display(path string) string {
	normalizedPath := utils.NormalizeSeparatorsTo(path, configuration.Separator)
	if configuration.AbsolutePaths {
		return normalizedPath
	}
	return utils.TrimToRoot(normalizedPath, configuration.StartDirectory, configuration.Separator)
}

// Resolve validates the command line and produces a Configuration.
// Every returned error is a startup failure; no traversal is possible without a valid root.
func Resolve(commandLine CommandLine, environment Environment, fileSystem afero.Fs, logger *zap.Logger) (Configuration, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if environment == nil {
		environment = OSEnvironment{}
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	if commandLine.MaxDepth < unlimitedDepthFlagValue {
		return Configuration{}, fmt.Errorf(errorMaxDepthFormat, ErrInvalidMaxDepth, commandLine.MaxDepth)
	}
	if commandLine.Workers < 1 {
		return Configuration{}, fmt.Errorf(errorWorkersFormat, ErrInvalidWorkers, commandLine.Workers)
	}
	if commandLine.Workers > 1 && commandLine.DeepestFirst {
		return Configuration{}, ErrParallelOrdering
	}

	separator := rune(os.PathSeparator)
	startDirectory, startError := resolveStartDirectory(commandLine.Path, environment, fileSystem, separator)
	if startError != nil {
		return Configuration{}, startError
	}

	excludedNames := append([]string{}, commandLine.Excluded...)
	for _, exclusionFilePath := range commandLine.ExclusionFiles {
		fileNames, loadError := LoadExclusionFile(fileSystem, exclusionFilePath)
		if loadError != nil {
			return Configuration{}, loadError
		}
		excludedNames = append(excludedNames, fileNames...)
	}
	excludedSet := make(map[string]struct{})
	for _, foldedName := range utils.FoldNames(excludedNames) {
		excludedSet[foldedName] = struct{}{}
	}

	maxDepth := UnlimitedDepth
	if commandLine.MaxDepth >= 0 {
		maxDepth = commandLine.MaxDepth
	}

	configuration := Configuration{
		StartDirectory:  startDirectory,
		Separator:       separator,
		MaxDepth:        maxDepth,
		ExcludedNames:   excludedSet,
		IncludedPaths:   resolveIncludedPaths(commandLine.Included, fileSystem, separator, logger),
		ShowDirectories: !commandLine.HideDirectories,
		ShowFiles:       !commandLine.HideFiles,
		ShowDots:        commandLine.ShowDots,
		ShowHidden:      commandLine.ShowHidden,
		FollowLinks:     !commandLine.DontTraverseLinks,
		ShowRoot:        commandLine.ShowRoot,
		AbsolutePaths:   commandLine.AbsolutePaths,
		Verbose:         commandLine.Verbose,
		DeepestFirst:    commandLine.DeepestFirst,
		Workers:         commandLine.Workers,
		NullTerminated:  commandLine.NullTerminated,
		CopyToClipboard: commandLine.CopyToClipboard,
	}

	if !configuration.ShowFiles && !configuration.ShowDirectories && len(configuration.IncludedPaths) == 0 && !configuration.ShowRoot {
		return Configuration{}, ErrNothingToShow
	}

	logger.Debug("resolved configuration",
		zap.String("start", configuration.StartDirectory),
		zap.Int("workers", configuration.Workers),
		zap.Int("excluded", len(configuration.ExcludedNames)),
		zap.Int("included", len(configuration.IncludedPaths)),
	)
	return configuration, nil
}

// resolveStartDirectory expands, absolutizes, validates and normalizes the start path.
func resolveStartDirectory(path string, environment Environment, fileSystem afero.Fs, separator rune) (string, error) {
	workingDirectory, workingDirectoryError := environment.WorkingDirectory()
	if path == "" {
		if workingDirectoryError != nil {
			return "", fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		path = workingDirectory
	}

	if utils.ContainsHomeMarker(path) {
		homeDirectory, homeDefined := environment.LookupEnv(utils.HomeEnvironmentVariable)
		if !homeDefined || homeDirectory == "" {
			return "", fmt.Errorf(errorHomeUnsetFormat, ErrHomeUnset, utils.HomeEnvironmentVariable, path)
		}
		path = utils.ExpandHome(path, homeDirectory)
	}

	if !filepath.IsAbs(path) {
		if workingDirectoryError != nil {
			return "", fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		path = filepath.Join(workingDirectory, path)
	}
	cleanPath := filepath.Clean(utils.NormalizeSeparatorsTo(path, separator))

	startInfo, statError := fileSystem.Stat(cleanPath)
	if statError != nil {
		return "", fmt.Errorf(errorStartStatFormat, cleanPath, statError)
	}
	if !startInfo.IsDir() {
		return "", fmt.Errorf(errorStartNotDirectoryFormat, ErrStartNotDirectory, cleanPath)
	}

	return utils.EnsureTrailingSeparator(utils.NormalizeSeparatorsTo(cleanPath, separator), separator), nil
}

// resolveIncludedPaths keeps included paths that currently exist.
func resolveIncludedPaths(included []string, fileSystem afero.Fs, separator rune, logger *zap.Logger) []string {
	var existing []string
	for _, includedPath := range utils.DeduplicatePatterns(included) {
		trimmedPath := strings.TrimSpace(includedPath)
		if trimmedPath == "" {
			continue
		}
		normalizedPath := utils.NormalizeSeparatorsTo(trimmedPath, separator)
		if _, statError := fileSystem.Stat(normalizedPath); statError != nil {
			logger.Debug(debugIncludedMissing, zap.String("path", normalizedPath), zap.Error(statError))
			continue
		}
		existing = append(existing, normalizedPath)
	}
	return existing
}
