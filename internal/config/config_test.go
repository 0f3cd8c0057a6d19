package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testDataDirectory   = "/data"
	testHomeDirectory   = "/home/walker"
	testExclusionFile   = "/etc/fzwalk.ignore"
	testFavouritePath   = "/elsewhere/fav.txt"
	testMissingIncluded = "/elsewhere/missing.txt"
)

// mapEnvironment is an Environment backed by a map.
type mapEnvironment struct {
	variables        map[string]string
	workingDirectory string
	workingError     error
}

func (environment mapEnvironment) LookupEnv(key string) (string, bool) {
	value, found := environment.variables[key]
	return value, found
}

func (environment mapEnvironment) WorkingDirectory() (string, error) {
	return environment.workingDirectory, environment.workingError
}

func newScenarioFileSystem(testingInstance *testing.T) afero.Fs {
	testingInstance.Helper()
	fileSystem := afero.NewMemMapFs()
	for _, directoryPath := range []string{
		filepath.Join(testDataDirectory, ".git"),
		filepath.Join(testDataDirectory, "sub"),
		filepath.Join(testHomeDirectory, "projects"),
		"/elsewhere",
		"/etc",
	} {
		require.NoError(testingInstance, fileSystem.MkdirAll(directoryPath, 0o755))
	}
	for filePath, content := range map[string]string{
		filepath.Join(testDataDirectory, "a.txt"):          "a",
		filepath.Join(testDataDirectory, ".git", "config"): "[core]",
		filepath.Join(testDataDirectory, "sub", "b.txt"):   "b",
		testFavouritePath: "fav",
		testExclusionFile: "# build outputs\nNode_Modules\n\n  target/  \n",
	} {
		require.NoError(testingInstance, afero.WriteFile(fileSystem, filePath, []byte(content), 0o644))
	}
	return fileSystem
}

func TestLoadExclusionFileSkipsCommentsAndBlankLines(testingInstance *testing.T) {
	fileSystem := newScenarioFileSystem(testingInstance)
	excludedNames, loadError := LoadExclusionFile(fileSystem, testExclusionFile)
	require.NoError(testingInstance, loadError)
	require.Equal(testingInstance, []string{"Node_Modules", "target/"}, excludedNames)

	_, missingError := LoadExclusionFile(fileSystem, "/etc/absent.ignore")
	require.Error(testingInstance, missingError)
}

func TestResolveNormalizesStartDirectory(testingInstance *testing.T) {
	fileSystem := newScenarioFileSystem(testingInstance)
	testCases := []struct {
		name          string
		path          string
		environment   mapEnvironment
		expectedStart string
	}{
		{
			name:          "absolute",
			path:          testDataDirectory,
			environment:   mapEnvironment{workingDirectory: "/"},
			expectedStart: "/data/",
		},
		{
			name:          "trailing_separators",
			path:          "/data//",
			environment:   mapEnvironment{workingDirectory: "/"},
			expectedStart: "/data/",
		},
		{
			name:          "relative",
			path:          "sub",
			environment:   mapEnvironment{workingDirectory: testDataDirectory},
			expectedStart: "/data/sub/",
		},
		{
			name:          "empty_uses_working_directory",
			path:          "",
			environment:   mapEnvironment{workingDirectory: testDataDirectory},
			expectedStart: "/data/",
		},
		{
			name: "home_marker",
			path: "~/projects",
			environment: mapEnvironment{
				variables:        map[string]string{"HOME": testHomeDirectory},
				workingDirectory: "/",
			},
			expectedStart: "/home/walker/projects/",
		},
		{
			name:          "filesystem_root",
			path:          "/",
			environment:   mapEnvironment{workingDirectory: "/"},
			expectedStart: "/",
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			commandLine := DefaultCommandLine()
			commandLine.Path = testCase.path
			configuration, resolveError := Resolve(commandLine, testCase.environment, fileSystem, zap.NewNop())
			require.NoError(testingInstance, resolveError)
			require.Equal(testingInstance, testCase.expectedStart, configuration.StartDirectory)
			require.Equal(testingInstance, UnlimitedDepth, configuration.MaxDepth)
			require.True(testingInstance, configuration.ShowFiles)
			require.True(testingInstance, configuration.ShowDirectories)
			require.True(testingInstance, configuration.FollowLinks)
		})
	}
}

func TestResolveFailures(testingInstance *testing.T) {
	fileSystem := newScenarioFileSystem(testingInstance)
	rootEnvironment := mapEnvironment{workingDirectory: "/"}
	testCases := []struct {
		name          string
		mutate        func(commandLine *CommandLine)
		environment   mapEnvironment
		expectedError error
	}{
		{
			name:          "home_unset",
			mutate:        func(commandLine *CommandLine) { commandLine.Path = "~/projects" },
			environment:   rootEnvironment,
			expectedError: ErrHomeUnset,
		},
		{
			name:          "start_is_file",
			mutate:        func(commandLine *CommandLine) { commandLine.Path = "/data/a.txt" },
			environment:   rootEnvironment,
			expectedError: ErrStartNotDirectory,
		},
		{
			name: "nothing_to_show",
			mutate: func(commandLine *CommandLine) {
				commandLine.Path = testDataDirectory
				commandLine.HideFiles = true
				commandLine.HideDirectories = true
				commandLine.Included = []string{testMissingIncluded}
			},
			environment:   rootEnvironment,
			expectedError: ErrNothingToShow,
		},
		{
			name: "invalid_depth",
			mutate: func(commandLine *CommandLine) {
				commandLine.Path = testDataDirectory
				commandLine.MaxDepth = -2
			},
			environment:   rootEnvironment,
			expectedError: ErrInvalidMaxDepth,
		},
		{
			name: "invalid_workers",
			mutate: func(commandLine *CommandLine) {
				commandLine.Path = testDataDirectory
				commandLine.Workers = 0
			},
			environment:   rootEnvironment,
			expectedError: ErrInvalidWorkers,
		},
		{
			name: "parallel_deepest_first",
			mutate: func(commandLine *CommandLine) {
				commandLine.Path = testDataDirectory
				commandLine.Workers = 4
				commandLine.DeepestFirst = true
			},
			environment:   rootEnvironment,
			expectedError: ErrParallelOrdering,
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			commandLine := DefaultCommandLine()
			testCase.mutate(&commandLine)
			_, resolveError := Resolve(commandLine, testCase.environment, fileSystem, zap.NewNop())
			require.Error(testingInstance, resolveError)
			require.True(testingInstance, errors.Is(resolveError, testCase.expectedError), resolveError.Error())
		})
	}

	commandLine := DefaultCommandLine()
	commandLine.Path = "/absent"
	_, missingError := Resolve(commandLine, rootEnvironment, fileSystem, zap.NewNop())
	require.Error(testingInstance, missingError)

	commandLine = DefaultCommandLine()
	_, workingError := Resolve(commandLine, mapEnvironment{workingError: errors.New("gone")}, fileSystem, zap.NewNop())
	require.Error(testingInstance, workingError)
}

func TestResolveSanityCheckPassesWithShowRootOrIncluded(testingInstance *testing.T) {
	fileSystem := newScenarioFileSystem(testingInstance)
	commandLine := DefaultCommandLine()
	commandLine.Path = testDataDirectory
	commandLine.HideFiles = true
	commandLine.HideDirectories = true
	commandLine.ShowRoot = true
	_, showRootError := Resolve(commandLine, mapEnvironment{workingDirectory: "/"}, fileSystem, nil)
	require.NoError(testingInstance, showRootError)

	commandLine.ShowRoot = false
	commandLine.Included = []string{testFavouritePath}
	configuration, includedError := Resolve(commandLine, mapEnvironment{workingDirectory: "/"}, fileSystem, nil)
	require.NoError(testingInstance, includedError)
	require.Equal(testingInstance, []string{testFavouritePath}, configuration.IncludedPaths)
}

func TestResolveExclusionsAndIncludedPaths(testingInstance *testing.T) {
	fileSystem := newScenarioFileSystem(testingInstance)
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)

	commandLine := DefaultCommandLine()
	commandLine.Path = testDataDirectory
	commandLine.Excluded = []string{" Sub/ ", "sub", ""}
	commandLine.ExclusionFiles = []string{testExclusionFile}
	commandLine.Included = []string{testFavouritePath, testMissingIncluded, testFavouritePath}
	commandLine.MaxDepth = 1

	configuration, resolveError := Resolve(commandLine, mapEnvironment{workingDirectory: "/"}, fileSystem, zap.New(observedCore))
	require.NoError(testingInstance, resolveError)

	require.Len(testingInstance, configuration.ExcludedNames, 3)
	require.True(testingInstance, configuration.IsExcluded("SUB"))
	require.True(testingInstance, configuration.IsExcluded("node_modules"))
	require.True(testingInstance, configuration.IsExcluded("Target"))
	require.False(testingInstance, configuration.IsExcluded("subway"))
	require.Equal(testingInstance, []string{testFavouritePath}, configuration.IncludedPaths)
	require.Equal(testingInstance, 1, configuration.MaxDepth)
	require.Equal(testingInstance, 1, observedLogs.FilterMessage(debugIncludedMissing).Len())
}

func TestConfigurationDisplay(testingInstance *testing.T) {
	configuration := Configuration{StartDirectory: "/data/", Separator: '/'}
	require.Equal(testingInstance, "./sub/b.txt", configuration.Display("/data/sub/b.txt"))
	require.Equal(testingInstance, "./", configuration.Display("/data/"))
	require.Equal(testingInstance, "./", configuration.Display("/data"))

	configuration.AbsolutePaths = true
	require.Equal(testingInstance, "/data/sub/b.txt", configuration.Display("/data/sub/b.txt"))
}
