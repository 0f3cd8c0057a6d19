package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/temirov/fzwalk/internal/utils"
)

// Configuration keys shared by files, environment variables and flags.
// A flag name is its key with underscores replaced by dashes.
const (
	KeyIncluded          = "included"
	KeyExcluded          = "excluded"
	KeyExcludeFrom       = "exclude_from"
	KeyShowRoot          = "show_root"
	KeyMaxDepth          = "max_depth"
	KeyDontTraverseLinks = "dont_traverse_links"
	KeyHideFiles         = "hide_files"
	KeyHideDirectories   = "hide_directories"
	KeyShowDots          = "show_dots"
	KeyShowHidden        = "show_hidden"
	KeyAbsolutePaths     = "absolute_paths"
	KeyVerbose           = "verbose"
	KeyDeepestFirst      = "deepest_first"
	KeyWorkers           = "workers"
	KeyNull              = "null"
	KeyClipboard         = "clipboard"

	environmentKeySeparator = "_"
	flagNameSeparator       = "-"

	errorWorkingDirectoryConfigFormat = "determine working directory: %w"
	errorResolveConfigPathFormat      = "resolve configuration path %s: %w"
	errorStatConfigFormat             = "stat configuration %s: %w"
	errorConfigIsDirectoryFormat      = "configuration path %s is a directory"
	errorReadConfigFormat             = "read configuration from %s: %w"
	errorDecodeConfigFormat           = "decode configuration from %s: %w"
	errorDecodeEnvironmentFormat      = "decode %s environment variables: %w"
)

var configurationKeys = []string{
	KeyIncluded, KeyExcluded, KeyExcludeFrom, KeyShowRoot, KeyMaxDepth, KeyDontTraverseLinks,
	KeyHideFiles, KeyHideDirectories, KeyShowDots, KeyShowHidden, KeyAbsolutePaths, KeyVerbose,
	KeyDeepestFirst, KeyWorkers, KeyNull, KeyClipboard,
}

// FlagName returns the long command line flag bound to a configuration key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, environmentKeySeparator, flagNameSeparator)
}

// EnvironmentVariableName returns the environment variable bound to a configuration key.
func EnvironmentVariableName(key string) string {
	return utils.EnvironmentPrefix + environmentKeySeparator + strings.ToUpper(key)
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	Environment      Environment
	// FileSystem defaults to the operating system filesystem.
	FileSystem afero.Fs
}

// ApplicationConfiguration holds defaults read from files and the environment.
// Nil fields were not set by any source.
type ApplicationConfiguration struct {
	Included          []string `mapstructure:"included"`
	Excluded          []string `mapstructure:"excluded"`
	ExcludeFrom       []string `mapstructure:"exclude_from"`
	ShowRoot          *bool    `mapstructure:"show_root"`
	MaxDepth          *int     `mapstructure:"max_depth"`
	DontTraverseLinks *bool    `mapstructure:"dont_traverse_links"`
	HideFiles         *bool    `mapstructure:"hide_files"`
	HideDirectories   *bool    `mapstructure:"hide_directories"`
	ShowDots          *bool    `mapstructure:"show_dots"`
	ShowHidden        *bool    `mapstructure:"show_hidden"`
	AbsolutePaths     *bool    `mapstructure:"absolute_paths"`
	Verbose           *bool    `mapstructure:"verbose"`
	DeepestFirst      *bool    `mapstructure:"deepest_first"`
	Workers           *int     `mapstructure:"workers"`
	Null              *bool    `mapstructure:"null"`
	Clipboard         *bool    `mapstructure:"clipboard"`
}

// LoadApplicationConfiguration merges the global file, the local file and the environment.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	environment := options.Environment
	if environment == nil {
		environment = OSEnvironment{}
	}
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := environment.WorkingDirectory()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryConfigFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeDefined := environment.LookupEnv(utils.HomeEnvironmentVariable); homeDefined && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(fileSystem, globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(fileSystem, localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	environmentConfig, environmentErr := loadConfigurationFromEnvironment(environment)
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	merged = merged.Merge(environmentConfig)

	merged.Included = utils.DeduplicatePatterns(merged.Included)
	merged.Excluded = utils.DeduplicatePatterns(merged.Excluded)
	merged.ExcludeFrom = utils.DeduplicatePatterns(merged.ExcludeFrom)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(errorResolveConfigPathFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(fileSystem afero.Fs, path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := fileSystem.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetFs(fileSystem)
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigFormat, path, decodeErr)
	}
	return config, nil
}

// loadConfigurationFromEnvironment decodes FZWALK_* variables; list values are comma separated.
func loadConfigurationFromEnvironment(environment Environment) (ApplicationConfiguration, error) {
	reader := viper.New()
	for _, key := range configurationKeys {
		value, defined := environment.LookupEnv(EnvironmentVariableName(key))
		if !defined || strings.TrimSpace(value) == "" {
			continue
		}
		reader.Set(key, strings.TrimSpace(value))
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeEnvironmentFormat, utils.EnvironmentPrefix, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Lists accumulate; scalars are replaced when set in override.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Included = appendList(result.Included, override.Included)
	result.Excluded = appendList(result.Excluded, override.Excluded)
	result.ExcludeFrom = appendList(result.ExcludeFrom, override.ExcludeFrom)
	result.ShowRoot = overrideBool(result.ShowRoot, override.ShowRoot)
	result.MaxDepth = overrideInt(result.MaxDepth, override.MaxDepth)
	result.DontTraverseLinks = overrideBool(result.DontTraverseLinks, override.DontTraverseLinks)
	result.HideFiles = overrideBool(result.HideFiles, override.HideFiles)
	result.HideDirectories = overrideBool(result.HideDirectories, override.HideDirectories)
	result.ShowDots = overrideBool(result.ShowDots, override.ShowDots)
	result.ShowHidden = overrideBool(result.ShowHidden, override.ShowHidden)
	result.AbsolutePaths = overrideBool(result.AbsolutePaths, override.AbsolutePaths)
	result.Verbose = overrideBool(result.Verbose, override.Verbose)
	result.DeepestFirst = overrideBool(result.DeepestFirst, override.DeepestFirst)
	result.Workers = overrideInt(result.Workers, override.Workers)
	result.Null = overrideBool(result.Null, override.Null)
	result.Clipboard = overrideBool(result.Clipboard, override.Clipboard)
	return result
}

// ApplyDefaults fills commandLine from the configuration for every flag the user did not set.
// Configured lists are prepended to the command line lists.
func (config ApplicationConfiguration) ApplyDefaults(commandLine *CommandLine, explicitlySet func(flagName string) bool) {
	if explicitlySet == nil {
		explicitlySet = func(string) bool { return false }
	}
	applyBool := func(key string, value *bool, target *bool) {
		if value != nil && !explicitlySet(FlagName(key)) {
			*target = *value
		}
	}
	applyInt := func(key string, value *int, target *int) {
		if value != nil && !explicitlySet(FlagName(key)) {
			*target = *value
		}
	}

	commandLine.Included = appendList(config.Included, commandLine.Included)
	commandLine.Excluded = appendList(config.Excluded, commandLine.Excluded)
	commandLine.ExclusionFiles = appendList(config.ExcludeFrom, commandLine.ExclusionFiles)

	applyBool(KeyShowRoot, config.ShowRoot, &commandLine.ShowRoot)
	applyInt(KeyMaxDepth, config.MaxDepth, &commandLine.MaxDepth)
	applyBool(KeyDontTraverseLinks, config.DontTraverseLinks, &commandLine.DontTraverseLinks)
	applyBool(KeyHideFiles, config.HideFiles, &commandLine.HideFiles)
	applyBool(KeyHideDirectories, config.HideDirectories, &commandLine.HideDirectories)
	applyBool(KeyShowDots, config.ShowDots, &commandLine.ShowDots)
	applyBool(KeyShowHidden, config.ShowHidden, &commandLine.ShowHidden)
	applyBool(KeyAbsolutePaths, config.AbsolutePaths, &commandLine.AbsolutePaths)
	applyBool(KeyVerbose, config.Verbose, &commandLine.Verbose)
	applyBool(KeyDeepestFirst, config.DeepestFirst, &commandLine.DeepestFirst)
	applyInt(KeyWorkers, config.Workers, &commandLine.Workers)
	applyBool(KeyNull, config.Null, &commandLine.NullTerminated)
	applyBool(KeyClipboard, config.Clipboard, &commandLine.CopyToClipboard)
}

func appendList(base []string, additions []string) []string {
	if len(base) == 0 && len(additions) == 0 {
		return nil
	}
	combined := make([]string, 0, len(base)+len(additions))
	combined = append(combined, base...)
	combined = append(combined, additions...)
	return utils.DeduplicatePatterns(combined)
}

func overrideBool(current *bool, override *bool) *bool {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}

func overrideInt(current *int, override *int) *int {
	if override == nil {
		return current
	}
	cloned := *override
	return &cloned
}
