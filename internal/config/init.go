package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/temirov/fzwalk/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# fzwalk defaults; command line flags take precedence.
included: []
excluded:
  - node_modules
  - target
exclude_from: []
show_root: false
max_depth: -1
dont_traverse_links: false
hide_files: false
hide_directories: false
show_dots: false
show_hidden: false
absolute_paths: false
verbose: false
deepest_first: false
workers: 1
null: false
clipboard: false
`

	errorInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	errorInitHomeUnsetFormat        = "%w: %s is required for the global configuration"
	errorInitCreateDirectoryFormat  = "create configuration directory %s: %w"
	errorInitUnsupportedTarget      = "unsupported init target %q"
	errorInitExistsFormat           = "configuration file already exists at %s"
	errorInitInspectFormat          = "inspect configuration path %s: %w"
	errorInitWriteFormat            = "write configuration to %s: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	Environment      Environment
	// FileSystem defaults to the operating system filesystem.
	FileSystem afero.Fs
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	environment := options.Environment
	if environment == nil {
		environment = OSEnvironment{}
	}
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := environment.WorkingDirectory()
			if err != nil {
				return "", fmt.Errorf(errorInitWorkingDirectoryFormat, err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory, homeDefined := environment.LookupEnv(utils.HomeEnvironmentVariable)
		if !homeDefined || homeDirectory == "" {
			return "", fmt.Errorf(errorInitHomeUnsetFormat, ErrHomeUnset, utils.HomeEnvironmentVariable)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := fileSystem.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf(errorInitCreateDirectoryFormat, configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf(errorInitUnsupportedTarget, target)
	}

	if _, err := fileSystem.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(errorInitExistsFormat, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(errorInitInspectFormat, destinationPath, err)
	}

	if err := afero.WriteFile(fileSystem, destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, err)
	}

	return destinationPath, nil
}
