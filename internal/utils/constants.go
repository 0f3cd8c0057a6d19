package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "fzwalk"
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".fzwalk.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home that holds ConfigFileName.
	GlobalConfigDirectoryName = ".fzwalk"
	// EnvironmentPrefix prefixes environment variables that override configuration defaults.
	EnvironmentPrefix = "FZWALK"
	// HomeEnvironmentVariable is consulted when a path contains HomeMarker.
	HomeEnvironmentVariable = "HOME"
	// HomeMarker is the home-directory shorthand accepted in the start path.
	HomeMarker = "~"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal errors returned by the command.
	ApplicationExecutionFailedMessage = "fzwalk failed"
)
