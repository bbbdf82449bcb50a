package utils

const (
	// ApplicationName is the command name and the prefix of its configuration files.
	ApplicationName = "codemerge"
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".codemerge.yaml"
	// GlobalConfigDirectoryName holds the global configuration under the home directory.
	GlobalConfigDirectoryName = ".codemerge"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes the terminal error of a run.
	ApplicationExecutionFailedMessage = "codemerge execution failed"
)
