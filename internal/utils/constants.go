package utils

// Application identity and configuration locations.
const (
	// ApplicationName is the command name shown in help and version output.
	ApplicationName = "codeflat"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".codeflat"
	// ConfigFileName is the configuration file name used both globally and locally.
	ConfigFileName = "config.yaml"
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "codeflat failed"
)

// DefaultOutputPath is the document written when no output is configured.
const DefaultOutputPath = "CODEBASE_CONTEXT.md"
