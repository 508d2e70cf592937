package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warning, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warning error"`

	// Output destination: stdout, stderr, file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// File path (required if output is "file")
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	// Persist log lines to the tick_logs table
	Persist bool `mapstructure:"persist"`
}
