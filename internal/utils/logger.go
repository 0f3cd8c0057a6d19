package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
// Verbose loggers emit debug diagnostics; otherwise only errors are written.
func NewApplicationLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(diagnosticLevel(verbose))
	config.EncoderConfig = consoleEncoderConfig(config.EncoderConfig)
	return config.Build()
}

// NewWriterLogger builds the same console logger on top of an arbitrary sink.
func NewWriterLogger(verbose bool, sink zapcore.WriteSyncer) *zap.Logger {
	encoderConfig := consoleEncoderConfig(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, diagnosticLevel(verbose))
	return zap.New(core)
}

func diagnosticLevel(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.ErrorLevel
}

func consoleEncoderConfig(encoderConfig zapcore.EncoderConfig) zapcore.EncoderConfig {
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.TimeKey = ""
	encoderConfig.NameKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.MessageKey = "message"
	encoderConfig.StacktraceKey = ""
	return encoderConfig
}
