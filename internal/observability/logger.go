package observability

import (
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger creates a production or development logger
func InitLogger(isDev bool) (*zap.Logger, error) {
	var config zap.Config

	if isDev {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "time"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", "trustsite")), nil
}

// WithSentry forwards error-level entries to Sentry. It is a no-op until
// InitSentry has configured a client.
func WithSentry(logger *zap.Logger) *zap.Logger {
	return logger.WithOptions(zap.Hooks(func(entry zapcore.Entry) error {
		if entry.Level < zapcore.ErrorLevel {
			return nil
		}
		hub := sentry.CurrentHub()
		if hub.Client() == nil {
			return nil
		}
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("logger", entry.LoggerName)
			scope.SetExtra("caller", entry.Caller.TrimmedPath())
			hub.CaptureMessage(entry.Message)
		})
		return nil
	}))
}
