package logger

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_BuildsForEveryEnvironment(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("logger builds for any environment name", prop.ForAll(
		func(env string) bool {
			logger, err := New(env, "catalogue-service")
			if err != nil {
				return false
			}
			defer logger.Sync()
			return logger != nil
		},
		gen.OneConstOf("production", "development", "test", ""),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Every entry carries the service name so both apps can share a log sink.
func TestProperty_LogsCarryServiceName(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("service field is attached to every entry", prop.ForAll(
		func(service string, message string) bool {
			core, logs := observer.New(zapcore.DebugLevel)
			logger, err := New("development", service, zap.WrapCore(func(zapcore.Core) zapcore.Core {
				return core
			}))
			if err != nil {
				return false
			}

			logger.Info(message)

			entries := logs.All()
			if len(entries) != 1 {
				return false
			}
			if entries[0].Message != message {
				return false
			}
			return entries[0].ContextMap()["service"] == service
		},
		gen.OneConstOf("catalogue-service", "manager-app"),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
