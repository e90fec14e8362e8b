package testlog

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/owncheck/owncheck/internal/logging"
)

func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	logger := logging.ConfigureTests()
	logger.Info().Str("test", t.Name()).Msg("start")
	return logger
}
