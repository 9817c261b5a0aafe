package log_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/vidupscale/pkg/log"
)

func TestSetLevelMapsNamesOntoLoggerLevels(t *testing.T) {
	is := is.New(t)
	existing := logging.CurrentLoggingLevel
	defer func() { logging.CurrentLoggingLevel = existing }()

	log.SetLevel("DEBUG")
	is.True(logging.CurrentLoggingLevel == logging.DebugLevel)
	is.True(logging.CallbackLabel)

	log.SetLevel("warn")
	is.True(logging.CurrentLoggingLevel == logging.WarnLevel)
	is.True(!logging.CallbackLabel)

	log.SetLevel("silent")
	is.True(logging.CurrentLoggingLevel == logging.SilentLevel)

	log.SetLevel("nonsense")
	is.True(logging.CurrentLoggingLevel == logging.InfoLevel)
}
