// Package testutil holds small helpers shared by service tests.
package testutil

import (
	"io"

	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"github.com/rs/zerolog"
)

// Logger returns a logger that discards output.
func Logger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}
