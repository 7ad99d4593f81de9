package log

import (
	"github.com/rs/zerolog"
)

// NewNopLogger returns a Logger that drops every entry. Clients built
// without a logger option use it.
func NewNopLogger() Logger {
	return &defaultLogger{Logger: zerolog.Nop()}
}
