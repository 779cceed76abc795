package platformloop

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// NewLogger returns a JSON logger writing to w, for use with [WithLogger].
func NewLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// ParseLevel maps the short syslog keywords used by logiface (see
// logiface.Level.String) to a level. The boolean is false for unknown names.
func ParseLevel(s string) (logiface.Level, bool) {
	for _, level := range [...]logiface.Level{
		logiface.LevelDisabled,
		logiface.LevelEmergency,
		logiface.LevelAlert,
		logiface.LevelCritical,
		logiface.LevelError,
		logiface.LevelWarning,
		logiface.LevelNotice,
		logiface.LevelInformational,
		logiface.LevelDebug,
		logiface.LevelTrace,
	} {
		if level.String() == s {
			return level, true
		}
	}
	switch s {
	case "error":
		return logiface.LevelError, true
	case "warn":
		return logiface.LevelWarning, true
	}
	return 0, false
}
