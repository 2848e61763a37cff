// Package log provides a logging abstraction so the decoding core never
// hard-codes a concrete logging library. Host applications wire in their own
// Logger, or call SetDefaultLoggers to get a zap-backed default.
package log

// Logger defines an interface for logging messages. A decoder only ever logs
// through one of the package-level loggers below, never by importing a
// concrete logging library directly.
type Logger interface {
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

type logger struct {
	log Logger
}

func (l *logger) Printf(format string, args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Printf(format, args...)
}

func (l *logger) Println(args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Println(args...)
}

// Named loggers. Debug and Trace are typically silent in production; Info
// carries per-image recovery warnings (§7 propagation policy).
var (
	Debug = &logger{}
	Info  = &logger{}
	Trace = &logger{}
	Stats = &logger{}
)

// SetDebugLogger sets the debug logger.
func SetDebugLogger(l Logger) { Debug.log = l }

// SetInfoLogger sets the info logger.
func SetInfoLogger(l Logger) { Info.log = l }

// SetTraceLogger sets the trace logger.
func SetTraceLogger(l Logger) { Trace.log = l }

// SetStatsLogger sets the stats logger.
func SetStatsLogger(l Logger) { Stats.log = l }

// DisableAll silences every named logger.
func DisableAll() {
	Debug.log = nil
	Info.log = nil
	Trace.log = nil
	Stats.log = nil
}
