package log

import "go.uber.org/zap"

// zapAdapter satisfies Logger by delegating to a zap.SugaredLogger.
// The teacher carries go.uber.org/zap only for its HTTP middleware
// (internal/zap4echo); here it backs the core's own default loggers instead.
type zapAdapter struct {
	s *zap.SugaredLogger
}

func (z zapAdapter) Printf(format string, args ...interface{}) {
	z.s.Debugf(format, args...)
}

func (z zapAdapter) Println(args ...interface{}) {
	z.s.Debug(args...)
}

// SetDefaultLoggers wires Debug/Info/Trace into a shared zap production
// logger. Stats is left unset: call-site volume there is too high for
// structured logging to be useful by default.
func SetDefaultLoggers() error {
	zl, err := zap.NewProduction()
	if err != nil {
		return err
	}
	sugar := zl.Sugar()
	a := zapAdapter{s: sugar}
	SetInfoLogger(a)
	SetDebugLogger(a)
	SetTraceLogger(a)
	return nil
}
