package reco

type Logger interface {
	Info(message string, module string)
	Error(string)
}

// NopLogger discards everything. Used when the caller does not care about
// diagnostics, mostly in tests.
type NopLogger struct{}

func (NopLogger) Info(string, string) {}
func (NopLogger) Error(string)        {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
