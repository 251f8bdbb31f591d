package logging

// NoopLogger discards everything. Useful in tests that do not assert on
// log output.
type NoopLogger struct{}

// NewNoop creates a logger that discards all output.
func NewNoop() Logger {
	return &NoopLogger{}
}

func (n *NoopLogger) Debug(msg string, fields ...interface{}) {}
func (n *NoopLogger) Info(msg string, fields ...interface{})  {}
func (n *NoopLogger) Warn(msg string, fields ...interface{})  {}
func (n *NoopLogger) Error(msg string, fields ...interface{}) {}

func (n *NoopLogger) WithComponent(component string) Logger { return n }
func (n *NoopLogger) WithTraceID(traceID string) Logger     { return n }
