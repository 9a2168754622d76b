package interfaces

// Logger is the structured logging contract shared by every pipeline stage.
// Implementations live in internal/logging; tests use testutil.DummyLogger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger that carries fields on every entry.
	With(fields ...Field) Logger
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
