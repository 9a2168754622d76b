package interfaces

import "fmt"

// TestLogger prints entries to stdout. Debug and Info are only printed when
// verbose is set, so passing tests stay quiet.
type TestLogger struct {
	verbose bool
	fields  []Field
}

func NewTestLogger(verbose bool) *TestLogger {
	return &TestLogger{verbose: verbose}
}

func (tl *TestLogger) Debug(msg string, fields ...Field) {
	if tl.verbose {
		fmt.Printf("[DEBUG] %s %v\n", msg, append(tl.fields, fields...))
	}
}

func (tl *TestLogger) Info(msg string, fields ...Field) {
	if tl.verbose {
		fmt.Printf("[INFO] %s %v\n", msg, append(tl.fields, fields...))
	}
}

func (tl *TestLogger) Warn(msg string, fields ...Field) {
	fmt.Printf("[WARN] %s %v\n", msg, append(tl.fields, fields...))
}

func (tl *TestLogger) Error(msg string, fields ...Field) {
	fmt.Printf("[ERROR] %s %v\n", msg, append(tl.fields, fields...))
}

func (tl *TestLogger) With(fields ...Field) Logger {
	child := &TestLogger{verbose: tl.verbose}
	child.fields = append(append([]Field(nil), tl.fields...), fields...)
	return child
}
