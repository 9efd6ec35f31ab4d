package core

// Identity is the authenticated identity attached to log reports.
type Identity struct {
	Email string
}

// Logger is the application-wide logging contract.
// Implementations may inspect args for well-known types (eg. the
// authenticated identity) and attach them to reports.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
