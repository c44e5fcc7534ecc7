// Package errors provides structured errors and leveled logging for the
// extension framework. Errors carry a severity, the caller that created
// them, and an inner error chain compatible with the standard library's
// errors.Is/As.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
)

const trim = len("github.com/pmgdeb/gnutls/")

// Severity of an error or log message. Lower value means more severe:
// Error is always logged, Debug only in debug builds at the debug level.
type Severity int32

const (
	SeverityUnknown Severity = 0
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityInfo    Severity = 3
	SeverityDebug   Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	case SeverityDebug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// globalLogLevel stores the current log level for cheap early-exit checks.
var globalLogLevel atomic.Int32

// logWriter is the output destination for logs (default: stderr). The
// writer is wrapped in writerHolder so atomic.Value always stores the
// same concrete type regardless of the writer's own type.
var logWriter atomic.Value

type writerHolder struct {
	w io.Writer
}

func init() {
	globalLogLevel.Store(int32(SeverityWarning))
	logWriter.Store(writerHolder{w: os.Stderr})
}

// SetLogLevel sets the minimum severity level for logging.
func SetLogLevel(s Severity) {
	globalLogLevel.Store(int32(s))
}

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(globalLogLevel.Load())
}

// SetLogWriter sets the output writer for logs. A nil writer restores
// stderr.
func SetLogWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logWriter.Store(writerHolder{w: w})
}

// ShouldLog reports whether messages at the given severity are logged
// under the current level.
func ShouldLog(severity Severity) bool {
	return severity <= Severity(globalLogLevel.Load())
}

type hasInnerError interface {
	Unwrap() error
}

type hasSeverity interface {
	Severity() Severity
}

// Error is a structured error with a severity, the creating caller, and
// an optional inner error.
type Error struct {
	message  []interface{}
	caller   string
	inner    error
	severity Severity
}

func (err *Error) Error() string {
	builder := strings.Builder{}
	if len(err.caller) > 0 {
		builder.WriteString(err.caller)
		builder.WriteString(": ")
	}
	builder.WriteString(fmt.Sprint(err.message...))
	if err.inner != nil {
		builder.WriteString(" > ")
		builder.WriteString(err.inner.Error())
	}
	return builder.String()
}

// Unwrap returns the inner error, if any.
func (err *Error) Unwrap() error {
	return err.inner
}

// Base returns a copy of err with e as its inner error. The receiver is
// left untouched, so sentinel errors can be chained without mutation.
func (err *Error) Base(e error) *Error {
	out := *err
	out.inner = e
	return &out
}

// Is treats an Error produced by Base as matching its sentinel.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return err.caller == t.caller && fmt.Sprint(err.message...) == fmt.Sprint(t.message...)
}

func (err *Error) atSeverity(s Severity) *Error {
	err.severity = s
	return err
}

// Severity returns the error's severity; an inner error with a more
// severe level takes precedence.
func (err *Error) Severity() Severity {
	if err.inner == nil {
		return err.severity
	}
	if s, ok := err.inner.(hasSeverity); ok {
		if as := s.Severity(); as < err.severity {
			return as
		}
	}
	return err.severity
}

// AtDebug sets the severity to debug.
func (err *Error) AtDebug() *Error {
	return err.atSeverity(SeverityDebug)
}

// AtInfo sets the severity to info.
func (err *Error) AtInfo() *Error {
	return err.atSeverity(SeverityInfo)
}

// AtWarning sets the severity to warning.
func (err *Error) AtWarning() *Error {
	return err.atSeverity(SeverityWarning)
}

// AtError sets the severity to error.
func (err *Error) AtError() *Error {
	return err.atSeverity(SeverityError)
}

// String returns the string representation of this error.
func (err *Error) String() string {
	return err.Error()
}

// New returns a new error with a message formed from the given
// arguments, recording the calling function.
func New(msg ...interface{}) *Error {
	return &Error{
		message:  msg,
		severity: SeverityInfo,
		caller:   callerName(2),
	}
}

func callerName(skip int) string {
	pc, _, _, _ := runtime.Caller(skip)
	details := runtime.FuncForPC(pc).Name()
	if len(details) >= trim {
		details = details[trim:]
	}
	return details
}

// LogDebug logs a debug message. Debug logging is compiled out unless
// built with -tags=debug.
func LogDebug(msg ...interface{}) {
	if !DebugLoggingEnabled {
		return
	}
	if !ShouldLog(SeverityDebug) {
		return
	}
	doLog(nil, SeverityDebug, msg...)
}

// LogInfo logs an info message.
func LogInfo(msg ...interface{}) {
	if !ShouldLog(SeverityInfo) {
		return
	}
	doLog(nil, SeverityInfo, msg...)
}

// LogWarning logs a warning message.
func LogWarning(msg ...interface{}) {
	if !ShouldLog(SeverityWarning) {
		return
	}
	doLog(nil, SeverityWarning, msg...)
}

// LogWarningInner logs a warning message with an inner error.
func LogWarningInner(inner error, msg ...interface{}) {
	if !ShouldLog(SeverityWarning) {
		return
	}
	doLog(inner, SeverityWarning, msg...)
}

// LogError logs an error message.
func LogError(msg ...interface{}) {
	if !ShouldLog(SeverityError) {
		return
	}
	doLog(nil, SeverityError, msg...)
}

func doLog(inner error, severity Severity, msg ...interface{}) {
	err := &Error{
		message:  msg,
		severity: severity,
		caller:   callerName(3),
		inner:    inner,
	}
	w := logWriter.Load().(writerHolder).w
	fmt.Fprintf(w, "[%s] %s\n", severity.String(), err.String())
}

// Cause returns the root cause of err by unwrapping the error chain.
func Cause(err error) error {
	if err == nil {
		return nil
	}
	for {
		var innerErr hasInnerError
		if !stderrors.As(err, &innerErr) {
			break
		}
		unwrapped := innerErr.Unwrap()
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}
	return err
}

// GetSeverity returns the severity of err, taking inner errors into
// account.
func GetSeverity(err error) Severity {
	var s hasSeverity
	if stderrors.As(err, &s) {
		return s.Severity()
	}
	return SeverityInfo
}
