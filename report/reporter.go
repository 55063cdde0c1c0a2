package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.  A reporter is constructed explicitly and handed to every phase
// that needs to report: there is no global instance.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The writer that all messages are displayed to.
	out io.Writer

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors and warnings reported so far.
	errorCount, warningCount int

	// The name and start time of the current compilation phase.
	phase          string
	phaseStartTime time.Time
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
	LogLevelDebug          // Also displays a trace of semantic analysis.
)

// logLevelNames maps log level names to their enumerated values.
var logLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
	"debug":   LogLevelDebug,
}

// LogLevelNames is the list of valid log level names.
var LogLevelNames = []string{"silent", "error", "warn", "verbose", "debug"}

// ParseLogLevel converts a log level name into its enumerated value.
func ParseLogLevel(name string) (int, bool) {
	level, ok := logLevelNames[name]
	return level, ok
}

// NewReporter creates a new reporter displaying to out at the given log level.
func NewReporter(out io.Writer, logLevel int) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		out:      out,
		logLevel: logLevel,
	}
}

// Discard returns a reporter which displays nothing.
func Discard() *Reporter {
	return NewReporter(io.Discard, LogLevelSilent)
}

// -----------------------------------------------------------------------------

// ReportCompileError reports a compilation error: ie. erroneous input code. The
// absPath is the absolute path to the erroneous source file. The reprPath is
// the representative path to the erroneous source file.  The span may be nil in
// which case no position information will be printed.
func (r *Reporter) ReportCompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()

	r.errorCount++

	if r.logLevel > LogLevelSilent {
		r.displayCompileMessage(absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func (r *Reporter) ReportStdError(reprPath string, err error) {
	r.m.Lock()
	defer r.m.Unlock()

	r.errorCount++

	if r.logLevel > LogLevelSilent {
		r.displayStdError(reprPath, err)
	}
}

// ReportWarning reports a warning that is not attached to any source text.
func (r *Reporter) ReportWarning(reprPath string, message string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()

	r.warningCount++

	if r.logLevel > LogLevelError {
		r.displayWarning(reprPath, fmt.Sprintf(message, args...))
	}
}

// ReportICE displays an internal compiler error.  These errors are always
// displayed regardless of log level.
func (r *Reporter) ReportICE(ice *InternalError) {
	r.m.Lock()
	defer r.m.Unlock()

	r.errorCount++
	r.displayICE(ice.Message)
}

// ReportFatal reports a fatal error and exits the program.  These are errors
// that should cause all compilation to stop immediately.  However, they are
// expected errors that generally result from invalid configuration.
func (r *Reporter) ReportFatal(message string, args ...interface{}) {
	if r.logLevel > LogLevelSilent {
		r.m.Lock()
		r.displayFatal(fmt.Sprintf(message, args...))
		r.m.Unlock()
	}

	os.Exit(1)
}

// Tracef displays a trace message if the log level is debug.
func (r *Reporter) Tracef(message string, args ...interface{}) {
	if r.logLevel < LogLevelDebug {
		return
	}

	r.m.Lock()
	defer r.m.Unlock()

	r.displayTrace(fmt.Sprintf(message, args...))
}

// -----------------------------------------------------------------------------

// ReportBeginPhase indicates the beginning of a compilation phase.
func (r *Reporter) ReportBeginPhase(phase string) {
	r.m.Lock()
	defer r.m.Unlock()

	r.phase = phase
	r.phaseStartTime = time.Now()
}

// ReportEndPhase indicates the end of the current compilation phase.
func (r *Reporter) ReportEndPhase() {
	r.m.Lock()
	defer r.m.Unlock()

	if r.phase != "" && r.logLevel >= LogLevelVerbose {
		r.displayEndPhase(r.errorCount == 0, time.Since(r.phaseStartTime))
	}

	r.phase = ""
}

// ReportCompilationFinished displays the concluding message of compilation.
func (r *Reporter) ReportCompilationFinished(moduleCount, codeCount int) {
	r.m.Lock()
	defer r.m.Unlock()

	if r.logLevel >= LogLevelVerbose {
		r.displayCompilationFinished(moduleCount, codeCount)
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were reported.
func (r *Reporter) AnyErrors() bool {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount > 0
}

// ErrorCount returns the number of errors reported.
func (r *Reporter) ErrorCount() int {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount
}
