package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightBlue
	TraceColorFG   = pterm.FgGray
)

// displayICE displays an internal compiler error message.
func (r *Reporter) displayICE(message string) {
	fmt.Fprintf(r.out, "%s %s\n", ErrorStyleBG.Sprint("internal compiler error"), ErrorColorFG.Sprint(message))
	fmt.Fprint(r.out, "This error was not supposed to happen: it is a bug in the checker.\n\n")
}

// displayFatal displays a fatal error message.
func (r *Reporter) displayFatal(message string) {
	fmt.Fprintf(r.out, "%s %s\n\n", ErrorStyleBG.Sprint("fatal error"), message)
}

// displayCompileMessage displays a compilation error.
func (r *Reporter) displayCompileMessage(absPath, reprPath string, span *TextSpan, message string) {
	label := ErrorColorFG.Sprint("error")

	if span == nil {
		fmt.Fprintf(r.out, "%s: %s: %s\n\n", reprPath, label, message)
	} else {
		fmt.Fprintf(r.out, "%s:%d:%d: %s: %s\n\n", reprPath, span.StartLine+1, span.StartCol+1, label, message)
		r.displaySourceText(absPath, span)
	}
}

// displayStdError displays a standard Go error.
func (r *Reporter) displayStdError(reprPath string, err error) {
	fmt.Fprintf(r.out, "%s: %s: %s\n\n", reprPath, ErrorColorFG.Sprint("error"), err)
}

// displayWarning displays a warning without a source position.
func (r *Reporter) displayWarning(reprPath string, message string) {
	fmt.Fprintf(r.out, "%s: %s: %s\n\n", reprPath, WarnColorFG.Sprint("warning"), message)
}

// displayTrace displays a single analysis trace line.
func (r *Reporter) displayTrace(message string) {
	fmt.Fprintln(r.out, TraceColorFG.Sprint("[trace] "+message))
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
// If the source file cannot be read, nothing is displayed: the parser may have
// been handed text that never existed on disk.
func (r *Reporter) displaySourceText(absPath string, span *TextSpan) {
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Fprint(r.out, InfoColorFG.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Fprintln(r.out, line[minIndent:])

		fmt.Fprint(r.out, strings.Repeat(" ", maxLineNumLen), " | ")

		// Underlining starts at the start column on the first line and at
		// the trimmed indent on every other line.
		carretPrefixCount := 0
		if i == 0 {
			carretPrefixCount = span.StartCol - minIndent
		}

		// Underlining stops at the end column on the last line and runs to the
		// end of the line otherwise.
		carretSuffixCount := 0
		if i == len(lines)-1 && span.EndCol < len(line) {
			carretSuffixCount = len(line) - span.EndCol - 1
		}

		carretCount := len(line) - carretSuffixCount - carretPrefixCount - minIndent
		if carretPrefixCount < 0 || carretCount < 1 {
			fmt.Fprintln(r.out)
			continue
		}

		fmt.Fprint(r.out, strings.Repeat(" ", carretPrefixCount))
		fmt.Fprintln(r.out, ErrorColorFG.Sprint(strings.Repeat("^", carretCount)))
	}

	fmt.Fprintln(r.out)
}

// -----------------------------------------------------------------------------

// maxPhaseLength is the length of the longest phase name.
const maxPhaseLength = len("Checking")

// displayEndPhase displays the end of a compilation phase.
func (r *Reporter) displayEndPhase(success bool, elapsed time.Duration) {
	phaseText := r.phase + strings.Repeat(" ", maxPhaseLength-len(r.phase)+2)

	var printer *pterm.PrefixPrinter
	if success {
		printer = &pterm.PrefixPrinter{
			MessageStyle: pterm.NewStyle(pterm.FgDefault),
			Prefix: pterm.Prefix{
				Style: SuccessStyleBG,
				Text:  "Done",
			},
		}
	} else {
		printer = &pterm.PrefixPrinter{
			MessageStyle: pterm.NewStyle(pterm.FgDefault),
			Prefix: pterm.Prefix{
				Style: ErrorStyleBG,
				Text:  "Fail",
			},
		}
	}

	fmt.Fprint(r.out, printer.Sprintln(phaseText, fmt.Sprintf("(%.3fs)", elapsed.Seconds())))
}

// displayCompilationFinished displays the closing summary of a check run.
func (r *Reporter) displayCompilationFinished(moduleCount, codeCount int) {
	fmt.Fprintln(r.out)

	if r.errorCount == 0 {
		fmt.Fprint(r.out, SuccessColorFG.Sprint("All done! "))
	} else {
		fmt.Fprint(r.out, ErrorColorFG.Sprint("Oh no! "))
	}

	fmt.Fprintf(
		r.out,
		"(%s %s, %s %s, %s %s, %s %s)\n",
		countColor(r.errorCount, ErrorColorFG).Sprint(humanize.Comma(int64(r.errorCount))),
		plural(r.errorCount, "error"),
		countColor(r.warningCount, WarnColorFG).Sprint(humanize.Comma(int64(r.warningCount))),
		plural(r.warningCount, "warning"),
		InfoColorFG.Sprint(humanize.Comma(int64(moduleCount))),
		plural(moduleCount, "module"),
		InfoColorFG.Sprint(humanize.Comma(int64(codeCount))),
		plural(codeCount, "instruction"),
	)
}

// countColor picks the display color of an error or warning count.
func countColor(n int, nonZero pterm.Color) pterm.Color {
	if n == 0 {
		return SuccessColorFG
	}

	return nonZero
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}
