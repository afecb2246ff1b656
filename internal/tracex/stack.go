package internaltracex

import (
	"fmt"
	"runtime"
	"strings"
)

const maxStackTraceLen = 1024

// GetStackTrace returns the stack trace of the caller, capped at roughly 1KiB.
// skipLevels is handed to runtime.Callers, so GetStackTrace(2) starts at the
// function calling GetStackTrace.
func GetStackTrace(skipLevels int) string {
	pc := make([]uintptr, 10)
	n := runtime.Callers(skipLevels, pc)
	frames := runtime.CallersFrames(pc[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more || b.Len() > maxStackTraceLen {
			break
		}
	}

	return b.String()
}
