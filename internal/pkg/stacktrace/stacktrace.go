// Package stacktrace extracts the application frames from the current stack.
package stacktrace

import (
	"runtime"
	"strconv"
	"strings"
)

const maxDepth = 64

// Internal returns "internal/<pkg>/<file>.go:<line>" entries for frames of the
// calling goroutine that live under an internal/ directory, innermost first.
// skip drops that many frames above the caller of Internal.
//
// Called from a deferred recover it includes the frames of the panic site.
func Internal(skip int) []string {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []string
	for {
		f, more := frames.Next()
		if i := strings.Index(f.File, "/internal/"); i >= 0 {
			out = append(out, f.File[i+1:]+":"+strconv.Itoa(f.Line))
		}
		if !more {
			break
		}
	}

	return out
}
