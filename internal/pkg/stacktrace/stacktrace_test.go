package stacktrace

import (
	"strings"
	"testing"
)

func TestInternal(t *testing.T) {
	got := Internal(0)
	if len(got) == 0 {
		t.Fatal("Internal() returned no frames")
	}
	if !strings.HasPrefix(got[0], "internal/pkg/stacktrace/stacktrace_test.go:") {
		t.Fatalf("first frame = %q", got[0])
	}
}

func TestInternal_FromRecover(t *testing.T) {
	var got []string

	func() {
		defer func() {
			if recover() != nil {
				got = Internal(0)
			}
		}()
		panicHere()
	}()

	found := false
	for _, f := range got {
		if strings.HasPrefix(f, "internal/pkg/stacktrace/stacktrace_test.go:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("frames %v do not include the panic site", got)
	}
}

func panicHere() {
	panic("boom")
}
