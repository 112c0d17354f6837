package debug

import "fmt"

// DEBUG gates the compiler's verbose disassembly dumps and the Assertf
// invariant checks below (the VM's per-instruction trace is gated by the
// logrus level alone). It's a plain const rather than a flag-driven var
// since flipping it is a recompile, not a runtime decision — logrus's level
// (see cmd.App) is what actually controls what a user sees at runtime.
const DEBUG = false

func Assertf(b bool, format string, a ...any) {
	if DEBUG && !b {
		panic(fmt.Sprintf(format, a...))
	}
}

func AssertEq[T comparable](expected, got T) { Assertf(expected == got, "%v != %v", expected, got) }
