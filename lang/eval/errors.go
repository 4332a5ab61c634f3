package eval

import (
	"fmt"
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/token"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// Frame is one entry of an error's call trace: a call-site span and a
// description of the callee (spec.md §7 "the list of (call-site span,
// callee kind) pairs comprising the trace").
type Frame struct {
	Pos    token.Position
	Callee string
}

// Error is a runtime evaluation error carrying a message and the call
// trace active when it was raised (spec.md §7).
type Error struct {
	Msg   string
	Trace []Frame
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	for _, f := range e.Trace {
		fmt.Fprintf(&b, "\n\tat %s (%s)", f.Callee, f.Pos.String())
	}
	return b.String()
}

// errMaxStackFrames is raised when the call-frame stack exceeds its
// configured limit (spec.md §4.4, §7).
const errMaxStackFrames = "max stack frames exceeded"

func (ev *Evaluator) errorf(env *value.Env, pos token.Pos, format string, args ...any) *Error {
	p := token.Position{File: env.File(), Pos: pos}
	return &Error{Msg: fmt.Sprintf("%s: %s", p, fmt.Sprintf(format, args...)), Trace: ev.snapshotTrace()}
}

// snapshotTrace copies the active call frames into an Error's Trace, eliding
// the middle when longer than MaxTraceLength (spec.md §4.4: "when the trace
// is longer than the configured display limit, the middle of the trace is
// elided, not the ends").
func (ev *Evaluator) snapshotTrace() []Frame {
	n := len(ev.callStack)
	max := ev.opts.MaxTraceLength
	if max <= 0 || n <= max {
		out := make([]Frame, n)
		copy(out, ev.callStack)
		return reversed(out)
	}
	head := max / 2
	tail := max - head
	out := make([]Frame, 0, max+1)
	out = append(out, ev.callStack[n-head:]...)
	out = append(out, Frame{Callee: "..."})
	out = append(out, ev.callStack[:tail]...)
	return reversed(out)
}

func reversed(fs []Frame) []Frame {
	out := make([]Frame, len(fs))
	for i, f := range fs {
		out[len(fs)-1-i] = f
	}
	return out
}
