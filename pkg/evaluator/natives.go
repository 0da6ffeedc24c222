package evaluator

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ilo-lang/ilo/pkg/value"
)

// registerNatives seeds the global scope with the five built-ins of spec
// §4.4. Their names are reserved at the global level: user code may
// shadow them with a function declared in an inner scope, but redeclaring
// them globally goes through the same "already declared" Type error as
// any other name. An Assignment to one of these names updates the global
// binding rather than shadowing it.
func (e *Evaluator) registerNatives() {
	e.env.Declare("out", value.NewNativeFunction("out", []string{"value"}, e.nativeOut))
	e.env.Declare("ask", value.NewNativeFunction("ask", []string{"prompt"}, e.nativeAsk))
	e.env.Declare("size", value.NewNativeFunction("size", []string{"value"}, e.nativeSize))
	e.env.Declare("time", value.NewNativeFunction("time", nil, e.nativeTime))
	e.env.Declare("cmd", value.NewNativeFunction("cmd", []string{"command"}, e.nativeCmd))
}

func (e *Evaluator) nativeOut(args []value.Value) (value.Value, error) {
	fmt.Fprintln(e.stdout, args[0].Render())
	return value.NewEmpty(), nil
}

// nativeAsk prints its prompt, reads one line from stdin and returns it
// with the trailing newline stripped. A non-string prompt is a host-side
// mistake rather than a language Type error (spec §4.4 says to print an
// internal note and return ""), since it would otherwise be the one
// native whose argument-type check differs from the evaluator's normal
// fail-fast Type error.
func (e *Evaluator) nativeAsk(args []value.Value) (value.Value, error) {
	prompt := args[0]
	if prompt.Kind != value.String {
		fmt.Fprintln(e.stdout, "ask: prompt argument must be a string")
		return value.NewString(""), nil
	}
	fmt.Fprint(e.stdout, prompt.Str)
	line, err := e.stdin.ReadString('\n')
	if err != nil && line == "" {
		return value.NewString(""), nil
	}
	return value.NewString(strings.TrimRight(line, "\r\n")), nil
}

func (e *Evaluator) nativeSize(args []value.Value) (value.Value, error) {
	if args[0].Kind == value.String {
		return value.NewNumber(float64(len(args[0].Str))), nil
	}
	return value.NewNumber(0), nil
}

func (e *Evaluator) nativeTime(args []value.Value) (value.Value, error) {
	return value.NewNumber(float64(time.Now().UnixNano())), nil
}

// nativeCmd splits its argument on whitespace — no quoting or escaping,
// per spec §9's open-question resolution — spawns the first field as a
// program with the rest as arguments, and returns its captured stdout.
// Any failure (non-string argument, empty command, spawn error) yields ""
// rather than propagating an evaluator error, matching spec §4.4.
func (e *Evaluator) nativeCmd(args []value.Value) (value.Value, error) {
	arg := args[0]
	if arg.Kind != value.String {
		return value.NewString(""), nil
	}
	fields := strings.Fields(arg.Str)
	if len(fields) == 0 {
		return value.NewString(""), nil
	}

	out, err := exec.Command(fields[0], fields[1:]...).Output()
	if err != nil {
		e.logger.Debug("cmd failed", "command", arg.Str, "error", errors.Wrap(err, "running cmd"))
		return value.NewString(""), nil
	}
	return value.NewString(string(out)), nil
}
