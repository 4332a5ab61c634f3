// Package maincmd implements the rsjsonnet command-line surface
// (spec.md §6): a single command that reads one Jsonnet file (or, with
// -e, treats its argument as inline code), evaluates it, and manifests
// the result to stdout or a file.
//
// Grounded on nenuphar's cmd/nenuphar + internal/maincmd for the
// overall mainer.Cmd shape (a flag-tagged struct, Validate before Main,
// mainer.Parser for argument parsing, mainer.CancelOnSignal for
// signal-driven cancellation); nenuphar's own three subcommands
// (parse/resolve/tokenize) inspected compiler phases directly and have no
// equivalent here — the real jsonnet tool, which spec.md §6 mirrors, is a
// single evaluate-and-manifest command, and this package follows that
// shape instead. The phases those subcommands exercised (parsing,
// resolving) are exercised here through program.Program and covered by
// that package's own tests.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "rsjsonnet"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <filename>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <filename>
       %[1]s -h|--help
       %[1]s -v|--version

Evaluate a Jsonnet file (or, with -e, an inline snippet) and manifest the
result as JSON, a plain string, or a YAML stream.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -e                        Treat <filename> as an inline snippet of
                                 code rather than a path.
       -J <dir>                  Prepend a library search path (may be
                                 repeated; the rightmost -J is searched
                                 first).
       -o <file>                 Write output to <file> instead of stdout.
       -m <dir>                  Multi-file mode: the result must be an
                                 object whose fields are manifested as
                                 one JSON file per field, under <dir>.
       -y                        YAML-stream mode: the result must be an
                                 array; each element is manifested as one
                                 YAML document.
       -S                        String mode: the result must be a
                                 string, written out verbatim.
       -s <n>                    Max stack frames (default 500).
       -t <n>                    Max trace length.
       -V var[=val]              Set an external string variable (reads
                                 the environment if val is omitted; may
                                 be repeated).
       --ext-str-file var=file   Set an external string variable from a
                                 file's contents.
       --ext-code var[=code]     Set an external variable from Jsonnet
                                 code (reads the environment if code is
                                 omitted).
       --ext-code-file var=file  Set an external variable from a file of
                                 Jsonnet code.
       -A var[=val]              Set a top-level string argument.
       --tla-str-file var=file   Set a top-level argument from a file's
                                 contents.
       --tla-code var[=code]     Set a top-level argument from Jsonnet
                                 code.
       --tla-code-file var=file  Set a top-level argument from a file of
                                 Jsonnet code.

More information on the rsjsonnet repository:
       https://github.com/jsonnet-run/jsonnet
`, binName)
)

// Cmd holds the parsed command line, mirroring nenuphar's flag-tagged
// struct handed to mainer.Parser.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Eval bool `flag:"e"`

	LibPaths []string `flag:"J"`
	OutFile  string   `flag:"o"`
	MultiDir string   `flag:"m"`
	YAML     bool     `flag:"y"`
	String   bool     `flag:"S"`

	MaxStack int `flag:"s"`
	MaxTrace int `flag:"t"`

	ExtStr      []string `flag:"V"`
	ExtStrFile  []string `flag:"ext-str-file"`
	ExtCode     []string `flag:"ext-code"`
	ExtCodeFile []string `flag:"ext-code-file"`

	TLAStr      []string `flag:"A"`
	TLAStrFile  []string `flag:"tla-str-file"`
	TLACode     []string `flag:"tla-code"`
	TLACodeFile []string `flag:"tla-code-file"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no filename specified")
	}
	if len(c.args) > 1 {
		return fmt.Errorf("unexpected extra arguments: %v", c.args[1:])
	}

	modes := 0
	if c.YAML {
		modes++
	}
	if c.String {
		modes++
	}
	if c.MultiDir != "" {
		modes++
	}
	if modes > 1 {
		return errors.New("-y, -S and -m are mutually exclusive")
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.run(ctx, stdio); err != nil {
		if _, ok := err.(*usageError); ok {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
			return mainer.InvalidArgs
		}
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return mainer.Failure
	}
	return mainer.Success
}

// usageError marks a run-time failure that should exit 2 (a bad flag
// value discovered only once we start using it, e.g. an unreadable
// --ext-code-file) rather than 1 (spec.md §6's evaluation-error code).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
