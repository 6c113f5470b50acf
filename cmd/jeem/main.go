// Command jeem runs Jeem source files, evaluates inline source, and
// manages the minimal jeem.json project manifest.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/mrwan84/jeem/internal/evaluator"
	"github.com/mrwan84/jeem/internal/lexer"
	"github.com/mrwan84/jeem/internal/manifest"
	"github.com/mrwan84/jeem/internal/modules"
	"github.com/mrwan84/jeem/internal/parser"
	"github.com/mrwan84/jeem/internal/stdlib/codec"
	"github.com/mrwan84/jeem/internal/stdlib/core"
	"github.com/mrwan84/jeem/internal/stdlib/files"
	"github.com/mrwan84/jeem/internal/stdlib/httpclient"
	"github.com/mrwan84/jeem/internal/stdlib/httpserver"
	"github.com/mrwan84/jeem/internal/stdlib/numerics"
	"github.com/mrwan84/jeem/internal/stdlib/strtools"
	"github.com/mrwan84/jeem/internal/stdlib/timing"
	"github.com/mrwan84/jeem/internal/timer"
)

const version = "3.0"
const versionBanner = "Jeem v" + version

const usage = `Usage:
  jeem <file>              run a source file
  jeem -e "source"         evaluate inline source
  jeem -v | --version      print version
  jeem -h | --help         print this message
  jeem init [name]         write a starter manifest and source files
  jeem start | test        run the manifest's "start"/"test" script
  jeem run <name>          run the manifest's named script
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	switch args[0] {
	case "-v", "--version":
		fmt.Println(versionBanner)
		return 0
	case "-h", "--help":
		fmt.Print(usage)
		return 0
	case "-e":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "error: -e requires a source argument")
			return 1
		}
		return runSource(args[1], "<inline>", args[2:])
	case "init":
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		if err := manifest.Init(name); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	case "start", "test":
		return runScript(args[0], args[1:])
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "error: run requires a script name")
			return 1
		}
		return runScript(args[1], args[2:])
	default:
		return runFile(args[0], args[1:])
	}
}

func runScript(name string, rest []string) int {
	m, err := manifest.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	path, err := m.Script(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return runFile(path, rest)
}

func runFile(path string, rest []string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read %s: %v\n", path, err)
		return 1
	}
	return runSource(string(src), path, rest)
}

func runSource(src, file string, scriptArgs []string) int {
	lx := lexer.New(src)
	ps := parser.New(lx, file)
	program, err := ps.ParseProgram()
	if err != nil {
		var pe *parser.Error
		var le *lexer.Error
		if errors.As(err, &pe) || errors.As(err, &le) {
			fmt.Fprintf(os.Stderr, "%s:%s\n", file, err)
		} else {
			fmt.Fprintf(os.Stderr, "%s\n", err)
		}
		return 1
	}

	interp, queue := newInterpreter(file, scriptArgs)
	result := interp.Run(program)
	if e, ok := result.(*evaluator.Error); ok {
		fmt.Fprintf(os.Stderr, "%s:%d: error: %s\n", file, e.Line, e.Message)
		return 1
	}

	queue.Drain()
	return 0
}

// newInterpreter wires an Interpreter together with the module loader,
// timer queue, and every stdlib package, and binds the conventional
// ARGV global every script receives its command-line arguments through.
func newInterpreter(file string, scriptArgs []string) (*evaluator.Interpreter, *timer.Queue) {
	interp := evaluator.New()
	interp.CurrentFile = file
	interp.Loader = modules.NewLoader()

	queue := timer.NewQueue()
	interp.Timers = queue

	core.Install(interp)
	strtools.Install(interp)
	numerics.Install(interp)
	timing.Install(interp)
	files.Install(interp)
	codec.Install(interp)
	httpclient.Install(interp)
	httpserver.Install(interp)

	argv := make([]evaluator.Object, len(scriptArgs))
	for i, a := range scriptArgs {
		argv[i] = &evaluator.String{Value: a}
	}
	interp.Global.Declare("ARGV", &evaluator.Array{Elements: argv}, true)
	interp.Global.Declare("ISATTY", boolObj(isatty.IsTerminal(os.Stdout.Fd())), true)
	interp.Global.Declare("VERSION", &evaluator.String{Value: version}, true)

	return interp, queue
}

func boolObj(v bool) evaluator.Object {
	if v {
		return evaluator.TRUE
	}
	return evaluator.FALSE
}
