package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/nexuslang/nexus/internal/bridge"
	"github.com/nexuslang/nexus/internal/evaluator"
	"github.com/nexuslang/nexus/internal/parser"
)

// Repl is an interactive session. Bindings persist across lines: the one
// evaluator and environment live as long as the session.
type Repl struct {
	in  *bufio.Scanner
	out io.Writer

	eval *evaluator.Evaluator
	env  *evaluator.Environment

	session     string
	history     []string
	interactive bool
}

func NewRepl(in io.Reader, out io.Writer) *Repl {
	e := evaluator.New()
	e.Out = out
	// Console speech without a reader: say prints with its emotion tag,
	// listen stays on the silent fallback so it never fights the REPL
	// for input.
	bridge.Install(e, nil, &bridge.ConsoleSpeech{Out: out}, nil)

	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return &Repl{
		in:          bufio.NewScanner(in),
		out:         out,
		eval:        e,
		env:         evaluator.NewEnvironment(),
		session:     uuid.NewString(),
		interactive: interactive,
	}
}

// Loop reads and evaluates lines until exit or end of input.
func (r *Repl) Loop() error {
	fmt.Fprintf(r.out, "nexus repl (session %s)\ntype help for commands\n", r.session)

	for {
		if r.interactive {
			fmt.Fprint(r.out, "nexus> ")
		}
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())

		switch line {
		case "":
			continue
		case "exit":
			return nil
		case "help":
			r.printHelp()
			continue
		case "history":
			for i, entry := range r.history {
				fmt.Fprintf(r.out, "%3d  %s\n", i+1, entry)
			}
			continue
		case "clear":
			if r.interactive {
				fmt.Fprint(r.out, "\033[2J\033[H")
			}
			continue
		}

		r.history = append(r.history, line)
		r.evalLine(line)
	}
}

func (r *Repl) evalLine(line string) {
	program, err := parser.Parse(line)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	val := r.eval.Eval(program, r.env)
	if errObj, ok := val.(*evaluator.Error); ok {
		fmt.Fprintln(r.out, errObj.Diag.Error())
		return
	}
	// Echo expression results; statements evaluate to null and stay quiet.
	if val != evaluator.NULL {
		fmt.Fprintln(r.out, val.Inspect())
	}
}

func (r *Repl) printHelp() {
	fmt.Fprint(r.out, `commands:
  exit      leave the session
  help      show this message
  history   list entered lines
  clear     clear the screen
anything else is evaluated as a program line
`)
}
