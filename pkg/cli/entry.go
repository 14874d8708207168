// Package cli is the command surface of the toolchain:
//
//	nexus run file.nx        interpret a source file
//	nexus build file.nx      compile to a .nxb artifact
//	nexus disasm file.nxb    print a readable listing of an artifact
//	nexus analyze file.nx    static checks, no execution
//	nexus repl               interactive session
//
// A bare source file argument is shorthand for run.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nexuslang/nexus/internal/bridge"
	"github.com/nexuslang/nexus/internal/config"
	"github.com/nexuslang/nexus/pkg/nexus"
)

// Swappable for tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// ConfigPath overrides the nexus.yaml lookup when non-empty. Settable at
// build time with -ldflags "-X .../pkg/cli.ConfigPath=/etc/nexus.yaml".
var ConfigPath = ""

func isSourceFile(path string) bool {
	return strings.HasSuffix(path, config.SourceFileExt)
}

func isBinaryFile(path string) bool {
	return strings.HasSuffix(path, config.BinaryFileExt)
}

// Run dispatches the command line and returns the process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		return cmdRepl()
	}

	switch cmd := args[0]; cmd {
	case "run":
		if len(args) != 2 {
			return usageError("run expects one source file")
		}
		return cmdRun(args[1])
	case "build":
		return cmdBuild(args[1:])
	case "disasm":
		if len(args) != 2 {
			return usageError("disasm expects one binary file")
		}
		return cmdDisasm(args[1])
	case "analyze":
		if len(args) != 2 {
			return usageError("analyze expects one source file")
		}
		return cmdAnalyze(args[1])
	case "repl":
		return cmdRepl()
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		if isSourceFile(cmd) {
			return cmdRun(cmd)
		}
		return usageError("unknown command %q", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: nexus <command> [arguments]

commands:
  run <file.nx>       interpret a source file
  build <file.nx>     compile to a binary artifact (-o sets the output path)
  disasm <file.nxb>   print a readable listing of an artifact
  analyze <file.nx>   run static checks without executing
  repl                start an interactive session
  help                show this message
`)
}

func usageError(format string, args ...interface{}) int {
	fmt.Fprintf(stderr, "nexus: %s\n", fmt.Sprintf(format, args...))
	usage(stderr)
	return 2
}

func fail(format string, args ...interface{}) int {
	fmt.Fprintf(stderr, "nexus: %s\n", fmt.Sprintf(format, args...))
	return 1
}

// newRuntime assembles a Runtime from the config file and the ports it
// names: sqlite knowledge when a db path is set, the gRPC gateway when a
// target is set, otherwise console speech. cleanup releases the ports.
func newRuntime() (rt *nexus.Runtime, cleanup func(), err error) {
	cfg, err := config.LoadOrDefault(ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	opts := []nexus.Option{nexus.WithConfig(cfg)}
	var closers []func()

	if cfg.Knowledge.DBPath != "" {
		store, err := bridge.OpenStore(cfg.Knowledge.DBPath)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { store.Close() })
		opts = append(opts, nexus.WithKnowledge(store))
	}

	if cfg.Gateway.Target != "" {
		gw, err := bridge.DialGateway(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { gw.Close() })
		opts = append(opts, nexus.WithSpeech(gw))
	} else {
		opts = append(opts, nexus.WithSpeech(&bridge.ConsoleSpeech{Out: stdout, In: stdin}))
	}

	return nexus.New(opts...), func() {
		for _, c := range closers {
			c()
		}
	}, nil
}
