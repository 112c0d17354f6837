package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/loxlang/loxvm/utils"
	"github.com/loxlang/loxvm/vm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// Exit codes, matching spec.md §6's three-way outcome plus the I/O failure
// case a CLI has to additionally account for.
const (
	exitOK           = 0
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOError      = 74
	defaultVerbosity = "INFO"
)

func App() (app *cobra.Command) {
	app = &cobra.Command{
		Use:   "loxvm [script]",
		Short: "Run the loxvm bytecode interpreter",
		Args:  cobra.MaximumNArgs(1),
	}

	app.Flags().SortFlags = true
	verbosity := app.Flags().StringP("verbosity", "v", defaultVerbosity, "Logging verbosity")

	app.RunE = func(_ *cobra.Command, args []string) error {
		verbosityLvl, err := logrus.ParseLevel(*verbosity)
		if err != nil {
			verbosityLvl, _ = logrus.ParseLevel(defaultVerbosity)
		}
		logrus.SetLevel(verbosityLvl)
		logrus.SetFormatter(&easy.Formatter{LogFormat: "//DBG// %msg%\n"})

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		code := appMain(path)
		if code != exitOK {
			os.Exit(code)
		}
		return nil
	}
	app.AddCommand(replCmd())
	return
}

// appMain runs path (or starts the REPL if path is empty) and returns the
// process exit code spec.md §6 specifies: 0 ok, 65 compile error, 70 runtime
// error, 74 on a file that can't be read.
func appMain(path string) int {
	if path == "" {
		return runREPL()
	}

	src, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("can't open '%s': %s", path, err)
		return exitIOError
	}

	vm_ := vm.NewVM()
	res, err := vm_.Interpret(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	switch res {
	case vm.ResultCompileError:
		return exitCompileError
	case vm.ResultRuntimeError:
		return exitRuntimeError
	default:
		return exitOK
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive loxvm session",
		RunE: func(_ *cobra.Command, _ []string) error {
			os.Exit(runREPL())
			return nil
		},
	}
}

// runREPL reads one line at a time from stdin via readline and feeds each to
// the same long-lived VM, so globals declared on one line are visible on the
// next. A line that fails to compile or run is reported but doesn't end the
// session — only EOF (Ctrl-D) or a readline failure does; an interrupt
// (Ctrl-C) is ignored and the prompt is shown again.
func runREPL() int {
	rl, err := readline.New("> ")
	if err != nil {
		logrus.Errorf("can't start readline: %s", err)
		return exitIOError
	}
	defer rl.Close()

	vm_ := vm.NewVM()
	errCount := 0
	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			if errCount > 0 {
				return exitCompileError
			}
			return exitOK
		case err != nil:
			logrus.Errorf("readline: %s", err)
			return exitIOError
		}

		if _, err := vm_.Interpret(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
			errCount += utils.BoolToInt[int](true)
		}
	}
}
