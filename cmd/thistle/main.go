package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"github.com/mliezun/thistle/internal"
)

func main() {
	trace := flag.Bool("trace", false, "enable statement-execution tracing")
	flag.Parse()

	if *trace {
		internal.EnableTrace()
		logrus.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	switch len(args) {
	case 0:
		runPrompt()
	case 1:
		os.Exit(runFile(args[0]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: thistle [script]")
		os.Exit(64)
	}
}

func runFile(path string) int {
	source, err := ioutil.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 66
	}

	start := time.Now()
	it := internal.NewInterpreter(os.Stdout)
	outcome := it.Run(string(source))
	logrus.WithField("elapsed", time.Since(start)).Debug("file run complete")

	switch outcome {
	case internal.SyntaxErrors:
		return 65
	case internal.RuntimeErrorOutcome:
		return 70
	default:
		return 0
	}
}

func runPrompt() {
	it := internal.NewInterpreter(os.Stdout)
	logrus.Debug("starting REPL session")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.Cyan("> "))
		if !scanner.Scan() {
			break
		}
		// Runtime errors are printed by the sink but never exit the
		// REPL; the interpreter's global environment survives across
		// lines regardless of outcome.
		it.Run(scanner.Text())
	}
	logrus.Debug("REPL session ended")
}
