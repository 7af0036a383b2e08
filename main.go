// Command golox is a tree-walking interpreter for the Lox programming language.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"golox/ast"
	"golox/interpreter"
	"golox/loxerr"
	"golox/parser"
	"golox/typecheck"
)

const (
	exitSuccess  = 0
	exitDataErr  = 65
	exitSoftware = 70
)

var (
	cmd       = flag.String("c", "", "Program passed in as a string")
	printAST  = flag.Bool("ast", false, "Print the parsed AST instead of running the program")
	warnTypes = flag.Bool("typecheck", false, "Report soft type warnings before running the program")
)

// nolint:revive
func Usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: golox [options] [script]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	flag.Usage = Usage
	flag.Parse()

	if *cmd != "" {
		if err := run(strings.NewReader(*cmd), "<string>", interpreter.New()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCode(err))
		}
		return
	}

	switch len(flag.Args()) {
	case 0:
		runREPL()
	case 1:
		runFile(flag.Arg(0))
	default:
		flag.Usage()
		os.Exit(exitSuccess)
	}
}

func exitCode(err error) int {
	switch err.(type) {
	case loxerr.StaticErrors, *loxerr.StaticError:
		return exitDataErr
	case *loxerr.RuntimeError:
		return exitSoftware
	default:
		return exitSoftware
	}
}

func run(r io.Reader, filename string, interp *interpreter.Interpreter) error {
	program, err := parser.Parse(r, filename)
	if *printAST {
		ast.Print(program)
		return err
	}
	if err != nil {
		return err
	}
	if *warnTypes {
		for _, w := range typecheck.Check(program) {
			fmt.Fprintln(os.Stderr, w)
		}
	}
	return interp.Interpret(program)
}

func runREPL() {
	cfg := &readline.Config{Prompt: "> "}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		cfg.HistoryFile = path.Join(homeDir, ".golox_history")
	} else {
		log.Printf("can't determine home directory (%s), history won't be saved", err)
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		log.Fatalf("running REPL: %s", err)
	}
	defer rl.Close()

	banner := color.New(color.Faint)
	banner.Fprintln(os.Stderr, "Lox REPL. Press Ctrl+D to exit.")

	interp := interpreter.New(interpreter.REPLMode())
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return
			}
			log.Fatalf("unexpected error reading input: %s", err)
		}
		if err := run(strings.NewReader(line), "<repl>", interp); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func runFile(name string) {
	f, err := os.Open(name)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := run(f, name, interpreter.New()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
