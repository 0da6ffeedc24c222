// Command ilo runs ilo source files and hosts an interactive REPL.
//
// CLI Architecture:
//
// The flag surface (--tokens/-t, --ast/-a, --debug/-d, and an optional
// positional file argument) is handled by cobra/pflag, matching the rest
// of the module's ambient stack rather than hand-rolling os.Args parsing.
// Everything downstream of flag parsing — reading the file, running the
// lex/parse/evaluate pipeline, REPL buffering — stays close to the
// teacher's cmd/smog/main.go shape: small free functions, no framework
// beyond the flags themselves.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ilo-lang/ilo/pkg/evaluator"
	"github.com/ilo-lang/ilo/pkg/lexer"
	"github.com/ilo-lang/ilo/pkg/parser"
)

const separator = "----------------------------------"

var (
	showTokens bool
	showAST    bool
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:           "ilo [file]",
		Short:         "Run ilo scripts, or start an interactive REPL",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
	root.Flags().BoolVarP(&showTokens, "tokens", "t", false, "dump the token stream before running")
	root.Flags().BoolVarP(&showAST, "ast", "a", false, "dump the parsed statement list before running")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging (failed cmd subprocess spawns)")

	if err := root.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(64)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	logger := hclog.NewNullLogger()
	if debug {
		logger = hclog.New(&hclog.LoggerOptions{Name: "ilo", Level: hclog.Debug})
	}

	if len(args) == 0 {
		runREPL(logger)
		return nil
	}

	path := args[0]
	if filepath.Ext(path) != ".ilo" {
		fmt.Println("Error: file name must have a '.ilo' extension.")
		os.Exit(64)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error: no file found at path %q.\n", path)
		os.Exit(64)
	}

	result, ok := run(string(data), logger)
	if !ok {
		os.Exit(70)
	}
	if result != "" {
		fmt.Println(result)
	}
	return nil
}

// run lexes, parses, and evaluates one source string from scratch,
// printing any diagnostics and the --tokens/--ast dumps along the way. It
// reports false if any stage failed. A fresh Evaluator (and so a fresh
// global scope) is used on every call — REPL inputs do not share state
// across lines, matching the reference CLI's run().
func run(source string, logger hclog.Logger) (string, bool) {
	lx := lexer.New(source)
	tokens, err := lx.ScanTokens()

	if showTokens {
		fmt.Println(separator)
		fmt.Println("Tokens:")
		for _, t := range tokens {
			fmt.Println(" ", t)
		}
		fmt.Println(separator)
	}
	if err != nil {
		fmt.Println(err)
		return "", false
	}

	p := parser.New(tokens)
	statements, err := p.Parse()
	if err != nil {
		fmt.Println(err)
		return "", false
	}

	if showAST {
		fmt.Println("AST:")
		for _, s := range statements {
			dumpStmt(os.Stdout, s, "  ")
		}
		fmt.Println(separator)
	}

	ev := evaluator.New(evaluator.WithLogger(logger))
	result, err := ev.Interpret(statements)
	if err != nil {
		fmt.Println(err)
		return "", false
	}
	return result, true
}

// runREPL reads one ilo program at a time from stdin. A program may span
// several lines: input is buffered until every opened `{` has a matching
// `}` on an already-read line, so a multi-line block can be entered as a
// single submission (spec §6). The brace count is a plain character
// count rather than a full re-lex, so a literal brace inside a string or
// comment would confuse it — an acceptable simplification for
// interactive use.
func runREPL(logger hclog.Logger) {
	fmt.Println("Type exit to stop the REPL.")

	scanner := bufio.NewScanner(os.Stdin)
	var buf strings.Builder
	depth := 0

	for {
		if buf.Len() == 0 {
			fmt.Print("ilo> ")
		} else {
			fmt.Print("...> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if buf.Len() == 0 && strings.TrimSpace(line) == "exit" {
			fmt.Println("Exiting...")
			return
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth > 0 {
			continue
		}

		input := buf.String()
		buf.Reset()
		depth = 0
		if strings.TrimSpace(input) == "" {
			continue
		}

		if result, ok := run(input, logger); ok && result != "" {
			fmt.Println(result)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading input:", err)
	}
}
