package main

import (
	"fmt"
	"os"

	"github.com/peterh/liner"
)

const replPrompt = "sigma> "

// runREPL starts the interactive read-eval-print loop. Out-of-scope
// collaborator (spec.md §1): no incremental compilation, each entered
// line is compiled and printed-IR'd independently, grounded on
// daios-ai-msg/cmd/msg/main.go's liner-based prompt loop.
func runREPL(useColor bool) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	for {
		line, err := ln.Prompt(replPrompt)
		if err != nil {
			fmt.Println()
			return 0
		}
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		reporter := NewReporter()
		reporter.SetCurrentFile("<repl>")

		lexer := NewLexer(line, "<repl>", reporter)
		tokens := lexer.Lex()

		parser := NewParser(tokens, reporter)
		program := parser.Parse()

		if reporter.HadError() {
			reporter.PrintErrors(os.Stderr, useColor)
			continue
		}

		cg := NewCodeGen(reporter)
		module := cg.Generate(program)
		if reporter.HadError() || module == nil {
			reporter.PrintErrors(os.Stderr, useColor)
			continue
		}

		fmt.Println(module.String())
	}
}
