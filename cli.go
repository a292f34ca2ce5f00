package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
)

const versionString = "sigma 0.1.0"

func showUsage() {
	fmt.Fprint(os.Stderr, `sigma - a whole-program compiler for the Sigma language

Usage:
    sigma [flags] [source.sg]

Flags:
    --run          compile and run (default when a source path is given)
    -o <file>      compile to a native executable at <file>
    --emit-ir      write the generated LLVM IR to standard output
    --tokens       print the token stream and exit
    --ast          print the parsed AST and exit
    -v, --version  print the version and exit
    -h, --help     print this help and exit

With no source path, sigma starts an interactive REPL.
`)
}

// run is the testable entry point main() defers to, grounded on
// strager-Zong/cli.go's separation between flag handling and the
// compile pipeline itself.
func run(args []string) int {
	fs := flag.NewFlagSet("sigma", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	output := fs.String("o", "", "compile to a native executable at this path")
	emitIR := fs.Bool("emit-ir", false, "write the generated IR to standard output")
	showTokens := fs.Bool("tokens", false, "print the token stream and exit")
	showAST := fs.Bool("ast", false, "print the parsed AST and exit")
	runFlag := fs.Bool("run", false, "compile and run")
	version := fs.Bool("version", false, "print the version and exit")
	versionShort := fs.Bool("v", false, "print the version and exit")
	help := fs.Bool("help", false, "print this help and exit")
	helpShort := fs.Bool("h", false, "print this help and exit")

	fs.Usage = showUsage
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpShort {
		showUsage()
		return 0
	}
	if *version || *versionShort {
		fmt.Println(versionString)
		return 0
	}

	if fs.NArg() == 0 {
		return runREPL(true)
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one source path, got %d\n", fs.NArg())
		return 1
	}

	path := fs.Arg(0)
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		return 1
	}

	reporter := NewReporter()
	reporter.SetCurrentFile(path)

	lexer := NewLexer(source, path, reporter)
	tokens := lexer.Lex()

	if *showTokens {
		for _, t := range tokens {
			fmt.Println(t.String())
		}
		return exitCode(reporter)
	}

	parser := NewParser(tokens, reporter)
	program := parser.Parse()

	if *showAST {
		fmt.Print(ProgramToSExpr(program))
		return exitCode(reporter)
	}

	if reporter.HadError() {
		reporter.PrintErrors(os.Stderr, true)
		return 1
	}

	cg := NewCodeGen(reporter)
	module := cg.Generate(program)
	if reporter.HadError() || module == nil {
		reporter.PrintErrors(os.Stderr, true)
		return 1
	}

	if *emitIR {
		fmt.Println(module.String())
		return 0
	}

	if *output != "" {
		return compileToNative(module.String(), *output)
	}

	// --run is the default action whenever a source path is given.
	_ = runFlag
	return compileAndRun(module.String())
}

func exitCode(r *Reporter) int {
	if r.HadError() {
		r.PrintErrors(os.Stderr, true)
		return 1
	}
	return 0
}

// compileToNative hands textual IR to the external toolchain to
// produce a native executable at outputPath. Invocation of the native
// code generator/linker is an out-of-scope black box (spec.md §1);
// this is the thinnest shim that still produces a runnable binary.
func compileToNative(ir string, outputPath string) int {
	if code := linkNative(ir, outputPath); code != 0 {
		return code
	}
	fmt.Printf("Generated %s\n", outputPath)
	return 0
}

func linkNative(ir string, outputPath string) int {
	irFile, err := os.CreateTemp("", "sigma-*.ll")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating temporary IR file: %v\n", err)
		return 1
	}
	defer os.Remove(irFile.Name())

	if _, err := irFile.WriteString(ir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing temporary IR file: %v\n", err)
		return 1
	}
	irFile.Close()

	cmd := exec.Command("clang", irFile.Name(), "-o", outputPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Native compilation failed: %v\n", err)
		return 1
	}
	return 0
}

// compileAndRun compiles to a temporary binary, executes it, and
// returns its exit status, per spec.md §6 ("the compile-and-run path
// returns the executed program's exit status").
func compileAndRun(ir string) int {
	tempExe, err := os.CreateTemp("", "sigma-run-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating temporary executable: %v\n", err)
		return 1
	}
	tempExe.Close()
	defer os.Remove(tempExe.Name())

	if code := linkNative(ir, tempExe.Name()); code != 0 {
		return code
	}

	cmd := exec.Command(tempExe.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		return 1
	}
	return 0
}
