// Command lox is the REPL/file driver spec.md §6 describes as an external
// collaborator of the compiler/VM core. Grounded on ajkachnic-ion/bin/main.go's
// flag/runFile/repl shape: flag-based debug switches, a readline-driven REPL
// with live syntax highlighting, colorized diagnostics.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/reeflective/readline"
	"golang.org/x/term"

	"github.com/lox-lang/loxvm/internal/intern"
	"github.com/lox-lang/loxvm/internal/lexer"
	"github.com/lox-lang/loxvm/internal/table"
	lox "github.com/lox-lang/loxvm"
)

const helpMessage = `lox is a tiny bytecode-compiled scripting language.

Usage:
  lox [file]
`

var (
	debugTokens   = flag.Bool("debug-tokens", false, "print every scanned token")
	debugBytecode = flag.Bool("debug-bytecode", false, "print disassembled bytecode before executing")
	debugStrings  = flag.Bool("debug-strings", false, "print the interned string table after executing")
	noColor       = flag.Bool("no-color", false, "disable colorized diagnostics and REPL highlighting")
)

// exit codes per spec.md §6.
const (
	exitOK           = 0
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOError      = 74
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpMessage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	switch len(args) {
	case 0:
		repl()
	case 1:
		runFile(args[0])
	default:
		flag.Usage()
		os.Exit(exitUsage)
	}
}

func colorEnabled() bool {
	return !*noColor && isatty.IsTerminal(os.Stdout.Fd())
}

func errColor() *color.Color {
	if !colorEnabled() {
		return color.New()
	}
	return color.New(color.FgRed)
}

func runFile(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitIOError)
	}

	session := lox.NewVM()

	if *debugTokens {
		dumpTokens(string(content))
	}

	if *debugBytecode {
		c, _ := lox.Compile(string(content), internerOf(session))
		fmt.Fprintln(os.Stderr, strings.Repeat("-", termWidth()))
		fmt.Fprintln(os.Stderr, lox.Disassemble(c, path))
	}

	result, runErr := session.Interpret(string(content), func(s string) {
		fmt.Print(s)
	})

	if *debugStrings {
		dumpStrings(os.Stderr, internerOf(session))
	}

	switch result {
	case lox.ResultOK:
		os.Exit(exitOK)
	case lox.ResultCompileError:
		errColor().Fprint(os.Stderr, runErr.Error())
		os.Exit(exitCompileError)
	case lox.ResultRuntimeError:
		errColor().Fprint(os.Stderr, runErr.Error())
		os.Exit(exitRuntimeError)
	}
}

func repl() {
	out := colorable.NewColorableStdout()

	rl := readline.NewShell()
	rl.Prompt.Primary(func() string { return "> " })
	if colorEnabled() {
		rl.SyntaxHighlighter = highlight
	}

	session := lox.NewVM()

	for {
		text, err := rl.Readline()
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, err)
			break
		}
		if text == "" {
			continue
		}

		_, runErr := session.Interpret(text, func(s string) {
			fmt.Fprint(out, s)
		})
		if runErr != nil {
			errColor().Fprint(os.Stderr, runErr.Error())
		}
	}
}

// internerOf returns the session's shared pool through lox.VM's Pool
// accessor; only the CLI's debug flags need it.
func internerOf(session *lox.VM) *intern.Pool {
	return session.Pool()
}

func dumpTokens(source string) {
	lx := lexer.New(source)
	for {
		tok := lx.Next()
		fmt.Fprintf(os.Stderr, "%4d %-16v %q\n", tok.Line, tok.Type, tok.Lexeme)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
}

func dumpStrings(w io.Writer, pool *intern.Pool) {
	names := internedNames(pool.Strings)
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func internedNames(t *table.Table) []string {
	return sortedTableKeys(t)
}
