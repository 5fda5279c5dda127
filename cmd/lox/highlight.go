package main

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/exp/slices"

	"github.com/lox-lang/loxvm/internal/lexer"
	"github.com/lox-lang/loxvm/internal/table"
)

// highlight colorizes a REPL input line token-by-token, grounded on
// ajkachnic-ion/bin/main.go's highlight(): it rescans the line with the
// real lexer and re-emits each lexeme wrapped in a color matching its
// token class, leaving whitespace and punctuation between tokens untouched.
func highlight(line []rune) string {
	source := string(line)

	var out strings.Builder
	i := 0
	lx := lexer.New(source)

	for {
		tok := lx.Next()
		if tok.Type == lexer.TokenEOF {
			break
		}

		start := strings.Index(source[i:], tok.Lexeme)
		if start < 0 {
			break
		}
		start += i
		out.WriteString(source[i:start])

		switch tok.Type {
		case lexer.TokenString:
			out.WriteString(color.GreenString("%s", tok.Lexeme))
		case lexer.TokenNumber:
			out.WriteString(color.MagentaString("%s", tok.Lexeme))
		case lexer.TokenAnd, lexer.TokenClass, lexer.TokenElse, lexer.TokenFalse,
			lexer.TokenFor, lexer.TokenFun, lexer.TokenIf, lexer.TokenNil,
			lexer.TokenOr, lexer.TokenPrint, lexer.TokenReturn, lexer.TokenSuper,
			lexer.TokenThis, lexer.TokenTrue, lexer.TokenVar, lexer.TokenWhile:
			out.WriteString(color.CyanString("%s", tok.Lexeme))
		case lexer.TokenError:
			out.WriteString(color.RedString("%s", tok.Lexeme))
		default:
			out.WriteString(tok.Lexeme)
		}

		i = start + len(tok.Lexeme)
	}
	out.WriteString(source[i:])

	return out.String()
}

// sortedTableKeys returns t's live keys in a stable, deterministic order —
// table iteration order depends on bucket layout, which depends on
// insertion/resize history, so -debug-strings output would otherwise be
// nondeterministic between runs.
func sortedTableKeys(t *table.Table) []string {
	keys := t.Keys()
	slices.Sort(keys)
	return keys
}
