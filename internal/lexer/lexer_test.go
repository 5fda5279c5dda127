package lexer_test

import (
	"testing"

	"github.com/lox-lang/loxvm/internal/lexer"
)

func scanAll(source string) []lexer.Token {
	lx := lexer.New(source)
	var toks []lexer.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Type == lexer.TokenEOF {
			return toks
		}
	}
}

func TestPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){};,.-+/* ! != = == < <= > >=")
	want := []lexer.TokenType{
		lexer.TokenLeftParen, lexer.TokenRightParen, lexer.TokenLeftBrace, lexer.TokenRightBrace,
		lexer.TokenSemicolon, lexer.TokenComma, lexer.TokenDot, lexer.TokenMinus, lexer.TokenPlus,
		lexer.TokenSlash, lexer.TokenStar, lexer.TokenBang, lexer.TokenBangEqual, lexer.TokenEqual,
		lexer.TokenEqualEqual, lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater,
		lexer.TokenGreaterEqual, lexer.TokenEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: type = %v, want %v", i, tok.Type, want[i])
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll("and class myVar print")
	want := []lexer.TokenType{lexer.TokenAnd, lexer.TokenClass, lexer.TokenIdentifier, lexer.TokenPrint, lexer.TokenEOF}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("token %d: type = %v, want %v", i, tok.Type, want[i])
		}
	}
	if toks[2].Lexeme != "myVar" {
		t.Errorf("identifier lexeme = %q, want myVar", toks[2].Lexeme)
	}
}

func TestNumberLiteral(t *testing.T) {
	toks := scanAll("123 1.5")
	if toks[0].Type != lexer.TokenNumber || toks[0].Lexeme != "123" {
		t.Errorf("token 0 = %+v, want NUMBER 123", toks[0])
	}
	if toks[1].Type != lexer.TokenNumber || toks[1].Lexeme != "1.5" {
		t.Errorf("token 1 = %+v, want NUMBER 1.5", toks[1])
	}
}

func TestStringLiteral(t *testing.T) {
	toks := scanAll(`"hello"`)
	if toks[0].Type != lexer.TokenString {
		t.Fatalf("token 0 type = %v, want STRING", toks[0].Type)
	}
	if toks[0].Lexeme != `"hello"` {
		t.Errorf("lexeme = %q, want quotes included", toks[0].Lexeme)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks := scanAll(`"oops`)
	if toks[0].Type != lexer.TokenError {
		t.Fatalf("token 0 type = %v, want ERROR", toks[0].Type)
	}
	if toks[0].Lexeme != "Unterminated string." {
		t.Errorf("message = %q", toks[0].Lexeme)
	}
}

func TestMultilineStringTracksLineNumber(t *testing.T) {
	lx := lexer.New("\"a\nb\"")
	tok := lx.Next()
	if tok.Type != lexer.TokenString {
		t.Fatalf("type = %v, want STRING", tok.Type)
	}
	next := lx.Next()
	if next.Type != lexer.TokenEOF || next.Line != 2 {
		t.Errorf("EOF line = %d, want 2", next.Line)
	}
}

func TestLineCommentsAreSkipped(t *testing.T) {
	toks := scanAll("1 // a comment\n2")
	if toks[0].Lexeme != "1" || toks[1].Lexeme != "2" {
		t.Fatalf("got %v, want [1 2 EOF]", toks)
	}
	if toks[1].Line != 2 {
		t.Errorf("second token line = %d, want 2", toks[1].Line)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	toks := scanAll("@")
	if toks[0].Type != lexer.TokenError {
		t.Fatalf("type = %v, want ERROR", toks[0].Type)
	}
	if toks[0].Lexeme != "Unexpected character." {
		t.Errorf("message = %q", toks[0].Lexeme)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx := lexer.New("")
	first := lx.Next()
	second := lx.Next()
	if first.Type != lexer.TokenEOF || second.Type != lexer.TokenEOF {
		t.Fatal("Next() should return TokenEOF forever once exhausted")
	}
}

func TestTokenTypeStringer(t *testing.T) {
	if lexer.TokenPrint.String() != "PRINT" {
		t.Errorf("TokenPrint.String() = %q, want PRINT", lexer.TokenPrint.String())
	}
	unknown := lexer.TokenType(9999)
	if unknown.String() != "UNKNOWN" {
		t.Errorf("undefined TokenType.String() = %q, want UNKNOWN", unknown.String())
	}
}
