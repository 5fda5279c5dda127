// Package compiler implements the single-pass Pratt-parser-driven
// compiler: it consumes a token stream from internal/lexer and emits a
// internal/chunk.Chunk directly, with no intermediate AST. Ported from
// original_source/compiler.c's Parser/ParseRule/parsePrecedence shape,
// restructured per spec.md §9 as an explicit value threaded through calls
// instead of C's global `Parser parser;`/`Chunk* compilingChunk;`.
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox-lang/loxvm/internal/chunk"
	"github.com/lox-lang/loxvm/internal/intern"
	"github.com/lox-lang/loxvm/internal/lexer"
	"github.com/lox-lang/loxvm/internal/value"
)

// Precedence levels, lowest to highest, exactly as spec.md §4.6.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

// parseFn is one cell of the Pratt table: a prefix or infix parser bound to
// a Compiler. This is the "table of closures" alternative spec.md §9
// offers in place of C's raw ParseFn function pointers.
type parseFn func(c *Compiler)

type rule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is populated by an init() below rather than a package-level var
// initializer: binary and the other parse functions reach rules through
// getRule, so an initializer that referenced them would form an
// initialization cycle.
var rules map[lexer.TokenType]rule

func init() {
	rules = map[lexer.TokenType]rule{
		lexer.TokenLeftParen:    {grouping, nil, PrecNone},
		lexer.TokenMinus:        {unary, binary, PrecTerm},
		lexer.TokenPlus:         {nil, binary, PrecTerm},
		lexer.TokenSlash:        {nil, binary, PrecFactor},
		lexer.TokenStar:         {nil, binary, PrecFactor},
		lexer.TokenBang:         {unary, nil, PrecNone},
		lexer.TokenBangEqual:    {nil, binary, PrecEquality},
		lexer.TokenEqualEqual:   {nil, binary, PrecEquality},
		lexer.TokenGreater:      {nil, binary, PrecComparison},
		lexer.TokenGreaterEqual: {nil, binary, PrecComparison},
		lexer.TokenLess:         {nil, binary, PrecComparison},
		lexer.TokenLessEqual:    {nil, binary, PrecComparison},
		lexer.TokenString:       {stringLiteral, nil, PrecNone},
		lexer.TokenNumber:       {number, nil, PrecNone},
		lexer.TokenFalse:        {literal, nil, PrecNone},
		lexer.TokenNil:          {literal, nil, PrecNone},
		lexer.TokenTrue:         {literal, nil, PrecNone},
	}
}

func getRule(t lexer.TokenType) rule {
	return rules[t] // zero value {nil, nil, PrecNone} for every token with no rule
}

// Compiler is the parser's flat state, plus the chunk being emitted and the
// interning pool shared with the VM.
type Compiler struct {
	lex *lexer.Lexer
	pool *intern.Pool

	current  lexer.Token
	previous lexer.Token

	hadError  bool
	panicMode bool

	errs []string

	chunk *chunk.Chunk
}

// Compile parses source and emits a Chunk. On a compile error it still
// returns a (partially emitted, to-be-discarded) chunk and a non-nil error
// whose message is the concatenation of every reported error, one per line,
// in spec.md §6's `[line L] Error at '<lexeme>': <message>` format — no
// partial execution follows a compile error; the driver is expected to
// check err and never hand the chunk to the VM when it is non-nil.
func Compile(source string, pool *intern.Pool) (*chunk.Chunk, error) {
	c := &Compiler{
		lex:   lexer.New(source),
		pool:  pool,
		chunk: chunk.New(),
	}

	c.advance()
	for !c.match(lexer.TokenEOF) {
		c.declaration()
	}
	c.endCompiler()

	if c.hadError {
		return c.chunk, fmt.Errorf("%s", strings.Join(c.errs, ""))
	}
	return c.chunk, nil
}

func (c *Compiler) advance() {
	c.previous = c.current

	for {
		c.current = c.lex.Next()
		if c.current.Type != lexer.TokenError {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) consume(t lexer.TokenType, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) check(t lexer.TokenType) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t lexer.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

// errorAt is ported from compiler.c's errorAt: the first error in a run
// sets panicMode to suppress a cascade; every error sets hadError.
func (c *Compiler) errorAt(tok lexer.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	var where string
	switch tok.Type {
	case lexer.TokenEOF:
		where = " at end"
	case lexer.TokenError:
		where = ""
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}

	c.errs = append(c.errs, fmt.Sprintf("[line %d] Error%s: %s\n", tok.Line, where, message))
}

func (c *Compiler) errorAtCurrent(message string) { c.errorAt(c.current, message) }
func (c *Compiler) error(message string)          { c.errorAt(c.previous, message) }

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitOp(op chunk.OpCode) {
	c.emitByte(byte(op))
}

func (c *Compiler) emitOps(a, b chunk.OpCode) {
	c.emitOp(a)
	c.emitOp(b)
}

func (c *Compiler) emitConstant(v value.Value) {
	idx := c.makeConstant(v)
	c.emitOp(chunk.OpConstant)
	c.emitByte(idx)
}

// makeConstant enforces spec.md §4.6's 256-entry guard: addConstant must
// return an index representable in one byte.
func (c *Compiler) makeConstant(v value.Value) byte {
	idx := c.chunk.AddConstant(v)
	if idx >= chunk.MaxConstants() {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (c *Compiler) endCompiler() {
	c.emitOp(chunk.OpReturn)
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// declaration → statement, per spec.md's restricted grammar (no var/class/
// fun declarations exist in this core).
func (c *Compiler) declaration() {
	c.statement()
}

// statement → printStmt, the only statement form spec.md's Non-goals leave
// in scope.
func (c *Compiler) statement() {
	if c.match(lexer.TokenPrint) {
		c.printStatement()
		return
	}
	c.errorAtCurrent("Expect statement.")
	c.advance()
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	c.emitOp(chunk.OpPrint)
}

// parsePrecedence is the compiler's heart, ported verbatim in structure
// from original_source/compiler.c's function of the same name.
func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Type).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}
	prefixRule(c)

	for precedence <= getRule(c.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.previous.Type).infix
		infixRule(c)
	}
}

func grouping(c *Compiler) {
	c.expression()
	c.consume(lexer.TokenRightParen, "Expect ')' after expression.")
}

// unary compiles !/- at PREC_UNARY, then emits the operator post-order so
// the VM sees the operand pushed before the operator executes.
func unary(c *Compiler) {
	opType := c.previous.Type

	c.parsePrecedence(PrecUnary)

	switch opType {
	case lexer.TokenBang:
		c.emitOp(chunk.OpNot)
	case lexer.TokenMinus:
		c.emitOp(chunk.OpNegate)
	}
}

// binary recurses into the right operand at precedence+1 so left-associative
// operators parse as (a op b) op c rather than a op (b op c).
func binary(c *Compiler) {
	opType := c.previous.Type
	r := getRule(opType)
	c.parsePrecedence(r.precedence + 1)

	switch opType {
	case lexer.TokenBangEqual:
		c.emitOps(chunk.OpEqual, chunk.OpNot)
	case lexer.TokenEqualEqual:
		c.emitOp(chunk.OpEqual)
	case lexer.TokenGreater:
		c.emitOp(chunk.OpGreater)
	case lexer.TokenGreaterEqual:
		c.emitOps(chunk.OpLess, chunk.OpNot)
	case lexer.TokenLess:
		c.emitOp(chunk.OpLess)
	case lexer.TokenLessEqual:
		c.emitOps(chunk.OpGreater, chunk.OpNot)
	case lexer.TokenPlus:
		c.emitOp(chunk.OpAdd)
	case lexer.TokenMinus:
		c.emitOp(chunk.OpSubtract)
	case lexer.TokenStar:
		c.emitOp(chunk.OpMultiply)
	case lexer.TokenSlash:
		c.emitOp(chunk.OpDivide)
	}
}

func literal(c *Compiler) {
	switch c.previous.Type {
	case lexer.TokenFalse:
		c.emitOp(chunk.OpFalse)
	case lexer.TokenNil:
		c.emitOp(chunk.OpNil)
	case lexer.TokenTrue:
		c.emitOp(chunk.OpTrue)
	}
}

func number(c *Compiler) {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.NumberValue(n))
}

// internString strips the surrounding quotes and interns the remaining
// bytes via the shared pool, matching copyString(start+1, length-2).
func (c *Compiler) internString(lexeme string) *value.String {
	return c.pool.CopyString(lexeme[1 : len(lexeme)-1])
}

func stringLiteral(c *Compiler) {
	c.emitConstant(c.internString(c.previous.Lexeme))
}
