// Package lox wires the compiler and VM together, mirroring
// ajkachnic-ion/core/core.go's Interpret/Compile/Execute free functions:
// an explicit *VM value is threaded through instead of reaching for a
// package-level global, per spec.md §9's re-architecture note.
package lox

import (
	"github.com/lox-lang/loxvm/internal/chunk"
	"github.com/lox-lang/loxvm/internal/compiler"
	"github.com/lox-lang/loxvm/internal/intern"
	"github.com/lox-lang/loxvm/internal/vm"
)

// Result mirrors spec.md §6's three-way CLI exit code split.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

// VM bundles a vm.VM with the interning pool it and its compiler share, and
// the REPL-session state (the symbol/constant continuity across repeated
// Interpret calls) a single persistent session needs.
type VM struct {
	pool *intern.Pool
	vm   *vm.VM
}

// NewVM returns a fresh VM with an empty interning pool and globals table —
// one REPL session or one file run should use exactly one VM.
func NewVM() *VM {
	pool := intern.New()
	return &VM{pool: pool, vm: vm.New(pool)}
}

// Interpret compiles and runs source, writing print output through stdout.
// It returns the spec.md §6 result classification alongside any error text
// already formatted to the exact wire format the driver should print
// verbatim.
func (v *VM) Interpret(source string, stdout func(string)) (Result, error) {
	c, err := Compile(source, v.pool)
	if err != nil {
		return ResultCompileError, err
	}

	if err := v.vm.Run(c, stdout); err != nil {
		return ResultRuntimeError, err
	}
	return ResultOK, nil
}

// Pool exposes the VM's shared interning pool, used by the CLI's debug
// flags to dump the intern table without reaching into VM internals.
func (v *VM) Pool() *intern.Pool { return v.pool }

// Compile runs the compiler in isolation (used by `-debug-bytecode` and by
// tests that want to inspect the emitted chunk without executing it).
func Compile(source string, pool *intern.Pool) (*chunk.Chunk, error) {
	return compiler.Compile(source, pool)
}

// Disassemble renders c the way the CLI's -debug-bytecode flag does.
func Disassemble(c *chunk.Chunk, name string) string {
	return c.Disassemble(name)
}
