// Package vm implements the stack-based dispatch loop: it decodes a
// internal/chunk.Chunk and executes it against a fixed-size value stack,
// orchestrating the globals and interned-strings tables shared with the
// compiler. Ported from original_source/vm.h's VM struct and the run()
// dispatch loop spec.md §4.7 describes, re-architected per spec.md §9 as an
// explicit value instead of C's `extern VM vm;` global singleton.
package vm

import (
	"fmt"

	"github.com/lox-lang/loxvm/internal/chunk"
	"github.com/lox-lang/loxvm/internal/intern"
	"github.com/lox-lang/loxvm/internal/table"
	"github.com/lox-lang/loxvm/internal/value"
)

// StackMax is the fixed value-stack capacity, matching clox's STACK_MAX.
const StackMax = 256

// RuntimeError is returned by Run on a type mismatch or other runtime
// fault. Error() renders spec.md §6's exact wire format:
// "<message>\n[line L] in script\n".
type RuntimeError struct {
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script\n", e.Message, e.Line)
}

// VM holds the stack, the chunk/ip cursor, and the globals table. The
// interning pool is shared with whatever Compiler produced the chunk being
// run, so string identity established at compile time stays valid across
// Run calls within the same pool's lifetime.
type VM struct {
	chunk *chunk.Chunk
	ip    int

	stack    [StackMax]value.Value
	stackTop int

	globals *table.Table
	pool    *intern.Pool
}

// New returns a VM sharing pool's interned-string table. globals starts
// empty; it outlives individual Run calls the same way the interner does.
func New(pool *intern.Pool) *VM {
	return &VM{globals: table.New(), pool: pool}
}

// Reset clears the stack, used after a runtime error per spec.md §7.
func (vm *VM) Reset() {
	vm.stackTop = 0
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

// Run executes c to completion or the first runtime error. stdout is where
// OP_PRINT writes; it is a parameter (not a package-level os.Stdout) so
// tests can capture it.
func (vm *VM) Run(c *chunk.Chunk, stdout func(string)) error {
	vm.chunk = c
	vm.ip = 0

	for {
		op := chunk.OpCode(vm.readByte())

		switch op {
		case chunk.OpConstant:
			constant := vm.readConstant()
			vm.push(constant)

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.BoolValue(true))
		case chunk.OpFalse:
			vm.push(value.BoolValue(false))

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.BoolValue(value.Equal(a, b)))

		case chunk.OpGreater:
			if err := vm.binaryCompare(func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.binaryCompare(func(a, b float64) bool { return a < b }); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.OpSubtract:
			if err := vm.binaryNumeric(func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case chunk.OpMultiply:
			if err := vm.binaryNumeric(func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case chunk.OpDivide:
			if err := vm.binaryNumeric(func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case chunk.OpNot:
			vm.push(value.BoolValue(value.IsFalsey(vm.pop())))

		case chunk.OpNegate:
			n, ok := vm.peek(0).(value.NumberValue)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case chunk.OpPrint:
			stdout(vm.pop().String() + "\n")

		case chunk.OpReturn:
			return nil

		default:
			return vm.runtimeError(fmt.Sprintf("Unknown opcode %d.", op))
		}
	}
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

// runtimeError reports the message plus the line of the instruction that
// just ran (ip-1, since ip always points at the *next* byte to decode) and
// resets the stack, per spec.md §4.7/§7.
func (vm *VM) runtimeError(message string) error {
	line := vm.chunk.Lines[vm.ip-1]
	vm.Reset()
	return &RuntimeError{Message: message, Line: line}
}

func (vm *VM) binaryNumeric(f func(a, b float64) float64) error {
	bv, bok := vm.peek(0).(value.NumberValue)
	av, aok := vm.peek(1).(value.NumberValue)
	if !aok || !bok {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(value.NumberValue(f(float64(av), float64(bv))))
	return nil
}

func (vm *VM) binaryCompare(f func(a, b float64) bool) error {
	bv, bok := vm.peek(0).(value.NumberValue)
	av, aok := vm.peek(1).(value.NumberValue)
	if !aok || !bok {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(value.BoolValue(f(float64(av), float64(bv))))
	return nil
}

// add implements OP_ADD's dual numeric/string behavior: two numbers add
// numerically, two strings concatenate into a freshly interned string,
// anything else is a runtime error.
func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)

	if an, aok := a.(value.NumberValue); aok {
		if bn, bok := b.(value.NumberValue); bok {
			vm.pop()
			vm.pop()
			vm.push(an + bn)
			return nil
		}
	}

	if as, aok := a.(*value.String); aok {
		if bs, bok := b.(*value.String); bok {
			vm.pop()
			vm.pop()
			vm.push(vm.pool.TakeString(as.Chars + bs.Chars))
			return nil
		}
	}

	return vm.runtimeError("Operands must be two numbers or two strings.")
}
