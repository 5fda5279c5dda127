package chunk

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// operandWidths mirrors ajkachnic-ion/bytecode.go's Definition.operandWidths
// table, except every opcode in this core takes at most one single-byte
// operand (OP_CONSTANT's constant-pool index).
var operandWidths = map[OpCode]int{
	OpConstant: 1,
}

// Disassemble renders every instruction in c, prefixed with name as a
// header, in the classic clox disassembleChunk layout: offset, line number
// (or "|" when it repeats the previous instruction's line), mnemonic,
// operand.
func (c *Chunk) Disassemble(name string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "== %s ==\n", name)

	offset := 0
	for offset < len(c.Code) {
		offset = c.disassembleInstruction(&out, offset)
	}
	return out.String()
}

// DisassembleInstruction renders a single instruction at offset and returns
// the offset of the next one — useful for a REPL's -debug-bytecode flag
// printing incrementally as the compiler emits.
func (c *Chunk) DisassembleInstruction(offset int) (string, int) {
	var out strings.Builder
	next := c.disassembleInstruction(&out, offset)
	return out.String(), next
}

func (c *Chunk) disassembleInstruction(out *strings.Builder, offset int) int {
	fmt.Fprintf(out, "%04d ", offset)

	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(out, "   | ")
	} else {
		fmt.Fprintf(out, "%4d ", c.Lines[offset])
	}

	op := OpCode(c.Code[offset])
	width, hasOperand := operandWidths[op]

	if !hasOperand {
		fmt.Fprintln(out, op.Name())
		return offset + 1
	}

	switch width {
	case 1:
		operand := int(c.Code[offset+1])
		rendered := c.renderOperand(op, operand)
		fmt.Fprintf(out, "%-16s %4d %s\n", op.Name(), operand, rendered)
		return offset + 2
	default:
		fmt.Fprintf(out, "%s (unsupported operand width %d)\n", op.Name(), width)
		return offset + 1 + width
	}
}

// renderOperand prints a best-effort human label for an operand — for
// OP_CONSTANT, the constant's own String(), column-aligned with
// uniseg.StringWidth rather than len() so multi-byte UTF-8 string
// constants (Lox string literals may contain any valid UTF-8) don't throw
// off the disassembler's columns the way a byte-count width would.
func (c *Chunk) renderOperand(op OpCode, operand int) string {
	if op != OpConstant || operand < 0 || operand >= len(c.Constants) {
		return ""
	}

	rendered := c.Constants[operand].String()
	width := uniseg.StringWidth(rendered)
	if width < 20 {
		rendered += strings.Repeat(" ", 20-width)
	}
	return "'" + rendered + "'"
}
