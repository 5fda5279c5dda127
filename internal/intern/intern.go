// Package intern canonicalizes every Lox string so that identity equals
// content equality, ported from original_source/object.c's
// copyString/takeString/hashString. It is the one piece of state the
// compiler and the VM share (spec.md §2: "both share the interned-string
// pool") — the compiler interns string-literal constants at compile time,
// the VM interns the result of OP_ADD string concatenation at run time, and
// both rely on the same table to guarantee a single canonical *value.String
// per distinct byte sequence.
package intern

import (
	"github.com/lox-lang/loxvm/internal/table"
	"github.com/lox-lang/loxvm/internal/value"
)

// Pool owns the VM's strings table (used as a set: string -> Nil) and the
// heap-object registry every interned string is also registered into.
type Pool struct {
	Strings *table.Table
	Objects *value.Objects
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{Strings: table.New(), Objects: &value.Objects{}}
}

// fnv1a is the 32-bit FNV-1a hash spec.md §4.4 specifies: initial
// 2166136261, then hash = (hash XOR byte) * 16777619 per byte, wrapping at
// 32 bits (Go's uint32 arithmetic wraps natively).
func fnv1a(s string) uint32 {
	hash := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

// CopyString returns the canonical *value.String for chars, allocating and
// registering a new one only if no equal content is already interned. This
// is the path used when the caller doesn't yet own a buffer of its own
// (e.g. a string-literal lexeme slice) — ported from copyString.
func (p *Pool) CopyString(chars string) *value.String {
	hash := fnv1a(chars)
	if found := p.Strings.FindString(chars, hash); found != nil {
		return found
	}
	return p.allocate(chars, hash)
}

// TakeString returns the canonical *value.String for chars, where the
// caller already owns a freshly-built buffer (e.g. the result of OP_ADD
// string concatenation). In clox this frees the caller's buffer on an
// interning hit since C manually manages that memory; in Go the buffer is
// just an unreferenced string and the garbage collector reclaims it, so
// TakeString and CopyString differ only in the calling convention they
// document, not in behavior. Kept as a distinct entry point because
// spec.md §4.4 specifies it as one.
func (p *Pool) TakeString(chars string) *value.String {
	hash := fnv1a(chars)
	if found := p.Strings.FindString(chars, hash); found != nil {
		return found
	}
	return p.allocate(chars, hash)
}

func (p *Pool) allocate(chars string, hash uint32) *value.String {
	s := &value.String{Chars: chars, Hash: hash}
	s.Type = value.ObjString
	p.Objects.Register(&s.Obj)
	p.Strings.Set(s, value.Nil)
	return s
}
