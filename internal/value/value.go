// Package value implements the VM's tagged-union Value model: nil, bool,
// number and heap-object (currently only interned strings) variants, plus
// the intrusive heap-object registry used for bulk teardown.
package value

import "strconv"

// Value is the closed sum type {Nil, Bool, Number, Obj}. isValue is
// unexported so only the variants in this package can implement it, the
// same sealed-interface shape ajkachnic-ion's value.go uses for its own
// (open) Value interface.
type Value interface {
	isValue()
	String() string
	Truthy() bool
}

// NilValue is the sole inhabitant of Lox's nil type.
type NilValue struct{}

// Nil is the canonical nil value; comparisons and pushes should use this
// instead of constructing NilValue{} ad hoc.
var Nil = NilValue{}

func (NilValue) isValue()        {}
func (NilValue) String() string  { return "nil" }
func (NilValue) Truthy() bool    { return false }

// BoolValue wraps a Lox boolean.
type BoolValue bool

func (BoolValue) isValue() {}

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b BoolValue) Truthy() bool { return bool(b) }

// NumberValue wraps an IEEE-754 double. Every number is truthy, including
// zero — only Nil and BoolValue(false) are falsey.
type NumberValue float64

func (NumberValue) isValue() {}

func (n NumberValue) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (NumberValue) Truthy() bool { return true }

// ObjType tags the concrete variant of a heap Obj. Only String exists in
// this core; the tag exists so the registry and future variants share one
// discriminated shape.
type ObjType int

const (
	ObjString ObjType = iota
)

// Obj is the intrusive link embedded in every heap allocation. next threads
// the VM's object chain so freeVM-equivalent teardown can walk it.
type Obj struct {
	Type ObjType
	next *Obj
}

// String is the sole heap-object variant: an interned, content-addressed
// byte sequence. Two *String with equal Chars are always the same pointer —
// identity is established once, at construction time in the interner, and
// every later operation on strings relies on that pointer equality instead
// of a byte-for-byte comparison.
type String struct {
	Obj
	Chars string
	Hash  uint32
}

func (*String) isValue() {}

func (s *String) String() string { return s.Chars }

func (*String) Truthy() bool { return true }

// Equal implements spec equality: same variant, then variant-specific
// comparison. Numbers compare with Go's native float64 ==, so NaN != NaN
// falls out for free. Strings compare by pointer identity because they are
// interned — any two references to equal content are the same reference.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av == bv
	case *String:
		bv, ok := b.(*String)
		return ok && av == bv
	default:
		return false
	}
}

// IsFalsey reports whether v is one of Lox's two falsey values: Nil or
// BoolValue(false).
func IsFalsey(v Value) bool {
	return !v.Truthy()
}

// Objects is the VM's intrusive singly-linked chain of every heap
// allocation, mirroring clox's vm.objects / allocateObject. There is no
// garbage collector: objects are only ever appended, and Reset drops the
// whole chain at once (the Go GC then reclaims whatever nothing else
// references — the observable contract, per spec's design notes, is only
// that teardown leaks nothing, not that the chain is walked by hand).
type Objects struct {
	head  *Obj
	count int
}

// Register prepends o to the chain. Every *String must be registered
// exactly once, at construction, so it is reachable until Reset.
func (o *Objects) Register(obj *Obj) {
	obj.next = o.head
	o.head = obj
	o.count++
}

// Count returns the number of objects currently registered.
func (o *Objects) Count() int { return o.count }

// Reset walks the chain conceptually by dropping the head; this is the
// bulk-free performed at VM shutdown.
func (o *Objects) Reset() {
	o.head = nil
	o.count = 0
}
