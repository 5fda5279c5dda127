package value

import (
	"math"
	"testing"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil is falsey", Nil, false},
		{"false is falsey", BoolValue(false), false},
		{"true is truthy", BoolValue(true), true},
		{"zero is truthy", NumberValue(0), true},
		{"negative number is truthy", NumberValue(-1), true},
		{"empty string is truthy", &String{Chars: ""}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestIsFalsey(t *testing.T) {
	if !IsFalsey(Nil) {
		t.Error("Nil should be falsey")
	}
	if !IsFalsey(BoolValue(false)) {
		t.Error("false should be falsey")
	}
	if IsFalsey(NumberValue(0)) {
		t.Error("0 should be truthy, not falsey")
	}
}

func TestEqual(t *testing.T) {
	a := &String{Chars: "foo"}
	b := &String{Chars: "foo"} // deliberately NOT the same pointer

	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equals nil", Nil, Nil, true},
		{"nil not equal false", Nil, BoolValue(false), false},
		{"bool equals same bool", BoolValue(true), BoolValue(true), true},
		{"bool not equal different bool", BoolValue(true), BoolValue(false), false},
		{"number equals same number", NumberValue(1), NumberValue(1), true},
		{"number not equal different number", NumberValue(1), NumberValue(2), false},
		{"NaN not equal itself", NumberValue(math.NaN()), NumberValue(math.NaN()), false},
		{"same string pointer equal", a, a, true},
		{"equal-content distinct pointers not equal", a, b, false},
		{"string not equal number", a, NumberValue(1), false},
		{"cross-type never equal", BoolValue(true), NumberValue(1), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Equal(c.a, c.b); got != c.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestNumberString(t *testing.T) {
	cases := map[NumberValue]string{
		1:   "1",
		1.5: "1.5",
		-3:  "-3",
		0:   "0",
		100: "100",
	}
	for n, want := range cases {
		if got := n.String(); got != want {
			t.Errorf("NumberValue(%v).String() = %q, want %q", float64(n), got, want)
		}
	}
}

func TestObjectsRegistry(t *testing.T) {
	var objs Objects
	s1 := &String{Chars: "a"}
	s2 := &String{Chars: "b"}

	objs.Register(&s1.Obj)
	objs.Register(&s2.Obj)

	if objs.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", objs.Count())
	}

	objs.Reset()
	if objs.Count() != 0 {
		t.Fatalf("Count() after Reset() = %d, want 0", objs.Count())
	}
}
