package lox_test

import (
	"strings"
	"testing"

	lox "github.com/lox-lang/loxvm"
)

func interpret(t *testing.T, source string) (string, lox.Result, error) {
	t.Helper()
	v := lox.NewVM()
	var out strings.Builder
	result, err := v.Interpret(source, func(s string) { out.WriteString(s) })
	return out.String(), result, err
}

func TestArithmeticPrecedenceEndToEnd(t *testing.T) {
	out, result, err := interpret(t, `print 1 + 2 * 3 - 4 / 2;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != lox.ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	if out != "7\n" {
		t.Errorf("output = %q, want %q", out, "7\n")
	}
}

func TestLeftAssociativityEndToEnd(t *testing.T) {
	out, _, err := interpret(t, `print 10 - 3 - 2;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "5\n" {
		t.Errorf("output = %q, want %q", out, "5\n")
	}
}

func TestStringConcatenationAndInterningEndToEnd(t *testing.T) {
	v := lox.NewVM()
	var out strings.Builder
	result, err := v.Interpret(`print "foo" + "bar" == "foobar";`, func(s string) { out.WriteString(s) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != lox.ResultOK {
		t.Fatalf("result = %v, want ResultOK", result)
	}
	if out.String() != "true\n" {
		t.Errorf("output = %q, want %q", out.String(), "true\n")
	}

	// Both "foobar" strings the program produces — the literal on the
	// right of == and the runtime concatenation result — must collapse
	// to a single interned entry.
	keys := v.Pool().Strings.Keys()
	count := 0
	for _, k := range keys {
		if k == "foobar" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one interned \"foobar\", found %d among %v", count, keys)
	}
}

func TestBooleanAndNilTruthinessEndToEnd(t *testing.T) {
	out, _, err := interpret(t, `print !nil == true;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "true\n" {
		t.Errorf("output = %q, want %q", out, "true\n")
	}

	out2, _, err2 := interpret(t, `print !false == true;`)
	if err2 != nil {
		t.Fatalf("unexpected error: %v", err2)
	}
	if out2 != "true\n" {
		t.Errorf("output = %q, want %q", out2, "true\n")
	}
}

func TestCrossTypeEqualityEndToEnd(t *testing.T) {
	out, _, err := interpret(t, `print 1 == "1";`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "false\n" {
		t.Errorf("output = %q, want %q", out, "false\n")
	}
}

func TestRuntimeTypeErrorEndToEnd(t *testing.T) {
	_, result, err := interpret(t, `print 1 + "a";`)
	if result != lox.ResultRuntimeError {
		t.Fatalf("result = %v, want ResultRuntimeError", result)
	}
	want := "Operands must be two numbers or two strings.\n[line 1] in script\n"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestCompileErrorEndToEnd(t *testing.T) {
	_, result, err := interpret(t, `print 1`)
	if result != lox.ResultCompileError {
		t.Fatalf("result = %v, want ResultCompileError", result)
	}
	if !strings.Contains(err.Error(), "Error at end") {
		t.Errorf("error = %q, want it to report an error at end", err.Error())
	}
}

func TestRepeatedInterpretSharesPool(t *testing.T) {
	v := lox.NewVM()
	var out strings.Builder
	stdout := func(s string) { out.WriteString(s) }

	if _, err := interpretWith(v, `print "shared";`, stdout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := interpretWith(v, `print "shared" == "shared";`, stdout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "shared\ntrue\n" {
		t.Errorf("output = %q, want %q", out.String(), "shared\ntrue\n")
	}
}

func interpretWith(v *lox.VM, source string, stdout func(string)) (lox.Result, error) {
	return v.Interpret(source, stdout)
}
