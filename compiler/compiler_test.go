package compiler

import (
	"testing"

	"rlox/vm"
)

func TestCompileNumberLiteral(t *testing.T) {
	chunk, ok := Compile("42")
	if !ok {
		t.Fatal("expected successful compile")
	}

	want := []byte{byte(vm.OP_CONSTANT), 0, byte(vm.OP_RETURN)}
	if len(chunk.Code) != len(want) {
		t.Fatalf("wrong bytecode length. want=%v got=%v", want, chunk.Code)
	}
	for i, b := range want {
		if chunk.Code[i] != b {
			t.Errorf("byte %d: want=%d got=%d", i, b, chunk.Code[i])
		}
	}
	if got := chunk.GetConstant(0); got != 42 {
		t.Errorf("expected constant 42, got %v", got)
	}
}

func TestCompileArithmeticEmitsExpectedOpcode(t *testing.T) {
	tests := []struct {
		input string
		op    vm.Opcode
	}{
		{"5 + 3", vm.OP_ADD},
		{"10 - 4", vm.OP_SUBTRACT},
		{"6 * 7", vm.OP_MULTIPLY},
		{"20 / 4", vm.OP_DIVIDE},
		{"-42", vm.OP_NEGATE},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			chunk, ok := Compile(tt.input)
			if !ok {
				t.Fatalf("expected successful compile of %q", tt.input)
			}

			found := false
			for _, b := range chunk.Code {
				if vm.Opcode(b) == tt.op {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected opcode %s not found in %v", tt.op, chunk.Code)
			}
		})
	}
}

func TestCompilePrecedence(t *testing.T) {
	// 2 + 3 * 4 must multiply before adding: push 2, push 3, push 4, mul, add
	chunk, ok := Compile("2 + 3 * 4")
	if !ok {
		t.Fatal("expected successful compile")
	}

	var ops []vm.Opcode
	for i := 0; i < len(chunk.Code); {
		op := vm.Opcode(chunk.Code[i])
		ops = append(ops, op)
		if op == vm.OP_CONSTANT {
			i += 2
		} else {
			i++
		}
	}

	want := []vm.Opcode{vm.OP_CONSTANT, vm.OP_CONSTANT, vm.OP_CONSTANT, vm.OP_MULTIPLY, vm.OP_ADD, vm.OP_RETURN}
	if len(ops) != len(want) {
		t.Fatalf("want=%v got=%v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: want=%s got=%s", i, want[i], ops[i])
		}
	}
}

func TestCompileGrouping(t *testing.T) {
	chunk, ok := Compile("(1 + 2) * 3")
	if !ok {
		t.Fatal("expected successful compile")
	}

	hasAdd, hasMul := false, false
	for _, b := range chunk.Code {
		switch vm.Opcode(b) {
		case vm.OP_ADD:
			hasAdd = true
		case vm.OP_MULTIPLY:
			hasMul = true
		}
	}
	if !hasAdd || !hasMul {
		t.Errorf("expected both ADD and MULTIPLY in %v", chunk.Code)
	}
}

func TestCompileUnexpectedCharacterFails(t *testing.T) {
	_, ok := Compile("@")
	if ok {
		t.Error("expected compilation to fail on unexpected character")
	}
}

func TestCompileMissingClosingParenFails(t *testing.T) {
	_, ok := Compile("(1 + 2")
	if ok {
		t.Error("expected compilation to fail on unterminated group")
	}
}

func TestCompileTrailingGarbageFails(t *testing.T) {
	_, ok := Compile("1 + 2 3")
	if ok {
		t.Error("expected compilation to fail on trailing tokens")
	}
}

func TestCompilePanicModeSuppressesCascadingErrors(t *testing.T) {
	// Two unexpected characters, and no expression after them; panic
	// mode keeps all but the first diagnostic off stderr. This checks
	// that compilation terminates, fails, and still returns a chunk.
	chunk, ok := Compile("@ @")
	if ok {
		t.Fatal("expected compilation to fail")
	}
	if chunk == nil {
		t.Fatal("expected a (possibly incomplete) chunk even on failure")
	}
}
