package vm

import "fmt"

const STACK_MAX = 256

// InterpretResult classifies how an interpretation attempt ended.
type InterpretResult int

const (
	OK InterpretResult = iota
	COMPILE_ERROR
	RUNTIME_ERROR
)

func (r InterpretResult) String() string {
	switch r {
	case OK:
		return "OK"
	case COMPILE_ERROR:
		return "COMPILE_ERROR"
	case RUNTIME_ERROR:
		return "RUNTIME_ERROR"
	default:
		return "UNKNOWN"
	}
}

// RuntimeError is returned by the VM's dispatch loop when execution
// fails: a stack underflow, an unknown opcode, or running past the end
// of the chunk's code.
type RuntimeError struct {
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script", e.Message, e.Line)
}

// VM executes the bytecode held in a Chunk with a single value stack
// and no call frames — this subset has no functions to frame.
type VM struct {
	chunk    *Chunk
	ip       int
	stack    [STACK_MAX]Value
	stackTop int
}

// New returns a VM with an empty stack, ready to run a chunk.
func New() *VM {
	return &VM{}
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
}

func (vm *VM) push(value Value) {
	vm.stack[vm.stackTop] = value
	vm.stackTop++
}

// pop returns the top of the stack, or 0.0 if the stack is already
// empty — OP_RETURN on an empty stack is the one place this subset
// tolerates an underflow, to keep a bare top-level expressionless
// program a valid (if useless) one.
func (vm *VM) pop() Value {
	if vm.stackTop == 0 {
		return 0
	}
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

// Run executes chunk from the first instruction and returns the
// result of the trailing OP_RETURN, or a RuntimeError if dispatch
// fails first.
func (vm *VM) Run(chunk *Chunk) (Value, InterpretResult, error) {
	vm.chunk = chunk
	vm.ip = 0
	vm.resetStack()

	return vm.run()
}

func (vm *VM) run() (Value, InterpretResult, error) {
	readByte := func() byte {
		b := vm.chunk.Code[vm.ip]
		vm.ip++
		return b
	}

	binaryOp := func(op Opcode) error {
		if vm.stackTop < 2 {
			return vm.runtimeError("Stack underflow.")
		}
		b := vm.pop()
		a := vm.pop()

		switch op {
		case OP_ADD:
			vm.push(a + b)
		case OP_SUBTRACT:
			vm.push(a - b)
		case OP_MULTIPLY:
			vm.push(a * b)
		case OP_DIVIDE:
			vm.push(a / b)
		}
		return nil
	}

dispatch:
	for {
		if vm.ip >= len(vm.chunk.Code) {
			return 0, RUNTIME_ERROR, vm.runtimeError("Ran off the end of the chunk.")
		}

		instruction := Opcode(readByte())

		switch instruction {
		case OP_CONSTANT:
			idx := readByte()
			vm.push(vm.chunk.GetConstant(int(idx)))
			goto dispatch

		case OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE:
			if err := binaryOp(instruction); err != nil {
				return 0, RUNTIME_ERROR, err
			}
			goto dispatch

		case OP_NEGATE:
			if vm.stackTop < 1 {
				return 0, RUNTIME_ERROR, vm.runtimeError("Stack underflow.")
			}
			vm.stack[vm.stackTop-1] = -vm.stack[vm.stackTop-1]
			goto dispatch

		case OP_RETURN:
			result := vm.pop()
			fmt.Println(FormatValue(result))
			return result, OK, nil

		default:
			return 0, RUNTIME_ERROR, vm.runtimeError("Unknown opcode %d.", instruction)
		}
	}
}

func (vm *VM) runtimeError(format string, args ...interface{}) error {
	line := vm.chunk.GetLine(vm.ip - 1)
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Line: line}
}
