package vm

import "fmt"

// Chunk is a sequence of bytecode instructions plus the metadata the
// VM and disassembler need to run and explain them.
type Chunk struct {
	Code      []byte     // bytecode instructions
	Lines     []int      // source line for each byte in Code, same length as Code
	Constants ValueArray // constant pool
}

// NewChunk returns an empty chunk ready to be written to.
func NewChunk() *Chunk {
	return &Chunk{
		Code:  make([]byte, 0, 256),
		Lines: make([]int, 0, 256),
	}
}

// WriteByte appends a raw byte to the chunk's code, recording the
// source line it came from. Code and Lines always grow in lockstep.
func (c *Chunk) WriteByte(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOpcode appends an opcode's byte encoding.
func (c *Chunk) WriteOpcode(op Opcode, line int) {
	c.WriteByte(byte(op), line)
}

// Count returns the number of bytes of bytecode in the chunk.
func (c *Chunk) Count() int {
	return len(c.Code)
}

// AddConstant adds value to the constant pool and returns its index.
// Callers are responsible for the 256-constant-per-chunk limit
// (indices 0-255); the index is encoded as a single byte by OP_CONSTANT.
func (c *Chunk) AddConstant(value Value) int {
	return c.Constants.Write(value)
}

// GetConstant retrieves a constant by index.
func (c *Chunk) GetConstant(index int) Value {
	return c.Constants.Get(index)
}

// GetLine returns the source line number for a bytecode offset.
func (c *Chunk) GetLine(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}

// Disassemble prints the entire chunk with human-readable instruction
// names under a heading of name.
func (c *Chunk) Disassemble(name string) {
	fmt.Printf("== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.DisassembleInstruction(offset)
	}
}

// DisassembleInstruction prints a single instruction starting at
// offset and returns the offset of the next instruction.
func (c *Chunk) DisassembleInstruction(offset int) int {
	fmt.Printf("%04d ", offset)

	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Print("   | ")
	} else {
		fmt.Printf("%4d ", c.Lines[offset])
	}

	instruction := Opcode(c.Code[offset])

	switch instruction {
	case OP_RETURN, OP_NEGATE, OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE:
		return c.simpleInstruction(instruction, offset)
	case OP_CONSTANT:
		return c.constantInstruction(instruction, offset)
	default:
		fmt.Printf("Unknown opcode %d\n", instruction)
		return offset + 1
	}
}

func (c *Chunk) simpleInstruction(op Opcode, offset int) int {
	fmt.Printf("%s\n", op.String())
	return offset + 1
}

func (c *Chunk) constantInstruction(op Opcode, offset int) int {
	constantIdx := c.Code[offset+1]
	fmt.Printf("%-16s %4d '%s'\n", op.String(), constantIdx, FormatValue(c.Constants.Get(int(constantIdx))))
	return offset + 2
}
