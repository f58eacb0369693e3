// Package compiler turns source text directly into bytecode in a
// single pass, using a Pratt (operator-precedence) parser with no
// intermediate syntax tree.
package compiler

import (
	"fmt"
	"os"
	"strconv"

	"rlox/scanner"
	"rlox/token"
	"rlox/vm"
)

// Precedence orders the binding power of infix operators, lowest
// first. Parsing an expression at a given precedence consumes every
// infix operator that binds at least that tightly.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LeftParen: {prefix: (*Compiler).grouping},
		token.Minus:     {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:      {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash:     {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:      {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Number:    {prefix: (*Compiler).number},
	}
}

func getRule(kind token.Kind) parseRule {
	return rules[kind]
}

// Compiler compiles one source string into one Chunk. It holds no
// state beyond a single compilation.
type Compiler struct {
	source  string
	scan    *scanner.Scanner
	current token.Token
	prev    token.Token
	chunk   *vm.Chunk

	hadError  bool
	panicMode bool
}

// Compile compiles source into a Chunk. The returned bool reports
// whether compilation succeeded; on failure the returned chunk is
// usable but incomplete, and diagnostics have already been written to
// stderr.
func Compile(source string) (*vm.Chunk, bool) {
	c := &Compiler{
		source: source,
		scan:   scanner.New(source),
		chunk:  vm.NewChunk(),
	}

	c.advance()
	c.expression()
	c.consume(token.EOF, "Expect end of expression.")
	c.endCompiler()

	return c.chunk, !c.hadError
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()

	rule := getRule(c.prev.Kind)
	if rule.prefix == nil {
		c.errorAtPrev("Expect expression.")
		return
	}
	rule.prefix(c)

	for precedence <= getRule(c.current.Kind).precedence {
		c.advance()
		infix := getRule(c.prev.Kind).infix
		if infix == nil {
			return
		}
		infix(c)
	}
}

func (c *Compiler) number() {
	lexeme := c.prev.Lexeme(c.source)
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		c.errorAtPrev("Invalid number literal.")
		return
	}
	c.emitConstant(value)
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary() {
	opKind := c.prev.Kind

	c.parsePrecedence(PrecUnary)

	switch opKind {
	case token.Minus:
		c.emitOpcode(vm.OP_NEGATE)
	}
}

func (c *Compiler) binary() {
	opKind := c.prev.Kind
	rule := getRule(opKind)
	c.parsePrecedence(rule.precedence + 1)

	switch opKind {
	case token.Plus:
		c.emitOpcode(vm.OP_ADD)
	case token.Minus:
		c.emitOpcode(vm.OP_SUBTRACT)
	case token.Star:
		c.emitOpcode(vm.OP_MULTIPLY)
	case token.Slash:
		c.emitOpcode(vm.OP_DIVIDE)
	}
}

// advance pulls tokens from the scanner until it finds one that isn't
// an error, reporting each error token along the way.
func (c *Compiler) advance() {
	c.prev = c.current

	for {
		c.current = c.scan.Next()
		if c.current.Kind != token.Err {
			break
		}
		c.errorAtCurrent(c.current.Message)
	}
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) errorAtPrev(message string) {
	c.errorAt(c.prev, message)
}

// errorAt reports a diagnostic at token, then enters panic mode so
// cascading errors from the same failure are suppressed until the
// parser resynchronizes (in this subset, at EOF).
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true

	fmt.Fprintf(os.Stderr, "[line %d] Error", tok.Line)

	switch tok.Kind {
	case token.EOF:
		fmt.Fprint(os.Stderr, " at end")
	case token.Err:
	default:
		fmt.Fprintf(os.Stderr, " at '%s'", tok.Lexeme(c.source))
	}

	fmt.Fprintf(os.Stderr, ": %s\n", message)
	c.hadError = true
}

func (c *Compiler) emitByte(b byte) {
	c.chunk.WriteByte(b, c.prev.Line)
}

func (c *Compiler) emitOpcode(op vm.Opcode) {
	c.chunk.WriteOpcode(op, c.prev.Line)
}

func (c *Compiler) emitBytes(b1, b2 byte) {
	c.emitByte(b1)
	c.emitByte(b2)
}

func (c *Compiler) emitReturn() {
	c.emitOpcode(vm.OP_RETURN)
}

func (c *Compiler) endCompiler() {
	c.emitReturn()
}

func (c *Compiler) emitConstant(value vm.Value) {
	c.emitBytes(byte(vm.OP_CONSTANT), c.makeConstant(value))
}

// makeConstant adds value to the chunk's constant pool and returns its
// index as a byte. OP_CONSTANT's operand is a single byte, so a chunk
// can hold at most 256 constants.
func (c *Compiler) makeConstant(value vm.Value) byte {
	index := c.chunk.AddConstant(value)
	if index > 255 {
		c.errorAtPrev("Too many constants in one chunk.")
		return 0
	}
	return byte(index)
}
