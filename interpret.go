// Package rlox composes the compiler and virtual machine into a
// single embeddable entry point, the way an embedding host (a REPL,
// a test harness, another program) wants to call it.
package rlox

import (
	"rlox/compiler"
	"rlox/vm"
)

// Interpret compiles and runs source in one call. It returns the
// final expression's value alongside an InterpretResult classifying
// how the attempt ended, mirroring the three outcomes a caller needs
// to distinguish: a clean result, a compile-time failure, or a
// runtime failure.
func Interpret(source string) (vm.Value, vm.InterpretResult, error) {
	chunk, ok := compiler.Compile(source)
	if !ok {
		return 0, vm.COMPILE_ERROR, nil
	}

	machine := vm.New()
	return machine.Run(chunk)
}
