package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkWriteKeepsCodeAndLinesInSync(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteOpcode(OP_RETURN, 1)
	chunk.WriteOpcode(OP_NEGATE, 2)
	chunk.WriteByte(0x7, 2)

	require.Equal(t, len(chunk.Code), len(chunk.Lines))
	require.Equal(t, 2, chunk.GetLine(2))
}

func TestChunkAddConstantReturnsIndex(t *testing.T) {
	chunk := NewChunk()

	i0 := chunk.AddConstant(1.5)
	i1 := chunk.AddConstant(2.5)

	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, 1.5, chunk.GetConstant(i0))
	require.Equal(t, 2.5, chunk.GetConstant(i1))
}

func TestChunkAddConstantDoesNotDeduplicate(t *testing.T) {
	chunk := NewChunk()

	i0 := chunk.AddConstant(7)
	i1 := chunk.AddConstant(7)

	require.NotEqual(t, i0, i1, "each AddConstant call gets its own slot")
}

func TestChunkGetLineOutOfRange(t *testing.T) {
	chunk := NewChunk()
	chunk.WriteOpcode(OP_RETURN, 5)

	require.Equal(t, 0, chunk.GetLine(-1))
	require.Equal(t, 0, chunk.GetLine(100))
}
