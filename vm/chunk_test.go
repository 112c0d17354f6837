package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkWriteAndConstPool(t *testing.T) {
	c := NewChunk()
	idx := c.AddConst(VNum(42))
	c.Write(byte(OpConst), 1)
	c.Write(byte(idx), 1)
	c.Write(byte(OpReturn), 2)

	assert.Equal(t, []byte{byte(OpConst), byte(idx), byte(OpReturn)}, c.code)
	assert.Equal(t, []int{1, 1, 2}, c.lines)
	assert.Equal(t, VNum(42), c.consts[idx])
}

func TestDisassembleConstOperand(t *testing.T) {
	c := NewChunk()
	idx := c.AddConst(VNum(7))
	c.Write(byte(OpConst), 1)
	c.Write(byte(idx), 1)

	out, next := c.DisassembleInst(0)
	assert.Equal(t, 2, next)
	assert.Contains(t, out, "OpConst")
	assert.Contains(t, out, "7")
}

func TestDisassembleNoOperand(t *testing.T) {
	c := NewChunk()
	c.Write(byte(OpReturn), 1)

	out, next := c.DisassembleInst(0)
	assert.Equal(t, 1, next)
	assert.Contains(t, out, "OpReturn")
}

func TestDisassembleJumpShowsComputedTarget(t *testing.T) {
	c := NewChunk()
	c.Write(byte(OpJumpUnless), 1)
	c.Write(0, 1)
	c.Write(5, 1)
	c.Write(byte(OpPop), 1) // offset 3, part of the jumped-over region
	for i := 0; i < 5; i++ {
		c.Write(byte(OpNil), 1)
	}

	out, next := c.DisassembleInst(0)
	assert.Equal(t, 3, next)
	// offset(0) + 3 (instruction width) + jump(5) == 8
	assert.True(t, strings.Contains(out, "-> 8"), "got: %s", out)
}

func TestDisassembleLoopShowsBackwardTarget(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 4; i++ {
		c.Write(byte(OpNil), 1)
	}
	c.Write(byte(OpLoop), 1)
	c.Write(0, 1)
	c.Write(7, 1) // jump = 7, instruction starts at offset 4

	out, _ := c.DisassembleInst(4)
	// offset(4) + 3 - jump(7) == 0
	assert.True(t, strings.Contains(out, "-> 0"), "got: %s", out)
}

func TestDisassembleSameLineOmitsRepeat(t *testing.T) {
	c := NewChunk()
	c.Write(byte(OpNil), 1)
	c.Write(byte(OpTrue), 1)

	full := c.Disassemble("test")
	lines := strings.Split(strings.TrimRight(full, "\n"), "\n")
	assert.Len(t, lines, 3) // header + 2 instructions
	assert.Contains(t, lines[2], "|")
}
