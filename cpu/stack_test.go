package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.True(cpu.Empty())
	assert.Equal(uint8(STACK_TOP), cpu.Register[REG_SP])

	assert.NoError(cpu.Push(0x42))
	assert.False(cpu.Empty())
	assert.Equal(1, cpu.Depth())
	assert.Equal(uint8(STACK_TOP-1), cpu.Register[REG_SP])
	assert.Equal(uint8(0x42), cpu.Memory[STACK_TOP-1])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Push(0x12))
	assert.NoError(cpu.Push(0xAB))

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0xAB), val)
	assert.Equal(1, cpu.Depth())

	val, err = cpu.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0x12), val)
	assert.True(cpu.Empty())
	assert.Equal(uint8(STACK_TOP), cpu.Register[REG_SP])
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	val, ok := cpu.Peek()
	assert.False(ok)
	assert.Equal(uint8(0), val)

	assert.NoError(cpu.Push(0x12))
	assert.NoError(cpu.Push(0xAB))

	val, ok = cpu.Peek()
	assert.True(ok)
	assert.Equal(uint8(0xAB), val)
	assert.Equal(2, cpu.Depth())
}

func TestStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	for range STACK_TOP {
		assert.NoError(cpu.Push(0x55))
	}
	assert.Equal(uint8(0), cpu.Register[REG_SP])
	assert.Equal(STACK_TOP, cpu.Depth())

	err := cpu.Push(0x55)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(uint8(0), cpu.Register[REG_SP])
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[REG_SP] = MEMORY_SIZE - 2
	cpu.Memory[MEMORY_SIZE-2] = 0x99

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0x99), val)
	assert.Equal(uint8(MEMORY_SIZE-1), cpu.Register[REG_SP])

	_, err = cpu.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(uint8(MEMORY_SIZE-1), cpu.Register[REG_SP])
}

func TestStack_PopAboveTop(t *testing.T) {
	assert := assert.New(t)

	// Popping an empty stack reads the reserved area above STACK_TOP.
	cpu := NewCpu()
	cpu.Memory[STACK_TOP] = 0x77

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(uint8(0x77), val)
	assert.True(cpu.Empty())
	assert.Equal(0, cpu.Depth())
}
