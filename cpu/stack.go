package cpu

// The stack lives in memory, below STACK_TOP, addressed by the SP register.

// Push decrements SP and stores a value at the new top of stack.
func (cpu *Cpu) Push(value uint8) (err error) {
	sp := cpu.Register[REG_SP]
	if sp == 0 {
		err = ErrStackOverflow
		return
	}

	sp--
	cpu.Memory[sp] = value
	cpu.Register[REG_SP] = sp

	return
}

// Pop returns the value at the top of stack and increments SP.
func (cpu *Cpu) Pop() (value uint8, err error) {
	sp := cpu.Register[REG_SP]
	if sp == MEMORY_SIZE-1 {
		err = ErrStackUnderflow
		return
	}

	value = cpu.Memory[sp]
	cpu.Register[REG_SP] = sp + 1

	return
}

// Peek returns the value at the top of stack.
func (cpu *Cpu) Peek() (value uint8, ok bool) {
	if cpu.Empty() {
		return
	}

	return cpu.Memory[cpu.Register[REG_SP]], true
}

// Depth returns the number of values pushed below STACK_TOP.
func (cpu *Cpu) Depth() int {
	sp := int(cpu.Register[REG_SP])
	if sp >= STACK_TOP {
		return 0
	}

	return STACK_TOP - sp
}

// Empty returns true when nothing is pushed below STACK_TOP.
func (cpu *Cpu) Empty() bool {
	return cpu.Depth() == 0
}
