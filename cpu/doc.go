// Package cpu implements the LS-8 machine, its program loader, and its assembler.
//
// The machine consists of a program counter (PC), 256 bytes of memory shared by
// program text and the stack, eight 8-bit registers (r0-r7, with r7 doubling as
// the stack pointer), and the Equal/Greater/Less flags set by CMP.
//
// Programs reach the machine either through the Loader, which reads the
// line-oriented binary text format, or through the Assembler, which accepts LS-8
// mnemonics with labels, equates, and compile-time expressions.
package cpu
