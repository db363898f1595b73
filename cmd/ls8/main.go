// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

func main() {
	var assemble bool
	var verbose bool

	flag.BoolVar(&assemble, "a", false, "FILE is assembler source, not binary text")
	flag.BoolVar(&verbose, "v", false, "Verbose mode, trace each instruction")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), translate.Line("usage: %v [-a] [-v] FILE", os.Args[0]))
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	filename := flag.Arg(0)
	inf, err := os.Open(filename)
	if err != nil {
		log.Printf("%v: %v", filename, err)
		os.Exit(2)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Tape.Output = os.Stdout

	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for equ, value := range emu.Defines() {
			asm.Predefine(equ, value)
		}
		emu.Program, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: verbose}
		emu.Program, err = ld.Parse(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", filename, err)
	}
}
