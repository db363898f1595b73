package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader reads the LS-8 binary text format: one byte per line, written as
// eight binary digits, with '#' starting a comment.
type Loader struct {
	Verbose bool // If set, logs each line as it is read.
}

// Parse parses an input stream into a Program of single byte statements.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	address := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if ld.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		words := strings.Fields(line)

		if len(words) == 0 {
			continue
		}

		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}

		var value uint8
		value, err = parseBinary(words[0])
		if err != nil {
			return
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo:  lineno,
			Address: address,
			Words:   words,
			Bytes:   []uint8{value},
		})
		address++
	}

	err = scanner.Err()
	return
}

// parseBinary parses exactly eight binary digits, most significant first.
func parseBinary(word string) (value uint8, err error) {
	if len(word) != 8 {
		err = ErrParseBinary(word)
		return
	}

	v64, err := strconv.ParseUint(word, 2, 8)
	if err != nil {
		err = ErrParseBinary(word)
		return
	}

	value = uint8(v64)
	return
}
