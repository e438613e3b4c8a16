// Package console is a line-oriented terminal: write a prompt, block until a
// full line arrives, hand it back trimmed.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Terminal reads lines from in and writes text to out. Lines have no length
// limit. It is not safe for concurrent use.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// New wraps r and w.
func New(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(r),
		out: w,
	}
}

// Prompt writes prompt (no newline) and returns the next input line with
// surrounding whitespace removed. It returns io.EOF once input is exhausted.
func (t *Terminal) Prompt(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(t.out, prompt)
	}
	line, err := t.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
		// A final line without a newline still counts; EOF comes next call.
		if line == "" {
			return "", io.EOF
		}
	}
	return strings.TrimSpace(line), nil
}

// Println writes the operands followed by a newline.
func (t *Terminal) Println(a ...any) {
	fmt.Fprintln(t.out, a...)
}

// Printf writes formatted text.
func (t *Terminal) Printf(format string, a ...any) {
	fmt.Fprintf(t.out, format, a...)
}
