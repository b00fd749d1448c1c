// Package input contains the line readers used to get sampling requests from
// the CLI or other sources of input during an interactive session.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader is a source of request lines for an interactive sampling session.
type Reader interface {
	// ReadRequest blocks until a line of input is available and returns it
	// with surrounding whitespace trimmed. At end of input it returns io.EOF.
	ReadRequest() (string, error)

	// Close releases any resources held by the reader.
	Close() error
}

// DirectReader reads request lines from any generic input stream directly.
// It can be used with any io.Reader but does not sanitize the input of
// control and escape sequences.
//
// Create one with [NewDirectReader].
type DirectReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveReader reads request lines from stdin using a go implementation
// of the GNU Readline library. This keeps input clear of all typing and
// editing escape sequences and enables the use of input history. This should
// in general probably only be used when directly connected to a TTY.
//
// Create one with [NewInteractiveReader].
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a DirectReader with a buffered reader initialized
// on the provided stream. The returned reader must have Close() called on it
// before disposal.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates an InteractiveReader and initializes readline.
// The returned reader must have Close() called on it before disposal to
// properly teardown readline resources.
func NewInteractiveReader() (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{
		rl:     rl,
		prompt: "> ",
	}, nil
}

// Close cleans up resources associated with the DirectReader.
func (dr *DirectReader) Close() error {
	// nothing to release today, but callers should treat DirectReader as
	// though it must have Close called on it
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveReader.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadRequest reads the next line from the stream. The returned string will
// only be empty if there is an error reading input; otherwise this function
// is blocked on until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dr *DirectReader) ReadRequest() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && dr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadRequest reads the next line from stdin. The returned string will only
// be empty if there is an error; otherwise this function is blocked on until
// a line consisting of more than empty or whitespace-only input is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (ir *InteractiveReader) ReadRequest() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && ir.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank input lines are returned to the caller. By
// default they are skipped.
func (dr *DirectReader) AllowBlank(allow bool) {
	dr.blanksAllowed = allow
}

// AllowBlank sets whether blank input lines are returned to the caller. By
// default they are skipped.
func (ir *InteractiveReader) AllowBlank(allow bool) {
	ir.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.prompt = p
	ir.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (ir *InteractiveReader) GetPrompt() string {
	return ir.prompt
}
