// Package console serialises terminal input between the REPL, prompts and
// the terminal biometric sensor.
package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// Lines hands out input lines read by a single goroutine. A caller that
// gives up through its context leaves no read behind, so the next line goes
// to the next caller.
type Lines struct {
	r     *bufio.Reader
	lines chan string
	err   error // valid once lines is closed
	start sync.Once
}

func NewLines(r io.Reader) *Lines {
	return &Lines{r: bufio.NewReader(r), lines: make(chan string)}
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is returned as is; after that ReadLine returns io.EOF
// or the read error.
func (l *Lines) ReadLine(ctx context.Context) (string, error) {
	l.start.Do(func() { go l.run() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			return "", l.err
		}
		return line, nil
	}
}

func (l *Lines) run() {
	defer close(l.lines)
	for {
		line, err := l.r.ReadString('\n')
		if len(line) > 0 {
			l.lines <- strings.TrimRight(line, "\r\n")
		}
		if err != nil {
			l.err = err
			return
		}
	}
}
