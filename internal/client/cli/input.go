package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/medinvest/medinvest/internal/client/console"
)

// readPassword reads without echo; tests replace it.
var readPassword = term.ReadPassword

// GetSimpleText shows prompt followed by a "> " marker and returns the
// trimmed answer. Email, deal fields and yes/no questions go through here.
func GetSimpleText(ctx context.Context, lines *console.Lines, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := lines.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads the account password from the controlling terminal with
// echo off. Wipe the result once the login request is built.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline collects pasted text for the assistant, such as a post to
// moderate or a deal description. An empty line or the end of input ends it.
func GetMultiline(ctx context.Context, lines *console.Lines, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var text []string
	for {
		line, err := lines.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if line == "" {
			break
		}
		text = append(text, line)
	}

	return strings.TrimSpace(strings.Join(text, "\n")), nil
}
