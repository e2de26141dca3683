package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal on stdin.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// lineReader is satisfied by *liner.State and by bufferedLines.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// bufferedLines reads prompted lines from a plain reader, for piped input
// and tests.
type bufferedLines struct {
	r *bufio.Reader
	w io.Writer
}

func (b *bufferedLines) Prompt(prompt string) (string, error) {
	if _, err := fmt.Fprint(b.w, prompt); err != nil {
		return "", err
	}
	line, err := b.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var commandNames = []string{
	"help", "ping", "register", "create", "get", "list", "update",
	"delete", "rotate", "export", "exit",
}

// newPrompter opens a line editor on the terminal with history and
// command completion.
var newPrompter = func() (lineReader, func() error) {
	p := liner.NewLiner()
	p.SetCtrlCAborts(true)
	p.SetCompleter(func(line string) (c []string) {
		for _, name := range commandNames {
			if strings.HasPrefix(name, strings.ToLower(line)) {
				c = append(c, name)
			}
		}
		return
	})
	p.SetTabCompletionStyle(liner.TabCircular)
	return p, p.Close
}

// GetSimpleText prints a prompt to w and reads one line from reader. A
// final line without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	line, err := (&bufferedLines{r: reader, w: w}).Prompt(prompt + "\n> ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetMultiline prints a prompt to w and reads lines until an empty one.
// Lines are joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	return readMultiline(&bufferedLines{r: reader, w: w}, prompt, w)
}

func readMultiline(lr lineReader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := lr.Prompt("")
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func (a *App) lineReader() lineReader {
	if a.lines != nil {
		return a.lines
	}
	return &bufferedLines{r: a.reader, w: a.out}
}

// readContent returns note content from args, from an interactive prompt,
// or from piped stdin, in that order.
func (a *App) readContent(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if a.interactive || isTerminal() {
		return readMultiline(a.lineReader(), "Enter note content", a.out)
	}
	b, err := io.ReadAll(a.reader)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}
