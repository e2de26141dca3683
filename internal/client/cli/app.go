package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/notespal/internal/client/client"
	"github.com/dmitrijs2005/notespal/internal/client/config"
	"github.com/fatih/color"
	"github.com/peterh/liner"
)

var ErrUsage = errors.New("usage error")

type App struct {
	config      *config.Config
	client      client.Client
	reader      *bufio.Reader
	lines       lineReader
	out         io.Writer
	interactive bool
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewNotesClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		return nil, err
	}
	return &App{
		config: c,
		client: apiClient,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run executes the command in args, or starts the shell when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.client.Close()

	if len(args) == 0 {
		return a.shell(ctx)
	}
	return a.Execute(ctx, args[0], args[1:])
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// Execute runs a single command.
func (a *App) Execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.help()
		return nil
	case "ping":
		return a.ping(ctx)
	case "register":
		return a.register(ctx, args)
	case "create":
		return a.create(ctx)
	case "get", "show":
		return a.get(ctx, args)
	case "list", "l":
		return a.list(ctx)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "rotate":
		return a.rotate(ctx)
	case "export":
		return a.export(ctx, args)
	case "shell":
		return a.shell(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) help() {
	fmt.Fprintln(a.out, strings.TrimSpace(`
Commands:
  ping                                   check the server
  register [-email e] [-first f] [-last l] [-customer c]
  create                                 create an empty note
  get <id>                               print a note
  list                                   list notes
  update [-color #rrggbb] <id> [content] replace note content (stdin if omitted)
  delete <id>                            delete a note
  rotate                                 rotate the key salt, re-wrapping note keys
  export [-o file]                       export encrypted notes to object storage
  shell                                  interactive mode
  exit                                   leave the shell`))
}

// shell reads commands line by line until exit or EOF. On a terminal it
// uses a line editor with history.
func (a *App) shell(ctx context.Context) error {
	a.interactive = true
	if a.lines == nil && isTerminal() {
		p, closeFn := newPrompter()
		defer closeFn()
		a.lines = p
	}
	lr := a.lineReader()

	fmt.Fprintln(a.out, "NotesPal CLI (type 'help' for commands)")

	for {
		input, err := lr.Prompt("notes> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out)
				return nil
			}
			return err
		}
		line := strings.TrimSpace(input)
		if line == "" {
			continue
		}
		if h, ok := lr.(interface{ AppendHistory(string) }); ok {
			h.AppendHistory(line)
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		case "shell":
			continue
		}

		if err := a.Execute(ctx, parts[0], parts[1:]); err != nil {
			a.failure(err)
		}
	}
}

func (a *App) success(format string, args ...any) {
	fmt.Fprintf(a.out, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func (a *App) failure(err error) {
	fmt.Fprintln(a.out, color.RedString("✗"), "Error:", err)
}

func onlyArg(args []string, name string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: expected <%s>", ErrUsage, name)
	}
	return args[0], nil
}

func since(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
