package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dmitrijs2005/notespal/internal/netx"
	"github.com/dmitrijs2005/notespal/internal/noteapi"
)

// downloadBackup is a test seam for netx.DownloadFromPresignedURL.
var downloadBackup = netx.DownloadFromPresignedURL

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) ping(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	a.success("OK")
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	var p noteapi.Profile
	fs := a.flagSet("register")
	fs.StringVar(&p.Email, "email", "", "email")
	fs.StringVar(&p.FirstName, "first", "", "first name")
	fs.StringVar(&p.LastName, "last", "", "last name")
	fs.StringVar(&p.CustomerID, "customer", "", "billing customer id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	r, err := a.client.Register(ctx, p)
	if err != nil {
		return err
	}
	a.success("Registered %s", r.ID)
	return nil
}

func (a *App) create(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	n, err := a.client.CreateNote(ctx)
	if err != nil {
		return err
	}
	a.success("Created %s (%s)", n.ID, n.TapeColor)
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	id, err := onlyArg(args, "id")
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	n, err := a.client.GetNote(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s  %s  updated %s\n%s\n", n.ID, n.TapeColor, since(n.UpdatedAt), n.Content)
	return nil
}

func (a *App) list(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	notes, err := a.client.ListNotes(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOLOR\tUPDATED\tPREVIEW")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.TapeColor, since(n.UpdatedAt), preview(n.Content, 40))
	}
	return tw.Flush()
}

func (a *App) update(ctx context.Context, args []string) error {
	fs := a.flagSet("update")
	color := fs.String("color", "", "tape color, #rrggbb")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: expected <id> [content]", ErrUsage)
	}

	content, err := a.readContent(rest[1:])
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	n, err := a.client.UpdateNote(ctx, rest[0], content, *color)
	if err != nil {
		return err
	}
	a.success("Updated %s", n.ID)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := onlyArg(args, "id")
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.DeleteNote(ctx, id); err != nil {
		return err
	}
	a.success("Deleted %s", id)
	return nil
}

func (a *App) rotate(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	n, err := a.client.RotateKey(ctx)
	if err != nil {
		return err
	}
	a.success("Key rotated, %d note keys re-wrapped", n)
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	output := fs.String("o", "", "download the backup to this file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	b, err := a.client.Export(rctx)
	if err != nil {
		return err
	}
	a.success("Exported %d notes to %s", b.Notes, b.StorageKey)
	fmt.Fprintln(a.out, b.URL)

	if *output == "" {
		return nil
	}
	return a.download(ctx, b.URL, *output)
}

func (a *App) download(ctx context.Context, url, path string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	n, err := downloadBackup(ctx, url, f)
	if err != nil {
		return err
	}
	a.success("Saved %d bytes to %s", n, path)
	return nil
}

func preview(s string, max int) string {
	s, _, _ = strings.Cut(s, "\n")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
