package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/notespal/internal/client/cli"
	"github.com/dmitrijs2005/notespal/internal/client/config"
	"github.com/dmitrijs2005/notespal/internal/flagx"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := flagx.StripArgs(os.Args[1:], config.Flags)
	if err := app.Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
