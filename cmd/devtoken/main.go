// Command devtoken mints an access token signed with the server secret.
// It stands in for the auth provider in local setups and is not shipped
// with notectl.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/notespal/internal/server/auth"
)

var errUsage = errors.New("-user and -secret are required")

func run(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.SetOutput(w)
	user := fs.String("user", "", "user id")
	secret := fs.String("secret", "", "token signing secret")
	ttl := fs.Duration("ttl", time.Hour, "token validity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *secret == "" {
		return errUsage
	}

	tok, err := auth.GenerateToken(*user, []byte(*secret), *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tok)
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
