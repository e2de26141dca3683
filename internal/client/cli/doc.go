// Package cli implements notectl: one-shot commands for the note service
// and an interactive shell over the same commands.
package cli
