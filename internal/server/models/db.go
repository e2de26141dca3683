// Package models defines the server-side records persisted in PostgreSQL
// and the decrypted views handed to callers.
package models
