package models

import "time"

// User owns notes. Salt is the hex-encoded per-user salt the master key is
// derived from; losing it makes every note of the user unrecoverable.
type User struct {
	ID             string
	CustomerID     string
	Email          string
	FirstName      string
	LastName       string
	Salt           string
	SubscribedTill *time.Time
	CreatedAt      time.Time
}
