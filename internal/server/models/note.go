package models

import "time"

// Note is the record at rest. EncryptedContent and IV always change
// together; EncryptionKey is the wrapped note key and only changes when
// the owner's master key is rotated.
type Note struct {
	ID               string
	UserID           string
	EncryptedContent string
	EncryptionKey    string
	IV               string
	TapeColor        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NoteView is a decrypted note. It is never persisted.
type NoteView struct {
	ID        string
	UserID    string
	Content   string
	TapeColor string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Backup is one exported object in object storage.
type Backup struct {
	StorageKey string
	URL        string
	Notes      int
}
