package noteapi

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Note is a decrypted note as it crosses the wire.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	TapeColor string    `json:"tape_color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NoteList struct {
	Notes []Note `json:"notes"`
}

// NoteRef addresses a single note.
type NoteRef struct {
	ID string `json:"id"`
}

// NoteUpdate replaces the content of a note. An empty TapeColor keeps the
// current color.
type NoteUpdate struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	TapeColor string `json:"tape_color,omitempty"`
}

// Profile is sent on registration; the user id itself comes from the token.
type Profile struct {
	CustomerID     string     `json:"customer_id,omitempty"`
	Email          string     `json:"email,omitempty"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	SubscribedTill *time.Time `json:"subscribed_till,omitempty"`
}

type Registered struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type Rotated struct {
	Rewrapped int `json:"rewrapped"`
}

type Backup struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
	Notes      int    `json:"notes"`
}

type Pong struct {
	Status string `json:"status"`
}

// Encode converts a message value into a protobuf Struct through its JSON
// form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return s, nil
}

// Decode fills v from a protobuf Struct. A nil Struct decodes as empty.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
