package cryptox

// SealedNote is what gets persisted for a note: content ciphertext, its IV
// and the wrapped note key.
type SealedNote struct {
	EncryptedContent string
	EncryptedKey     string
	IV               string
}

// Envelope runs the note lifecycle flows over the primitives in this
// package. It holds no keys; every call derives what it needs and wipes it.
//
// When BindNoteID is set the note id is bound as associated data to both
// the content ciphertext and the wrapped key, so blobs cannot be moved
// between notes. Records written with BindNoteID unset remain readable only
// with it unset.
type Envelope struct {
	BindNoteID bool
}

// NewEnvelope returns an Envelope.
func NewEnvelope(bindNoteID bool) *Envelope {
	return &Envelope{BindNoteID: bindNoteID}
}

func (e *Envelope) aad(noteID string) []byte {
	if !e.BindNoteID {
		return nil
	}
	return []byte(noteID)
}

// Session carries one user's master key across several note operations
// of a single request, so listing N notes derives the key once.
type Session struct {
	env       *Envelope
	masterKey []byte
}

// Open derives the master key for (userID, salt). The caller must Close
// the session when the request is done.
func (e *Envelope) Open(userID string, salt []byte) (*Session, error) {
	masterKey, err := DeriveMasterKey(userID, salt)
	if err != nil {
		return nil, err
	}
	return &Session{env: e, masterKey: masterKey}, nil
}

// Close wipes the master key.
func (s *Session) Close() {
	Wipe(s.masterKey)
}

// Create seals a new, empty note.
func (s *Session) Create(noteID string) (*SealedNote, error) {
	noteKey, err := GenerateNoteKey()
	if err != nil {
		return nil, err
	}
	defer Wipe(noteKey)

	aad := s.env.aad(noteID)
	content, err := EncryptContent("", noteKey, aad)
	if err != nil {
		return nil, err
	}
	wrapped, err := WrapKey(noteKey, s.masterKey, aad)
	if err != nil {
		return nil, err
	}

	return &SealedNote{
		EncryptedContent: content.Ciphertext,
		EncryptedKey:     wrapped,
		IV:               content.IV,
	}, nil
}

// Read returns the plaintext content of a stored note.
func (s *Session) Read(sealed SealedNote, noteID string) (string, error) {
	aad := s.env.aad(noteID)
	noteKey, err := UnwrapKey(sealed.EncryptedKey, s.masterKey, aad)
	if err != nil {
		return "", err
	}
	defer Wipe(noteKey)
	return DecryptContent(sealed.EncryptedContent, sealed.IV, noteKey, aad)
}

// Update re-encrypts content under the existing note key with a fresh IV.
// The wrapped key is not changed.
func (s *Session) Update(content, encryptedKey, noteID string) (*SealedContent, error) {
	aad := s.env.aad(noteID)
	noteKey, err := UnwrapKey(encryptedKey, s.masterKey, aad)
	if err != nil {
		return nil, err
	}
	defer Wipe(noteKey)
	return EncryptContent(content, noteKey, aad)
}

// Create seals a new, empty note for the user.
func (e *Envelope) Create(userID string, salt []byte, noteID string) (*SealedNote, error) {
	s, err := e.Open(userID, salt)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Create(noteID)
}

// Read returns the plaintext content of a stored note.
func (e *Envelope) Read(sealed SealedNote, userID string, salt []byte, noteID string) (string, error) {
	s, err := e.Open(userID, salt)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.Read(sealed, noteID)
}

// Update re-encrypts content for a stored note, keeping its wrapped key.
func (e *Envelope) Update(content, encryptedKey, userID string, salt []byte, noteID string) (*SealedContent, error) {
	s, err := e.Open(userID, salt)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Update(content, encryptedKey, noteID)
}

// Rotation re-wraps note keys from one master key to another.
type Rotation struct {
	env       *Envelope
	oldMaster []byte
	newMaster []byte
}

// NewRotation derives the master keys of oldSalt and newSalt for userID.
// The caller must Close the rotation.
func (e *Envelope) NewRotation(userID string, oldSalt, newSalt []byte) (*Rotation, error) {
	oldMaster, err := DeriveMasterKey(userID, oldSalt)
	if err != nil {
		return nil, err
	}
	newMaster, err := DeriveMasterKey(userID, newSalt)
	if err != nil {
		Wipe(oldMaster)
		return nil, err
	}
	return &Rotation{env: e, oldMaster: oldMaster, newMaster: newMaster}, nil
}

// Rewrap moves one wrapped note key to the new master key. Content
// encrypted under the note key stays valid.
func (r *Rotation) Rewrap(encryptedKey, noteID string) (string, error) {
	return RewrapKey(encryptedKey, r.oldMaster, r.newMaster, r.env.aad(noteID))
}

// Close wipes the derived keys.
func (r *Rotation) Close() {
	Wipe(r.oldMaster)
	Wipe(r.newMaster)
}
