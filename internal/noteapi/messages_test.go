package noteapi

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestEncodeDecode_NoteList(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	in := NoteList{Notes: []Note{
		{ID: "n1", Content: "héllo 👋", TapeColor: "#60a5fa", CreatedAt: ts, UpdatedAt: ts.Add(time.Hour)},
		{ID: "n2", CreatedAt: ts, UpdatedAt: ts},
	}}

	s, err := Encode(in)
	require.NoError(t, err)
	require.Len(t, s.GetFields()["notes"].GetListValue().GetValues(), 2)

	var out NoteList
	require.NoError(t, Decode(s, &out))
	assert.Empty(t, cmp.Diff(in, out))
}

func TestEncode_FieldNames(t *testing.T) {
	s, err := Encode(NoteUpdate{ID: "n1", Content: "x"})
	require.NoError(t, err)

	assert.Equal(t, "n1", s.GetFields()["id"].GetStringValue())
	assert.Equal(t, "x", s.GetFields()["content"].GetStringValue())
	_, hasColor := s.GetFields()["tape_color"]
	assert.False(t, hasColor)
}

func TestDecode_NilAndMismatch(t *testing.T) {
	var ref NoteRef
	require.NoError(t, Decode(nil, &ref))
	assert.Empty(t, ref.ID)

	bad, err := structpb.NewStruct(map[string]any{"rewrapped": "many"})
	require.NoError(t, err)
	var r Rotated
	require.Error(t, Decode(bad, &r))
}

func TestDecode_NumbersFromStruct(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"storage_key": "k", "url": "u", "notes": 3})
	require.NoError(t, err)

	var b Backup
	require.NoError(t, Decode(s, &b))
	assert.Equal(t, Backup{StorageKey: "k", URL: "u", Notes: 3}, b)
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/notespal.NoteService/GetNote", FullMethod(MethodGetNote))
	assert.Len(t, ServiceDesc.Methods, 9)
}
