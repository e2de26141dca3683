package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/notespal/internal/common"
	"github.com/dmitrijs2005/notespal/internal/noteapi"
	"github.com/dmitrijs2005/notespal/internal/server/auth"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer("secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, &fakeUsers{}, &fakeNotes{}, &fakeBackups{}, "secret")

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// dialBufconn serves s on an in-memory listener and returns a client.
func dialBufconn(t *testing.T, s *GRPCServer) noteapi.NoteServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return noteapi.NewNoteServiceClient(conn)
}

func TestServe_RoundTripOverBufconn(t *testing.T) {
	secret := "secret"
	notes := &fakeNotes{note: &models.NoteView{ID: "n1", Content: "hello", TapeColor: "#60a5fa", CreatedAt: ts, UpdatedAt: ts}}
	client := dialBufconn(t, NewGRPCServer("bufnet", nopLogger{}, &fakeUsers{}, notes, &fakeBackups{}, secret))

	pong, err := client.Ping(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.GetFields()["status"].GetStringValue())

	_, err = client.GetNote(context.Background(), mustEncode(t, noteapi.NoteRef{ID: "n1"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := auth.GenerateToken("u1", []byte(secret), time.Hour)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)

	resp, err := client.GetNote(ctx, mustEncode(t, noteapi.NoteRef{ID: "n1"}))
	require.NoError(t, err)
	assert.Equal(t, "u1", notes.gotUser)

	var n noteapi.Note
	require.NoError(t, noteapi.Decode(resp, &n))
	assert.Equal(t, "hello", n.Content)

	notes.err = common.ErrorNoteUnavailable
	_, err = client.GetNote(ctx, mustEncode(t, noteapi.NoteRef{ID: "n1"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
