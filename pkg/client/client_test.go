package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguanote/linguanote/internal/api"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/blob"
	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/notebook"
	"github.com/linguanote/linguanote/internal/store/sqlite"
)

var _ notebook.Backend = (*Client)(nil)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fs, err := blob.NewFS(t.TempDir())
	require.NoError(t, err)

	az := auth.NewStaticAuthorizer()
	az.Register("tok", auth.Session{UserID: "u-1"})

	router := api.NewRouter(api.RouterDeps{
		Store:          sqlite.NewWithDB(db),
		Authorizer:     az,
		Metadata:       az,
		Blob:           fs,
		Signer:         blob.NewSigner("secret", time.Hour),
		MaxUploadBytes: 1 << 20,
		Logger:         zerolog.Nop(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(srv.URL, "tok")
}

func TestClient_GateAndSetup(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	res, err := c.EvaluateGate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NEEDS_USERNAME", res.Decision)

	prof, err := c.SetUsername(ctx, "Tester")
	require.NoError(t, err)
	assert.Equal(t, "tester", *prof.Username)

	res, err = c.EvaluateGate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AUTHORIZED", res.Decision)

	got, err := c.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tester", *got.DisplayName)
}

func TestClient_SetUsernameReason(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.EvaluateGate(ctx)
	require.NoError(t, err)

	_, err = c.SetUsername(ctx, "ab")
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "TOO_SHORT", se.Reason)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestClient_DrivesWorkspace(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.EvaluateGate(ctx)
	require.NoError(t, err)
	_, err = c.SetUsername(ctx, "tester")
	require.NoError(t, err)

	w := notebook.NewWorkspace(c, "ja")
	require.NoError(t, w.Refresh(ctx))

	n, err := w.CreateNote(ctx, "taberu", "to eat")
	require.NoError(t, err)
	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)

	added, err := w.ToggleMembership(ctx, n.NoteID, pl.PlaylistID)
	require.NoError(t, err)
	assert.True(t, added)

	require.NoError(t, w.Refresh(ctx))
	assert.True(t, w.InPlaylist(n.NoteID, pl.PlaylistID))

	w.SetFilter(pl.PlaylistID)
	seq, err := w.StartQuiz(ctx)
	require.NoError(t, err)
	card, _ := seq.Current()
	assert.Equal(t, "taberu", card.Title)

	require.NoError(t, w.DeleteNote(ctx, n.NoteID))
	require.NoError(t, w.Refresh(ctx))
	assert.Empty(t, w.Visible())
}

func TestClient_DocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.EvaluateGate(ctx)
	require.NoError(t, err)
	_, err = c.SetUsername(ctx, "tester")
	require.NoError(t, err)

	doc, err := c.OpenDocument(ctx, "ja")
	require.NoError(t, err)
	require.NotEmpty(t, doc.DocumentID)

	saved, err := c.SaveDocument(ctx, doc.DocumentID, []byte(`{"type":"doc"}`), "draft")
	require.NoError(t, err)
	assert.Equal(t, "draft", saved.Plain)
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.EvaluateGate(ctx)
	require.NoError(t, err)
	_, err = c.SetUsername(ctx, "tester")
	require.NoError(t, err)

	up, err := c.Upload(ctx, "clip.mp3", strings.NewReader("mp3-bytes"))
	require.NoError(t, err)
	assert.Contains(t, up.URL, "/media/")
}

func TestClient_NotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.EvaluateGate(ctx)
	require.NoError(t, err)
	_, err = c.SetUsername(ctx, "tester")
	require.NoError(t, err)

	err = c.DeleteNote(ctx, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
