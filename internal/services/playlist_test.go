package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
	"github.com/linguanote/linguanote/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewWithDB(db)
}

func seedUser(t *testing.T, st store.Store, userID string) {
	t.Helper()
	_, _, err := st.Profiles().EnsureExists(context.Background(), userID)
	require.NoError(t, err)
}

func TestPlaylistNotes_ResolvesInMembershipOrder(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedUser(t, st, "u-1")
	notes := NewNoteService(st)
	playlists := NewPlaylistService(st)

	pl, err := playlists.CreatePlaylist(ctx, &model.Playlist{UserID: "u-1", Name: "Verbs", LanguageCode: "ja"})
	require.NoError(t, err)

	var ids []string
	for _, title := range []string{"taberu", "nomu", "iku"} {
		n, err := notes.CreateNote(ctx, &model.Note{UserID: "u-1", Title: title, LanguageCode: "ja"})
		require.NoError(t, err)
		ids = append(ids, n.NoteID)
		require.NoError(t, playlists.AddNote(ctx, "u-1", pl.PlaylistID, n.NoteID))
	}

	resolved, err := playlists.PlaylistNotes(ctx, "u-1", pl.PlaylistID)
	require.NoError(t, err)
	require.Len(t, resolved, 3)
	for i, n := range resolved {
		assert.Equal(t, ids[i], n.NoteID)
	}
}

func TestPlaylistNotes_SkipsDeletedNotes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedUser(t, st, "u-1")
	notes := NewNoteService(st)
	playlists := NewPlaylistService(st)

	pl, err := playlists.CreatePlaylist(ctx, &model.Playlist{UserID: "u-1", Name: "Verbs", LanguageCode: "ja"})
	require.NoError(t, err)
	n1, err := notes.CreateNote(ctx, &model.Note{UserID: "u-1", Title: "keep", LanguageCode: "ja"})
	require.NoError(t, err)
	n2, err := notes.CreateNote(ctx, &model.Note{UserID: "u-1", Title: "drop", LanguageCode: "ja"})
	require.NoError(t, err)
	require.NoError(t, playlists.AddNote(ctx, "u-1", pl.PlaylistID, n1.NoteID))
	require.NoError(t, playlists.AddNote(ctx, "u-1", pl.PlaylistID, n2.NoteID))

	require.NoError(t, notes.DeleteNote(ctx, "u-1", n2.NoteID))

	resolved, err := playlists.PlaylistNotes(ctx, "u-1", pl.PlaylistID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, n1.NoteID, resolved[0].NoteID)
}

func TestDeleteNote_CascadesMemberships(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedUser(t, st, "u-1")
	notes := NewNoteService(st)
	playlists := NewPlaylistService(st)

	pl, err := playlists.CreatePlaylist(ctx, &model.Playlist{UserID: "u-1", Name: "Verbs", LanguageCode: "ja"})
	require.NoError(t, err)
	n, err := notes.CreateNote(ctx, &model.Note{UserID: "u-1", Title: "taberu", LanguageCode: "ja"})
	require.NoError(t, err)
	require.NoError(t, playlists.AddNote(ctx, "u-1", pl.PlaylistID, n.NoteID))

	require.NoError(t, notes.DeleteNote(ctx, "u-1", n.NoteID))

	ms, err := playlists.ListMemberships(ctx, "u-1", "ja")
	require.NoError(t, err)
	assert.Empty(t, ms)
}
