package notebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguanote/linguanote/internal/model"
)

// fakeBackend is an in-memory Backend with switchable failure modes.
type fakeBackend struct {
	notes       map[string]*model.Note
	noteOrder   []string // newest first
	playlists   map[string]*model.Playlist
	plOrder     []string // oldest first
	memberships map[string][]string // playlistID -> ordered noteIDs

	nextID int

	failAdd           bool
	failRemove        bool
	failPlaylistNotes bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		notes:       make(map[string]*model.Note),
		playlists:   make(map[string]*model.Playlist),
		memberships: make(map[string][]string),
	}
}

func (f *fakeBackend) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeBackend) ListNotes(ctx context.Context, lang string) ([]*model.Note, error) {
	var out []*model.Note
	for _, id := range f.noteOrder {
		if n := f.notes[id]; n != nil && n.LanguageCode == lang {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateNote(ctx context.Context, n *model.Note) (*model.Note, error) {
	created := *n
	created.NoteID = f.id("note")
	f.notes[created.NoteID] = &created
	f.noteOrder = append([]string{created.NoteID}, f.noteOrder...)
	return &created, nil
}

func (f *fakeBackend) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	n, ok := f.notes[noteID]
	if !ok {
		return nil, model.ErrNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	out := *n
	return &out, nil
}

func (f *fakeBackend) DeleteNote(ctx context.Context, noteID string) error {
	delete(f.notes, noteID)
	for pl, ids := range f.memberships {
		f.memberships[pl] = remove(ids, noteID)
	}
	f.noteOrder = remove(f.noteOrder, noteID)
	return nil
}

func (f *fakeBackend) ListPlaylists(ctx context.Context, lang string) ([]*model.Playlist, error) {
	var out []*model.Playlist
	for _, id := range f.plOrder {
		if p := f.playlists[id]; p != nil && p.LanguageCode == lang {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error) {
	created := *p
	created.PlaylistID = f.id("pl")
	f.playlists[created.PlaylistID] = &created
	f.plOrder = append(f.plOrder, created.PlaylistID)
	return &created, nil
}

func (f *fakeBackend) DeletePlaylist(ctx context.Context, playlistID string) error {
	delete(f.playlists, playlistID)
	delete(f.memberships, playlistID)
	f.plOrder = remove(f.plOrder, playlistID)
	return nil
}

func (f *fakeBackend) AddToPlaylist(ctx context.Context, playlistID, noteID string) error {
	if f.failAdd {
		return errors.New("add failed")
	}
	for _, id := range f.memberships[playlistID] {
		if id == noteID {
			return nil
		}
	}
	f.memberships[playlistID] = append(f.memberships[playlistID], noteID)
	return nil
}

func (f *fakeBackend) RemoveFromPlaylist(ctx context.Context, playlistID, noteID string) error {
	if f.failRemove {
		return errors.New("remove failed")
	}
	f.memberships[playlistID] = remove(f.memberships[playlistID], noteID)
	return nil
}

func (f *fakeBackend) PlaylistNotes(ctx context.Context, playlistID string) ([]*model.Note, error) {
	if f.failPlaylistNotes {
		return nil, errors.New("playlist notes failed")
	}
	var out []*model.Note
	for _, id := range f.memberships[playlistID] {
		if n := f.notes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeBackend) ListMemberships(ctx context.Context, lang string) ([]*model.Membership, error) {
	var out []*model.Membership
	for pl, ids := range f.memberships {
		if p := f.playlists[pl]; p == nil || p.LanguageCode != lang {
			continue
		}
		for i, id := range ids {
			out = append(out, &model.Membership{PlaylistID: pl, NoteID: id, Idx: i})
		}
	}
	return out, nil
}

func (f *fakeBackend) OpenDocument(ctx context.Context, lang string) (*model.Document, error) {
	return &model.Document{DocumentID: "doc-" + lang, LanguageCode: lang}, nil
}

func (f *fakeBackend) SaveDocument(ctx context.Context, documentID string, doc json.RawMessage, plain string) (*model.Document, error) {
	return &model.Document{DocumentID: documentID, Doc: doc, Plain: plain}, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func seed(t *testing.T, f *fakeBackend, w *Workspace, titles ...string) []*model.Note {
	t.Helper()
	ctx := context.Background()
	var out []*model.Note
	for _, title := range titles {
		n, err := f.CreateNote(ctx, &model.Note{Title: title, LanguageCode: w.Language()})
		require.NoError(t, err)
		out = append(out, n)
	}
	require.NoError(t, w.Refresh(ctx))
	return out
}

func TestRefresh_BuildsMembershipIndex(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "a", "b")

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	_, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.NoError(t, err)

	require.NoError(t, w.Refresh(ctx))
	assert.True(t, w.InPlaylist(notes[0].NoteID, pl.PlaylistID))
	assert.False(t, w.InPlaylist(notes[1].NoteID, pl.PlaylistID))
}

func TestRefresh_NewestFirst(t *testing.T) {
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w, "first", "second", "third")

	got := w.Notes()
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Title)
	assert.Equal(t, "first", got[2].Title)
}

func TestRefresh_ResetsVanishedFilter(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w)

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	w.SetFilter(pl.PlaylistID)
	require.Equal(t, pl.PlaylistID, w.Filter())

	// Deleted elsewhere (another device); this workspace finds out on refresh.
	require.NoError(t, f.DeletePlaylist(ctx, pl.PlaylistID))
	require.NoError(t, w.Refresh(ctx))
	assert.Equal(t, "", w.Filter())
}

func TestVisible_FilterPreservesFullListOrder(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "a", "b", "c")

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	// Link in the opposite of display order.
	_, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.NoError(t, err)
	_, err = w.ToggleMembership(ctx, notes[2].NoteID, pl.PlaylistID)
	require.NoError(t, err)

	w.SetFilter(pl.PlaylistID)
	visible := w.Visible()
	require.Len(t, visible, 2)
	// Display order stays newest-first regardless of link order.
	assert.Equal(t, "c", visible[0].Title)
	assert.Equal(t, "a", visible[1].Title)
}

func TestCreateNote_UnderFilterAutoLinks(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w)

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	w.SetFilter(pl.PlaylistID)

	n, err := w.CreateNote(ctx, "taberu", "to eat")
	require.NoError(t, err)
	assert.True(t, w.InPlaylist(n.NoteID, pl.PlaylistID))

	visible := w.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, n.NoteID, visible[0].NoteID)
}

func TestCreateNote_PrependsToList(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w, "old")

	n, err := w.CreateNote(ctx, "new", "body")
	require.NoError(t, err)
	got := w.Notes()
	require.Len(t, got, 2)
	assert.Equal(t, n.NoteID, got[0].NoteID)
}

func TestCreateNote_RejectsBlankTitleOrContent(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w)

	for _, in := range []struct{ title, content string }{
		{"", "body"},
		{"   ", "body"},
		{"taberu", ""},
		{"taberu", "\n\t "},
	} {
		_, err := w.CreateNote(ctx, in.title, in.content)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrValidation)
	}
	assert.Empty(t, w.Notes())
	assert.Empty(t, f.notes)
}

func TestCreatePlaylist_RejectsBlankName(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w)

	for _, name := range []string{"", "   ", "\n\t"} {
		_, err := w.CreatePlaylist(ctx, name)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrValidation)
	}
	assert.Empty(t, w.Playlists())
	assert.Empty(t, f.playlists)
}

func TestToggleMembership_Confirmed(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "a")

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)

	added, err := w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, w.InPlaylist(notes[0].NoteID, pl.PlaylistID))

	added, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, w.InPlaylist(notes[0].NoteID, pl.PlaylistID))
}

func TestToggleMembership_BackendFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "a")

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)

	f.failAdd = true
	_, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.Error(t, err)
	assert.False(t, w.InPlaylist(notes[0].NoteID, pl.PlaylistID))

	f.failAdd = false
	_, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.NoError(t, err)

	f.failRemove = true
	_, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.Error(t, err)
	assert.True(t, w.InPlaylist(notes[0].NoteID, pl.PlaylistID))
}

func TestDeletePlaylist_ResetsFilter(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w)

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	w.SetFilter(pl.PlaylistID)

	require.NoError(t, w.DeletePlaylist(ctx, pl.PlaylistID))
	assert.Equal(t, "", w.Filter())
	assert.Empty(t, w.Playlists())
}

func TestDeleteNote_RemovesFromViewAndIndex(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "a", "b")

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	_, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.NoError(t, err)

	require.NoError(t, w.DeleteNote(ctx, notes[0].NoteID))
	assert.Len(t, w.Notes(), 1)
	assert.False(t, w.InPlaylist(notes[0].NoteID, pl.PlaylistID))
}

func TestUpdateNote_SwapsConfirmedResult(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "before")

	title := "after"
	updated, err := w.UpdateNote(ctx, notes[0].NoteID, model.NotePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "after", w.Notes()[0].Title)
}

func TestStartQuiz_UsesPlaylistOrderUnderFilter(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "a", "b", "c")

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	// Membership order: a then c. Display order would be c then a.
	_, err = w.ToggleMembership(ctx, notes[0].NoteID, pl.PlaylistID)
	require.NoError(t, err)
	_, err = w.ToggleMembership(ctx, notes[2].NoteID, pl.PlaylistID)
	require.NoError(t, err)
	w.SetFilter(pl.PlaylistID)

	s, err := w.StartQuiz(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	card, _ := s.Current()
	assert.Equal(t, "a", card.Title)
}

func TestStartQuiz_FallsBackToLocalViewOnError(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	notes := seed(t, f, w, "a", "b")

	pl, err := w.CreatePlaylist(ctx, "Verbs")
	require.NoError(t, err)
	_, err = w.ToggleMembership(ctx, notes[1].NoteID, pl.PlaylistID)
	require.NoError(t, err)
	w.SetFilter(pl.PlaylistID)

	f.failPlaylistNotes = true
	s, err := w.StartQuiz(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	card, _ := s.Current()
	assert.Equal(t, notes[1].NoteID, card.NoteID)
}

func TestStartQuiz_NoFilterUsesDisplayedList(t *testing.T) {
	ctx := context.Background()
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w, "a", "b")

	s, err := w.StartQuiz(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestStartQuiz_EmptyWorkspace(t *testing.T) {
	f := newFakeBackend()
	w := NewWorkspace(f, "ja")
	seed(t, f, w)

	_, err := w.StartQuiz(context.Background())
	require.Error(t, err)
}
