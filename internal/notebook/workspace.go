// Package notebook holds the client-side view of one study language: the
// note list, playlists, playlist membership, and the active playlist filter.
package notebook

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/quiz"
)

// Workspace is the materialized state for one study language. All mutations
// go through the backend first; local state only changes after the backend
// confirms, so the view never diverges from the server.
type Workspace struct {
	backend  Backend
	language string

	mu         sync.Mutex
	notes      []*model.Note     // newest first
	playlists  []*model.Playlist // oldest first
	membership map[string]map[string]struct{}
	filter     string // playlist id, "" = all notes
}

func NewWorkspace(backend Backend, languageCode string) *Workspace {
	return &Workspace{
		backend:    backend,
		language:   languageCode,
		membership: make(map[string]map[string]struct{}),
	}
}

// Language reports the study language this workspace is bound to.
func (w *Workspace) Language() string { return w.language }

// Refresh reloads notes, playlists and memberships in parallel. On any
// failure the previous state is kept. If the active filter's playlist no
// longer exists after the reload, the filter resets to all notes.
func (w *Workspace) Refresh(ctx context.Context) error {
	var (
		notes       []*model.Note
		playlists   []*model.Playlist
		memberships []*model.Membership
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		notes, err = w.backend.ListNotes(gctx, w.language)
		return err
	})
	g.Go(func() error {
		var err error
		playlists, err = w.backend.ListPlaylists(gctx, w.language)
		return err
	})
	g.Go(func() error {
		var err error
		memberships, err = w.backend.ListMemberships(gctx, w.language)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	index := make(map[string]map[string]struct{}, len(memberships))
	for _, m := range memberships {
		set, ok := index[m.NoteID]
		if !ok {
			set = make(map[string]struct{})
			index[m.NoteID] = set
		}
		set[m.PlaylistID] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.notes = notes
	w.playlists = playlists
	w.membership = index
	if w.filter != "" && !containsPlaylist(playlists, w.filter) {
		w.filter = ""
	}
	return nil
}

func containsPlaylist(playlists []*model.Playlist, id string) bool {
	for _, p := range playlists {
		if p.PlaylistID == id {
			return true
		}
	}
	return false
}

// Notes returns the full note list, newest first.
func (w *Workspace) Notes() []*model.Note {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*model.Note(nil), w.notes...)
}

// Playlists returns the playlist list, oldest first.
func (w *Workspace) Playlists() []*model.Playlist {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*model.Playlist(nil), w.playlists...)
}

// Filter reports the active playlist filter, "" when showing all notes.
func (w *Workspace) Filter() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter
}

// SetFilter activates a playlist filter. An unknown playlist id resets to
// all notes.
func (w *Workspace) SetFilter(playlistID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if playlistID != "" && !containsPlaylist(w.playlists, playlistID) {
		w.filter = ""
		return
	}
	w.filter = playlistID
}

// Visible returns the notes the user currently sees: the full list, or,
// under a filter, the members of that playlist in full-list order.
func (w *Workspace) Visible() []*model.Note {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filter == "" {
		return append([]*model.Note(nil), w.notes...)
	}
	var out []*model.Note
	for _, n := range w.notes {
		if _, ok := w.membership[n.NoteID][w.filter]; ok {
			out = append(out, n)
		}
	}
	return out
}

// InPlaylist reports whether a note is a member of a playlist.
func (w *Workspace) InPlaylist(noteID, playlistID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.membership[noteID][playlistID]
	return ok
}

// CreateNote creates a note in this workspace's language and prepends it to
// the list. Title and content must be non-blank after trimming. Under an
// active filter the note is also linked to that playlist so it stays visible.
func (w *Workspace) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", model.ErrValidation)
	}
	created, err := w.backend.CreateNote(ctx, &model.Note{
		Title:        title,
		Content:      content,
		LanguageCode: w.language,
	})
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	filter := w.filter
	w.notes = append([]*model.Note{created}, w.notes...)
	w.mu.Unlock()

	if filter != "" {
		if err := w.backend.AddToPlaylist(ctx, filter, created.NoteID); err != nil {
			return created, err
		}
		w.mu.Lock()
		w.link(created.NoteID, filter)
		w.mu.Unlock()
	}
	return created, nil
}

// UpdateNote patches a note and swaps the confirmed result into the list.
func (w *Workspace) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	updated, err := w.backend.UpdateNote(ctx, noteID, patch)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, n := range w.notes {
		if n.NoteID == noteID {
			w.notes[i] = updated
			break
		}
	}
	return updated, nil
}

// DeleteNote removes a note and its memberships from the local view after
// the backend confirms.
func (w *Workspace) DeleteNote(ctx context.Context, noteID string) error {
	if err := w.backend.DeleteNote(ctx, noteID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, n := range w.notes {
		if n.NoteID == noteID {
			w.notes = append(w.notes[:i], w.notes[i+1:]...)
			break
		}
	}
	delete(w.membership, noteID)
	return nil
}

// CreatePlaylist creates a playlist and appends it, keeping oldest-first
// order. The name must be non-blank after trimming.
func (w *Workspace) CreatePlaylist(ctx context.Context, name string) (*model.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	created, err := w.backend.CreatePlaylist(ctx, &model.Playlist{
		Name:         name,
		LanguageCode: w.language,
	})
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playlists = append(w.playlists, created)
	return created, nil
}

// DeletePlaylist removes a playlist. If it was the active filter, the view
// falls back to all notes.
func (w *Workspace) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := w.backend.DeletePlaylist(ctx, playlistID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.playlists {
		if p.PlaylistID == playlistID {
			w.playlists = append(w.playlists[:i], w.playlists[i+1:]...)
			break
		}
	}
	for noteID := range w.membership {
		delete(w.membership[noteID], playlistID)
	}
	if w.filter == playlistID {
		w.filter = ""
	}
	return nil
}

// ToggleMembership adds the note to the playlist if absent, removes it if
// present. The local index changes only after the backend confirms.
func (w *Workspace) ToggleMembership(ctx context.Context, noteID, playlistID string) (added bool, err error) {
	w.mu.Lock()
	_, member := w.membership[noteID][playlistID]
	w.mu.Unlock()

	if member {
		if err := w.backend.RemoveFromPlaylist(ctx, playlistID, noteID); err != nil {
			return false, err
		}
		w.mu.Lock()
		delete(w.membership[noteID], playlistID)
		w.mu.Unlock()
		return false, nil
	}

	if err := w.backend.AddToPlaylist(ctx, playlistID, noteID); err != nil {
		return false, err
	}
	w.mu.Lock()
	w.link(noteID, playlistID)
	w.mu.Unlock()
	return true, nil
}

// link records a membership. Caller holds w.mu.
func (w *Workspace) link(noteID, playlistID string) {
	set, ok := w.membership[noteID]
	if !ok {
		set = make(map[string]struct{})
		w.membership[noteID] = set
	}
	set[playlistID] = struct{}{}
}

// StartQuiz builds a quiz deck from the current view. Under a filter it
// prefers the playlist's server-side order; if that cannot be fetched or
// comes back empty, it falls back to the locally filtered list, then to
// whatever is displayed.
func (w *Workspace) StartQuiz(ctx context.Context) (*quiz.Sequencer, error) {
	w.mu.Lock()
	filter := w.filter
	w.mu.Unlock()

	if filter != "" {
		if ordered, err := w.backend.PlaylistNotes(ctx, filter); err == nil && len(ordered) > 0 {
			return quiz.New(ordered)
		}
	}
	return quiz.New(w.Visible())
}
