// Package storetest holds a driver-compliance suite shared by store
// implementations.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// Run exercises the compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()

	// Profiles: lazy creation is idempotent.
	p, created, err := s.Profiles().EnsureExists(ctx, userID)
	if err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	if !created || p.UserID != userID || p.HasUsername() {
		t.Fatalf("EnsureExists first call: created=%v profile=%+v", created, p)
	}
	if _, created, err = s.Profiles().EnsureExists(ctx, userID); err != nil || created {
		t.Fatalf("EnsureExists second call: created=%v err=%v", created, err)
	}

	// Username upsert and case-insensitive uniqueness.
	if _, err := s.Profiles().SetUsername(ctx, userID, "polyglot", "PolyGlot"); err != nil {
		t.Fatalf("SetUsername: %v", err)
	}
	p, err = s.Profiles().Get(ctx, userID)
	if err != nil || !p.HasUsername() || *p.Username != "polyglot" || *p.DisplayName != "PolyGlot" {
		t.Fatalf("Get after SetUsername: profile=%+v err=%v", p, err)
	}
	if p.UpdateTime == nil {
		t.Fatal("SetUsername must stamp update_time")
	}
	otherID := "u-" + uuid.New().String()
	if _, _, err := s.Profiles().EnsureExists(ctx, otherID); err != nil {
		t.Fatalf("EnsureExists other: %v", err)
	}
	if taken, err := s.Profiles().UsernameTaken(ctx, "POLYGLOT", otherID); err != nil || !taken {
		t.Fatalf("UsernameTaken cross-user: taken=%v err=%v", taken, err)
	}
	if taken, err := s.Profiles().UsernameTaken(ctx, "polyglot", userID); err != nil || taken {
		t.Fatalf("UsernameTaken self: taken=%v err=%v", taken, err)
	}

	// Notes CRUD, newest-first ordering.
	const lang = "pt-BR"
	n1, err := s.Notes().Create(ctx, &model.Note{UserID: userID, Title: "obrigado", Content: "thank you", LanguageCode: lang})
	if err != nil {
		t.Fatalf("CreateNote n1: %v", err)
	}
	n2, err := s.Notes().Create(ctx, &model.Note{UserID: userID, Title: "saudade", Content: "longing", LanguageCode: lang})
	if err != nil {
		t.Fatalf("CreateNote n2: %v", err)
	}
	lst, err := s.Notes().List(ctx, userID, lang)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListNotes: n=%d err=%v", len(lst), err)
	}
	if lst[0].NoteID != n2.NoteID || lst[1].NoteID != n1.NoteID {
		t.Fatalf("ListNotes order: got %s,%s want newest first", lst[0].NoteID, lst[1].NoteID)
	}
	if other, err := s.Notes().List(ctx, userID, "zh-CN"); err != nil || len(other) != 0 {
		t.Fatalf("ListNotes language isolation: n=%d err=%v", len(other), err)
	}

	newTitle := "obrigada"
	upd, err := s.Notes().Update(ctx, userID, n1.NoteID, model.NotePatch{Title: &newTitle})
	if err != nil || upd.Title != newTitle || upd.Content != "thank you" {
		t.Fatalf("UpdateNote: got=%+v err=%v", upd, err)
	}
	if upd.UpdateTime == nil {
		t.Fatal("UpdateNote must stamp update_time")
	}

	// Playlists, memberships, ordered ids.
	pl, err := s.Playlists().Create(ctx, &model.Playlist{UserID: userID, Name: "verbs", LanguageCode: lang})
	if err != nil || pl.PlaylistID == "" {
		t.Fatalf("CreatePlaylist: got=%+v err=%v", pl, err)
	}
	if err := s.Playlists().AddNote(ctx, userID, pl.PlaylistID, n1.NoteID); err != nil {
		t.Fatalf("AddNote n1: %v", err)
	}
	if err := s.Playlists().AddNote(ctx, userID, pl.PlaylistID, n2.NoteID); err != nil {
		t.Fatalf("AddNote n2: %v", err)
	}
	// Adding the same link twice is a no-op.
	if err := s.Playlists().AddNote(ctx, userID, pl.PlaylistID, n1.NoteID); err != nil {
		t.Fatalf("AddNote duplicate: %v", err)
	}
	ids, err := s.Playlists().OrderedNoteIDs(ctx, userID, pl.PlaylistID)
	if err != nil || len(ids) != 2 {
		t.Fatalf("OrderedNoteIDs: ids=%v err=%v", ids, err)
	}
	if ids[0] != n1.NoteID || ids[1] != n2.NoteID {
		t.Fatalf("OrderedNoteIDs order: got %v want link order", ids)
	}
	links, err := s.Playlists().ListMemberships(ctx, userID, lang)
	if err != nil || len(links) != 2 {
		t.Fatalf("ListMemberships: n=%d err=%v", len(links), err)
	}

	// Membership round-trip.
	if err := s.Playlists().RemoveNote(ctx, userID, pl.PlaylistID, n2.NoteID); err != nil {
		t.Fatalf("RemoveNote: %v", err)
	}
	if ids, _ = s.Playlists().OrderedNoteIDs(ctx, userID, pl.PlaylistID); len(ids) != 1 || ids[0] != n1.NoteID {
		t.Fatalf("OrderedNoteIDs after remove: %v", ids)
	}
	if err := s.Playlists().AddNote(ctx, userID, pl.PlaylistID, n2.NoteID); err != nil {
		t.Fatalf("AddNote re-link: %v", err)
	}

	// Deleting a note cascades its membership rows.
	if err := s.Notes().Delete(ctx, userID, n2.NoteID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if links, _ = s.Playlists().ListMemberships(ctx, userID, lang); len(links) != 1 {
		t.Fatalf("memberships after note delete: %v", links)
	}
	if _, err := s.Notes().GetByID(ctx, userID, n2.NoteID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID deleted note: err=%v", err)
	}

	// Deleting the playlist cascades the rest.
	if err := s.Playlists().Delete(ctx, userID, pl.PlaylistID); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	if links, _ = s.Playlists().ListMemberships(ctx, userID, lang); len(links) != 0 {
		t.Fatalf("memberships after playlist delete: %v", links)
	}
	if _, err := s.Playlists().GetByID(ctx, userID, pl.PlaylistID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID deleted playlist: err=%v", err)
	}

	// Documents: one row per (user, language), lazily created.
	d1, err := s.Documents().GetOrCreate(ctx, userID, lang)
	if err != nil || d1.DocumentID == "" || d1.Plain != "" {
		t.Fatalf("GetOrCreate: doc=%+v err=%v", d1, err)
	}
	d2, err := s.Documents().GetOrCreate(ctx, userID, lang)
	if err != nil || d2.DocumentID != d1.DocumentID {
		t.Fatalf("GetOrCreate second call: doc=%+v err=%v", d2, err)
	}
	saved, err := s.Documents().Save(ctx, userID, d1.DocumentID, json.RawMessage(`{"type":"doc","text":"ola"}`), "ola")
	if err != nil || saved.Plain != "ola" {
		t.Fatalf("Save: doc=%+v err=%v", saved, err)
	}
	if other, err := s.Documents().GetOrCreate(ctx, userID, "zh-CN"); err != nil || other.DocumentID == d1.DocumentID {
		t.Fatalf("GetOrCreate other language: doc=%+v err=%v", other, err)
	}
}
