package model

import (
	"encoding/json"
	"time"
)

// Profile is the per-user row created lazily by the access gate.
// Username stays nil until the user completes username setup.
type Profile struct {
	UserID       string     `json:"userId"`
	Username     *string    `json:"username,omitempty"`
	DisplayName  *string    `json:"displayName,omitempty"`
	CreationTime time.Time  `json:"creationTime"`
	UpdateTime   *time.Time `json:"updateTime,omitempty"`
}

// HasUsername reports whether username setup has been completed.
func (p *Profile) HasUsername() bool {
	return p != nil && p.Username != nil && *p.Username != ""
}

// Note is a study note scoped to a user and a study language.
// Content is lazily interpreted markup: lines of the form @audio(url) or
// @video(url) render as embedded media, everything else as plain text.
type Note struct {
	NoteID       string     `json:"noteId"`
	UserID       string     `json:"userId"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	LanguageCode string     `json:"languageCode"`
	ImageURLs    []string   `json:"imageUrls,omitempty"`
	CreationTime time.Time  `json:"creationTime"`
	UpdateTime   *time.Time `json:"updateTime,omitempty"`
}

// NotePatch is a partial update of a note. Nil fields are left untouched.
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Playlist groups notes of one study language.
type Playlist struct {
	PlaylistID   string    `json:"playlistId"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	LanguageCode string    `json:"languageCode"`
	CreationTime time.Time `json:"creationTime"`
}

// Membership links one note into one playlist with an ordering index.
type Membership struct {
	PlaylistID   string    `json:"playlistId"`
	NoteID       string    `json:"noteId"`
	Idx          int       `json:"idx"`
	CreationTime time.Time `json:"creationTime"`
}

// Document is the single basic-notebook row per (user, language).
// Plain mirrors the structured doc as raw text; autosave overwrites both.
type Document struct {
	DocumentID   string          `json:"documentId"`
	UserID       string          `json:"userId"`
	LanguageCode string          `json:"languageCode"`
	Doc          json.RawMessage `json:"doc,omitempty"`
	Plain        string          `json:"plain"`
	UpdateTime   *time.Time      `json:"updateTime,omitempty"`
}
