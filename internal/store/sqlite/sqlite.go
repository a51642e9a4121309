// Package sqlite implements store.Store on an embedded SQLite database.
// It serves local development and in-process tests; production deployments
// use the postgres driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// Open opens (or creates) a SQLite database at path and applies the schema.
// An empty path opens an in-memory database.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// A single connection keeps in-memory databases coherent and sidesteps
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return db, nil
}

// New opens path and returns a store backed by it.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection (used by tests and the factory).
func NewWithDB(db *sql.DB) store.Store { return &sqlStore{db: db} }

type sqlStore struct{ db *sql.DB }

func (s *sqlStore) Profiles() store.Profiles   { return &profiles{db: s.db} }
func (s *sqlStore) Notes() store.Notes         { return &notes{db: s.db} }
func (s *sqlStore) Playlists() store.Playlists { return &playlists{db: s.db} }
func (s *sqlStore) Documents() store.Documents { return &documents{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqlStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func nowNanos() int64 { return time.Now().UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func fromNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- Profiles ---

type profiles struct{ db *sql.DB }

func (p *profiles) EnsureExists(ctx context.Context, userID string) (*model.Profile, bool, error) {
	res, err := p.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, creation_time) VALUES (?, ?)
        ON CONFLICT(user_id) DO NOTHING
    `, userID, nowNanos())
	if err != nil {
		return nil, false, fmt.Errorf("ensure profile: %w", err)
	}
	n, _ := res.RowsAffected()
	prof, err := p.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return prof, n > 0, nil
}

func (p *profiles) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var out model.Profile
	var created int64
	var updated sql.NullInt64
	row := p.db.QueryRowContext(ctx, `
        SELECT user_id, username, display_name, creation_time, update_time
        FROM profiles WHERE user_id = ?
    `, userID)
	if err := row.Scan(&out.UserID, &out.Username, &out.DisplayName, &created, &updated); err != nil {
		return nil, mapRowErr(err)
	}
	out.CreationTime = fromNanos(created)
	out.UpdateTime = fromNullNanos(updated)
	return &out, nil
}

func (p *profiles) UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx, `
        SELECT 1 FROM profiles
        WHERE username = ? AND user_id != ?
        LIMIT 1
    `, strings.ToLower(username), excludeUserID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *profiles) SetUsername(ctx context.Context, userID, username, displayName string) (*model.Profile, error) {
	now := nowNanos()
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, username, display_name, creation_time, update_time)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            username = excluded.username,
            display_name = excluded.display_name,
            update_time = excluded.update_time
    `, userID, strings.ToLower(username), displayName, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username: %w", model.ErrConflict)
		}
		return nil, fmt.Errorf("set username: %w", err)
	}
	return p.Get(ctx, userID)
}

// --- Notes ---

type notes struct{ db *sql.DB }

func (n *notes) Create(ctx context.Context, m *model.Note) (*model.Note, error) {
	id := m.NoteID
	if id == "" {
		id = uuid.New().String()
	}
	created := nowNanos()
	var urls any
	if len(m.ImageURLs) > 0 {
		b, err := json.Marshal(m.ImageURLs)
		if err != nil {
			return nil, err
		}
		urls = string(b)
	}
	_, err := n.db.ExecContext(ctx, `
        INSERT INTO notes (note_id, user_id, title, content, language_code, image_urls, creation_time)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, id, m.UserID, m.Title, m.Content, m.LanguageCode, urls, created)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	out := *m
	out.NoteID = id
	out.CreationTime = fromNanos(created)
	return &out, nil
}

func (n *notes) GetByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	row := n.db.QueryRowContext(ctx, `
        SELECT note_id, user_id, title, content, language_code, image_urls, creation_time, update_time
        FROM notes WHERE user_id = ? AND note_id = ?
    `, userID, noteID)
	return scanNote(row)
}

func (n *notes) List(ctx context.Context, userID, languageCode string) ([]*model.Note, error) {
	rows, err := n.db.QueryContext(ctx, `
        SELECT note_id, user_id, title, content, language_code, image_urls, creation_time, update_time
        FROM notes WHERE user_id = ? AND language_code = ?
        ORDER BY creation_time DESC
    `, userID, languageCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Note
	for rows.Next() {
		m, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (n *notes) Update(ctx context.Context, userID, noteID string, patch model.NotePatch) (*model.Note, error) {
	sets := []string{"update_time = ?"}
	args := []any{nowNanos()}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	args = append(args, userID, noteID)
	res, err := n.db.ExecContext(ctx,
		`UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE user_id = ? AND note_id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, model.ErrNotFound
	}
	return n.GetByID(ctx, userID, noteID)
}

func (n *notes) Delete(ctx context.Context, userID, noteID string) error {
	tx, err := n.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE user_id = ? AND note_id = ?`, userID, noteID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	// Membership rows cascade in the same transaction.
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_notes WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("delete note memberships: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanNote(row rowScanner) (*model.Note, error) {
	var m model.Note
	var urls sql.NullString
	var created int64
	var updated sql.NullInt64
	if err := row.Scan(&m.NoteID, &m.UserID, &m.Title, &m.Content, &m.LanguageCode, &urls, &created, &updated); err != nil {
		return nil, mapRowErr(err)
	}
	if urls.Valid && urls.String != "" {
		_ = json.Unmarshal([]byte(urls.String), &m.ImageURLs)
	}
	m.CreationTime = fromNanos(created)
	m.UpdateTime = fromNullNanos(updated)
	return &m, nil
}

// --- Playlists ---

type playlists struct{ db *sql.DB }

func (p *playlists) Create(ctx context.Context, m *model.Playlist) (*model.Playlist, error) {
	id := m.PlaylistID
	if id == "" {
		id = uuid.New().String()
	}
	created := nowNanos()
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO playlists (playlist_id, user_id, name, language_code, creation_time)
        VALUES (?, ?, ?, ?, ?)
    `, id, m.UserID, m.Name, m.LanguageCode, created)
	if err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	out := *m
	out.PlaylistID = id
	out.CreationTime = fromNanos(created)
	return &out, nil
}

func (p *playlists) GetByID(ctx context.Context, userID, playlistID string) (*model.Playlist, error) {
	var m model.Playlist
	var created int64
	row := p.db.QueryRowContext(ctx, `
        SELECT playlist_id, user_id, name, language_code, creation_time
        FROM playlists WHERE user_id = ? AND playlist_id = ?
    `, userID, playlistID)
	if err := row.Scan(&m.PlaylistID, &m.UserID, &m.Name, &m.LanguageCode, &created); err != nil {
		return nil, mapRowErr(err)
	}
	m.CreationTime = fromNanos(created)
	return &m, nil
}

func (p *playlists) List(ctx context.Context, userID, languageCode string) ([]*model.Playlist, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT playlist_id, user_id, name, language_code, creation_time
        FROM playlists WHERE user_id = ? AND language_code = ?
        ORDER BY creation_time ASC
    `, userID, languageCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Playlist
	for rows.Next() {
		var m model.Playlist
		var created int64
		if err := rows.Scan(&m.PlaylistID, &m.UserID, &m.Name, &m.LanguageCode, &created); err != nil {
			return nil, err
		}
		m.CreationTime = fromNanos(created)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (p *playlists) Delete(ctx context.Context, userID, playlistID string) error {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE user_id = ? AND playlist_id = ?`, userID, playlistID)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_notes WHERE playlist_id = ?`, playlistID); err != nil {
		return fmt.Errorf("delete playlist memberships: %w", err)
	}
	return tx.Commit()
}

func (p *playlists) AddNote(ctx context.Context, userID, playlistID, noteID string) error {
	// Both parents must belong to the caller.
	if _, err := p.GetByID(ctx, userID, playlistID); err != nil {
		return err
	}
	var one int
	if err := p.db.QueryRowContext(ctx, `SELECT 1 FROM notes WHERE user_id = ? AND note_id = ?`, userID, noteID).Scan(&one); err != nil {
		return mapRowErr(err)
	}
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO playlist_notes (playlist_id, note_id, idx, creation_time)
        VALUES (?, ?, 0, ?)
        ON CONFLICT(playlist_id, note_id) DO NOTHING
    `, playlistID, noteID, nowNanos())
	if err != nil {
		return fmt.Errorf("add membership: %w", err)
	}
	return nil
}

func (p *playlists) RemoveNote(ctx context.Context, userID, playlistID, noteID string) error {
	if _, err := p.GetByID(ctx, userID, playlistID); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, `
        DELETE FROM playlist_notes WHERE playlist_id = ? AND note_id = ?
    `, playlistID, noteID)
	if err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	return nil
}

func (p *playlists) OrderedNoteIDs(ctx context.Context, userID, playlistID string) ([]string, error) {
	if _, err := p.GetByID(ctx, userID, playlistID); err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx, `
        SELECT note_id FROM playlist_notes
        WHERE playlist_id = ?
        ORDER BY idx ASC, creation_time ASC
    `, playlistID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (p *playlists) ListMemberships(ctx context.Context, userID, languageCode string) ([]*model.Membership, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT pn.playlist_id, pn.note_id, pn.idx, pn.creation_time
        FROM playlist_notes pn
        JOIN playlists pl ON pl.playlist_id = pn.playlist_id
        WHERE pl.user_id = ? AND pl.language_code = ?
    `, userID, languageCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Membership
	for rows.Next() {
		var m model.Membership
		var created int64
		if err := rows.Scan(&m.PlaylistID, &m.NoteID, &m.Idx, &created); err != nil {
			return nil, err
		}
		m.CreationTime = fromNanos(created)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Documents ---

type documents struct{ db *sql.DB }

func (d *documents) GetOrCreate(ctx context.Context, userID, languageCode string) (*model.Document, error) {
	// Lazily create the row; ON CONFLICT keeps this a single-row invariant
	// even when two clients race on first access.
	_, err := d.db.ExecContext(ctx, `
        INSERT INTO basic_notebooks (document_id, user_id, language_code)
        VALUES (?, ?, ?)
        ON CONFLICT(user_id, language_code) DO NOTHING
    `, uuid.New().String(), userID, languageCode)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return d.get(ctx, userID, languageCode)
}

func (d *documents) get(ctx context.Context, userID, languageCode string) (*model.Document, error) {
	var m model.Document
	var doc sql.NullString
	var updated sql.NullInt64
	row := d.db.QueryRowContext(ctx, `
        SELECT document_id, user_id, language_code, doc, plain, update_time
        FROM basic_notebooks WHERE user_id = ? AND language_code = ?
    `, userID, languageCode)
	if err := row.Scan(&m.DocumentID, &m.UserID, &m.LanguageCode, &doc, &m.Plain, &updated); err != nil {
		return nil, mapRowErr(err)
	}
	if doc.Valid {
		m.Doc = json.RawMessage(doc.String)
	}
	m.UpdateTime = fromNullNanos(updated)
	return &m, nil
}

func (d *documents) Save(ctx context.Context, userID, documentID string, doc json.RawMessage, plain string) (*model.Document, error) {
	var docVal any
	if len(doc) > 0 {
		docVal = string(doc)
	}
	res, err := d.db.ExecContext(ctx, `
        UPDATE basic_notebooks SET doc = ?, plain = ?, update_time = ?
        WHERE user_id = ? AND document_id = ?
    `, docVal, plain, nowNanos(), userID, documentID)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, model.ErrNotFound
	}
	var m model.Document
	var docOut sql.NullString
	var updated sql.NullInt64
	row := d.db.QueryRowContext(ctx, `
        SELECT document_id, user_id, language_code, doc, plain, update_time
        FROM basic_notebooks WHERE user_id = ? AND document_id = ?
    `, userID, documentID)
	if err := row.Scan(&m.DocumentID, &m.UserID, &m.LanguageCode, &docOut, &m.Plain, &updated); err != nil {
		return nil, mapRowErr(err)
	}
	if docOut.Valid {
		m.Doc = json.RawMessage(docOut.String)
	}
	m.UpdateTime = fromNullNanos(updated)
	return &m, nil
}
