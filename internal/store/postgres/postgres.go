// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// driver. The embedded schema is applied at startup through EnsureSchema.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Profiles() store.Profiles   { return &profiles{db: s.db} }
func (s *pgStore) Notes() store.Notes         { return &notes{db: s.db} }
func (s *pgStore) Playlists() store.Playlists { return &playlists{db: s.db} }
func (s *pgStore) Documents() store.Documents { return &documents{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapRowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// --- Profiles ---

type profiles struct{ db *sql.DB }

func (p *profiles) EnsureExists(ctx context.Context, userID string) (*model.Profile, bool, error) {
	res, err := p.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id) VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING
    `, userID)
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
	row := p.db.QueryRowContext(ctx, `
        SELECT user_id, username, display_name, creation_time, update_time
        FROM profiles WHERE user_id = $1
    `, userID)
	if err := row.Scan(&out.UserID, &out.Username, &out.DisplayName, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, mapRowErr(err)
	}
	return &out, nil
}

func (p *profiles) UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx, `
        SELECT 1 FROM profiles
        WHERE lower(username) = lower($1) AND user_id != $2
        LIMIT 1
    `, username, excludeUserID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *profiles) SetUsername(ctx context.Context, userID, username, displayName string) (*model.Profile, error) {
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, username, display_name, update_time)
        VALUES ($1, lower($2), $3, now())
        ON CONFLICT (user_id) DO UPDATE SET
            username = excluded.username,
            display_name = excluded.display_name,
            update_time = excluded.update_time
    `, userID, username, displayName)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
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
	urlsJSON, err := json.Marshal(m.ImageURLs)
	if err != nil {
		return nil, err
	}
	var created time.Time
	row := n.db.QueryRowContext(ctx, `
        INSERT INTO notes (note_id, user_id, title, content, language_code, image_urls)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING creation_time
    `, id, m.UserID, m.Title, m.Content, m.LanguageCode, string(urlsJSON))
	if err := row.Scan(&created); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	out := *m
	out.NoteID = id
	out.CreationTime = created
	return &out, nil
}

func (n *notes) GetByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	row := n.db.QueryRowContext(ctx, `
        SELECT note_id, user_id, title, content, language_code, image_urls, creation_time, update_time
        FROM notes WHERE user_id = $1 AND note_id = $2
    `, userID, noteID)
	return scanNote(row)
}

func (n *notes) List(ctx context.Context, userID, languageCode string) ([]*model.Note, error) {
	rows, err := n.db.QueryContext(ctx, `
        SELECT note_id, user_id, title, content, language_code, image_urls, creation_time, update_time
        FROM notes WHERE user_id = $1 AND language_code = $2
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
	sets := []string{"update_time = now()"}
	args := []any{}
	arg := 1
	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", arg))
		args = append(args, *patch.Title)
		arg++
	}
	if patch.Content != nil {
		sets = append(sets, fmt.Sprintf("content = $%d", arg))
		args = append(args, *patch.Content)
		arg++
	}
	args = append(args, userID, noteID)
	query := fmt.Sprintf(`UPDATE notes SET %s WHERE user_id = $%d AND note_id = $%d`,
		strings.Join(sets, ", "), arg, arg+1)
	res, err := n.db.ExecContext(ctx, query, args...)
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

	res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE user_id = $1 AND note_id = $2`, userID, noteID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_notes WHERE note_id = $1`, noteID); err != nil {
		return fmt.Errorf("delete note memberships: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanNote(row rowScanner) (*model.Note, error) {
	var m model.Note
	var urls []byte
	if err := row.Scan(&m.NoteID, &m.UserID, &m.Title, &m.Content, &m.LanguageCode, &urls, &m.CreationTime, &m.UpdateTime); err != nil {
		return nil, mapRowErr(err)
	}
	if len(urls) > 0 {
		_ = json.Unmarshal(urls, &m.ImageURLs)
	}
	return &m, nil
}

// --- Playlists ---

type playlists struct{ db *sql.DB }

func (p *playlists) Create(ctx context.Context, m *model.Playlist) (*model.Playlist, error) {
	id := m.PlaylistID
	if id == "" {
		id = uuid.New().String()
	}
	var created time.Time
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO playlists (playlist_id, user_id, name, language_code)
        VALUES ($1,$2,$3,$4)
        RETURNING creation_time
    `, id, m.UserID, m.Name, m.LanguageCode)
	if err := row.Scan(&created); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	out := *m
	out.PlaylistID = id
	out.CreationTime = created
	return &out, nil
}

func (p *playlists) GetByID(ctx context.Context, userID, playlistID string) (*model.Playlist, error) {
	var m model.Playlist
	row := p.db.QueryRowContext(ctx, `
        SELECT playlist_id, user_id, name, language_code, creation_time
        FROM playlists WHERE user_id = $1 AND playlist_id = $2
    `, userID, playlistID)
	if err := row.Scan(&m.PlaylistID, &m.UserID, &m.Name, &m.LanguageCode, &m.CreationTime); err != nil {
		return nil, mapRowErr(err)
	}
	return &m, nil
}

func (p *playlists) List(ctx context.Context, userID, languageCode string) ([]*model.Playlist, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT playlist_id, user_id, name, language_code, creation_time
        FROM playlists WHERE user_id = $1 AND language_code = $2
        ORDER BY creation_time ASC
    `, userID, languageCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Playlist
	for rows.Next() {
		var m model.Playlist
		if err := rows.Scan(&m.PlaylistID, &m.UserID, &m.Name, &m.LanguageCode, &m.CreationTime); err != nil {
			return nil, err
		}
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

	res, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE user_id = $1 AND playlist_id = $2`, userID, playlistID)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return model.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_notes WHERE playlist_id = $1`, playlistID); err != nil {
		return fmt.Errorf("delete playlist memberships: %w", err)
	}
	return tx.Commit()
}

func (p *playlists) AddNote(ctx context.Context, userID, playlistID, noteID string) error {
	if _, err := p.GetByID(ctx, userID, playlistID); err != nil {
		return err
	}
	var one int
	if err := p.db.QueryRowContext(ctx, `SELECT 1 FROM notes WHERE user_id = $1 AND note_id = $2`, userID, noteID).Scan(&one); err != nil {
		return mapRowErr(err)
	}
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO playlist_notes (playlist_id, note_id, idx)
        VALUES ($1, $2, 0)
        ON CONFLICT (playlist_id, note_id) DO NOTHING
    `, playlistID, noteID)
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
        DELETE FROM playlist_notes WHERE playlist_id = $1 AND note_id = $2
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
        WHERE playlist_id = $1
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
        WHERE pl.user_id = $1 AND pl.language_code = $2
    `, userID, languageCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Membership
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(&m.PlaylistID, &m.NoteID, &m.Idx, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Documents ---

type documents struct{ db *sql.DB }

func (d *documents) GetOrCreate(ctx context.Context, userID, languageCode string) (*model.Document, error) {
	_, err := d.db.ExecContext(ctx, `
        INSERT INTO basic_notebooks (document_id, user_id, language_code)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, language_code) DO NOTHING
    `, uuid.New().String(), userID, languageCode)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return d.get(ctx, userID, languageCode)
}

func (d *documents) get(ctx context.Context, userID, languageCode string) (*model.Document, error) {
	var m model.Document
	var doc []byte
	row := d.db.QueryRowContext(ctx, `
        SELECT document_id, user_id, language_code, doc, plain, update_time
        FROM basic_notebooks WHERE user_id = $1 AND language_code = $2
    `, userID, languageCode)
	if err := row.Scan(&m.DocumentID, &m.UserID, &m.LanguageCode, &doc, &m.Plain, &m.UpdateTime); err != nil {
		return nil, mapRowErr(err)
	}
	if len(doc) > 0 {
		m.Doc = json.RawMessage(doc)
	}
	return &m, nil
}

func (d *documents) Save(ctx context.Context, userID, documentID string, doc json.RawMessage, plain string) (*model.Document, error) {
	var m model.Document
	var docOut []byte
	row := d.db.QueryRowContext(ctx, `
        UPDATE basic_notebooks SET doc = $1, plain = $2, update_time = now()
        WHERE user_id = $3 AND document_id = $4
        RETURNING document_id, user_id, language_code, doc, plain, update_time
    `, string(doc), plain, userID, documentID)
	if err := row.Scan(&m.DocumentID, &m.UserID, &m.LanguageCode, &docOut, &m.Plain, &m.UpdateTime); err != nil {
		return nil, mapRowErr(err)
	}
	if len(docOut) > 0 {
		m.Doc = json.RawMessage(docOut)
	}
	return &m, nil
}
