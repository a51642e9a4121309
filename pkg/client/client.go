// Package client is the Go client for the notebook service. It implements
// notebook.Backend, so a Workspace can run against a remote service the same
// way it runs against an in-process store.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/linguanote/linguanote/internal/model"
)

// Client talks to a notebook service over HTTP.
type Client struct {
	http *resty.Client
}

// New creates a client for the service at baseURL, authenticating every
// request with the given bearer token.
func New(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(token).
		SetTimeout(30 * time.Second)
	return &Client{http: c}
}

// GateResult mirrors the service's gate response.
type GateResult struct {
	Decision string         `json:"decision"`
	Profile  *model.Profile `json:"profile,omitempty"`
}

// apiError is the service's standard error payload.
type apiError struct {
	Err     string `json:"error"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error carries the HTTP status and the service's reason code.
type Error struct {
	Status  int
	Reason  string
	Message string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("notebook service: %d %s: %s", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("notebook service: %d: %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto the model sentinels so callers can
// use errors.Is across the process boundary.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusUnauthorized:
		return model.ErrUnauthorized
	case http.StatusConflict:
		return model.ErrConflict
	case http.StatusBadRequest:
		return model.ErrValidation
	}
	return nil
}

func statusErr(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	var body apiError
	_ = json.Unmarshal(resp.Body(), &body)
	return &Error{Status: resp.StatusCode(), Reason: body.Reason, Message: body.Message}
}

// EvaluateGate reports the access decision for this client's token.
func (c *Client) EvaluateGate(ctx context.Context) (*GateResult, error) {
	var out GateResult
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Post("/api/gate")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile fetches the caller's profile.
func (c *Client) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/profile")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetUsername claims a username for the caller's profile.
func (c *Client) SetUsername(ctx context.Context, username string) (*model.Profile, error) {
	var out model.Profile
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"username": username}).
		SetResult(&out).
		Put("/api/profile/username")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListNotes(ctx context.Context, languageCode string) ([]*model.Note, error) {
	var out struct {
		Notes []*model.Note `json:"notes"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("lang", languageCode).
		SetResult(&out).
		Get("/api/notes")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

func (c *Client) CreateNote(ctx context.Context, n *model.Note) (*model.Note, error) {
	var out model.Note
	resp, err := c.http.R().SetContext(ctx).SetBody(n).SetResult(&out).Post("/api/notes")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	var out model.Note
	resp, err := c.http.R().SetContext(ctx).SetBody(patch).SetResult(&out).
		Patch("/api/notes/" + noteID)
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/notes/" + noteID)
	if err != nil {
		return err
	}
	return statusErr(resp)
}

func (c *Client) ListPlaylists(ctx context.Context, languageCode string) ([]*model.Playlist, error) {
	var out struct {
		Playlists []*model.Playlist `json:"playlists"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("lang", languageCode).
		SetResult(&out).
		Get("/api/playlists")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return out.Playlists, nil
}

func (c *Client) CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error) {
	var out model.Playlist
	resp, err := c.http.R().SetContext(ctx).SetBody(p).SetResult(&out).Post("/api/playlists")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/playlists/" + playlistID)
	if err != nil {
		return err
	}
	return statusErr(resp)
}

func (c *Client) AddToPlaylist(ctx context.Context, playlistID, noteID string) error {
	resp, err := c.http.R().SetContext(ctx).
		Put("/api/playlists/" + playlistID + "/notes/" + noteID)
	if err != nil {
		return err
	}
	return statusErr(resp)
}

func (c *Client) RemoveFromPlaylist(ctx context.Context, playlistID, noteID string) error {
	resp, err := c.http.R().SetContext(ctx).
		Delete("/api/playlists/" + playlistID + "/notes/" + noteID)
	if err != nil {
		return err
	}
	return statusErr(resp)
}

func (c *Client) PlaylistNotes(ctx context.Context, playlistID string) ([]*model.Note, error) {
	var out struct {
		Notes []*model.Note `json:"notes"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		Get("/api/playlists/" + playlistID + "/notes")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

func (c *Client) ListMemberships(ctx context.Context, languageCode string) ([]*model.Membership, error) {
	var out struct {
		Memberships []*model.Membership `json:"memberships"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("lang", languageCode).
		SetResult(&out).
		Get("/api/memberships")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return out.Memberships, nil
}

func (c *Client) OpenDocument(ctx context.Context, languageCode string) (*model.Document, error) {
	var out model.Document
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		Get("/api/documents/" + languageCode)
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveDocument(ctx context.Context, documentID string, doc json.RawMessage, plain string) (*model.Document, error) {
	var out model.Document
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]interface{}{"doc": doc, "plain": plain}).
		SetResult(&out).
		Put("/api/documents/" + documentID)
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadResult is the response of a media upload.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload sends a media file and returns its signed URL for note markup.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var out UploadResult
	resp, err := c.http.R().SetContext(ctx).
		SetFileReader("file", filename, r).
		SetResult(&out).
		Post("/api/uploads")
	if err != nil {
		return nil, err
	}
	if err := statusErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports whether the service considers itself healthy.
func (c *Client) Health(ctx context.Context) (bool, error) {
	var out struct {
		Status string `json:"status"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/health")
	if err != nil {
		return false, err
	}
	if err := statusErr(resp); err != nil {
		return false, err
	}
	return out.Status == "healthy", nil
}
