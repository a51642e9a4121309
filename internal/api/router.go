package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/linguanote/linguanote/internal/api/recovery"
	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/blob"
	"github.com/linguanote/linguanote/internal/gate"
	"github.com/linguanote/linguanote/internal/services"
	"github.com/linguanote/linguanote/internal/store"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Store          store.Store
	Authorizer     auth.Authorizer
	Metadata       auth.MetadataUpdater
	Blob           blob.Store
	Signer         *blob.Signer
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	g := gate.New(deps.Store, deps.Metadata, deps.Logger)

	profileSvc := services.NewProfileService(deps.Store)
	noteSvc := services.NewNoteService(deps.Store)
	playlistSvc := services.NewPlaylistService(deps.Store)
	documentSvc := services.NewDocumentService(deps.Store)

	healthHandler := NewHealthHandler()
	profileHandler := NewProfileHandler(deps.Authorizer, g, profileSvc)
	noteHandler := NewNoteHandler(deps.Authorizer, g, noteSvc)
	playlistHandler := NewPlaylistHandler(deps.Authorizer, g, playlistSvc)
	documentHandler := NewDocumentHandler(deps.Authorizer, g, documentSvc)
	mediaHandler := NewMediaHandler(deps.Authorizer, g, deps.Blob, deps.Signer, deps.MaxUploadBytes)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Gate and profile endpoints
	router.HandleFunc("/api/gate", profileHandler.EvaluateGate).Methods("POST")
	router.HandleFunc("/api/profile", profileHandler.GetProfile).Methods("GET")
	router.HandleFunc("/api/profile/username", profileHandler.SetUsername).Methods("PUT")

	// Note endpoints
	router.HandleFunc("/api/notes", noteHandler.ListNotes).Methods("GET")
	router.HandleFunc("/api/notes", noteHandler.CreateNote).Methods("POST")
	router.HandleFunc("/api/notes/{noteId}", noteHandler.GetNote).Methods("GET")
	router.HandleFunc("/api/notes/{noteId}", noteHandler.UpdateNote).Methods("PATCH")
	router.HandleFunc("/api/notes/{noteId}", noteHandler.DeleteNote).Methods("DELETE")

	// Playlist endpoints
	router.HandleFunc("/api/playlists", playlistHandler.ListPlaylists).Methods("GET")
	router.HandleFunc("/api/playlists", playlistHandler.CreatePlaylist).Methods("POST")
	router.HandleFunc("/api/playlists/{playlistId}", playlistHandler.DeletePlaylist).Methods("DELETE")
	router.HandleFunc("/api/playlists/{playlistId}/notes", playlistHandler.PlaylistNotes).Methods("GET")
	router.HandleFunc("/api/playlists/{playlistId}/notes/{noteId}", playlistHandler.AddNote).Methods("PUT")
	router.HandleFunc("/api/playlists/{playlistId}/notes/{noteId}", playlistHandler.RemoveNote).Methods("DELETE")
	router.HandleFunc("/api/memberships", playlistHandler.ListMemberships).Methods("GET")

	// Basic document endpoints
	router.HandleFunc("/api/documents/{lang}", documentHandler.OpenDocument).Methods("GET")
	router.HandleFunc("/api/documents/{documentId}", documentHandler.SaveDocument).Methods("PUT")

	// Media endpoints
	router.HandleFunc("/api/uploads", mediaHandler.Upload).Methods("POST")
	router.HandleFunc("/media/{key:.+}", mediaHandler.Serve).Methods("GET")

	return router
}
