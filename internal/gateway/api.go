// ABOUTME: HTTP handlers for accounts, sessions and owner-scoped note operations
// ABOUTME: Maps service errors onto the JSON error envelope the web client expects

package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/2389/notes-gateway/internal/accounts"
	"github.com/2389/notes-gateway/internal/auth"
	"github.com/2389/notes-gateway/internal/common"
	"github.com/2389/notes-gateway/internal/notes"
	"github.com/2389/notes-gateway/internal/store"
)

// Response messages shared by handlers and tests
const (
	msgRegistered     = "Registration Successful"
	msgLoggedIn       = "Login Successful"
	msgUserExists     = "User already exist"
	msgBadCredentials = "Invalid Credentials"
	msgNoteAdded      = "Note added successfully"
	msgNoteUpdated    = "Note updated successfully"
	msgNotesListed    = "All notes retrieved successfully"
	msgNoteDeleted    = "Note deleted successfully"
	msgNotesSearched  = "Notes matching the search query retrieved successfully"
	msgNotesExported  = "Notes exported successfully"
	msgNoteNotFound   = "Note not found"
	msgNoChange       = "No change provided"
	msgPinnedRequired = "isPinned is required"
	msgInvalidBody    = "Invalid request body"
	msgInternalError  = "Internal Server Error"
	msgUserNotFound   = "user not found"
	msgExportDisabled = "Export is not enabled"
)

// UserResponse is the public view of an account. The password hash never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"createdOn"`
}

// NoteResponse is the JSON shape of a note
type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"isPinned"`
	UserID    string    `json:"userId"`
	CreatedOn time.Time `json:"createdOn"`
}

// CreateAccountRequest is the body of POST /create-account
type CreateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddNoteRequest is the body of POST /add-note
type AddNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// EditNoteRequest is the body of PUT /edit-note/{noteId}. Absent fields stay nil.
type EditNoteRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	IsPinned *bool     `json:"isPinned"`
}

// PinNoteRequest is the body of PUT /update-note-pinned/{noteId}
type PinNoteRequest struct {
	IsPinned *bool `json:"isPinned"`
}

func userResponse(u *store.User) UserResponse {
	return UserResponse{ID: u.ID, FullName: u.FullName, Email: u.Email, CreatedOn: u.CreatedAt}
}

func noteResponse(n *store.Note) NoteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		IsPinned:  n.IsPinned,
		UserID:    n.UserID,
		CreatedOn: n.CreatedAt,
	}
}

func noteResponses(ns []*store.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, noteResponse(n))
	}
	return out
}

// registerAPIRoutes adds the account and note routes to the mux.
func (g *Gateway) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /create-account", g.handleCreateAccount)
	mux.HandleFunc("POST /login", g.handleLogin)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, g.gate.Middleware(h))
	}

	protected("GET /get-user", g.handleGetUser)
	protected("POST /add-note", g.handleAddNote)
	protected("GET /get-note/{noteId}", g.handleGetNote)
	protected("PUT /edit-note/{noteId}", g.handleEditNote)
	protected("PUT /update-note-pinned/{noteId}", g.handleUpdatePinned)
	protected("GET /get-all-notes", g.handleListNotes)
	protected("GET /get-all-notes/{$}", g.handleListNotes)
	protected("DELETE /delete-note/{noteId}", g.handleDeleteNote)
	protected("GET /search-notes", g.handleSearchNotes)
	protected("GET /search-notes/{$}", g.handleSearchNotes)
	if g.exporter != nil {
		protected("POST /export-notes", g.handleExportNotes)
	}
}

// decodeBody decodes a JSON request body into v. An empty body decodes as {}.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sendJSONError writes the {"error":true,"message":...} envelope.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": true, "message": message})
}

// writeServiceError maps a service error to a status and message.
func (g *Gateway) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := common.AsValidation(err); ok {
		sendJSONError(w, http.StatusBadRequest, verr.Message)
		return
	}

	switch {
	case errors.Is(err, notes.ErrNotFound):
		sendJSONError(w, http.StatusNotFound, msgNoteNotFound)
	case errors.Is(err, accounts.ErrUserNotFound), errors.Is(err, accounts.ErrInvalidCredentials):
		sendJSONError(w, http.StatusBadRequest, msgBadCredentials)
	case errors.Is(err, accounts.ErrDuplicateEmail):
		sendJSONError(w, http.StatusOK, msgUserExists)
	default:
		g.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		sendJSONError(w, http.StatusInternalServerError, msgInternalError)
	}
}

func (g *Gateway) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := g.accounts.CreateAccount(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	token, err := g.tokens.Issue(user.ID, auth.PurposeRegistration)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":       false,
		"user":        userResponse(user),
		"accessToken": token.Value,
		"message":     msgRegistered,
	})
}

func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := g.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	token, err := g.tokens.Issue(user.ID, auth.PurposeLogin)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":       false,
		"email":       user.Email,
		"accessToken": token.Value,
		"message":     msgLoggedIn,
	})
}

func (g *Gateway) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	user, err := g.accounts.GetByID(r.Context(), caller.UserID)
	if err != nil {
		// A valid token whose account is gone is treated as an unauthenticated caller.
		if errors.Is(err, accounts.ErrNotFound) {
			sendJSONError(w, http.StatusUnauthorized, msgUserNotFound)
			return
		}
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"user":    userResponse(user),
		"message": "",
	})
}

func (g *Gateway) handleAddNote(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	var req AddNoteRequest
	if err := decodeBody(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	note, err := g.notes.Create(r.Context(), caller.UserID, req.Title, req.Content, req.Tags)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"note":    noteResponse(note),
		"message": msgNoteAdded,
	})
}

func (g *Gateway) handleGetNote(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	note, err := g.notes.Get(r.Context(), r.PathValue("noteId"), caller.UserID)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"note":    noteResponse(note),
		"message": "",
	})
}

func (g *Gateway) handleEditNote(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	var req EditNoteRequest
	if err := decodeBody(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	patch := notes.Patch{Title: req.Title, Content: req.Content, Tags: req.Tags, IsPinned: req.IsPinned}
	if patch.IsEmpty() {
		sendJSONError(w, http.StatusBadRequest, msgNoChange)
		return
	}

	note, err := g.notes.Edit(r.Context(), r.PathValue("noteId"), caller.UserID, patch)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"note":    noteResponse(note),
		"message": msgNoteUpdated,
	})
}

func (g *Gateway) handleUpdatePinned(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	var req PinNoteRequest
	if err := decodeBody(r, &req); err != nil {
		sendJSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.IsPinned == nil {
		sendJSONError(w, http.StatusBadRequest, msgPinnedRequired)
		return
	}

	note, err := g.notes.SetPinned(r.Context(), r.PathValue("noteId"), caller.UserID, *req.IsPinned)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"note":    noteResponse(note),
		"message": msgNoteUpdated,
	})
}

func (g *Gateway) handleListNotes(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	list, err := g.notes.List(r.Context(), caller.UserID)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"notes":   noteResponses(list),
		"message": msgNotesListed,
	})
}

func (g *Gateway) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	if err := g.notes.Delete(r.Context(), r.PathValue("noteId"), caller.UserID); err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"message": msgNoteDeleted,
	})
}

func (g *Gateway) handleSearchNotes(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	matches, err := g.notes.Search(r.Context(), caller.UserID, r.URL.Query().Get("query"))
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"notes":   noteResponses(matches),
		"message": msgNotesSearched,
	})
}

func (g *Gateway) handleExportNotes(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustFromContext(r.Context())

	if g.exporter == nil {
		sendJSONError(w, http.StatusNotFound, msgExportDisabled)
		return
	}

	result, err := g.exporter.Export(r.Context(), caller.UserID)
	if err != nil {
		g.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"error":     false,
		"url":       result.URL,
		"key":       result.Key,
		"count":     result.Count,
		"expiresAt": result.ExpiresAt,
		"message":   msgNotesExported,
	})
}
