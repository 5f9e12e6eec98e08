// Package api provides HTTP handlers for the JSON preference API.
package api

import (
	"context"
	"errors"
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/themer/app/enum"
	"github.com/umputun/themer/app/server/internal"
	"github.com/umputun/themer/app/store"
)

//go:generate moq -out mocks/prefstore.go -pkg mocks -skip-ensure -fmt goimports . PrefStore

// PrefStore defines the interface for profile-scoped preference storage.
type PrefStore interface {
	Get(ctx context.Context, profile, key string) (string, error)
	Clear(ctx context.Context, profile string) error
}

// Handler handles API requests for /api/* endpoints.
type Handler struct {
	store      PrefStore
	storageKey string
}

// New creates a new API handler. storageKey is the slot holding the theme.
func New(st PrefStore, storageKey string) *Handler {
	return &Handler{store: st, storageKey: storageKey}
}

// Register registers API routes on the given router.
func (h *Handler) Register(r *routegroup.Bundle) {
	r.HandleFunc("GET /theme", h.handleGetTheme)
	r.HandleFunc("DELETE /prefs", h.handleClear)
}

type themeResponse struct {
	Theme   string `json:"theme"`
	Saved   bool   `json:"saved"` // false if the theme is the default, nothing stored
	Profile string `json:"profile"`
}

// handleGetTheme returns the profile's theme as the page would apply it.
func (h *Handler) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	profile := internal.Profile(r.Context())
	resp := themeResponse{Theme: enum.ThemeLight.String(), Profile: profile}

	v, err := h.store.Get(r.Context(), profile, h.storageKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to read theme")
		return
	default:
		resp.Theme = enum.ThemeFromMarker(v).String()
		resp.Saved = true
	}
	rest.RenderJSON(w, resp)
}

// handleClear removes all stored preferences of the profile, like clearing browser storage.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	profile := internal.Profile(r.Context())
	if err := h.store.Clear(r.Context(), profile); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to clear preferences")
		return
	}
	log.Printf("[INFO] cleared preferences of profile %s", profile)
	w.WriteHeader(http.StatusNoContent)
}
