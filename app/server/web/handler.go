// Package web provides HTTP handlers for the themed web pages.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-pkgz/routegroup"

	"github.com/umputun/themer/app/server/internal"
	"github.com/umputun/themer/app/store"
	"github.com/umputun/themer/app/theme"
)

//go:generate moq -out mocks/prefstore.go -pkg mocks -skip-ensure -fmt goimports . PrefStore

//go:embed templates
var templatesFS embed.FS

// PrefStore defines the interface for profile-scoped preference storage.
type PrefStore interface {
	Get(ctx context.Context, profile, key string) (string, error)
	Set(ctx context.Context, profile, key, value string) error
}

// Config holds web handler configuration.
type Config struct {
	BaseURL string
	Theme   theme.Config
	Exclude []string // pages rendered without the theme controller, theme.DefaultExclude if nil
}

// Handler handles web page requests.
type Handler struct {
	store    PrefStore
	tmpl     *template.Template
	baseURL  string
	themeCfg theme.Config
	policy   theme.IncludePolicy
	toggles  profileLocks // serializes toggle clicks of one profile
}

// New creates a new web handler.
func New(st PrefStore, cfg Config) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	themeCfg := cfg.Theme.WithDefaults()
	if !validAttrName(themeCfg.Attr) {
		return nil, fmt.Errorf("invalid marker attribute name %q", themeCfg.Attr)
	}

	exclude := cfg.Exclude
	if exclude == nil {
		exclude = theme.DefaultExclude
	}

	return &Handler{
		store:    st,
		tmpl:     tmpl,
		baseURL:  cfg.BaseURL,
		themeCfg: themeCfg,
		policy:   theme.IncludePolicy{Exclude: exclude},
		toggles:  profileLocks{locks: map[string]*profileLock{}},
	}, nil
}

// Register registers themed page routes on the given router.
func (h *Handler) Register(r *routegroup.Bundle) {
	r.HandleFunc("GET /{$}", h.handleIndex)
	r.HandleFunc("GET /about", h.handleAbout)
	r.HandleFunc("POST /web/theme", h.handleThemeToggle)
}

// RegisterAuth registers authentication pages, they are not themed.
func (h *Handler) RegisterAuth(r *routegroup.Bundle) {
	r.HandleFunc("GET /login", h.handleLoginForm)
	r.HandleFunc("GET /signup", h.handleSignupForm)
}

// parseTemplates parses all templates from embedded filesystem.
func parseTemplates() (*template.Template, error) {
	tmpl := template.New("")
	for _, name := range []string{"base.html", "auth.html"} {
		content, err := templatesFS.ReadFile("templates/" + name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err = tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return tmpl, nil
}

// templateData holds data passed to templates.
type templateData struct {
	Page    string // page name, selects the content block
	Title   string
	BaseURL string

	// theme controller state, zero for pages excluded by the include policy
	Themed      bool
	Marker      template.HTMLAttr // root marker attribute, name="value"
	Theme       string            // root marker value
	ToggleID    string
	SunIconID   string
	MoonIconID  string
	SunDisplay  string
	MoonDisplay string
}

// pageLoad is the result of running the theme controller for one request.
type pageLoad struct {
	page *theme.Page
	ctrl *theme.Controller
	slot *trackedSlot
}

// loadPage runs the page-load sequence for a themed request: the controller reads the
// profile's saved preference, applies it to a fresh page and binds the toggle.
// Returns false if the include policy excludes the path.
func (h *Handler) loadPage(r *http.Request) (pageLoad, bool) {
	if !h.policy.Applies(r.URL.Path) {
		return pageLoad{}, false
	}

	var st theme.Storage
	var slot *trackedSlot
	if profile := internal.Profile(r.Context()); profile != "" {
		slot = &trackedSlot{Storage: store.NewSlot(r.Context(), h.store, profile)}
		st = slot
	}

	page := theme.NewPage(h.themeCfg.ToggleID, h.themeCfg.SunIconID, h.themeCfg.MoonIconID)
	ctrl := theme.New(st, page, h.themeCfg)
	ctrl.Initialize()
	page.Ready(ctrl.OnReady)
	return pageLoad{page: page, ctrl: ctrl, slot: slot}, true
}

// pageData makes template data for the page at the request path.
func (h *Handler) pageData(r *http.Request, name, title string) templateData {
	data := templateData{Page: name, Title: title, BaseURL: h.baseURL}
	pl, ok := h.loadPage(r)
	if !ok {
		return data
	}
	data.Themed = true
	data.Theme = pl.page.Attr(h.themeCfg.Attr)
	data.Marker = markerAttr(h.themeCfg.Attr, data.Theme)
	data.ToggleID = h.themeCfg.ToggleID
	data.SunIconID = h.themeCfg.SunIconID
	data.MoonIconID = h.themeCfg.MoonIconID
	data.SunDisplay, _ = pl.page.Display(h.themeCfg.SunIconID)
	data.MoonDisplay, _ = pl.page.Display(h.themeCfg.MoonIconID)
	return data
}

// markerAttr renders the root marker attribute as name="value".
// The name is checked by New, the value is escaped.
func markerAttr(name, value string) template.HTMLAttr {
	return template.HTMLAttr(name + `="` + template.HTMLEscapeString(value) + `"`) //nolint:gosec // name is validated in New
}

// validAttrName allows lowercase letters, digits and dashes.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// backURL returns the local page the request came from, the index page otherwise.
func (h *Handler) backURL(r *http.Request) string {
	fallback := h.baseURL + "/"
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || u.Path == "" {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// trackedSlot remembers the last write error. The controller only logs storage
// failures, the toggle handler needs to report them.
type trackedSlot struct {
	theme.Storage
	err error
}

// Set saves the value and records the failure, if any.
func (t *trackedSlot) Set(key, value string) error {
	if err := t.Storage.Set(key, value); err != nil {
		t.err = err
		return fmt.Errorf("tracked set: %w", err)
	}
	return nil
}

// profileLocks is a keyed mutex, one lock per profile. Entries are dropped when the
// last holder releases them.
type profileLocks struct {
	mu    sync.Mutex
	locks map[string]*profileLock
}

type profileLock struct {
	mu   sync.Mutex
	refs int
}

// lock acquires the profile's lock and returns the function releasing it.
func (p *profileLocks) lock(profile string) (unlock func()) {
	p.mu.Lock()
	l, ok := p.locks[profile]
	if !ok {
		l = &profileLock{}
		p.locks[profile] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, profile)
		}
		p.mu.Unlock()
	}
}
