package web

import (
	"net/http"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/themer/app/server/internal"
)

// handleIndex renders the main page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, "base.html", h.pageData(r, "index", "Themer"))
}

// handleAbout renders the about page.
func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	h.render(w, "base.html", h.pageData(r, "about", "About"))
}

// handleThemeToggle is the click on the toggle control. It loads the page the way a
// browser would, clicks the toggle and lets the controller persist the new theme.
func (h *Handler) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	// read-flip-write must not interleave with another click of the same profile
	unlock := h.toggles.lock(internal.Profile(r.Context()))
	defer unlock()

	pl, ok := h.loadPage(r)
	if !ok || !pl.page.Click(h.themeCfg.ToggleID) {
		http.Error(w, "theme toggle not available", http.StatusNotFound)
		return
	}

	if pl.slot != nil && pl.slot.err != nil {
		log.Printf("[ERROR] failed to save theme for profile %s: %v", internal.Profile(r.Context()), pl.slot.err)
		http.Error(w, "failed to save theme", http.StatusInternalServerError)
		return
	}
	log.Printf("[DEBUG] profile %s switched theme to %s", internal.Profile(r.Context()), pl.ctrl.Current())

	if r.Header.Get("HX-Request") == "true" {
		// trigger full page refresh
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, h.backURL(r), http.StatusSeeOther)
}

// render executes the named template.
func (h *Handler) render(w http.ResponseWriter, name string, data templateData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[ERROR] failed to execute template %s: %v", name, err)
	}
}
