package web

import (
	"net/http"
)

// handleLoginForm renders the login page. Auth pages go through the include policy,
// so they carry no theme marker and no toggle.
func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "auth.html", h.pageData(r, "login", "Sign in"))
}

// handleSignupForm renders the signup page.
func (h *Handler) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "auth.html", h.pageData(r, "signup", "Sign up"))
}
