package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_AuthPagesNotThemed(t *testing.T) {
	st := memPrefStore()
	require.NoError(t, st.Set(context.Background(), "p1", "theme", "dark"))
	h := newTestHandler(t, st)

	tests := []struct {
		path    string
		handler http.HandlerFunc
		title   string
	}{
		{"/login", h.handleLoginForm, "Sign in"},
		{"/signup", h.handleSignupForm, "Sign up"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := withProfile(httptest.NewRequest(http.MethodGet, tc.path, http.NoBody), "p1")
			rec := httptest.NewRecorder()
			tc.handler(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "<title>"+tc.title+"</title>")
			assert.Contains(t, body, `<html lang="en">`)
			assert.NotContains(t, body, "data-theme")
			assert.NotContains(t, body, "darkModeToggle")
			assert.NotContains(t, body, "<form", "no form posting to an unregistered route")
		})
	}
	assert.Empty(t, st.GetCalls(), "auth pages never read the preference")
}
