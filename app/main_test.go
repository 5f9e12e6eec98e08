package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/themer/app/store"
)

func TestIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	opts.DB = filepath.Join(tmpDir, "test.db")
	opts.Conf = ""
	opts.Server.Address = "127.0.0.1:18585" // use non-standard port to avoid conflicts
	opts.Server.ReadTimeout = 5 * time.Second
	opts.Server.BaseURL = ""
	opts.Cache.Size = 100

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runServer(ctx)
	}()

	waitForServer(t, "http://127.0.0.1:18585/ping")

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Timeout: 5 * time.Second, Jar: jar}

	getBody := func(t *testing.T, url string) string {
		t.Helper()
		resp, err := client.Get(url)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	apiTheme := func(t *testing.T) (theme string, saved bool) {
		t.Helper()
		resp, err := client.Get("http://127.0.0.1:18585/api/theme")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var res struct {
			Theme string `json:"theme"`
			Saved bool   `json:"saved"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		return res.Theme, res.Saved
	}

	t.Run("first visit is light", func(t *testing.T) {
		body := getBody(t, "http://127.0.0.1:18585/")
		assert.Contains(t, body, `data-theme="light"`)
		th, saved := apiTheme(t)
		assert.Equal(t, "light", th)
		assert.False(t, saved)
	})

	t.Run("toggle to dark and reload", func(t *testing.T) {
		resp, err := client.Post("http://127.0.0.1:18585/web/theme", "application/x-www-form-urlencoded", nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode) // redirect followed

		body := getBody(t, "http://127.0.0.1:18585/about")
		assert.Contains(t, body, `data-theme="dark"`)
		th, saved := apiTheme(t)
		assert.Equal(t, "dark", th)
		assert.True(t, saved)
	})

	t.Run("auth page is not themed", func(t *testing.T) {
		body := getBody(t, "http://127.0.0.1:18585/login")
		assert.NotContains(t, body, "data-theme")
		assert.NotContains(t, body, "darkModeToggle")
	})

	t.Run("clear preferences", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, "http://127.0.0.1:18585/api/prefs", http.NoBody)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		th, saved := apiTheme(t)
		assert.Equal(t, "light", th)
		assert.False(t, saved)
	})

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestIntegration_WithConfAndBaseURL(t *testing.T) {
	tmpDir := t.TempDir()
	confFile := filepath.Join(tmpDir, "themer.toml")
	conf := `storage_key = "ui-theme"
toggle_id = "themeSwitch"
exclude = ["/about"]
`
	require.NoError(t, os.WriteFile(confFile, []byte(conf), 0o600))

	opts.DB = filepath.Join(tmpDir, "test.db")
	opts.Conf = confFile
	opts.Server.Address = "127.0.0.1:18586"
	opts.Server.ReadTimeout = 5 * time.Second
	opts.Server.BaseURL = "/themer/"
	opts.Cache.Size = 0
	defer func() { opts.Conf, opts.Server.BaseURL = "", "" }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- runServer(ctx)
	}()

	waitForServer(t, "http://127.0.0.1:18586/themer/ping")

	client := &http.Client{Timeout: 5 * time.Second}

	t.Run("themed page uses configured toggle id", func(t *testing.T) {
		resp, err := client.Get("http://127.0.0.1:18586/themer/")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `id="themeSwitch"`)
		assert.Contains(t, string(body), `data-theme="light"`)
	})

	t.Run("excluded page has no marker", func(t *testing.T) {
		resp, err := client.Get("http://127.0.0.1:18586/themer/about")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "data-theme")
	})

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()
	client := &http.Client{Timeout: 100 * time.Millisecond}
	require.Eventually(t, func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 50*time.Millisecond, "server did not start")
}

func TestSetupLogs(t *testing.T) {
	t.Run("default mode", func(t *testing.T) {
		w := setupLogs(false)
		assert.NotNil(t, w)
	})

	t.Run("debug mode", func(t *testing.T) {
		w := setupLogs(true)
		assert.NotNil(t, w)
	})
}

func TestRun_InvalidDB(t *testing.T) {
	opts.DB = "/nonexistent/path/to/db.db"
	opts.Conf = ""
	opts.Server.Address = "127.0.0.1:18587"
	opts.Server.BaseURL = ""

	err := runServer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize store")
}

func TestRun_InvalidBaseURL(t *testing.T) {
	opts.DB = filepath.Join(t.TempDir(), "test.db")
	opts.Server.BaseURL = "themer"
	defer func() { opts.Server.BaseURL = "" }()

	err := runServer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base url")
}

func TestRun_InvalidAttr(t *testing.T) {
	tmpDir := t.TempDir()
	confFile := filepath.Join(tmpDir, "bad.toml")
	require.NoError(t, os.WriteFile(confFile, []byte(`attr = "data theme"`), 0o600))
	opts.DB = filepath.Join(tmpDir, "test.db")
	opts.Conf = confFile
	opts.Server.BaseURL = ""
	defer func() { opts.Conf = "" }()

	err := runServer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize server")
}

func TestSignals(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NotPanics(t, func() {
		signals(cancel)
	})
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"valid", "/themer", "/themer", false},
		{"valid nested", "/app/themer", "/app/themer", false},
		{"strips trailing slash", "/themer/", "/themer", false},
		{"root only", "/", "", false},
		{"missing leading slash", "themer", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateBaseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadThemeConf(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		conf, err := loadThemeConf("")
		require.NoError(t, err)
		assert.Empty(t, conf.StorageKey)
		assert.Nil(t, conf.Exclude)
	})

	t.Run("full file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "themer.toml")
		data := `storage_key = "pref"
attr = "data-mode"
toggle_id = "t"
sun_icon_id = "s"
moon_icon_id = "m"
exclude = ["/login", "/reset"]
`
		require.NoError(t, os.WriteFile(f, []byte(data), 0o600))
		conf, err := loadThemeConf(f)
		require.NoError(t, err)
		assert.Equal(t, "pref", conf.StorageKey)
		assert.Equal(t, "data-mode", conf.Attr)
		assert.Equal(t, "t", conf.ToggleID)
		assert.Equal(t, "s", conf.SunIconID)
		assert.Equal(t, "m", conf.MoonIconID)
		assert.Equal(t, []string{"/login", "/reset"}, conf.Exclude)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadThemeConf("/nonexistent/themer.toml")
		require.Error(t, err)
	})

	t.Run("broken toml", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(f, []byte("attr = "), 0o600))
		_, err := loadThemeConf(f)
		require.Error(t, err)
	})
}

func TestCloseStore(t *testing.T) {
	var buf bytes.Buffer
	log.Setup(log.Debug, log.Out(&buf))
	defer log.Setup(log.Msec)

	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	cached, err := store.NewCached(db, 10)
	require.NoError(t, err)
	_, _ = cached.Get(context.Background(), "p1", "theme")

	closeStore(cached)

	out := buf.String()
	statsAt := bytes.Index(buf.Bytes(), []byte("cache stats"))
	closedAt := bytes.Index(buf.Bytes(), []byte("store closed"))
	require.NotEqual(t, -1, statsAt, out)
	require.NotEqual(t, -1, closedAt, out)
	assert.Less(t, statsAt, closedAt, "stats reported before the store is closed")

	_, err = db.Get(context.Background(), "p1", "theme")
	assert.Error(t, err, "underlying store is closed")
}
