// Package theme applies a light/dark preference to a document and keeps it in step with
// durable storage and an optional toggle control.
//
// Controller holds no event loop of its own. The host calls Initialize as early as possible
// on page load, OnReady once the page structure is available and OnToggleClick on every
// click of the toggle. Storage and the document are injected, so the same controller runs
// against a real page, the server-side Page model or test fakes.
package theme

import (
	log "github.com/go-pkgz/lgr"

	"github.com/umputun/themer/app/enum"
)

// default names used by the pages and by the storage slot
const (
	DefaultStorageKey = "theme"
	DefaultAttr       = "data-theme"
	DefaultToggleID   = "darkModeToggle"
	DefaultSunIconID  = "sunIcon"
	DefaultMoonIconID = "moonIcon"
)

// display values for icons
const (
	displayShown  = "block"
	displayHidden = "none"
)

// Storage is a durable key-value slot. Get returns false when nothing is saved
// or the storage can't be read.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Root is the document root element carrying the theme marker attribute.
type Root interface {
	Attr(name string) string
	SetAttr(name, value string)
}

// Element is an optional page element looked up by id.
type Element interface {
	SetDisplay(value string)
	OnClick(fn func())
}

// Document gives access to the root element and to elements by id.
type Document interface {
	Root() Root
	Element(id string) (Element, bool)
}

// Config defines the names shared between the controller, the page and the storage.
// Empty fields fall back to defaults.
type Config struct {
	StorageKey string `toml:"storage_key"`
	Attr       string `toml:"attr"`
	ToggleID   string `toml:"toggle_id"`
	SunIconID  string `toml:"sun_icon_id"`
	MoonIconID string `toml:"moon_icon_id"`
}

// WithDefaults returns a copy of the config with empty fields set to defaults.
func (c Config) WithDefaults() Config {
	if c.StorageKey == "" {
		c.StorageKey = DefaultStorageKey
	}
	if c.Attr == "" {
		c.Attr = DefaultAttr
	}
	if c.ToggleID == "" {
		c.ToggleID = DefaultToggleID
	}
	if c.SunIconID == "" {
		c.SunIconID = DefaultSunIconID
	}
	if c.MoonIconID == "" {
		c.MoonIconID = DefaultMoonIconID
	}
	return c
}

// Controller synchronizes the theme between storage, the root marker and the toggle icons.
type Controller struct {
	storage Storage
	doc     Document
	cfg     Config
	bound   bool
}

// New makes a controller for the given document. A nil storage behaves as storage
// that is not available: nothing is read and nothing is persisted.
func New(st Storage, doc Document, cfg Config) *Controller {
	return &Controller{storage: st, doc: doc, cfg: cfg.WithDefaults()}
}

// Initialize reads the saved preference and applies it to the root marker.
// Missing or unknown values resolve to light. Returns the applied theme.
func (c *Controller) Initialize() enum.Theme {
	th := enum.ThemeLight
	if c.storage != nil {
		if v, ok := c.storage.Get(c.cfg.StorageKey); ok {
			th = enum.ThemeFromMarker(v)
		}
	}
	c.doc.Root().SetAttr(c.cfg.Attr, th.String())
	return th
}

// OnReady binds the toggle control. It runs once per page load, repeated calls do nothing.
// Without a toggle on the page nothing is touched and no handler is registered.
func (c *Controller) OnReady() {
	if c.bound {
		return
	}
	c.bound = true

	toggle, ok := c.doc.Element(c.cfg.ToggleID)
	if !ok {
		return
	}
	c.syncIcons(c.Current())
	toggle.OnClick(func() { c.OnToggleClick() })
}

// OnToggleClick flips the theme read from the root marker, writes it back to the marker
// and to storage, then updates the icons. Returns the new theme.
func (c *Controller) OnToggleClick() enum.Theme {
	next := c.Current().Toggle()
	c.doc.Root().SetAttr(c.cfg.Attr, next.String())
	if c.storage != nil {
		if err := c.storage.Set(c.cfg.StorageKey, next.String()); err != nil {
			log.Printf("[WARN] failed to persist theme %s: %v", next, err)
		}
	}
	c.syncIcons(next)
	return next
}

// Current returns the theme denoted by the root marker.
func (c *Controller) Current() enum.Theme {
	return enum.ThemeFromMarker(c.doc.Root().Attr(c.cfg.Attr))
}

// HasToggle reports whether the page has a toggle control.
func (c *Controller) HasToggle() bool { return c.has(c.cfg.ToggleID) }

// HasSunIcon reports whether the page has the light indicator.
func (c *Controller) HasSunIcon() bool { return c.has(c.cfg.SunIconID) }

// HasMoonIcon reports whether the page has the dark indicator.
func (c *Controller) HasMoonIcon() bool { return c.has(c.cfg.MoonIconID) }

// Config returns the effective config.
func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) has(id string) bool {
	_, ok := c.doc.Element(id)
	return ok
}

// syncIcons shows the moon for dark and the sun for everything else.
// Each icon is optional and updated on its own.
func (c *Controller) syncIcons(th enum.Theme) {
	sun, moon := displayShown, displayHidden
	if th == enum.ThemeDark {
		sun, moon = displayHidden, displayShown
	}
	if el, ok := c.doc.Element(c.cfg.SunIconID); ok {
		el.SetDisplay(sun)
	}
	if el, ok := c.doc.Element(c.cfg.MoonIconID); ok {
		el.SetDisplay(moon)
	}
}
