package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/themer/app/server"
	"github.com/umputun/themer/app/store"
	"github.com/umputun/themer/app/theme"
)

var opts struct {
	DB   string `short:"d" long:"db" env:"THEMER_DB" default:"themer.db" description:"database URL (sqlite file or postgres://...)"`
	Conf string `short:"c" long:"conf" env:"THEMER_CONF" description:"optional toml file with theme names and excluded pages"`

	Server struct {
		Address     string        `long:"address" env:"ADDRESS" default:":8585" description:"server listen address"`
		ReadTimeout time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"5s" description:"read timeout"`
		BaseURL     string        `long:"base-url" env:"BASE_URL" description:"base URL path for reverse proxy (e.g., /themer)"`
	} `group:"server" namespace:"server" env-namespace:"THEMER_SERVER"`

	Cache struct {
		Size int `long:"size" env:"SIZE" default:"1000" description:"max cached preferences, 0 disables cache"`
	} `group:"cache" namespace:"cache" env-namespace:"THEMER_CACHE"`

	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `long:"version" description:"show version and exit"`
}

// themeConf is the layout of the optional config file, element names sit at the top level.
type themeConf struct {
	theme.Config
	Exclude []string `toml:"exclude"`
}

var revision = "unknown"

func main() {
	fmt.Printf("themer %s\n", revision)

	p := flags.NewParser(&opts, flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			p.WriteHelp(os.Stderr)
			os.Exit(2)
		}
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	if opts.Version {
		os.Exit(0)
	}

	setupLogs(opts.Debug)

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel)

	if err := runServer(ctx); err != nil {
		log.Printf("[ERROR] failed: %v", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context) error {
	baseURL, err := validateBaseURL(opts.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}

	conf, err := loadThemeConf(opts.Conf)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// initialize storage
	db, err := store.New(opts.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	var prefs store.PrefStore = db
	if opts.Cache.Size > 0 {
		cached, cacheErr := store.NewCached(db, opts.Cache.Size)
		if cacheErr != nil {
			_ = db.Close()
			return fmt.Errorf("failed to initialize cache: %w", cacheErr)
		}
		prefs = cached
	}
	defer closeStore(prefs)

	if n, countErr := prefs.Profiles(ctx); countErr == nil {
		log.Printf("[INFO] store has preferences of %d profile(s)", n)
	}

	srv, err := server.New(prefs, server.Config{
		Address:     opts.Server.Address,
		ReadTimeout: opts.Server.ReadTimeout,
		Version:     revision,
		BaseURL:     baseURL,
		Theme:       conf.Config,
		Exclude:     conf.Exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	log.Printf("[INFO] starting themer server on %s", opts.Server.Address)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// closeStore reports cache stats while the cache is still open, then closes the store.
func closeStore(prefs store.PrefStore) {
	if cached, ok := prefs.(*store.Cached); ok {
		log.Printf("[DEBUG] cache stats: %s", cached.Stats())
	}
	if err := prefs.Close(); err != nil {
		log.Printf("[WARN] failed to close store: %v", err)
		return
	}
	log.Printf("[DEBUG] store closed")
}

// loadThemeConf reads the optional config file, empty path gives the defaults.
func loadThemeConf(path string) (themeConf, error) {
	var conf themeConf
	if path == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return themeConf{}, fmt.Errorf("can't decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Printf("[WARN] unknown keys in %s: %v", path, undecoded)
	}
	log.Printf("[DEBUG] loaded theme config from %s", path)
	return conf, nil
}

// validateBaseURL normalizes base url, it must start with a slash and has no trailing slash.
func validateBaseURL(u string) (string, error) {
	if u == "" {
		return "", nil
	}
	if !strings.HasPrefix(u, "/") {
		return "", fmt.Errorf("base url %q must start with /", u)
	}
	return strings.TrimRight(u, "/"), nil
}

func setupLogs(debug bool) io.Writer {
	log.Setup(log.Msec)
	if debug {
		log.Setup(log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
	return os.Stdout
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			switch sig {
			case syscall.SIGQUIT:
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
			case syscall.SIGTERM, syscall.SIGINT:
				cancel()
			}
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
