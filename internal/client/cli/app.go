package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/client/api"
	"github.com/dmitrijs2005/vocabkeeper/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, email string, password []byte) (*api.User, error)
	Login(ctx context.Context, email string, password []byte) (time.Time, error)
	Logout()
	LoggedIn() bool
	Me(ctx context.Context) (*api.User, error)
	ListVocabularies(ctx context.Context, opts api.ListOptions) ([]api.Vocabulary, error)
	AddVocabulary(ctx context.Context, v api.NewVocabulary) (*api.Vocabulary, error)
	DeleteVocabulary(ctx context.Context, id string) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	Favorites(ctx context.Context) ([]api.Vocabulary, error)
	AddFavorite(ctx context.Context, id string) error
	RemoveFavorite(ctx context.Context, id string) error
	AudioUploadURL(ctx context.Context, id string) (string, error)
	AudioDownloadURL(ctx context.Context, id string) (string, error)
}

// transferTimeout bounds audio uploads and downloads against object storage.
const transferTimeout = 2 * time.Minute

type App struct {
	config   *config.Config
	api      apiClient
	transfer *http.Client
	userName string

	mu   sync.Mutex
	Mode Mode
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	if c.ServerURL == "" {
		return nil, fmt.Errorf("server url is empty")
	}

	return &App{
		config: c,
		api:      api.NewClient(c.ServerURL, c.RequestTimeout),
		transfer: &http.Client{Timeout: transferTimeout},
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

// checkOnline pings the server once and updates Mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
