package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/client/api"
)

type fakeAPI struct {
	pingErr error

	regUser string
	regPass []byte
	regErr  error

	loginUser string
	loginPass []byte
	loginErr  error
	token     bool

	meErr error

	listOpts api.ListOptions
	list     []api.Vocabulary
	listErr  error

	added  api.NewVocabulary
	addErr error

	deleted    string
	deleteCats []string
	deleteErr  error

	cats []string
	favs []api.Vocabulary

	favorited   string
	unfavorited string
	favErr      error

	audioURL string
	audioErr error
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Register(_ context.Context, email string, password []byte) (*api.User, error) {
	f.regUser, f.regPass = email, append([]byte(nil), password...)
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &api.User{ID: "u1", Email: email, IsActive: true}, nil
}

func (f *fakeAPI) Login(_ context.Context, email string, password []byte) (time.Time, error) {
	f.loginUser, f.loginPass = email, append([]byte(nil), password...)
	if f.loginErr != nil {
		return time.Time{}, f.loginErr
	}
	f.token = true
	return time.Now().Add(30 * time.Minute), nil
}

func (f *fakeAPI) Logout()        { f.token = false }
func (f *fakeAPI) LoggedIn() bool { return f.token }

func (f *fakeAPI) Me(context.Context) (*api.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &api.User{ID: "u1", Email: "a@x.com", IsActive: true}, nil
}

func (f *fakeAPI) ListVocabularies(_ context.Context, opts api.ListOptions) ([]api.Vocabulary, error) {
	f.listOpts = opts
	return f.list, f.listErr
}

func (f *fakeAPI) AddVocabulary(_ context.Context, v api.NewVocabulary) (*api.Vocabulary, error) {
	f.added = v
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &api.Vocabulary{ID: "v1", Word: v.Word, Meaning: v.Meaning}, nil
}

func (f *fakeAPI) DeleteVocabulary(_ context.Context, id string) ([]string, error) {
	f.deleted = id
	return f.deleteCats, f.deleteErr
}

func (f *fakeAPI) Categories(context.Context) ([]string, error)       { return f.cats, nil }
func (f *fakeAPI) Favorites(context.Context) ([]api.Vocabulary, error) { return f.favs, nil }

func (f *fakeAPI) AddFavorite(_ context.Context, id string) error {
	f.favorited = id
	return f.favErr
}

func (f *fakeAPI) RemoveFavorite(_ context.Context, id string) error {
	f.unfavorited = id
	return f.favErr
}

func (f *fakeAPI) AudioUploadURL(context.Context, string) (string, error) {
	return f.audioURL, f.audioErr
}

func (f *fakeAPI) AudioDownloadURL(context.Context, string) (string, error) {
	return f.audioURL, f.audioErr
}

// newTestApp returns an App over f whose prompts read lines from input.
func newTestApp(f *fakeAPI, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: f, transfer: http.DefaultClient, reader: bufio.NewReader(strings.NewReader(input)), out: &out}, &out
}

func stubPassword(t *testing.T, pw []byte) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), pw...), nil }
	t.Cleanup(func() { getPassword = orig })
}
