package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/dbx"
	"github.com/dmitrijs2005/vocabkeeper/internal/logging"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/auth"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
	favoritesrepo "github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/favorites"
	usersrepo "github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/users"
	vocabrepo "github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/vocabularies"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the three tables. Unique and
// foreign key constraints behave like the PostgreSQL schema.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	vocabs []*models.Vocabulary
	favs   []*models.Favorite

	// hideUsers makes lookups miss so the insert hits the constraint,
	// as when two registrations race.
	hideUsers bool
	usersErr  error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*models.User{}}
}

type memRepoManager struct{ st *memStore }

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return (*memUsers)(m.st) }
func (m *memRepoManager) Vocabularies(dbx.DBTX) vocabrepo.Repository   { return (*memVocabs)(m.st) }
func (m *memRepoManager) Favorites(dbx.DBTX) favoritesrepo.Repository  { return (*memFavs)(m.st) }

type memUsers memStore

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usersErr != nil {
		return nil, r.usersErr
	}
	if _, ok := r.users[u.Email]; ok {
		return nil, common.ErrDuplicateIdentifier
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.users[u.Email] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usersErr != nil {
		return nil, r.usersErr
	}
	u, ok := r.users[email]
	if !ok || r.hideUsers {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

type memVocabs memStore

func (r *memVocabs) Create(_ context.Context, v *models.Vocabulary) (*models.Vocabulary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.vocabs = append(r.vocabs, &cp)
	out := cp
	return &out, nil
}

func (r *memVocabs) Get(_ context.Context, id string) (*models.Vocabulary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vocabs {
		if v.ID == id {
			out := *v
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memVocabs) List(_ context.Context, ownerID string, f models.VocabularyFilter) ([]*models.Vocabulary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Vocabulary, 0)
	skipped := 0
	for _, v := range r.vocabs {
		if v.OwnerID != ownerID || (f.Category != "" && v.Category != f.Category) {
			continue
		}
		if skipped < f.Skip {
			skipped++
			continue
		}
		if len(result) == f.Limit {
			break
		}
		out := *v
		result = append(result, &out)
	}
	return result, nil
}

func (r *memVocabs) Categories(_ context.Context, ownerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	result := make([]string, 0)
	for _, v := range r.vocabs {
		if v.OwnerID == ownerID && v.Category != "" && !seen[v.Category] {
			seen[v.Category] = true
			result = append(result, v.Category)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (r *memVocabs) CountByCategory(_ context.Context, ownerID, category string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.vocabs {
		if v.OwnerID == ownerID && v.Category == category {
			n++
		}
	}
	return n, nil
}

func (r *memVocabs) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.vocabs {
		if v.ID == id && v.OwnerID == ownerID {
			r.vocabs = append(r.vocabs[:i], r.vocabs[i+1:]...)
			kept := r.favs[:0]
			for _, f := range r.favs {
				if f.VocabularyID != id {
					kept = append(kept, f)
				}
			}
			r.favs = kept
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memVocabs) SetAudioKey(_ context.Context, id, ownerID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vocabs {
		if v.ID == id && v.OwnerID == ownerID {
			v.AudioKey = key
			return nil
		}
	}
	return common.ErrorNotFound
}

type memFavs memStore

func (r *memFavs) Create(_ context.Context, f *models.Favorite) (*models.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.favs {
		if e.UserID == f.UserID && e.VocabularyID == f.VocabularyID {
			return nil, common.ErrAlreadyExists
		}
	}
	exists := false
	for _, v := range r.vocabs {
		if v.ID == f.VocabularyID {
			exists = true
		}
	}
	if !exists {
		return nil, common.ErrorNotFound
	}
	cp := *f
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.favs = append(r.favs, &cp)
	out := cp
	return &out, nil
}

func (r *memFavs) Find(_ context.Context, userID, vocabularyID string) (*models.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.favs {
		if e.UserID == userID && e.VocabularyID == vocabularyID {
			out := *e
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memFavs) Delete(_ context.Context, userID, vocabularyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.favs {
		if e.UserID == userID && e.VocabularyID == vocabularyID {
			r.favs = append(r.favs[:i], r.favs[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memFavs) ListVocabularies(_ context.Context, userID string) ([]*models.Vocabulary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Vocabulary, 0)
	for _, f := range r.favs {
		if f.UserID != userID {
			continue
		}
		for _, v := range r.vocabs {
			if v.ID == f.VocabularyID {
				out := *v
				result = append(result, &out)
			}
		}
	}
	return result, nil
}

func newTestHasher(t *testing.T) auth.PasswordHasher {
	t.Helper()
	h, err := auth.NewArgon2idHasher(auth.Argon2Params{Memory: 64, Time: 1, Threads: 1, KeyLen: 16, SaltLen: 8})
	require.NoError(t, err)
	return h
}

// clock is a settable time source shared by a TokenService under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newUserServiceWithStore(t *testing.T, st *memStore, c *clock) *UserService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", "HS256", 30*time.Minute, auth.WithClock(c.Now))
	require.NoError(t, err)
	s, err := NewUserService(nil, &memRepoManager{st: st}, newTestHasher(t), tokens, logging.Nop{})
	require.NoError(t, err)
	return s
}
