package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/dbx"
	"github.com/dmitrijs2005/vocabkeeper/internal/logging"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AudioStore signs object-storage URLs for pronunciation clips.
type AudioStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// VocabularyInput carries the user-editable fields of a vocabulary.
type VocabularyInput struct {
	Word     string
	Meaning  string
	Example  string
	Category string
	Language string
}

// DeleteResult reports the caller's remaining categories when the delete
// emptied one; Categories is nil otherwise.
type DeleteResult struct {
	Categories []string
}

// VocabularyService manages owner-scoped vocabularies, favorites and
// pronunciation audio.
type VocabularyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *Guard
	audio       AudioStore
	audioKey    func(ownerID string) string
	logger      logging.Logger
}

func NewVocabularyService(db *sql.DB, m repomanager.RepositoryManager, guard *Guard, audio AudioStore,
	audioKey func(ownerID string) string, logger logging.Logger) *VocabularyService {
	return &VocabularyService{
		db:          db,
		repomanager: m,
		guard:       guard,
		audio:       audio,
		audioKey:    audioKey,
		logger:      logger.With("module", "vocabulary_service"),
	}
}

// Create stores a new vocabulary owned by user.
func (s *VocabularyService) Create(ctx context.Context, user *models.User, in VocabularyInput) (*models.Vocabulary, error) {
	v := &models.Vocabulary{
		OwnerID:  user.ID,
		Word:     strings.TrimSpace(in.Word),
		Meaning:  strings.TrimSpace(in.Meaning),
		Example:  in.Example,
		Category: strings.TrimSpace(in.Category),
		Language: strings.TrimSpace(in.Language),
	}
	if v.Word == "" {
		return nil, fmt.Errorf("%w: word is required", common.ErrorValidation)
	}
	if v.Meaning == "" {
		return nil, fmt.Errorf("%w: meaning is required", common.ErrorValidation)
	}
	if v.Language == "" {
		v.Language = models.DefaultLanguage
	}

	created, err := s.repomanager.Vocabularies(s.db).Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("error creating vocabulary: %w", err)
	}
	s.logger.Info(ctx, "vocabulary created", "vocabulary_id", created.ID, "user_id", user.ID)
	return created, nil
}

// Get returns the vocabulary if user owns it.
func (s *VocabularyService) Get(ctx context.Context, user *models.User, id string) (*models.Vocabulary, error) {
	return s.owned(ctx, s.db, user, id)
}

// List returns user's vocabularies page by page.
func (s *VocabularyService) List(ctx context.Context, user *models.User, filter models.VocabularyFilter) ([]*models.Vocabulary, error) {
	return s.repomanager.Vocabularies(s.db).List(ctx, user.ID, filter.Normalize())
}

// Categories returns the distinct categories in use by user.
func (s *VocabularyService) Categories(ctx context.Context, user *models.User) ([]string, error) {
	return s.repomanager.Vocabularies(s.db).Categories(ctx, user.ID)
}

// Delete removes an owned vocabulary together with its favorites. If that
// left its category empty the refreshed category list is returned.
func (s *VocabularyService) Delete(ctx context.Context, user *models.User, id string) (*DeleteResult, error) {
	result := &DeleteResult{}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		v, err := s.owned(ctx, tx, user, id)
		if err != nil {
			return err
		}

		repo := s.repomanager.Vocabularies(tx)
		if err := repo.Delete(ctx, v.ID, user.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNotFoundOrForbidden
			}
			return err
		}

		if v.Category == "" {
			return nil
		}
		left, err := repo.CountByCategory(ctx, user.ID, v.Category)
		if err != nil {
			return err
		}
		if left == 0 {
			result.Categories, err = repo.Categories(ctx, user.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "vocabulary deleted", "vocabulary_id", id, "user_id", user.ID)
	return result, nil
}

// AddFavorite marks an owned vocabulary as favorite. A second call for the
// same pair fails with common.ErrAlreadyExists.
func (s *VocabularyService) AddFavorite(ctx context.Context, user *models.User, vocabularyID string) (*models.Favorite, error) {
	v, err := s.owned(ctx, s.db, user, vocabularyID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Favorites(s.db)

	if _, err := repo.Find(ctx, user.ID, v.ID); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up favorite: %w", err)
	}

	f, err := repo.Create(ctx, &models.Favorite{UserID: user.ID, VocabularyID: v.ID})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, err
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("error creating favorite: %w", err)
	}
	return f, nil
}

// RemoveFavorite unmarks a favorite. Only the caller's own favorites are
// addressable, so a miss is common.ErrNotFoundOrForbidden.
func (s *VocabularyService) RemoveFavorite(ctx context.Context, user *models.User, vocabularyID string) error {
	if !validID(vocabularyID) {
		return common.ErrNotFoundOrForbidden
	}
	err := s.repomanager.Favorites(s.db).Delete(ctx, user.ID, vocabularyID)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrNotFoundOrForbidden
	}
	return err
}

// Favorites lists the vocabularies user has favorited.
func (s *VocabularyService) Favorites(ctx context.Context, user *models.User) ([]*models.Vocabulary, error) {
	return s.repomanager.Favorites(s.db).ListVocabularies(ctx, user.ID)
}

// AttachAudio allocates a storage key for an owned vocabulary and returns a
// presigned upload URL. Any previous clip is replaced.
func (s *VocabularyService) AttachAudio(ctx context.Context, user *models.User, id string) (string, error) {
	v, err := s.owned(ctx, s.db, user, id)
	if err != nil {
		return "", err
	}

	key := s.audioKey(user.ID)
	url, err := s.audio.PresignPut(ctx, key)
	if err != nil {
		return "", err
	}

	if err := s.repomanager.Vocabularies(s.db).SetAudioKey(ctx, v.ID, user.ID, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrNotFoundOrForbidden
		}
		return "", err
	}
	return url, nil
}

// AudioURL returns a presigned download URL for an owned vocabulary's clip,
// or common.ErrorNotFound when none was attached.
func (s *VocabularyService) AudioURL(ctx context.Context, user *models.User, id string) (string, error) {
	v, err := s.owned(ctx, s.db, user, id)
	if err != nil {
		return "", err
	}
	if v.AudioKey == "" {
		return "", common.ErrorNotFound
	}
	return s.audio.PresignGet(ctx, v.AudioKey)
}

// owned loads a vocabulary through the guard. Ids that are not UUIDs cannot
// exist and get the same answer as missing ones.
func (s *VocabularyService) owned(ctx context.Context, db dbx.DBTX, user *models.User, id string) (*models.Vocabulary, error) {
	if !validID(id) {
		return nil, common.ErrNotFoundOrForbidden
	}
	v, lookupErr := s.repomanager.Vocabularies(db).Get(ctx, id)
	if err := s.guard.Check(ctx, "vocabulary", user, v, lookupErr); err != nil {
		return nil, err
	}
	return v, nil
}

// validID accepts only the canonical 36-character form.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
