package favorites

import (
	"context"

	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.Favorite) (*models.Favorite, error)
	Find(ctx context.Context, userID, vocabularyID string) (*models.Favorite, error)
	Delete(ctx context.Context, userID, vocabularyID string) error
	ListVocabularies(ctx context.Context, userID string) ([]*models.Vocabulary, error)
}
