package vocabularies

import (
	"context"

	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.Vocabulary) (*models.Vocabulary, error)
	Get(ctx context.Context, id string) (*models.Vocabulary, error)
	List(ctx context.Context, ownerID string, filter models.VocabularyFilter) ([]*models.Vocabulary, error)
	Categories(ctx context.Context, ownerID string) ([]string, error)
	CountByCategory(ctx context.Context, ownerID, category string) (int, error)
	Delete(ctx context.Context, id, ownerID string) error
	SetAudioKey(ctx context.Context, id, ownerID, key string) error
}
