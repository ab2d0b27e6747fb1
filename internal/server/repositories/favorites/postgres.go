// Package favorites provides PostgreSQL-backed persistence for per-user
// favorite marks on vocabularies.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/dbx"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/vocabularies"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts f. The (user_id, vocabulary_id) unique constraint turns a
// concurrent duplicate into common.ErrAlreadyExists; a vocabulary deleted
// in the meantime yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, f *models.Favorite) (*models.Favorite, error) {
	query := `
		INSERT INTO favorites (user_id, vocabulary_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, f.UserID, f.VocabularyID).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrAlreadyExists
		case dbx.IsForeignKeyViolation(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, vocabularyID string) (*models.Favorite, error) {
	query := `SELECT id, user_id, vocabulary_id, created_at FROM favorites
		WHERE user_id = $1 AND vocabulary_id = $2
	`
	f := &models.Favorite{}
	err := r.db.QueryRowContext(ctx, query, userID, vocabularyID).
		Scan(&f.ID, &f.UserID, &f.VocabularyID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, vocabularyID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND vocabulary_id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, vocabularyID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListVocabularies returns the vocabularies userID has favorited, most
// recently favorited first.
func (r *PostgresRepository) ListVocabularies(ctx context.Context, userID string) ([]*models.Vocabulary, error) {
	query := `SELECT ` + vocabularies.Columns + ` FROM favorites f
		JOIN vocabularies v ON v.id = f.vocabulary_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select favorites: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Vocabulary, 0)
	for rows.Next() {
		v, err := vocabularies.Scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
