// Package vocabularies provides PostgreSQL-backed persistence for vocabulary
// entries. Every query except Get is scoped by owner.
package vocabularies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vocabkeeper/internal/common"
	"github.com/dmitrijs2005/vocabkeeper/internal/dbx"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/models"
)

// Columns is the select list understood by Scan, qualified with alias v.
const Columns = `v.id, v.owner_id, v.word, v.meaning, v.example, v.category, v.language, v.audio_key, v.created_at`

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Scan reads one row selected with Columns.
func Scan(s Scanner) (*models.Vocabulary, error) {
	var (
		v        models.Vocabulary
		audioKey sql.NullString
	)
	if err := s.Scan(&v.ID, &v.OwnerID, &v.Word, &v.Meaning, &v.Example, &v.Category,
		&v.Language, &audioKey, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.AudioKey = audioKey.String
	return &v, nil
}

// PostgresRepository implements vocabulary storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts v and fills in the generated ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, v *models.Vocabulary) (*models.Vocabulary, error) {
	query := `
		INSERT INTO vocabularies (owner_id, word, meaning, example, category, language)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		v.OwnerID, v.Word, v.Meaning, v.Example, v.Category, v.Language).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// Get returns the vocabulary with the given id regardless of owner; the
// caller is responsible for the ownership check.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Vocabulary, error) {
	query := `SELECT ` + Columns + ` FROM vocabularies v WHERE v.id = $1`

	v, err := Scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// List returns ownerID's vocabularies in creation order, optionally narrowed
// to one category. The filter is expected to be normalized.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, filter models.VocabularyFilter) ([]*models.Vocabulary, error) {
	query := `SELECT ` + Columns + ` FROM vocabularies v
		WHERE v.owner_id = $1 AND ($2::text = '' OR v.category = $2)
		ORDER BY v.created_at, v.id
		OFFSET $3 LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, filter.Category, filter.Skip, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select vocabularies: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Vocabulary, 0)
	for rows.Next() {
		v, err := Scan(rows)
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

// Categories returns the distinct non-empty categories used by ownerID, sorted.
func (r *PostgresRepository) Categories(ctx context.Context, ownerID string) ([]string, error) {
	query := `SELECT DISTINCT category FROM vocabularies
		WHERE owner_id = $1 AND category <> ''
		ORDER BY category
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	result := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByCategory counts ownerID's vocabularies in category.
func (r *PostgresRepository) CountByCategory(ctx context.Context, ownerID, category string) (int, error) {
	query := `SELECT count(*) FROM vocabularies WHERE owner_id = $1 AND category = $2`

	var n int
	if err := r.db.QueryRowContext(ctx, query, ownerID, category).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Delete removes the vocabulary if ownerID owns it. Favorites referencing it
// go with it (ON DELETE CASCADE). No matching row yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM vocabularies WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// SetAudioKey records the object-storage key of the pronunciation clip.
func (r *PostgresRepository) SetAudioKey(ctx context.Context, id, ownerID, key string) error {
	query := `UPDATE vocabularies SET audio_key = $3 WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
