// Package posts provides the PostgreSQL-backed post repository.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a post for userID and returns it with the generated id and
// creation time.
func (r *PostgresRepository) Insert(ctx context.Context, userID int64, text string) (*models.Post, error) {
	query :=
		`INSERT INTO posts (user_id, text)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	post := &models.Post{UserID: userID, Text: text}
	if err := r.db.QueryRowContext(ctx, query, userID, text).Scan(&post.ID, &post.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// FindByIDAndOwner returns the post only when it belongs to userID, so a
// missing post and somebody else's post look the same to the caller.
func (r *PostgresRepository) FindByIDAndOwner(ctx context.Context, id, userID int64) (*models.Post, error) {
	query :=
		`SELECT id, user_id, text, created_at FROM posts
		 WHERE id = $1 AND user_id = $2
		 `

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&post.ID, &post.UserID, &post.Text, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// Delete removes the post with id. A missing row yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
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

// ListByOwner returns every post of userID, newest first. Posts created in
// the same instant are ordered by descending id.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID int64) ([]models.Post, error) {
	query :=
		`SELECT id, user_id, text, created_at FROM posts
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	result := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
