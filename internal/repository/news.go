package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
)

const newsColumns = `id, title, content, feature_image_url, created_at`

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(ctx context.Context, n *domain.News) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO news (`+newsColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.Title, n.Content, n.FeatureImageURL, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *NewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.News, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id)
	n, err := scanNews(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return n, nil
}

func (r *NewsRepository) List(ctx context.Context, limit, offset int) ([]domain.News, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	items := []domain.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return items, total, nil
}

func (r *NewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return expectOneRow(res, "Delete")
}

func scanNews(s scanner) (*domain.News, error) {
	var n domain.News
	if err := s.Scan(&n.ID, &n.Title, &n.Content, &n.FeatureImageURL, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
