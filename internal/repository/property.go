package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/realtyhub/backoffice/internal/domain"
)

const propertyColumns = `id, title, description, price, area, price_per_sqm, currency,
	property_type, status, location, bedrooms, bathrooms, latitude, longitude,
	map_url, images, features, created_at, updated_at`

type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (`+propertyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		p.ID, p.Title, p.Description, p.Price, nullDecimal(p.Area), nullDecimal(p.PricePerSqm), p.Currency,
		p.PropertyType, p.Status, p.Location, p.Bedrooms, p.Bathrooms, p.Latitude, p.Longitude,
		p.MapURL, pq.Array(nonNil(p.Images)), pq.Array(nonNil(p.Features)), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id,
	)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return p, nil
}

// List returns properties newest first. An empty status matches every row.
func (r *PropertyRepository) List(ctx context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM properties WHERE ($1 = '' OR status = $1)`, string(status),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		string(status), limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	properties := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return properties, total, nil
}

func (r *PropertyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PropertyStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE properties SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	return expectOneRow(res, "UpdateStatus")
}

func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return expectOneRow(res, "Delete")
}

func scanProperty(s scanner) (*domain.Property, error) {
	var p domain.Property
	var area, perSqm decimal.NullDecimal
	err := s.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &area, &perSqm, &p.Currency,
		&p.PropertyType, &p.Status, &p.Location, &p.Bedrooms, &p.Bathrooms, &p.Latitude, &p.Longitude,
		&p.MapURL, pq.Array(&p.Images), pq.Array(&p.Features), &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if area.Valid {
		p.Area = &area.Decimal
	}
	if perSqm.Valid {
		p.PricePerSqm = &perSqm.Decimal
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
