package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillforge/course-marketplace/internal/domain"
)

type PostgresPromoRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPromoRepository(db *pgxpool.Pool) *PostgresPromoRepository {
	return &PostgresPromoRepository{
		db: db,
	}
}

const promoColumns = `
	id, code, promo_type, value, max_uses, used_count, start_date, end_date, is_active, course_id, created_at
`

func (p *PostgresPromoRepository) GetByCode(ctx context.Context, code string) (*domain.Promo, error) {
	query := `
		SELECT ` + promoColumns + `
		FROM promos
		WHERE code = $1 AND deleted_at IS NULL
	`

	return p.getOne(ctx, query, code)
}

func (p *PostgresPromoRepository) GetById(ctx context.Context, id int) (*domain.Promo, error) {
	query := `
		SELECT ` + promoColumns + `
		FROM promos
		WHERE id = $1 AND deleted_at IS NULL
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresPromoRepository) getOne(ctx context.Context, query string, arg any) (*domain.Promo, error) {
	var promo domain.Promo

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&promo.ID,
		&promo.Code,
		&promo.Type,
		&promo.Value,
		&promo.MaxUses,
		&promo.UsedCount,
		&promo.StartDate,
		&promo.EndDate,
		&promo.IsActive,
		&promo.CourseID,
		&promo.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &promo, nil
}
