package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/skillforge/course-marketplace/internal/domain"
)

type PostgresEntitlementRepository struct {
	db querier
}

func NewPostgresEntitlementRepository(db *pgxpool.Pool) *PostgresEntitlementRepository {
	return &PostgresEntitlementRepository{
		db: db,
	}
}

// withTx binds the repository to tx so grants can join a larger transaction,
// such as the paid transition of an order.
func (p *PostgresEntitlementRepository) withTx(tx pgx.Tx) *PostgresEntitlementRepository {
	return &PostgresEntitlementRepository{
		db: tx,
	}
}

// GrantIfAbsent relies on the unique (user_id, course_id) constraint rather
// than a lookup-then-insert, so concurrent grants for the same pair cannot
// both succeed.
func (p *PostgresEntitlementRepository) GrantIfAbsent(
	ctx context.Context,
	userID,
	courseID int,
	pricePaid decimal.Decimal) (bool, error) {

	query := `
		INSERT INTO user_courses (user_id, course_id, price_paid)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`

	tag, err := p.db.Exec(ctx, query, userID, courseID, pricePaid)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (p *PostgresEntitlementRepository) GetByUserId(ctx context.Context, userID int) ([]domain.Entitlement, error) {
	query := `
		SELECT id, user_id, course_id, price_paid, created_at
		FROM user_courses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entitlements := make([]domain.Entitlement, 0)

	for rows.Next() {
		var entitlement domain.Entitlement

		err = rows.Scan(
			&entitlement.ID,
			&entitlement.UserID,
			&entitlement.CourseID,
			&entitlement.PricePaid,
			&entitlement.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		entitlements = append(entitlements, entitlement)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entitlements, nil
}
