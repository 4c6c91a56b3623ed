package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillforge/course-marketplace/internal/domain"
)

type PostgresJournalRepository struct {
	db *pgxpool.Pool
}

func NewPostgresJournalRepository(db *pgxpool.Pool) *PostgresJournalRepository {
	return &PostgresJournalRepository{
		db: db,
	}
}

// appendJournalEntry inserts one journal row. The journal is append-only:
// there are no update or delete paths anywhere in this package.
func appendJournalEntry(ctx context.Context, q querier, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO financial_journal (order_id, entry_type, amount, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return q.QueryRow(
		ctx,
		query,
		entry.OrderID,
		entry.Type,
		entry.Amount,
		entry.Metadata).Scan(&entry.ID, &entry.CreatedAt)
}

func (p *PostgresJournalRepository) Append(ctx context.Context, entry *domain.JournalEntry) error {
	return appendJournalEntry(ctx, p.db, entry)
}

func (p *PostgresJournalRepository) GetByOrderId(ctx context.Context, orderID int) ([]domain.JournalEntry, error) {
	query := `
		SELECT id, order_id, entry_type, amount, metadata, created_at
		FROM financial_journal
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)

	for rows.Next() {
		var entry domain.JournalEntry

		err = rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.Type,
			&entry.Amount,
			&entry.Metadata,
			&entry.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
