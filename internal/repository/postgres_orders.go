package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillforge/course-marketplace/internal/domain"
)

type PostgresOrderRepository struct {
	db           *pgxpool.Pool
	entitlements *PostgresEntitlementRepository
}

func NewPostgresOrderRepository(db *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:           db,
		entitlements: NewPostgresEntitlementRepository(db),
	}
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx so journal inserts and
// entitlement grants can run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (p *PostgresOrderRepository) CreateWithItems(
	ctx context.Context,
	order *domain.Order,
	items []domain.OrderItem) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (order_number, user_id, total_amount, discount_amount, status, payment_provider, promo_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			order.OrderNumber,
			order.UserID,
			order.TotalAmount,
			order.DiscountAmount,
			order.Status,
			order.PaymentProvider,
			order.PromoID).Scan(&order.ID, &order.CreatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(items))
		for _, item := range items {
			rows = append(rows, []any{
				order.ID,
				item.CourseID,
				item.PriceAtPurchase,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"order_items"},
			[]string{"order_id", "course_id", "price_at_purchase"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}

		return appendJournalEntry(ctx, tx, &domain.JournalEntry{
			OrderID: order.ID,
			Type:    domain.JournalPaymentInitiated,
			Amount:  order.TotalAmount,
			Metadata: map[string]any{
				"order_number": order.OrderNumber,
			},
		})
	})
}

func (p *PostgresOrderRepository) GetPendingByIdAndUser(
	ctx context.Context,
	orderID,
	userID int) (*domain.Order, error) {

	query := `
		SELECT id, order_number, user_id, total_amount, discount_amount, status, payment_provider, payment_id, promo_id, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2 AND status = 'pending'
	`

	var order domain.Order

	err := p.db.QueryRow(ctx, query, orderID, userID).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.TotalAmount,
		&order.DiscountAmount,
		&order.Status,
		&order.PaymentProvider,
		&order.PaymentID,
		&order.PromoID,
		&order.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &order, nil
}

func (p *PostgresOrderRepository) UpdatePendingAmounts(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET total_amount = $1, discount_amount = $2, promo_id = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5 AND status = 'pending'
	`

	tag, err := p.db.Exec(
		ctx,
		query,
		order.TotalAmount,
		order.DiscountAmount,
		order.PromoID,
		order.ID,
		order.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEditConflict
	}

	return nil
}

func (p *PostgresOrderRepository) SetPaymentId(ctx context.Context, orderID int, paymentID string) error {
	query := `
		UPDATE orders
		SET payment_id = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`

	tag, err := p.db.Exec(ctx, query, paymentID, orderID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEditConflict
	}

	return nil
}

func (p *PostgresOrderRepository) MarkPaid(ctx context.Context, paymentID string) (*domain.PaidOrder, error) {
	var result domain.PaidOrder

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		// The status guard makes concurrent deliveries of the same event race
		// on this UPDATE: exactly one wins, the rest fall through to the
		// replay branch below.
		query := `
			UPDATE orders
			SET status = 'paid', updated_at = NOW()
			WHERE payment_id = $1 AND status = 'pending'
			RETURNING id, order_number, user_id, total_amount, discount_amount, payment_provider, promo_id, created_at
		`

		order := &result.Order
		order.Status = domain.OrderStatusPaid
		order.PaymentID = &paymentID

		err := tx.QueryRow(ctx, query, paymentID).Scan(
			&order.ID,
			&order.OrderNumber,
			&order.UserID,
			&order.TotalAmount,
			&order.DiscountAmount,
			&order.PaymentProvider,
			&order.PromoID,
			&order.CreatedAt,
		)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return p.classifyMissedTransition(ctx, tx, paymentID, &result)
			}

			return err
		}

		items, err := getOrderItems(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		result.Items = items

		granter := p.entitlements.withTx(tx)

		for _, item := range items {
			created, err := granter.GrantIfAbsent(ctx, order.UserID, item.CourseID, item.PriceAtPurchase)
			if err != nil {
				return err
			}

			if created {
				result.GrantedCount++
			}
		}

		if order.PromoID != nil {
			// Best effort: when the cap was consumed by a concurrent checkout
			// between intent creation and this webhook, the order still
			// completes. The cap is enforced again at the next validation.
			_, err = tx.Exec(ctx, `
				UPDATE promos
				SET used_count = used_count + 1
				WHERE id = $1 AND (max_uses IS NULL OR used_count < max_uses)
			`, *order.PromoID)

			if err != nil {
				return err
			}
		}

		err = tx.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, order.UserID).
			Scan(&result.CustomerEmail)
		if err != nil {
			return err
		}

		return appendJournalEntry(ctx, tx, &domain.JournalEntry{
			OrderID: order.ID,
			Type:    domain.JournalIncome,
			Amount:  order.TotalAmount,
			Metadata: map[string]any{
				"order_number": order.OrderNumber,
				"payment_id":   paymentID,
			},
		})
	})

	if err != nil {
		return nil, err
	}

	return &result, nil
}

// classifyMissedTransition distinguishes "no such payment id" from an
// idempotent replay after the order already reached a terminal state.
func (p *PostgresOrderRepository) classifyMissedTransition(
	ctx context.Context,
	tx pgx.Tx,
	paymentID string,
	result *domain.PaidOrder) error {

	var status domain.OrderStatus

	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE payment_id = $1`, paymentID).
		Scan(&status)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	if status == domain.OrderStatusPaid {
		result.AlreadyPaid = true
		return nil
	}

	return domain.ErrOrderAlreadyFinal
}

func (p *PostgresOrderRepository) MarkFailed(ctx context.Context, paymentID string) (*domain.Order, error) {
	var order domain.Order

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE orders
			SET status = 'failed', updated_at = NOW()
			WHERE payment_id = $1 AND status = 'pending'
			RETURNING id, order_number, user_id, total_amount, discount_amount, payment_provider, promo_id, created_at
		`

		err := tx.QueryRow(ctx, query, paymentID).Scan(
			&order.ID,
			&order.OrderNumber,
			&order.UserID,
			&order.TotalAmount,
			&order.DiscountAmount,
			&order.PaymentProvider,
			&order.PromoID,
			&order.CreatedAt,
		)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				var status domain.OrderStatus

				err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE payment_id = $1`, paymentID).
					Scan(&status)

				if err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return domain.ErrRecordNotFound
					}

					return err
				}

				return domain.ErrOrderAlreadyFinal
			}

			return err
		}

		order.Status = domain.OrderStatusFailed
		order.PaymentID = &paymentID

		return appendJournalEntry(ctx, tx, &domain.JournalEntry{
			OrderID: order.ID,
			Type:    domain.JournalFailedPayment,
			Amount:  order.TotalAmount,
			Metadata: map[string]any{
				"order_number": order.OrderNumber,
				"payment_id":   paymentID,
			},
		})
	})

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func getOrderItems(ctx context.Context, tx pgx.Tx, orderID int) ([]domain.OrderItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, order_id, course_id, price_at_purchase
		FROM order_items
		WHERE order_id = $1
	`, orderID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)

	for rows.Next() {
		var item domain.OrderItem

		err = rows.Scan(&item.ID, &item.OrderID, &item.CourseID, &item.PriceAtPurchase)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
