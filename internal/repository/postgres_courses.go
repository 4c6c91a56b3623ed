package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillforge/course-marketplace/internal/domain"
)

type PostgresCourseRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCourseRepository(db *pgxpool.Pool) *PostgresCourseRepository {
	return &PostgresCourseRepository{
		db: db,
	}
}

func (p *PostgresCourseRepository) GetById(ctx context.Context, id int) (*domain.Course, error) {
	query := `
		SELECT id, title, slug, description, price, discount_price, published, created_at, updated_at
		FROM courses
		WHERE id = $1 AND published = TRUE
	`

	var course domain.Course

	err := p.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Slug,
		&course.Description,
		&course.Price,
		&course.DiscountPrice,
		&course.Published,
		&course.CreatedAt,
		&course.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &course, nil
}

func (p *PostgresCourseRepository) GetByIds(ctx context.Context, ids []int) ([]domain.Course, error) {
	query := `
		SELECT id, title, slug, description, price, discount_price, published, created_at, updated_at
		FROM courses
		WHERE id = ANY($1) AND published = TRUE
	`

	rows, err := p.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCourses(rows)
}

func (p *PostgresCourseRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Course, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), id, title, slug, description, price, discount_price, published, created_at, updated_at
		FROM courses
		WHERE published = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	totalRecords := 0

	for rows.Next() {
		var course domain.Course

		err = rows.Scan(
			&totalRecords,
			&course.ID,
			&course.Title,
			&course.Slug,
			&course.Description,
			&course.Price,
			&course.DiscountPrice,
			&course.Published,
			&course.CreatedAt,
			&course.UpdatedAt,
		)

		if err != nil {
			return nil, nil, err
		}

		courses = append(courses, course)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return courses, metadata, nil
}

func scanCourses(rows pgx.Rows) ([]domain.Course, error) {
	courses := make([]domain.Course, 0)

	for rows.Next() {
		var course domain.Course

		err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Slug,
			&course.Description,
			&course.Price,
			&course.DiscountPrice,
			&course.Published,
			&course.CreatedAt,
			&course.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}
