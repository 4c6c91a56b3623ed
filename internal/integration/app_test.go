package integration_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/skillforge/course-marketplace/internal/app"
	"github.com/skillforge/course-marketplace/internal/mailer"
	"github.com/skillforge/course-marketplace/internal/payment"
)

type TestApp struct {
	App     *app.Application
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Mailer  *mailer.MockMailer
	Gateway *payment.MockGateway
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockMailer := mailer.NewMockMailer()
	gateway := payment.NewMockGateway()

	application, err := app.New(cfg, logger, app.WithGateway(gateway), app.WithMailer(mockMailer))
	if err != nil {
		return nil, err
	}

	// A second pool and client for seeding and direct state assertions.
	db, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		application.Close()
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.URL})

	return &TestApp{
		App:     application,
		DB:      db,
		Redis:   redisClient,
		Mailer:  mockMailer,
		Gateway: gateway,
	}, nil
}

func (a *TestApp) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.App != nil {
		a.App.Close()
	}
}
