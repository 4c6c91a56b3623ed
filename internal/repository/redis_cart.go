package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skillforge/course-marketplace/internal/domain"
)

// RedisCartStore keeps one cart per user as a Redis hash of
// course id -> added-at timestamp. The cart has no TTL: it lives until the
// user empties it or the order that consumed it is paid.
type RedisCartStore struct {
	client redis.UniversalClient
}

func NewRedisCartStore(client redis.UniversalClient) *RedisCartStore {
	return &RedisCartStore{
		client: client,
	}
}

func cartKey(userID int) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (s *RedisCartStore) Items(ctx context.Context, userID int) ([]domain.CartItem, error) {
	entries, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(entries))

	for field, value := range entries {
		courseID, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("malformed cart entry %q: %w", field, err)
		}

		addedAt, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("malformed cart timestamp for course %d: %w", courseID, err)
		}

		items = append(items, domain.CartItem{CourseID: courseID, AddedAt: addedAt})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.Before(items[j].AddedAt)
	})

	return items, nil
}

func (s *RedisCartStore) Add(ctx context.Context, userID, courseID int) error {
	field := strconv.Itoa(courseID)
	addedAt := time.Now().UTC().Format(time.RFC3339)

	// HSetNX keeps the original added-at when the course is already in the cart.
	return s.client.HSetNX(ctx, cartKey(userID), field, addedAt).Err()
}

func (s *RedisCartStore) Remove(ctx context.Context, userID, courseID int) error {
	return s.client.HDel(ctx, cartKey(userID), strconv.Itoa(courseID)).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, userID int) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
