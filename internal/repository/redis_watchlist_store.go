package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"SwingScan/internal/domain/models"
)

const watchlistKey = "watchlist:current"

// RedisWatchlistStore persists the weekly watchlist so the hourly
// evaluators and a restarted process see the same list.
type RedisWatchlistStore struct {
	cli *redis.Client
}

func NewRedisWatchlistStore(cli *redis.Client) *RedisWatchlistStore {
	return &RedisWatchlistStore{cli: cli}
}

// Save replaces the stored list wholesale.
func (s *RedisWatchlistStore) Save(ctx context.Context, entries []models.Candidate) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal watchlist: %w", err)
	}
	if err := s.cli.Set(ctx, watchlistKey, b, 0).Err(); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}

func (s *RedisWatchlistStore) Load(ctx context.Context) ([]models.Candidate, error) {
	b, err := s.cli.Get(ctx, watchlistKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	var entries []models.Candidate
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal watchlist: %w", err)
	}
	return entries, nil
}

// Symbols returns the membership set for the threshold lookup.
func (s *RedisWatchlistStore) Symbols(ctx context.Context) (map[string]bool, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Symbol] = true
	}
	return out, nil
}

func (s *RedisWatchlistStore) Close() error {
	return s.cli.Close()
}
