// Package rediscache fronts the project-membership check with a Redis
// read-through cache so that realtime dispatch does not hit PostgreSQL for
// every inbound entity event.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "membership:"

// MembershipChecker answers whether a user belongs to a project.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

// NewClient parses a redis:// URL and verifies the server is reachable.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}

// MembershipOracle caches positive and negative answers from next for ttl.
// Redis failures degrade to calling next directly.
type MembershipOracle struct {
	client *redis.Client
	next   MembershipChecker
	ttl    time.Duration
	logger *slog.Logger
}

var _ MembershipChecker = (*MembershipOracle)(nil)

// NewMembershipOracle wraps next with a Redis cache.
func NewMembershipOracle(
	client *redis.Client,
	next MembershipChecker,
	ttl time.Duration,
	logger *slog.Logger,
) *MembershipOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &MembershipOracle{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "membership_cache")),
	}
}

func key(userID, projectID uuid.UUID) string {
	return keyPrefix + projectID.String() + ":" + userID.String()
}

// IsMember implements MembershipChecker.
func (o *MembershipOracle) IsMember(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	k := key(userID, projectID)

	cached, err := o.client.Get(ctx, k).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case errors.Is(err, redis.Nil):
	default:
		o.logger.Warn("membership cache read failed",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
	}

	member, err := o.next.IsMember(ctx, userID, projectID)
	if err != nil {
		return false, err
	}

	value := "0"
	if member {
		value = "1"
	}
	if err := o.client.Set(ctx, k, value, o.ttl).Err(); err != nil {
		o.logger.Warn("membership cache write failed",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
	}

	return member, nil
}

// Invalidate drops the cached answer for one user and project.
func (o *MembershipOracle) Invalidate(ctx context.Context, userID, projectID uuid.UUID) error {
	if err := o.client.Del(ctx, key(userID, projectID)).Err(); err != nil {
		return fmt.Errorf("invalidate membership cache: %w", err)
	}
	return nil
}
