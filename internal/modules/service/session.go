package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/modules/model"
	"github.com/meurdo/meurdo-api/internal/modules/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Claims are the verified fields of the caller's access token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
	Token  string
}

type SessionService interface {
	Resolve(ctx context.Context, c Claims) (*model.Session, error)
	// Invalidate drops the cached profile so the next request sees a fresh
	// subscriber flag.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type profileSnapshot struct {
	FullName string `json:"full_name"`
	IsPro    bool   `json:"is_pro"`
}

type sessionService struct {
	profiles repo.ProfileRepo
	rdb      *redis.Client
	ttl      time.Duration
	log      *zap.Logger
}

// NewSessionService accepts a nil redis client; profiles are then read on
// every request.
func NewSessionService(profiles repo.ProfileRepo, rdb *redis.Client, ttl time.Duration, log *zap.Logger) SessionService {
	return &sessionService{profiles: profiles, rdb: rdb, ttl: ttl, log: log}
}

func profileKey(userID uuid.UUID) string {
	return "session:profile:" + userID.String()
}

func (s *sessionService) Resolve(ctx context.Context, c Claims) (*model.Session, error) {
	if c.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidInput)
	}

	snap, err := s.snapshot(ctx, c.UserID)
	if err != nil {
		return nil, err
	}
	return &model.Session{
		UserID:      c.UserID,
		Email:       c.Email,
		Role:        c.Role,
		FullName:    snap.FullName,
		IsPro:       snap.IsPro,
		AccessToken: c.Token,
	}, nil
}

func (s *sessionService) snapshot(ctx context.Context, userID uuid.UUID) (profileSnapshot, error) {
	var snap profileSnapshot
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, profileKey(userID)).Bytes()
		switch {
		case err == nil:
			if uerr := sonic.Unmarshal(raw, &snap); uerr == nil {
				return snap, nil
			}
		case !errors.Is(err, redis.Nil):
			s.log.Sugar().Warnw("profile cache read failed", "user_id", userID, "err", err)
		}
	}

	p, err := s.profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// signed up but no profile row yet
	case err != nil:
		return snap, fmt.Errorf("load profile: %w", err)
	default:
		snap = profileSnapshot{FullName: p.FullName, IsPro: p.IsSubscriber}
	}

	if s.rdb != nil {
		if raw, err := sonic.Marshal(snap); err == nil {
			if err := s.rdb.Set(ctx, profileKey(userID), raw, s.ttl).Err(); err != nil {
				s.log.Sugar().Warnw("profile cache write failed", "user_id", userID, "err", err)
			}
		}
	}
	return snap, nil
}

func (s *sessionService) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, profileKey(userID)).Err()
}
