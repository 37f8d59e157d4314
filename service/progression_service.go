package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"coinbot/config"
	"coinbot/events"
	"coinbot/models"
	"coinbot/progression"
)

// progressionService implements the ProgressionService interface
type progressionService struct {
	uowFactory UnitOfWorkFactory
	cfg        config.Leveling
	curve      progression.Curve

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProgressionService creates a new progression service. A nil rng falls
// back to a time-seeded one.
func NewProgressionService(uowFactory UnitOfWorkFactory, cfg config.Leveling, rng *rand.Rand) ProgressionService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &progressionService{
		uowFactory: uowFactory,
		cfg:        cfg,
		curve:      progression.Curve{Base: cfg.CurveBase, Multiplier: cfg.CurveMultiplier},
		rng:        rng,
	}
}

func (s *progressionService) rollXP(booster bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	xp := s.cfg.XPPerMessageMin
	if span := s.cfg.XPPerMessageMax - s.cfg.XPPerMessageMin; span > 0 {
		xp += s.rng.Int63n(span + 1)
	}
	if booster && s.cfg.BoosterMultiplier > 1 {
		xp = int64(float64(xp) * s.cfg.BoosterMultiplier)
	}
	return xp
}

// GrantMessageXP awards XP for a message. Messages inside the cooldown window
// and messages while leveling is disabled return nil without error.
func (s *progressionService) GrantMessageXP(ctx context.Context, userID, guildID int64, username string, booster bool) (*models.XPGrantResult, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if _, err := uow.ProgressionRepository().GetOrCreate(ctx, userID, guildID, username); err != nil {
		return nil, fmt.Errorf("failed to get progression: %w", err)
	}

	// The locked read serializes concurrent grants; the written total always
	// includes every committed grant before this one.
	rec, err := uow.ProgressionRepository().GetForUpdate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock progression: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("progression for user %d in guild %d vanished", userID, guildID)
	}

	now := time.Now()
	cooldown := time.Duration(s.cfg.MessageCooldownSeconds) * time.Second
	if now.Sub(rec.LastMessageTime) < cooldown {
		return nil, nil
	}

	xp := s.rollXP(booster)
	newXP := rec.XP + xp
	newLevel := s.curve.LevelAt(newXP)

	if err := uow.ProgressionRepository().UpdateXP(ctx, userID, guildID, newXP, newLevel, now); err != nil {
		return nil, fmt.Errorf("failed to update XP: %w", err)
	}

	leveledUp := newLevel > rec.Level
	if leveledUp {
		uow.EventBus().Publish(events.LevelUpEvent{
			UserID:   userID,
			GuildID:  guildID,
			Username: username,
			OldLevel: rec.Level,
			NewLevel: newLevel,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.XPGrantResult{
		XPAdded:   xp,
		NewXP:     newXP,
		NewLevel:  newLevel,
		LeveledUp: leveledUp,
	}, nil
}

// GetProfile returns a member's progression record plus their rank
func (s *progressionService) GetProfile(ctx context.Context, userID, guildID int64, username string) (*models.ProgressionRecord, int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rec, err := uow.ProgressionRepository().GetOrCreate(ctx, userID, guildID, username)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get progression: %w", err)
	}

	rank, err := uow.ProgressionRepository().Rank(ctx, userID, guildID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get rank: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return rec, rank, nil
}

// Leaderboard returns the guild's top members by XP
func (s *progressionService) Leaderboard(ctx context.Context, guildID int64, limit int) ([]models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.ProgressionRepository().Leaderboard(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entries, nil
}

// Curve exposes the configured progression curve for display helpers.
func (s *progressionService) Curve() progression.Curve {
	return s.curve
}
