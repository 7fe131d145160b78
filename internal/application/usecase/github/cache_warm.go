package github

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

// CacheWarmUseCase keeps the repo cache in step with profile events.
type CacheWarmUseCase struct {
	directory service.RepoDirectory
	cache     service.RepoCache
	logger    logger.Logger
}

func NewCacheWarmUseCase(directory service.RepoDirectory, cache service.RepoCache, log logger.Logger) *CacheWarmUseCase {
	return &CacheWarmUseCase{directory: directory, cache: cache, logger: log}
}

func (uc *CacheWarmUseCase) Execute(ctx context.Context, ev service.ProfileEvent) error {
	l := uc.logger.With(
		zap.String("event_type", string(ev.EventType)),
		zap.String("user_id", ev.UserID.String()),
		zap.String("username", ev.GithubUsername),
	)
	if ev.GithubUsername == "" {
		l.Debug("Event carries no github username, skip")
		return nil
	}

	switch ev.EventType {
	case service.ProfileEventAccountDeleted:
		if err := uc.cache.Evict(ctx, ev.GithubUsername); err != nil {
			return fmt.Errorf("evict cached repos failed: %w", err)
		}
		l.Info("Evicted cached repos")
		return nil

	case service.ProfileEventUpserted:
		if err := uc.cache.Evict(ctx, ev.GithubUsername); err != nil {
			return fmt.Errorf("evict cached repos failed: %w", err)
		}
		body, err := uc.directory.ListRepos(ctx, ev.GithubUsername)
		if errors.Is(err, apperror.ErrNotFound) {
			l.Info("No upstream profile, nothing to cache")
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch repos failed: %w", err)
		}
		if err := uc.cache.Set(ctx, ev.GithubUsername, body); err != nil {
			return fmt.Errorf("store repos failed: %w", err)
		}
		l.Info("Warmed repo cache")
		return nil

	default:
		l.Warn("Unknown profile event type, skip")
		return nil
	}
}
