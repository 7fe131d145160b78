package github

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

const MsgNoGithubProfile = "No Github profile found"

var tracer = otel.Tracer("github_usecase")

// ReposUseCase serves a user's latest repositories from the cache when it
// can and from the upstream directory otherwise.
type ReposUseCase struct {
	directory service.RepoDirectory
	cache     service.RepoCache
	logger    logger.Logger
}

// NewReposUseCase accepts a nil cache, in which case every call goes upstream.
func NewReposUseCase(directory service.RepoDirectory, cache service.RepoCache, log logger.Logger) *ReposUseCase {
	return &ReposUseCase{directory: directory, cache: cache, logger: log}
}

type ReposInput struct {
	Username string
}

type ReposOutput struct {
	Body   json.RawMessage
	Cached bool
}

func (uc *ReposUseCase) Execute(ctx context.Context, input ReposInput) (*ReposOutput, error) {
	ctx, span := tracer.Start(ctx, "ListRepos")
	defer span.End()

	username := strings.TrimSpace(input.Username)
	span.SetAttributes(attribute.String("username", username))
	if username == "" {
		return nil, apperror.NewNotFound(MsgNoGithubProfile, "empty username")
	}
	l := uc.logger.With(zap.String("username", username))

	if uc.cache != nil {
		body, ok, err := uc.cache.Get(ctx, username)
		if err != nil {
			l.Warn("Repo cache read failed, going upstream", zap.Error(err))
		}
		if ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &ReposOutput{Body: body, Cached: true}, nil
		}
	}

	body, err := uc.directory.ListRepos(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, username, body); err != nil {
			l.Warn("Repo cache write failed", zap.Error(err))
		}
	}
	return &ReposOutput{Body: body}, nil
}
