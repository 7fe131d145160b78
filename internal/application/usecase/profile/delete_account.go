package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/domain/profile"
)

type DeleteAccountInput struct {
	UserID uuid.UUID
}

type DeleteAccountOutput struct {
	Message      string
	PostsRemoved int64
}

// ExecuteDeleteAccount removes posts, then the profile, then the user.
// Nothing is rolled back when a later step fails.
func (uc *ProfileUseCase) ExecuteDeleteAccount(ctx context.Context, input DeleteAccountInput) (*DeleteAccountOutput, error) {
	ctx, span := tracer.Start(ctx, "DeleteAccount", trace.WithAttributes(attribute.String("user_id", input.UserID.String())))
	defer span.End()

	l := uc.logger.With(zap.String("user_id", input.UserID.String()))

	var githubUsername string
	existing, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	switch {
	case err == nil:
		githubUsername = existing.GithubUsername
	case !errors.Is(err, profile.ErrProfileNotFound):
		return nil, recordErr(span, fmt.Errorf("get profile failed: %w", err))
	}

	removed, err := uc.postRepo.DeleteByOwner(ctx, input.UserID)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("delete posts failed: %w", err))
	}
	if err := uc.profileRepo.Delete(ctx, input.UserID); err != nil {
		l.Warn("Account deletion stopped after removing posts", zap.Int64("posts_removed", removed))
		return nil, recordErr(span, fmt.Errorf("delete profile failed: %w", err))
	}
	if err := uc.userRepo.Delete(ctx, input.UserID); err != nil {
		l.Warn("Account deletion stopped after removing posts and profile", zap.Int64("posts_removed", removed))
		return nil, recordErr(span, fmt.Errorf("delete user failed: %w", err))
	}

	l.Info("Account deleted", zap.Int64("posts_removed", removed))
	uc.publish(service.ProfileEvent{
		EventType:      service.ProfileEventAccountDeleted,
		UserID:         input.UserID,
		GithubUsername: githubUsername,
	})

	return &DeleteAccountOutput{Message: MsgUserDeleted, PostsRemoved: removed}, nil
}
