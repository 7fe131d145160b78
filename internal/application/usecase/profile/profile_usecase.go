package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/domain/post"
	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/internal/domain/user"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

const (
	MsgNoProfile       = "There is no profile for this user"
	MsgProfileNotFound = "Profile not found"
	MsgUserDeleted     = "User deleted"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	postRepo    post.Repository
	publisher   service.EventPublisher
	logger      logger.Logger
}

func NewProfileUseCase(
	profileRepo profile.Repository,
	userRepo user.Repository,
	postRepo post.Repository,
	publisher service.EventPublisher,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		postRepo:    postRepo,
		publisher:   publisher,
		logger:      log,
	}
}

type ProfileOutput struct {
	Profile *profile.Profile
}

type GetOwnProfileInput struct {
	UserID uuid.UUID
}

func (uc *ProfileUseCase) ExecuteGetOwnProfile(ctx context.Context, input GetOwnProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetOwnProfile", trace.WithAttributes(attribute.String("user_id", input.UserID.String())))
	defer span.End()

	p, err := uc.loadOwn(ctx, input.UserID)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return &ProfileOutput{Profile: p}, nil
}

type ListProfilesOutput struct {
	Profiles []*profile.Profile
}

func (uc *ProfileUseCase) ExecuteListProfiles(ctx context.Context) (*ListProfilesOutput, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("list profiles failed: %w", err))
	}
	span.SetAttributes(attribute.Int("count", len(profiles)))
	return &ListProfilesOutput{Profiles: profiles}, nil
}

type GetProfileByUserInput struct {
	// RawUserID comes straight from the path and may not be a valid id.
	RawUserID string
}

func (uc *ProfileUseCase) ExecuteGetProfileByUser(ctx context.Context, input GetProfileByUserInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfileByUser", trace.WithAttributes(attribute.String("raw_user_id", input.RawUserID)))
	defer span.End()

	userID, err := uuid.Parse(input.RawUserID)
	if err != nil {
		return nil, recordErr(span, apperror.NewNotFound(MsgProfileNotFound, fmt.Sprintf("malformed user id '%s'", input.RawUserID)))
	}

	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, recordErr(span, apperror.NewNotFound(MsgProfileNotFound, fmt.Sprintf("profile for user '%s' was not found", userID)))
	}
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("get profile failed: %w", err))
	}
	return &ProfileOutput{Profile: p}, nil
}

// loadOwn fetches the caller's profile, mapping a missing row to NotFound.
func (uc *ProfileUseCase) loadOwn(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, apperror.NewNotFound(MsgNoProfile, fmt.Sprintf("user '%s' has no profile", userID))
	}
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return p, nil
}

func (uc *ProfileUseCase) publish(ev service.ProfileEvent) {
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), ev); err != nil {
			uc.logger.Error("Failed to publish profile event", err,
				zap.String("event_type", string(ev.EventType)),
				zap.String("user_id", ev.UserID.String()),
			)
		}
	}()
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
