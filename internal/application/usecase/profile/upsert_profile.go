package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/pkg/apperror"
)

const (
	MsgStatusRequired = "Status is required"
	MsgSkillsRequired = "Skills are required"
	MsgInvalidURL     = "Please include a valid URL"
)

// UpsertProfileInput carries the submitted profile fields. A nil optional
// field was not submitted and keeps its stored value on update.
type UpsertProfileInput struct {
	UserID  uuid.UUID
	Status  string
	Skills  []string
	Website string
	Social  profile.Social

	Company        *string
	Location       *string
	Bio            *string
	GithubUsername *string
}

func (uc *ProfileUseCase) ExecuteUpsertProfile(ctx context.Context, input UpsertProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile", trace.WithAttributes(attribute.String("user_id", input.UserID.String())))
	defer span.End()

	fields, err := buildProfileFields(input)
	if err != nil {
		return nil, recordErr(span, err)
	}

	now := time.Now().UTC()
	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(input.UserID, now)
		span.SetAttributes(attribute.Bool("created", true))
	case err != nil:
		return nil, recordErr(span, fmt.Errorf("get profile failed: %w", err))
	}

	fields.applyTo(p)
	p.UpdatedAt = now

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return nil, recordErr(span, fmt.Errorf("save profile failed: %w", err))
	}

	saved, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, recordErr(span, fmt.Errorf("reload profile failed: %w", err))
	}

	uc.logger.Info("Profile saved", zap.String("user_id", input.UserID.String()))
	uc.publish(service.ProfileEvent{
		EventType:      service.ProfileEventUpserted,
		UserID:         input.UserID,
		GithubUsername: saved.GithubUsername,
	})

	return &ProfileOutput{Profile: saved}, nil
}

type profileFields struct {
	input   UpsertProfileInput
	status  string
	skills  []string
	website string
	social  profile.Social
}

// buildProfileFields validates and normalizes input before any storage access.
func buildProfileFields(input UpsertProfileInput) (*profileFields, error) {
	var violations []apperror.FieldError

	status := strings.TrimSpace(input.Status)
	if status == "" {
		violations = append(violations, apperror.BodyField("status", MsgStatusRequired))
	}
	skills := profile.ParseSkills(input.Skills)
	if len(skills) == 0 {
		violations = append(violations, apperror.BodyField("skills", MsgSkillsRequired))
	}

	normalize := func(param, raw string) string {
		u, err := profile.NormalizeURL(raw)
		if err != nil {
			violations = append(violations, apperror.BodyField(param, MsgInvalidURL))
		}
		return u
	}

	f := &profileFields{
		input:   input,
		status:  status,
		skills:  skills,
		website: normalize("website", input.Website),
		social: profile.Social{
			YouTube:   normalize("youtube", input.Social.YouTube),
			Twitter:   normalize("twitter", input.Social.Twitter),
			Facebook:  normalize("facebook", input.Social.Facebook),
			LinkedIn:  normalize("linkedin", input.Social.LinkedIn),
			Instagram: normalize("instagram", input.Social.Instagram),
		},
	}

	if len(violations) > 0 {
		return nil, apperror.NewValidation(violations...)
	}
	return f, nil
}

// applyTo replaces the submitted fields on p. Experience, education and the
// creation date are never touched here.
func (f *profileFields) applyTo(p *profile.Profile) {
	p.Status = f.status
	p.Skills = f.skills
	p.Website = f.website
	p.Social = f.social

	if f.input.Company != nil {
		p.Company = *f.input.Company
	}
	if f.input.Location != nil {
		p.Location = *f.input.Location
	}
	if f.input.Bio != nil {
		p.Bio = *f.input.Bio
	}
	if f.input.GithubUsername != nil {
		p.GithubUsername = strings.TrimSpace(*f.input.GithubUsername)
	}
}
