package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/pkg/apperror"
)

const (
	MsgTitleRequired        = "Title is required"
	MsgCompanyRequired      = "Company is required"
	MsgFromRequired         = "From Date is required"
	MsgSchoolRequired       = "School is required"
	MsgDegreeRequired       = "Degree is required"
	MsgFieldOfStudyRequired = "Field of Study is required"
)

type AddExperienceInput struct {
	UserID      uuid.UUID
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

func (uc *ProfileUseCase) ExecuteAddExperience(ctx context.Context, input AddExperienceInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "AddExperience", trace.WithAttributes(attribute.String("user_id", input.UserID.String())))
	defer span.End()

	var violations []apperror.FieldError
	requireText(&violations, "title", input.Title, MsgTitleRequired)
	requireText(&violations, "company", input.Company, MsgCompanyRequired)
	requireDate(&violations, "from", input.From, MsgFromRequired)
	if len(violations) > 0 {
		return nil, recordErr(span, apperror.NewValidation(violations...))
	}

	p, err := uc.loadOwn(ctx, input.UserID)
	if err != nil {
		return nil, recordErr(span, err)
	}

	entry := p.AddExperience(profile.Experience{
		Title:       strings.TrimSpace(input.Title),
		Company:     strings.TrimSpace(input.Company),
		Location:    input.Location,
		From:        input.From,
		To:          input.To,
		Current:     input.Current,
		Description: input.Description,
	})

	if err := uc.save(ctx, p); err != nil {
		return nil, recordErr(span, err)
	}
	uc.logger.Info("Experience added", zap.String("user_id", input.UserID.String()), zap.String("entry_id", entry.ID.String()))
	return &ProfileOutput{Profile: p}, nil
}

type AddEducationInput struct {
	UserID       uuid.UUID
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

func (uc *ProfileUseCase) ExecuteAddEducation(ctx context.Context, input AddEducationInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "AddEducation", trace.WithAttributes(attribute.String("user_id", input.UserID.String())))
	defer span.End()

	var violations []apperror.FieldError
	requireText(&violations, "school", input.School, MsgSchoolRequired)
	requireText(&violations, "degree", input.Degree, MsgDegreeRequired)
	requireText(&violations, "fieldOfStudy", input.FieldOfStudy, MsgFieldOfStudyRequired)
	requireDate(&violations, "from", input.From, MsgFromRequired)
	if len(violations) > 0 {
		return nil, recordErr(span, apperror.NewValidation(violations...))
	}

	p, err := uc.loadOwn(ctx, input.UserID)
	if err != nil {
		return nil, recordErr(span, err)
	}

	entry := p.AddEducation(profile.Education{
		School:       strings.TrimSpace(input.School),
		Degree:       strings.TrimSpace(input.Degree),
		FieldOfStudy: strings.TrimSpace(input.FieldOfStudy),
		From:         input.From,
		To:           input.To,
		Current:      input.Current,
		Description:  input.Description,
	})

	if err := uc.save(ctx, p); err != nil {
		return nil, recordErr(span, err)
	}
	uc.logger.Info("Education added", zap.String("user_id", input.UserID.String()), zap.String("entry_id", entry.ID.String()))
	return &ProfileOutput{Profile: p}, nil
}

type RemoveEntryInput struct {
	UserID uuid.UUID
	// RawEntryID comes from the path. A malformed id matches nothing.
	RawEntryID string
}

func (uc *ProfileUseCase) ExecuteRemoveExperience(ctx context.Context, input RemoveEntryInput) (*ProfileOutput, error) {
	return uc.removeEntry(ctx, "RemoveExperience", input, (*profile.Profile).RemoveExperience)
}

func (uc *ProfileUseCase) ExecuteRemoveEducation(ctx context.Context, input RemoveEntryInput) (*ProfileOutput, error) {
	return uc.removeEntry(ctx, "RemoveEducation", input, (*profile.Profile).RemoveEducation)
}

// removeEntry saves the profile even when nothing matched, so the caller
// always gets the stored state back.
func (uc *ProfileUseCase) removeEntry(
	ctx context.Context,
	op string,
	input RemoveEntryInput,
	remove func(*profile.Profile, uuid.UUID) bool,
) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("user_id", input.UserID.String()),
		attribute.String("entry_id", input.RawEntryID),
	))
	defer span.End()

	p, err := uc.loadOwn(ctx, input.UserID)
	if err != nil {
		return nil, recordErr(span, err)
	}

	removed := false
	if entryID, err := uuid.Parse(input.RawEntryID); err == nil {
		removed = remove(p, entryID)
	}
	span.SetAttributes(attribute.Bool("removed", removed))
	if !removed {
		uc.logger.Info("No entry matched, profile left unchanged",
			zap.String("op", op),
			zap.String("user_id", input.UserID.String()),
			zap.String("entry_id", input.RawEntryID),
		)
	}

	if err := uc.save(ctx, p); err != nil {
		return nil, recordErr(span, err)
	}
	return &ProfileOutput{Profile: p}, nil
}

func (uc *ProfileUseCase) save(ctx context.Context, p *profile.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile failed: %w", err)
	}
	return nil
}

func requireText(violations *[]apperror.FieldError, param, value, msg string) {
	if strings.TrimSpace(value) == "" {
		*violations = append(*violations, apperror.BodyField(param, msg))
	}
}

func requireDate(violations *[]apperror.FieldError, param string, value time.Time, msg string) {
	if value.IsZero() {
		*violations = append(*violations, apperror.BodyField(param, msg))
	}
}
