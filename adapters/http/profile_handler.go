package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profileUC "github.com/scolardf/devconnector/internal/application/usecase/profile"
	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

const msgInvalidDate = "Please include a valid date"

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetOwnProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteGetOwnProfile(c.Request.Context(), profileUC.GetOwnProfileInput{UserID: userID})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := BoundRequest[UpsertProfileRequest](c)
	if !ok {
		_ = c.Error(apperror.NewInternal("upsert request not bound", nil))
		return
	}

	input := profileUC.UpsertProfileInput{
		UserID:  userID,
		Status:  req.Status,
		Skills:  req.Skills,
		Website: req.Website,
		Social: profile.Social{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
		Company:        req.Company,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
	}
	output, err := h.profileUseCase.ExecuteUpsertProfile(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteListProfiles(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTOs(output.Profiles))
}

func (h *ProfileHandler) GetProfileByUser(c *gin.Context) {
	input := profileUC.GetProfileByUserInput{RawUserID: c.Param("user_id")}
	output, err := h.profileUseCase.ExecuteGetProfileByUser(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	output, err := h.profileUseCase.ExecuteDeleteAccount(c.Request.Context(), profileUC.DeleteAccountInput{UserID: userID})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": output.Message})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := BoundRequest[AddExperienceRequest](c)
	if !ok {
		_ = c.Error(apperror.NewInternal("experience request not bound", nil))
		return
	}
	from, to, err := parseEntryDates(req.From, req.To)
	if err != nil {
		_ = c.Error(err)
		return
	}

	input := profileUC.AddExperienceInput{
		UserID:      userID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	}
	output, err := h.profileUseCase.ExecuteAddExperience(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	input := profileUC.RemoveEntryInput{UserID: userID, RawEntryID: c.Param("exp_id")}
	output, err := h.profileUseCase.ExecuteRemoveExperience(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := BoundRequest[AddEducationRequest](c)
	if !ok {
		_ = c.Error(apperror.NewInternal("education request not bound", nil))
		return
	}
	from, to, err := parseEntryDates(req.From, req.To)
	if err != nil {
		_ = c.Error(err)
		return
	}

	input := profileUC.AddEducationInput{
		UserID:       userID,
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	}
	output, err := h.profileUseCase.ExecuteAddEducation(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	input := profileUC.RemoveEntryInput{UserID: userID, RawEntryID: c.Param("edu_id")}
	output, err := h.profileUseCase.ExecuteRemoveEducation(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

// currentUser reads the id AuthMiddleware stored. Routes without the
// middleware fail closed.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		_ = c.Error(apperror.NewUnauthorized(msgTokenInvalid, nil))
		return uuid.Nil, false
	}
	return userID, true
}

func parseEntryDates(rawFrom, rawTo string) (time.Time, *time.Time, error) {
	var violations []apperror.FieldError

	from, err := profile.ParseDate(rawFrom)
	if err != nil {
		violations = append(violations, apperror.BodyField("from", msgInvalidDate))
	}

	var to *time.Time
	if strings.TrimSpace(rawTo) != "" {
		t, err := profile.ParseDate(rawTo)
		if err != nil {
			violations = append(violations, apperror.BodyField("to", msgInvalidDate))
		} else {
			to = &t
		}
	}

	if len(violations) > 0 {
		return time.Time{}, nil, apperror.NewValidation(violations...)
	}
	return from, to, nil
}
