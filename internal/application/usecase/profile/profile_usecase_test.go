package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/internal/domain/user"
	"github.com/scolardf/devconnector/internal/testutil/inmem"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

type ProfileUseCaseTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *inmem.Store
	publisher *inmem.Publisher
	uc        *ProfileUseCase
	owner     user.User
}

func TestProfileUseCase(t *testing.T) {
	suite.Run(t, new(ProfileUseCaseTestSuite))
}

func (s *ProfileUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = inmem.NewStore()
	s.publisher = &inmem.Publisher{}
	s.uc = NewProfileUseCase(s.store.Profiles(), s.store.Users(), s.store.Posts(), s.publisher, logger.NewNopLogger())

	s.owner = user.User{ID: uuid.New(), Name: "Ada", Avatar: "//gravatar.com/avatar/ada"}
	s.Require().NoError(s.store.Users().Save(s.ctx, &s.owner))
}

func (s *ProfileUseCaseTestSuite) upsert(status string, skills ...string) *profile.Profile {
	out, err := s.uc.ExecuteUpsertProfile(s.ctx, UpsertProfileInput{
		UserID: s.owner.ID,
		Status: status,
		Skills: skills,
	})
	s.Require().NoError(err)
	return out.Profile
}

func requireAppError(t *testing.T, err error, base error) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.ErrorIs(t, err, base)
	return appErr
}

func (s *ProfileUseCaseTestSuite) Test_GetOwnProfile_NotFound() {
	_, err := s.uc.ExecuteGetOwnProfile(s.ctx, GetOwnProfileInput{UserID: s.owner.ID})
	appErr := requireAppError(s.T(), err, apperror.ErrNotFound)
	s.Equal(MsgNoProfile, appErr.Message)
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_CreatesThenReplaces() {
	created := s.upsert("Developer", "go", "sql")
	s.Equal("Developer", created.Status)
	s.Require().NotNil(created.User)
	s.Equal("Ada", created.User.Name)

	updated := s.upsert("Senior Developer", "rust")
	s.Equal("Senior Developer", updated.Status)
	s.Equal([]string{"rust"}, updated.Skills)
	s.Equal(created.CreatedAt, updated.CreatedAt)
	s.Equal(1, s.store.ProfileCount())

	got, err := s.uc.ExecuteGetOwnProfile(s.ctx, GetOwnProfileInput{UserID: s.owner.ID})
	s.Require().NoError(err)
	s.Equal("Senior Developer", got.Profile.Status)
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_NormalizesSkillsAndURLs() {
	out, err := s.uc.ExecuteUpsertProfile(s.ctx, UpsertProfileInput{
		UserID:  s.owner.ID,
		Status:  "Developer",
		Skills:  profile.SplitSkills("a, b , c"),
		Website: "example.com",
		Social: profile.Social{
			Twitter:  "http://twitter.com/ada",
			LinkedIn: "www.linkedin.com/in/ada/",
		},
	})
	s.Require().NoError(err)

	p := out.Profile
	s.Equal([]string{"a", "b", "c"}, p.Skills)
	s.Equal("https://example.com", p.Website)
	s.Equal("https://twitter.com/ada", p.Social.Twitter)
	s.Equal("https://linkedin.com/in/ada", p.Social.LinkedIn)
	s.Empty(p.Social.YouTube)
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_PassthroughFieldsKeptWhenAbsent() {
	company, bio := "Acme", "Writes Go"
	_, err := s.uc.ExecuteUpsertProfile(s.ctx, UpsertProfileInput{
		UserID: s.owner.ID, Status: "Developer", Skills: []string{"go"},
		Company: &company, Bio: &bio, Website: "ada.dev",
	})
	s.Require().NoError(err)

	empty := ""
	out, err := s.uc.ExecuteUpsertProfile(s.ctx, UpsertProfileInput{
		UserID: s.owner.ID, Status: "Lead", Skills: []string{"go"},
		Bio: &empty,
	})
	s.Require().NoError(err)

	s.Equal("Acme", out.Profile.Company)
	s.Empty(out.Profile.Bio)
	s.Empty(out.Profile.Website, "website is always replaced")
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_KeepsEntries() {
	s.upsert("Developer", "go")
	_, err := s.uc.ExecuteAddExperience(s.ctx, AddExperienceInput{
		UserID: s.owner.ID, Title: "Engineer", Company: "Acme", From: time.Now(),
	})
	s.Require().NoError(err)

	updated := s.upsert("Lead", "go")
	s.Len(updated.Experience, 1)
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_ValidationEnumeratesFields() {
	s.store.FailSave = errors.New("storage must not be touched")

	_, err := s.uc.ExecuteUpsertProfile(s.ctx, UpsertProfileInput{
		UserID: s.owner.ID, Status: "  ", Skills: profile.SplitSkills(" , "), Website: "not a url",
	})
	appErr := requireAppError(s.T(), err, apperror.ErrInvalidInput)

	s.Require().Len(appErr.Fields, 3)
	s.Equal(apperror.BodyField("status", MsgStatusRequired), appErr.Fields[0])
	s.Equal(apperror.BodyField("skills", MsgSkillsRequired), appErr.Fields[1])
	s.Equal(apperror.BodyField("website", MsgInvalidURL), appErr.Fields[2])
	s.Equal(0, s.store.ProfileCount())
}

func (s *ProfileUseCaseTestSuite) Test_Upsert_PublishesEvent() {
	gh := "ada"
	_, err := s.uc.ExecuteUpsertProfile(s.ctx, UpsertProfileInput{
		UserID: s.owner.ID, Status: "Developer", Skills: []string{"go"}, GithubUsername: &gh,
	})
	s.Require().NoError(err)

	s.Eventually(func() bool { return len(s.publisher.Events()) == 1 }, time.Second, 10*time.Millisecond)
	ev := s.publisher.Events()[0]
	s.Equal(service.ProfileEventUpserted, ev.EventType)
	s.Equal("ada", ev.GithubUsername)
}

func (s *ProfileUseCaseTestSuite) Test_ListProfiles() {
	s.upsert("Developer", "go")

	other := user.User{ID: uuid.New(), Name: "Grace"}
	s.Require().NoError(s.store.Users().Save(s.ctx, &other))
	_, err := s.uc.ExecuteUpsertProfile(s.ctx, UpsertProfileInput{UserID: other.ID, Status: "Admiral", Skills: []string{"cobol"}})
	s.Require().NoError(err)

	out, err := s.uc.ExecuteListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Len(out.Profiles, 2)
	for _, p := range out.Profiles {
		s.NotNil(p.User)
	}
}

func (s *ProfileUseCaseTestSuite) Test_GetProfileByUser_MalformedAndAbsentLookAlike() {
	_, malformedErr := s.uc.ExecuteGetProfileByUser(s.ctx, GetProfileByUserInput{RawUserID: "not-a-uuid"})
	_, absentErr := s.uc.ExecuteGetProfileByUser(s.ctx, GetProfileByUserInput{RawUserID: uuid.NewString()})

	malformed := requireAppError(s.T(), malformedErr, apperror.ErrNotFound)
	absent := requireAppError(s.T(), absentErr, apperror.ErrNotFound)
	s.Equal(MsgProfileNotFound, malformed.Message)
	s.Equal(malformed.ToJSON(), absent.ToJSON())

	s.upsert("Developer", "go")
	out, err := s.uc.ExecuteGetProfileByUser(s.ctx, GetProfileByUserInput{RawUserID: s.owner.ID.String()})
	s.Require().NoError(err)
	s.Equal(s.owner.ID, out.Profile.UserID)
}

func (s *ProfileUseCaseTestSuite) Test_DeleteAccount_Cascades() {
	s.upsert("Developer", "go")
	s.store.AddPosts(s.owner.ID, 3)

	out, err := s.uc.ExecuteDeleteAccount(s.ctx, DeleteAccountInput{UserID: s.owner.ID})
	s.Require().NoError(err)
	s.Equal(MsgUserDeleted, out.Message)
	s.Equal(int64(3), out.PostsRemoved)

	s.Zero(s.store.PostCount(s.owner.ID))
	s.False(s.store.HasUser(s.owner.ID))
	_, err = s.uc.ExecuteGetOwnProfile(s.ctx, GetOwnProfileInput{UserID: s.owner.ID})
	requireAppError(s.T(), err, apperror.ErrNotFound)

	s.Eventually(func() bool {
		for _, ev := range s.publisher.Events() {
			if ev.EventType == service.ProfileEventAccountDeleted {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func (s *ProfileUseCaseTestSuite) Test_DeleteAccount_WithoutProfile() {
	out, err := s.uc.ExecuteDeleteAccount(s.ctx, DeleteAccountInput{UserID: uuid.New()})
	s.Require().NoError(err)
	s.Equal(MsgUserDeleted, out.Message)
}

func (s *ProfileUseCaseTestSuite) Test_AddExperience_FrontInsertion() {
	s.upsert("Developer", "go")
	from := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.uc.ExecuteAddExperience(s.ctx, AddExperienceInput{UserID: s.owner.ID, Title: "Junior", Company: "Acme", From: from})
	s.Require().NoError(err)
	out, err := s.uc.ExecuteAddExperience(s.ctx, AddExperienceInput{UserID: s.owner.ID, Title: "Senior", Company: "Acme", From: from.AddDate(2, 0, 0)})
	s.Require().NoError(err)

	s.Require().Len(out.Profile.Experience, 2)
	s.Equal("Senior", out.Profile.Experience[0].Title)
	s.Equal("Junior", out.Profile.Experience[1].Title)

	stored, err := s.uc.ExecuteGetOwnProfile(s.ctx, GetOwnProfileInput{UserID: s.owner.ID})
	s.Require().NoError(err)
	s.Equal(out.Profile.Experience, stored.Profile.Experience)
}

func (s *ProfileUseCaseTestSuite) Test_AddExperience_Validation() {
	s.upsert("Developer", "go")
	_, err := s.uc.ExecuteAddExperience(s.ctx, AddExperienceInput{UserID: s.owner.ID, Title: "Engineer"})
	appErr := requireAppError(s.T(), err, apperror.ErrInvalidInput)
	s.Equal([]apperror.FieldError{
		apperror.BodyField("company", MsgCompanyRequired),
		apperror.BodyField("from", MsgFromRequired),
	}, appErr.Fields)
}

func (s *ProfileUseCaseTestSuite) Test_AddEntries_NoProfileIsNotFound() {
	_, err := s.uc.ExecuteAddExperience(s.ctx, AddExperienceInput{UserID: s.owner.ID, Title: "T", Company: "C", From: time.Now()})
	appErr := requireAppError(s.T(), err, apperror.ErrNotFound)
	s.Equal(MsgNoProfile, appErr.Message)

	_, err = s.uc.ExecuteAddEducation(s.ctx, AddEducationInput{UserID: s.owner.ID, School: "S", Degree: "D", FieldOfStudy: "F", From: time.Now()})
	requireAppError(s.T(), err, apperror.ErrNotFound)

	_, err = s.uc.ExecuteRemoveEducation(s.ctx, RemoveEntryInput{UserID: s.owner.ID, RawEntryID: uuid.NewString()})
	requireAppError(s.T(), err, apperror.ErrNotFound)
}

func (s *ProfileUseCaseTestSuite) Test_RemoveExperience() {
	s.upsert("Developer", "go")
	added, err := s.uc.ExecuteAddExperience(s.ctx, AddExperienceInput{UserID: s.owner.ID, Title: "A", Company: "Acme", From: time.Now()})
	s.Require().NoError(err)
	_, err = s.uc.ExecuteAddExperience(s.ctx, AddExperienceInput{UserID: s.owner.ID, Title: "B", Company: "Acme", From: time.Now()})
	s.Require().NoError(err)
	keepID := added.Profile.Experience[0].ID

	for _, raw := range []string{uuid.NewString(), "garbage"} {
		out, err := s.uc.ExecuteRemoveExperience(s.ctx, RemoveEntryInput{UserID: s.owner.ID, RawEntryID: raw})
		s.Require().NoError(err)
		s.Len(out.Profile.Experience, 2, "unknown id %q must be a no-op", raw)
	}

	out, err := s.uc.ExecuteRemoveExperience(s.ctx, RemoveEntryInput{UserID: s.owner.ID, RawEntryID: keepID.String()})
	s.Require().NoError(err)
	s.Require().Len(out.Profile.Experience, 1)
	s.Equal("B", out.Profile.Experience[0].Title)
}

func (s *ProfileUseCaseTestSuite) Test_Education_AddAndRemove() {
	s.upsert("Developer", "go")
	out, err := s.uc.ExecuteAddEducation(s.ctx, AddEducationInput{
		UserID: s.owner.ID, School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Now(),
	})
	s.Require().NoError(err)
	s.Require().Len(out.Profile.Education, 1)

	out, err = s.uc.ExecuteRemoveEducation(s.ctx, RemoveEntryInput{UserID: s.owner.ID, RawEntryID: out.Profile.Education[0].ID.String()})
	s.Require().NoError(err)
	s.Empty(out.Profile.Education)
}

func (s *ProfileUseCaseTestSuite) Test_AddEducation_Validation() {
	s.upsert("Developer", "go")
	_, err := s.uc.ExecuteAddEducation(s.ctx, AddEducationInput{UserID: s.owner.ID})
	appErr := requireAppError(s.T(), err, apperror.ErrInvalidInput)
	assert.Len(s.T(), appErr.Fields, 4)
	s.Equal("fieldOfStudy", appErr.Fields[2].Param)
}
