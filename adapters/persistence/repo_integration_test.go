package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/scolardf/devconnector/internal/domain/post"
	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/internal/domain/user"
	"github.com/scolardf/devconnector/pkg/logger"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	profileRepo profile.Repository
	userRepo    user.Repository
	postRepo    post.Repository
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.profileRepo = NewPostgresProfileRepo(s.dbPool, logger.NewNopLogger())
	s.userRepo = NewPostgresUserRepo(s.dbPool)
	s.postRepo = NewPostgresPostRepo(s.dbPool)
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func (s *RepoIntegrationTestSuite) seedUser(name string) *user.User {
	u := &user.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     uuid.NewString() + "@example.com",
		Avatar:    "//www.gravatar.com/avatar/" + name,
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(context.Background(), u))
	return u
}

func (s *RepoIntegrationTestSuite) seedPost(userID uuid.UUID) {
	_, err := s.dbPool.Exec(context.Background(),
		`INSERT INTO posts (id, user_id, text) VALUES ($1, $2, $3)`, uuid.New(), userID, "hello")
	s.Require().NoError(err)
}

func (s *RepoIntegrationTestSuite) Test_Save_And_GetByUserID() {
	ctx := context.Background()
	owner := s.seedUser("ada")

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := profile.New(owner.ID, now)
	p.Status = "Developer"
	p.Skills = []string{"go", "sql"}
	p.GithubUsername = "ada"
	p.Social = profile.Social{Twitter: "https://twitter.com/ada"}
	p.AddExperience(profile.Experience{Title: "Engineer", Company: "Analytical", From: now})
	p.AddEducation(profile.Education{School: "Home", Degree: "None", FieldOfStudy: "Maths", From: now})

	s.NoError(s.profileRepo.Save(ctx, p))

	found, err := s.profileRepo.GetByUserID(ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal("Developer", found.Status)
	s.Equal([]string{"go", "sql"}, found.Skills)
	s.Equal("https://twitter.com/ada", found.Social.Twitter)
	s.Require().Len(found.Experience, 1)
	s.Equal(p.Experience[0].ID, found.Experience[0].ID)
	s.Require().Len(found.Education, 1)
	s.Equal("Maths", found.Education[0].FieldOfStudy)
	s.Require().NotNil(found.User)
	s.Equal("ada", found.User.Name)
	s.Equal(owner.Avatar, found.User.Avatar)
}

func (s *RepoIntegrationTestSuite) Test_Save_UpdatesExistingRow() {
	ctx := context.Background()
	owner := s.seedUser("grace")

	p := profile.New(owner.ID, time.Now().UTC())
	p.Status = "Junior"
	s.NoError(s.profileRepo.Save(ctx, p))

	p.Status = "Senior"
	p.Bio = "compilers"
	p.UpdatedAt = time.Now().UTC()
	s.NoError(s.profileRepo.Save(ctx, p))

	found, err := s.profileRepo.GetByUserID(ctx, owner.ID)
	s.Require().NoError(err)
	s.Equal("Senior", found.Status)
	s.Equal("compilers", found.Bio)
	s.Empty(found.Experience)
	s.NotNil(found.Experience)
}

func (s *RepoIntegrationTestSuite) Test_GetByUserID_Missing() {
	_, err := s.profileRepo.GetByUserID(context.Background(), uuid.New())
	s.ErrorIs(err, profile.ErrProfileNotFound)
}

func (s *RepoIntegrationTestSuite) Test_List_IncludesOwners() {
	ctx := context.Background()
	owner := s.seedUser("linus")
	p := profile.New(owner.ID, time.Now().UTC())
	p.Status = "Maintainer"
	s.NoError(s.profileRepo.Save(ctx, p))

	profiles, err := s.profileRepo.List(ctx)
	s.Require().NoError(err)

	var seen bool
	for _, got := range profiles {
		s.NotNil(got.User)
		if got.UserID == owner.ID {
			seen = true
			s.Equal("linus", got.User.Name)
		}
	}
	s.True(seen)
}

func (s *RepoIntegrationTestSuite) Test_DeleteAccountRows() {
	ctx := context.Background()
	owner := s.seedUser("ken")
	p := profile.New(owner.ID, time.Now().UTC())
	p.Status = "Retired"
	s.NoError(s.profileRepo.Save(ctx, p))
	s.seedPost(owner.ID)
	s.seedPost(owner.ID)

	removed, err := s.postRepo.DeleteByOwner(ctx, owner.ID)
	s.NoError(err)
	s.Equal(int64(2), removed)

	s.NoError(s.profileRepo.Delete(ctx, owner.ID))
	s.NoError(s.profileRepo.Delete(ctx, owner.ID))
	s.NoError(s.userRepo.Delete(ctx, owner.ID))

	_, err = s.profileRepo.GetByUserID(ctx, owner.ID)
	s.ErrorIs(err, profile.ErrProfileNotFound)
}
