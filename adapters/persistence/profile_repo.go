package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func selectProfiles() sq.SelectBuilder {
	return psql.Select(
		"p.user_id", "u.name", "u.avatar",
		"p.status", "p.skills", "p.website", "p.company", "p.location", "p.bio", "p.githubusername",
		"p.social", "p.experience", "p.education", "p.created_at", "p.updated_at",
	).
		From("profiles p").
		Join("users u ON u.id = p.user_id")
}

func scanProfile(row pgx.Row, l logger.Logger) (*profile.Profile, error) {
	p := &profile.Profile{User: &profile.Owner{}}
	var socialBytes, experienceBytes, educationBytes []byte

	err := row.Scan(
		&p.UserID, &p.User.Name, &p.User.Avatar,
		&p.Status, &p.Skills, &p.Website, &p.Company, &p.Location, &p.Bio, &p.GithubUsername,
		&socialBytes, &experienceBytes, &educationBytes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}
	p.User.ID = p.UserID

	if err := json.Unmarshal(socialBytes, &p.Social); err != nil {
		l.Warn("Failed to unmarshal social", zap.String("user_id", p.UserID.String()), zap.Error(err))
		p.Social = profile.Social{}
	}
	if err := json.Unmarshal(experienceBytes, &p.Experience); err != nil || p.Experience == nil {
		if err != nil {
			l.Warn("Failed to unmarshal experience", zap.String("user_id", p.UserID.String()), zap.Error(err))
		}
		p.Experience = []profile.Experience{}
	}
	if err := json.Unmarshal(educationBytes, &p.Education); err != nil || p.Education == nil {
		if err != nil {
			l.Warn("Failed to unmarshal education", zap.String("user_id", p.UserID.String()), zap.Error(err))
		}
		p.Education = []profile.Education{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

func (r *postgresProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	sql, args, err := selectProfiles().Where(sq.Eq{"p.user_id": userID}).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build get profile query", err)
	}
	return scanProfile(r.db.QueryRow(ctx, sql, args...), r.logger)
}

func (r *postgresProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	sql, args, err := selectProfiles().OrderBy("p.created_at ASC").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list profiles query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profiles", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows, r.logger)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profile rows", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	socialBytes, err := json.Marshal(p.Social)
	if err != nil {
		return apperror.NewInternal("failed to marshal social", err)
	}
	experience, education := p.Experience, p.Education
	if experience == nil {
		experience = []profile.Experience{}
	}
	if education == nil {
		education = []profile.Education{}
	}
	experienceBytes, err := json.Marshal(experience)
	if err != nil {
		return apperror.NewInternal("failed to marshal experience", err)
	}
	educationBytes, err := json.Marshal(education)
	if err != nil {
		return apperror.NewInternal("failed to marshal education", err)
	}

	query := `
		INSERT INTO profiles (
			user_id, status, skills, website, company, location, bio, githubusername,
			social, experience, education, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			website = EXCLUDED.website,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			githubusername = EXCLUDED.githubusername,
			social = EXCLUDED.social,
			experience = EXCLUDED.experience,
			education = EXCLUDED.education,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		p.UserID, p.Status, p.Skills, p.Website, p.Company, p.Location, p.Bio, p.GithubUsername,
		socialBytes, experienceBytes, educationBytes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to upsert profile", err)
	}
	return nil
}

func (r *postgresProfileRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	sql, args, err := psql.Delete("profiles").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build delete profile query", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	return nil
}
