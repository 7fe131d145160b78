package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scolardf/devconnector/internal/domain/post"
	"github.com/scolardf/devconnector/pkg/apperror"
)

type postgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(db *pgxpool.Pool) post.Repository {
	return &postgresPostRepo{db: db}
}

func (r *postgresPostRepo) DeleteByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	sql, args, err := psql.Delete("posts").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, apperror.NewInternal("failed to build delete posts query", err)
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, apperror.NewInternal("failed to delete posts", err)
	}
	return cmdTag.RowsAffected(), nil
}
