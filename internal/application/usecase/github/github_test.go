package github

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/testutil/inmem"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

var adaRepos = json.RawMessage(`[{"name":"engine","created_at":"2011-01-26T19:01:12Z"}]`)

func newDirectory() *inmem.RepoDirectory {
	return &inmem.RepoDirectory{
		Listings: map[string]json.RawMessage{"ada": adaRepos},
		Missing:  apperror.NewNotFound(MsgNoGithubProfile, "upstream returned 404"),
	}
}

func TestReposUseCase_CacheAside(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory()
	cache := inmem.NewRepoCache()
	uc := NewReposUseCase(dir, cache, logger.NewNopLogger())

	first, err := uc.Execute(ctx, ReposInput{Username: "ada"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.JSONEq(t, string(adaRepos), string(first.Body))

	second, err := uc.Execute(ctx, ReposInput{Username: "ada"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, dir.Calls())
}

func TestReposUseCase_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory()
	cache := inmem.NewRepoCache()
	uc := NewReposUseCase(dir, cache, logger.NewNopLogger())

	for i := 0; i < 2; i++ {
		_, err := uc.Execute(ctx, ReposInput{Username: "nonexistentuser123"})
		require.ErrorIs(t, err, apperror.ErrNotFound)
	}
	assert.Equal(t, 2, dir.Calls())

	_, ok, _ := cache.Get(ctx, "nonexistentuser123")
	assert.False(t, ok)
}

func TestReposUseCase_WithoutCache(t *testing.T) {
	dir := newDirectory()
	uc := NewReposUseCase(dir, nil, logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), ReposInput{Username: "ada"})
	require.NoError(t, err)
	assert.False(t, out.Cached)

	_, err = uc.Execute(context.Background(), ReposInput{Username: "  "})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, 1, dir.Calls())
}

func TestCacheWarmUseCase(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory()
	cache := inmem.NewRepoCache()
	uc := NewCacheWarmUseCase(dir, cache, logger.NewNopLogger())

	require.NoError(t, cache.Set(ctx, "ada", json.RawMessage(`[]`)))
	require.NoError(t, uc.Execute(ctx, service.ProfileEvent{
		EventType: service.ProfileEventUpserted, UserID: uuid.New(), GithubUsername: "ada",
	}))
	body, ok, _ := cache.Get(ctx, "ada")
	require.True(t, ok)
	assert.JSONEq(t, string(adaRepos), string(body))

	require.NoError(t, uc.Execute(ctx, service.ProfileEvent{
		EventType: service.ProfileEventUpserted, UserID: uuid.New(), GithubUsername: "ghost",
	}))
	_, ok, _ = cache.Get(ctx, "ghost")
	assert.False(t, ok)

	require.NoError(t, uc.Execute(ctx, service.ProfileEvent{
		EventType: service.ProfileEventAccountDeleted, UserID: uuid.New(), GithubUsername: "ada",
	}))
	_, ok, _ = cache.Get(ctx, "ada")
	assert.False(t, ok)

	calls := dir.Calls()
	require.NoError(t, uc.Execute(ctx, service.ProfileEvent{EventType: service.ProfileEventUpserted, UserID: uuid.New()}))
	assert.Equal(t, calls, dir.Calls())
}
