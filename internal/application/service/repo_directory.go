package service

import (
	"context"
	"encoding/json"
)

// RepoDirectory lists a user's public repositories on the upstream code host.
type RepoDirectory interface {
	ListRepos(ctx context.Context, username string) (json.RawMessage, error)
}

// RepoCache keeps upstream listings keyed by username.
type RepoCache interface {
	Get(ctx context.Context, username string) (json.RawMessage, bool, error)
	Set(ctx context.Context, username string, body json.RawMessage) error
	Evict(ctx context.Context, username string) error
}
