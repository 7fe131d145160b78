package service

import (
	"context"

	"github.com/google/uuid"
)

type ProfileEventType string

const (
	ProfileEventUpserted       ProfileEventType = "profile.upserted"
	ProfileEventAccountDeleted ProfileEventType = "account.deleted"
)

type ProfileEvent struct {
	EventType      ProfileEventType `json:"event_type"`
	UserID         uuid.UUID        `json:"user_id"`
	GithubUsername string           `json:"github_username,omitempty"`
}

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, ev ProfileEvent) error
}
