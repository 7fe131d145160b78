package event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/config"
	"github.com/scolardf/devconnector/pkg/logger"
)

func TestNewKafkaProducerClient_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestDecodeProfileEvent(t *testing.T) {
	ev := service.ProfileEvent{
		EventType:      service.ProfileEventUpserted,
		UserID:         uuid.New(),
		GithubUsername: "ada",
	}
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event_type":"profile.upserted"`)

	got, err := DecodeProfileEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = DecodeProfileEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var p service.EventPublisher = NoopPublisher{}
	assert.NoError(t, p.PublishProfileEvent(context.Background(), service.ProfileEvent{}))
}
