//go:build integration

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/pkg/testutil/containers"
)

func TestKafkaQueueRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rp := containers.GetManager().GetRedpanda(t)
	topic := "audit-jobs-" + uuid.NewString()[:8]

	q, err := NewKafkaQueue(KafkaConfig{Brokers: rp.Brokers, Topic: topic, Group: "dossier-test"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, q.EnsureTopic(ctx, 3, 1))
	require.NoError(t, q.EnsureTopic(ctx, 3, 1), "existing topic is fine")

	job := testJob("204554")
	require.NoError(t, q.Enqueue(ctx, job))

	select {
	case got := <-q.Jobs():
		assert.Equal(t, job.ID, got.ID)
		assert.Equal(t, "204554", got.Subject.ID)
	case <-ctx.Done():
		t.Fatal("job was not delivered")
	}

	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Enqueue(context.Background(), job), ErrQueueClosed)
}
