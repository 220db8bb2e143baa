package prometheus

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewandler/gensrv-go/core/actor"
	"github.com/codewandler/gensrv-go/core/bucket"
)

func TestNewActorMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewActorMetrics(reg)

	require.NotNil(t, m)

	m.ActorsRunning(1)

	timer := m.MessageDuration("bucket.get")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.MessageProcessed("bucket.get", "call", true)
	m.MessageProcessed("bucket.put", "cast", false)
	m.MessagePanic("bucket.get")

	m.MailboxDepth("actor-123", 10)
	m.SchedulerInflight("actor-123", 5)

	timer = m.SchedulerTaskDuration()
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.SchedulerTaskCompleted(true)
	m.SchedulerTaskCompleted(false)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}

	assert.True(t, names["gensrv_actors_running"])
	assert.True(t, names["gensrv_actor_message_duration_seconds"])
	assert.True(t, names["gensrv_actor_messages_total"])
	assert.True(t, names["gensrv_actor_mailbox_depth"])
	assert.True(t, names["gensrv_actor_scheduler_tasks_total"])

	m.ActorTerminated("actor-123")
	m.ActorTerminated("unknown")

	mfs, err = reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		assert.NotEqual(t, "gensrv_actor_mailbox_depth", mf.GetName())
		assert.NotEqual(t, "gensrv_actor_scheduler_inflight", mf.GetName())
	}
}

func TestActorMetrics_with_bucket(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewActorMetrics(reg).(*actorMetrics)

	b, err := bucket.Start(actor.Options{Context: t.Context(), Metrics: m}, bucket.Config{})
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(m.actorsRunning))

	require.NoError(t, b.Put(t.Context(), "a", 1))
	_, _, err = b.Get(t.Context(), "a")
	require.NoError(t, err)
	_, err = b.Ref().Call(t.Context(), struct{}{})
	require.ErrorIs(t, err, actor.ErrMalformedRequest)

	require.Equal(t, float64(1), testutil.ToFloat64(m.messagesTotal.WithLabelValues("bucket.put", "cast", "true")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.messagesTotal.WithLabelValues("bucket.get", "call", "true")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.messagesTotal.WithLabelValues("struct {}", "call", "false")))

	require.NoError(t, b.Stop(context.Background()))
	require.Equal(t, float64(0), testutil.ToFloat64(m.actorsRunning))
}

func TestActorMetrics_terminated_actor_series_are_dropped(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewActorMetrics(reg).(*actorMetrics)

	for range 3 {
		b, err := bucket.Start(actor.Options{Context: t.Context(), Metrics: m}, bucket.Config{})
		require.NoError(t, err)
		_, err = b.Len(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, testutil.CollectAndCount(m.mailboxDepth))
		require.NoError(t, b.Stop(context.Background()))
	}

	require.Zero(t, testutil.CollectAndCount(m.mailboxDepth))
	require.Zero(t, testutil.CollectAndCount(m.schedulerInflight))
}

func TestBoolToStr(t *testing.T) {
	assert.Equal(t, "true", boolToStr(true))
	assert.Equal(t, "false", boolToStr(false))
}
