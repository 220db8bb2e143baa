package actor

import "github.com/codewandler/gensrv-go/core/metrics"

// ActorMetrics defines the metrics reported by the actor runtime.
// All methods must be safe for concurrent use.
type ActorMetrics interface {
	// Lifecycle; ActorTerminated drops what was recorded per actorID
	ActorsRunning(delta int)
	ActorTerminated(actorID string)

	// Message handling; kind is "call" or "cast"
	MessageDuration(msgType string) metrics.Timer
	MessageProcessed(msgType string, kind string, success bool)
	MessagePanic(msgType string)

	// Mailbox
	MailboxDepth(actorID string, depth int)

	// Scheduler
	SchedulerInflight(actorID string, count int)
	SchedulerTaskDuration() metrics.Timer
	SchedulerTaskCompleted(success bool)
}

type nopActorMetrics struct{}

func (nopActorMetrics) ActorsRunning(int)      {}
func (nopActorMetrics) ActorTerminated(string) {}

func (nopActorMetrics) MessageDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopActorMetrics) MessageProcessed(string, string, bool) {}
func (nopActorMetrics) MessagePanic(string)                   {}

func (nopActorMetrics) MailboxDepth(string, int) {}

func (nopActorMetrics) SchedulerInflight(string, int)        {}
func (nopActorMetrics) SchedulerTaskDuration() metrics.Timer { return metrics.NopTimer() }
func (nopActorMetrics) SchedulerTaskCompleted(bool)          {}

// NopActorMetrics returns a no-op ActorMetrics implementation.
func NopActorMetrics() ActorMetrics { return nopActorMetrics{} }
