package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mechanio/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeStatusEvent is the asynq task type for scheduling status events.
const TypeStatusEvent = "scheduling:status_event"

// StatusEvent is emitted once per status change. A worker consumes it to
// append the history entry and dispatch the optional push, with asynq
// handling retries. The workflow itself stays synchronous and emits events
// only after the primary mutation is persisted.
type StatusEvent struct {
	SchedulingID string              `json:"scheduling_id"`
	Status       models.Status       `json:"status"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Push         *models.PushMessage `json:"push,omitempty"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

// Publisher is the workflow's side-effect boundary. Implementations must not
// block on delivery; failures are the worker's problem, not the caller's.
type Publisher interface {
	PublishStatusEvent(ctx context.Context, ev StatusEvent) error
}

// AsynqPublisher enqueues status events on the redis-backed task queue.
type AsynqPublisher struct {
	Client *asynq.Client
}

func NewAsynqPublisher(client *asynq.Client) *AsynqPublisher {
	return &AsynqPublisher{Client: client}
}

func (p *AsynqPublisher) PublishStatusEvent(ctx context.Context, ev StatusEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("error marshaling status event: %w", err)
	}
	task := asynq.NewTask(TypeStatusEvent, payload, asynq.MaxRetry(5))
	if _, err := p.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("error enqueuing status event: %w", err)
	}
	return nil
}

// publish emits the event and swallows failures: a lost side effect must not
// fail the already-committed primary operation.
func (svc *DefaultSchedulingWorkflow) publish(ctx context.Context, ev StatusEvent) {
	if err := svc.Events.PublishStatusEvent(ctx, ev); err != nil {
		svc.logger().Warn("failed to publish status event",
			zap.String("schedulingId", ev.SchedulingID),
			zap.String("status", string(ev.Status)),
			zap.Error(err),
		)
	}
}
