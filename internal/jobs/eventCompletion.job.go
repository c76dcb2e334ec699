package jobs

import (
	"context"
	"time"

	"ecobayanihan/internal/events"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// EventCompletionJob closes events whose date, start time and duration are
// all behind us so they stop accepting registrations.
type EventCompletionJob struct {
	eventRepo repositories.CleanupEventRepository
	tx        services.Transactor
	publisher events.Publisher
	now       func() time.Time
	log       logger.Logger
	schedule  services.Schedule
}

func NewEventCompletionJob(
	eventRepo repositories.CleanupEventRepository,
	tx services.Transactor,
	publisher events.Publisher,
	schedule services.Schedule,
) *EventCompletionJob {
	log := logger.New("eventCompletionJob")
	log.Info("Creating new event completion job", "schedule", schedule)

	return &EventCompletionJob{
		eventRepo: eventRepo,
		tx:        tx,
		publisher: publisher,
		now:       time.Now,
		log:       log,
		schedule:  schedule,
	}
}

func (j *EventCompletionJob) Name() string {
	return "EventCompletion"
}

func (j *EventCompletionJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	completed, err := j.eventRepo.MarkCompletedEndedBefore(ctx, j.tx.DB(ctx), j.now())
	if err != nil {
		return log.Err("failed to mark ended events completed", err)
	}

	if completed == 0 {
		log.Debug("No events to complete")
		return nil
	}

	log.Info("Marked events completed", "count", completed)

	err = j.publisher.Publish(events.EVENTS_CHANNEL, events.Event{
		Type: events.EVENTS_COMPLETED,
		Data: map[string]any{"count": completed},
	})
	if err != nil {
		log.Er("failed to announce completed events", err)
	}

	return nil
}

func (j *EventCompletionJob) Schedule() services.Schedule {
	return j.schedule
}
