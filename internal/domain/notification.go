package domain

import "context"

// EventCreatedJob asks the notification worker to announce a new event.
type EventCreatedJob struct {
	EventID string
}

// JobQueue accepts notification jobs. Submit must not block on delivery;
// it returns ErrQueueFull when the job cannot be buffered.
type JobQueue interface {
	Submit(ctx context.Context, job EventCreatedJob) error
}

// NotificationService handles jobs taken off the queue.
type NotificationService interface {
	HandleEventCreated(ctx context.Context, job EventCreatedJob) error
}
