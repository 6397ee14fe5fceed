package handlers

import (
	"context"

	"careerpath/career-advisor/internal/services"
)

// publishLater hands event to the background worker. A dropped or failed publish is only logged.
func publishLater(worker services.Worker, publisher services.EventPublisher, event services.Event) {
	worker.Enqueue(services.Job{
		Name: "publish_" + event.Type,
		Run: func(ctx context.Context) error {
			return publisher.Publish(ctx, event)
		},
	})
}
