package repository

import (
	"context"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// WebhookLogRepository stores the webhook audit trail.
type WebhookLogRepository interface {
	Append(ctx context.Context, entry *model.WebhookLog) (int64, error)
	// Resolve moves a received row to a terminal status. It reports false
	// when the row was already resolved.
	Resolve(ctx context.Context, id int64, resolution model.WebhookResolution) (bool, error)
	HasProcessed(ctx context.Context, reference string, excludeID int64) (bool, error)
}
