package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polkiloo/acesshop/internal/domain/model"
)

// Append stores the delivery as received. It is the only insert into webhook_logs.
// payload_raw keeps the exact bytes; the text columns get a copy Postgres accepts.
func (r *webhookLogRepository) Append(ctx context.Context, entry *model.WebhookLog) (int64, error) {
	const query = `INSERT INTO webhook_logs (provider, event_type, reference, payload, payload_raw, headers, ip_address, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, created_at`

	headers, err := json.Marshal(textHeaders(entry.Headers))
	if err != nil {
		return 0, fmt.Errorf("encode webhook headers: %w", err)
	}

	raw := entry.RawPayload
	if raw == nil {
		raw = []byte(entry.Payload)
	}

	status := entry.Status
	if status == "" {
		status = model.WebhookStatusReceived
	}

	err = r.storage.pool.QueryRow(ctx, query,
		pgText(entry.Provider), pgText(entry.EventType), pgText(entry.Reference), pgText(entry.Payload), raw,
		headers, pgText(entry.IPAddress), status,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("append webhook log: %w", err)
	}
	entry.Status = status
	return entry.ID, nil
}

// pgText makes s storable in a TEXT or JSONB column: invalid UTF-8 becomes
// U+FFFD and NUL bytes are dropped.
func pgText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

func textHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[pgText(k)] = pgText(v)
	}
	return out
}

func (r *webhookLogRepository) Resolve(ctx context.Context, id int64, resolution model.WebhookResolution) (bool, error) {
	const query = `UPDATE webhook_logs
                   SET status=$2, event_type=$3, reference=$4, processing_error=$5
                   WHERE id=$1 AND status='received'`

	tag, err := r.storage.pool.Exec(ctx, query, id, resolution.Status, pgText(resolution.EventType), pgText(resolution.Reference), pgText(resolution.Note))
	if err != nil {
		return false, fmt.Errorf("resolve webhook log %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *webhookLogRepository) HasProcessed(ctx context.Context, reference string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (
                       SELECT 1 FROM webhook_logs
                       WHERE reference=$1 AND status='processed' AND id <> $2
                   )`

	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, pgText(reference), excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
