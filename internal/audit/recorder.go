// Package audit records security-relevant actions as append-only log rows.
// Recording is best-effort by contract: a failed audit write must never fail
// or delay the action that triggered it.
package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-auth/internal/metrics"
	"github.com/clinicdesk/clinic-auth/internal/models"
)

// Store is the slice of storage the recorder needs.
type Store interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, clinicID uint, limit, offset int) ([]models.AuditLog, error)
}

type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record appends one audit entry. Side effect only: storage failures are
// logged for operators and swallowed. The write runs on a context detached
// from request cancellation so an abandoned request still flushes its entry.
func (r *Recorder) Record(ctx context.Context, clinicID uint, userID *uint, action, entityType string, entityID *uint, oldValues, newValues map[string]any, ip, userAgent string) {
	entry := &models.AuditLog{
		ClinicID:   clinicID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValues:  marshalValues(oldValues),
		NewValues:  marshalValues(newValues),
	}
	if ip != "" {
		entry.IPAddress = &ip
	}
	if userAgent != "" {
		entry.UserAgent = &userAgent
	}

	if err := r.store.CreateAuditLog(context.WithoutCancel(ctx), entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		log.Error().Err(err).
			Uint("clinic_id", clinicID).
			Str("action", action).
			Msg("audit write failed")
	}
}

// ListByClinic returns recent entries for a clinic, newest first.
func (r *Recorder) ListByClinic(ctx context.Context, clinicID uint, limit, offset int) ([]models.AuditLog, error) {
	return r.store.ListAuditLogs(ctx, clinicID, limit, offset)
}

func marshalValues(values map[string]any) *string {
	if values == nil {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		log.Error().Err(err).Msg("audit snapshot marshal failed")
		return nil
	}
	s := string(data)
	return &s
}
