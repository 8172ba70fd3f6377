package middleware

import (
	"context"
	"time"

	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"go.uber.org/zap"
)

// AuditWriter appends immutable trail records. An audit write failure is
// logged and never fails the request that triggered it.
type AuditWriter struct {
	store  database.Store
	logger *zap.Logger
}

// NewAuditWriter creates an AuditWriter.
func NewAuditWriter(store database.Store, logger *zap.Logger) *AuditWriter {
	return &AuditWriter{store: store, logger: logger.Named("audit")}
}

// Entry describes one mutation to record.
type Entry struct {
	Principal guard.Principal
	Action    cnst.ActionType
	Table     string
	RecordID  *uint
	EntityID  *uint
	Before    string
	After     string
	IP        string
	UserAgent string
}

// Record appends the entry to the trail.
func (w *AuditWriter) Record(ctx context.Context, e Entry) {
	record := &database.AuditRecord{
		EntityID:  e.EntityID,
		Action:    string(e.Action),
		TableName: e.Table,
		RecordID:  e.RecordID,
		Before:    e.Before,
		After:     e.After,
		IPAddress: e.IP,
		UserAgent: e.UserAgent,
		Timestamp: time.Now().UTC(),
	}
	if !e.Principal.System {
		id := e.Principal.ID
		record.UserID = &id
	}
	if err := w.store.AppendAudit(ctx, record); err != nil {
		w.logger.Error("audit write failed",
			zap.String("table", e.Table),
			zap.String("action", string(e.Action)),
			zap.Error(err))
	}
}
