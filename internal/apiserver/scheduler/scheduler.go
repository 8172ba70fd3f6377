// Package scheduler runs the fire-and-forget reconciliation jobs against
// the national procurement portal. Jobs are retried a fixed number of
// times with a per-type delay; a job that exhausts its retries is
// abandoned with nothing but a log trail.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sentinela-gov/sentinela/internal/apiserver/database"
	"github.com/sentinela-gov/sentinela/internal/apiserver/guard"
	"github.com/sentinela-gov/sentinela/internal/apiserver/middleware"
	"github.com/sentinela-gov/sentinela/internal/common/cnst"
	"github.com/sentinela-gov/sentinela/internal/common/config"
	"github.com/sentinela-gov/sentinela/internal/pncp"
	"github.com/sentinela-gov/sentinela/pkg/metrics"
	"go.uber.org/zap"
)

const (
	jobSupplier = "supplier_sync"
	jobContract = "contract_sync"

	// jobHistoryLimit caps how many finished job records stay queryable;
	// the oldest finished jobs are evicted first. Running jobs are never
	// evicted.
	jobHistoryLimit = 256
)

// Job states reported by Status.
const (
	StateRunning   = "RUNNING"
	StateRetrying  = "RETRYING"
	StateSucceeded = "SUCCEEDED"
	StateAbandoned = "ABANDONED"
)

// JobStatus is the in-process record of a background job. It lives only
// as long as the server; there is no persistent job table.
type JobStatus struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	State     string    `json:"state"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt,omitzero"`
}

// Scheduler owns the background sync workers.
type Scheduler struct {
	store   database.Store
	client  *pncp.Client
	audit   *middleware.AuditWriter
	cfg     config.SyncConfig
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	jobs map[string]JobStatus
	done []string

	wg sync.WaitGroup
}

// New creates a Scheduler.
func New(store database.Store, client *pncp.Client, audit *middleware.AuditWriter, cfg config.SyncConfig, logger *zap.Logger, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		store:   store,
		client:  client,
		audit:   audit,
		cfg:     cfg,
		logger:  logger.Named("scheduler"),
		metrics: m,
		jobs:    make(map[string]JobStatus),
	}
}

// Status reports the current state of a job by id.
func (s *Scheduler) Status(jobID string) (JobStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.jobs[jobID]
	return st, ok
}

func (s *Scheduler) setStatus(jobID string, update func(*JobStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.jobs[jobID]
	update(&st)
	s.jobs[jobID] = st
	if st.State == StateSucceeded || st.State == StateAbandoned {
		s.done = append(s.done, jobID)
		for len(s.done) > jobHistoryLimit {
			delete(s.jobs, s.done[0])
			s.done = s.done[1:]
		}
	}
}

// Wait blocks until every in-flight job has finished. Used on shutdown.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// EnqueueSupplierSync schedules a regularity refresh for one supplier
// and returns the job id immediately.
func (s *Scheduler) EnqueueSupplierSync(supplierID uint) string {
	jobID := uuid.NewString()
	s.run(jobID, jobSupplier, s.cfg.SupplierRetryDelay, func(ctx context.Context) error {
		return s.syncSupplier(ctx, supplierID)
	})
	return jobID
}

// EnqueueContractSync schedules a contract reconciliation for one
// supplier document within an entity and returns the job id immediately.
func (s *Scheduler) EnqueueContractSync(entityID uint, cnpj string) string {
	jobID := uuid.NewString()
	s.run(jobID, jobContract, s.cfg.ContractRetryDelay, func(ctx context.Context) error {
		return s.syncContracts(ctx, entityID, cnpj)
	})
	return jobID
}

// run executes the job in its own goroutine with bounded fixed-delay
// retries. Callers never learn the outcome; the log and the audit trail
// are the only record.
func (s *Scheduler) run(jobID, jobType string, delay time.Duration, fn func(ctx context.Context) error) {
	s.setStatus(jobID, func(st *JobStatus) {
		st.ID = jobID
		st.Type = jobType
		st.State = StateRunning
		st.StartedAt = time.Now().UTC()
	})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx := context.Background()
		logger := s.logger.With(zap.String("job_id", jobID), zap.String("job_type", jobType))

		for attempt := 1; ; attempt++ {
			err := fn(ctx)
			if err == nil {
				logger.Info("sync job finished", zap.Int("attempt", attempt))
				s.metrics.SyncJob(jobType, "success")
				s.setStatus(jobID, func(st *JobStatus) {
					st.State = StateSucceeded
					st.Attempts = attempt
					st.LastError = ""
					st.EndedAt = time.Now().UTC()
				})
				return
			}
			if attempt > s.cfg.MaxRetries {
				logger.Error("sync job abandoned after retries",
					zap.Int("attempts", attempt),
					zap.Error(err))
				s.metrics.SyncJob(jobType, "abandoned")
				s.setStatus(jobID, func(st *JobStatus) {
					st.State = StateAbandoned
					st.Attempts = attempt
					st.LastError = err.Error()
					st.EndedAt = time.Now().UTC()
				})
				return
			}
			logger.Warn("sync job failed, will retry",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
			s.metrics.SyncJob(jobType, "retry")
			s.setStatus(jobID, func(st *JobStatus) {
				st.State = StateRetrying
				st.Attempts = attempt
				st.LastError = err.Error()
			})
			time.Sleep(delay)
		}
	}()
}

// syncSupplier refreshes one supplier's regularity snapshot from the
// portal, running as the system principal.
func (s *Scheduler) syncSupplier(ctx context.Context, supplierID uint) error {
	supplier, err := s.store.GetSupplierByID(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("load supplier %d: %w", supplierID, err)
	}
	if supplier.CNPJ == "" {
		s.logger.Warn("supplier has no document, skipping sync", zap.Uint("supplier_id", supplierID))
		return nil
	}

	validation, err := s.client.ValidateSupplier(ctx, supplier.CNPJ)
	if err != nil {
		return err
	}
	if !validation.Validated {
		return fmt.Errorf("portal did not validate supplier %s: %s", supplier.CNPJ, validation.Err)
	}

	before, _ := json.Marshal(supplier)
	pncp.ApplyRegularity(supplier, validation, time.Now().UTC())
	if err := s.store.UpdateSupplier(ctx, supplier); err != nil {
		return fmt.Errorf("persist supplier %d: %w", supplierID, err)
	}
	after, _ := json.Marshal(supplier)

	s.audit.Record(ctx, middleware.Entry{
		Principal: guard.SystemPrincipal(),
		Action:    cnst.ActionSync,
		Table:     "fornecedores",
		RecordID:  &supplier.ID,
		EntityID:  &supplier.EntityID,
		Before:    string(before),
		After:     string(after),
	})
	return nil
}

// syncContracts folds the portal's contract list for one supplier into
// the entity's records.
func (s *Scheduler) syncContracts(ctx context.Context, entityID uint, cnpj string) error {
	page, err := s.client.ListSupplierContracts(ctx, cnpj, 1, 100)
	if err != nil {
		return err
	}

	supplier, err := s.store.GetSupplierByDocument(ctx, entityID, page.CNPJ)
	if err != nil {
		s.logger.Warn("supplier not registered for entity, skipping contract sync",
			zap.String("cnpj", page.CNPJ),
			zap.Uint("entity_id", entityID))
		return nil
	}

	result, err := pncp.MergeContracts(ctx, s.store, entityID, supplier, page.Contracts)
	if err != nil {
		return fmt.Errorf("merge contracts for %s: %w", page.CNPJ, err)
	}

	summary, _ := json.Marshal(map[string]any{
		"cnpj":    page.CNPJ,
		"fetched": len(page.Contracts),
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	})
	s.audit.Record(ctx, middleware.Entry{
		Principal: guard.SystemPrincipal(),
		Action:    cnst.ActionSync,
		Table:     "contratos",
		EntityID:  &entityID,
		After:     string(summary),
	})
	s.logger.Info("contract sync completed",
		zap.String("cnpj", page.CNPJ),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))
	return nil
}
