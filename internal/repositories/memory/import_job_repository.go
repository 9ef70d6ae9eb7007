package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
)

// ImportJobRepository is the process-local job store. Jobs do not survive a
// restart; an interrupted run is lost and has to be re-submitted.
type ImportJobRepository struct {
	mu      sync.RWMutex
	jobs    map[string]domain.ImportJob
	cancels map[string]context.CancelFunc
}

// NewImportJobRepository creates an empty in-memory job store.
func NewImportJobRepository() *ImportJobRepository {
	return &ImportJobRepository{
		jobs:    make(map[string]domain.ImportJob),
		cancels: make(map[string]context.CancelFunc),
	}
}

var _ portsrepo.ImportJobRepository = (*ImportJobRepository)(nil)

func (r *ImportJobRepository) SaveJob(ctx context.Context, job domain.ImportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ImportID]; exists {
		return fmt.Errorf("%w: import job %s already registered", apperrors.ErrDuplicate, job.ImportID)
	}
	r.jobs[job.ImportID] = job
	return nil
}

func (r *ImportJobRepository) FindJob(ctx context.Context, importID string) (*domain.ImportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[importID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("import job %s not found", importID))
	}
	// Copy the errors slice so callers cannot mutate stored state.
	job.Errors = append([]string(nil), job.Errors...)
	return &job, nil
}

func (r *ImportJobRepository) ListJobs(ctx context.Context) ([]domain.ImportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]domain.ImportJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		job.Errors = append([]string(nil), job.Errors...)
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartedAt.After(jobs[j].StartedAt)
	})
	return jobs, nil
}

func (r *ImportJobRepository) UpdateProgress(ctx context.Context, importID string, processed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[importID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("import job %s not found", importID))
	}
	job.Processed = processed
	if job.TotalRecords > 0 {
		job.Progress = processed * 100 / job.TotalRecords
	}
	r.jobs[importID] = job
	return nil
}

func (r *ImportJobRepository) SetStatus(ctx context.Context, importID string, status domain.ImportStatus, errs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[importID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("import job %s not found", importID))
	}
	job.Status = status
	job.Errors = append(job.Errors, errs...)
	if status == domain.ImportCompleted {
		job.Processed = job.TotalRecords
		job.Progress = 100
	}
	if status != domain.ImportProcessing {
		now := time.Now().UTC()
		job.CompletedAt = &now
		if cancel, ok := r.cancels[importID]; ok {
			// Release the context resources of a finished run.
			cancel()
			delete(r.cancels, importID)
		}
	}
	r.jobs[importID] = job
	return nil
}

func (r *ImportJobRepository) RegisterCancel(ctx context.Context, importID string, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[importID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("import job %s not found", importID))
	}
	r.cancels[importID] = cancel
	return nil
}

// Cancel aborts an in-flight run by invoking its registered cancel handle.
// Cancelling a job that is not processing is a state error.
func (r *ImportJobRepository) Cancel(ctx context.Context, importID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[importID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("import job %s not found", importID))
	}
	if job.Status != domain.ImportProcessing {
		return fmt.Errorf("%w: cannot cancel an import in state %q", apperrors.ErrImportState, job.Status)
	}
	cancel, ok := r.cancels[importID]
	if !ok {
		return fmt.Errorf("%w: import %s has no registered cancel handle", apperrors.ErrImportState, importID)
	}
	cancel()
	delete(r.cancels, importID)
	return nil
}
