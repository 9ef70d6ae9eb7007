package repositories

import (
	"context"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
)

// ImportJobRepository tracks bulk-import jobs. The production implementation is
// an in-process map per the system's documented non-durability; the interface
// exists so a durable implementation can be swapped in without touching the
// import coordinator.
type ImportJobRepository interface {
	SaveJob(ctx context.Context, job domain.ImportJob) error
	FindJob(ctx context.Context, importID string) (*domain.ImportJob, error)
	ListJobs(ctx context.Context) ([]domain.ImportJob, error)

	// UpdateProgress records processed-count and recomputes the percentage.
	UpdateProgress(ctx context.Context, importID string, processed int) error

	// SetStatus finalizes or transitions a job, appending any error messages.
	SetStatus(ctx context.Context, importID string, status domain.ImportStatus, errs []string) error

	// RegisterCancel stores the cancel handle for an in-flight job; Cancel
	// invokes it. Cancelling a job that is not processing is a state error.
	RegisterCancel(ctx context.Context, importID string, cancel context.CancelFunc) error
	Cancel(ctx context.Context, importID string) error
}
