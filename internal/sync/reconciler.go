package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/taskflow-ai/taskflow/internal/ai"
	"github.com/taskflow-ai/taskflow/internal/github"
	"github.com/taskflow-ai/taskflow/internal/telemetry"
	"github.com/taskflow-ai/taskflow/internal/types"
)

// State is the derived sync state of one task. It is computed from the
// mapping entry and the task status, never queried from the tracker.
type State string

const (
	// Unsynced means no mapping entry exists for the task.
	Unsynced State = "unsynced"
	// SyncedOpen means an entry exists and no close has been issued.
	SyncedOpen State = "synced_open"
	// SyncedClosed is terminal: the close call has been issued at least
	// once. A task whose status later reverts stays SyncedClosed.
	SyncedClosed State = "synced_closed"
)

// Tracker is the issue tracker surface the reconciler consumes. The
// GitHub client satisfies it.
type Tracker interface {
	CreateIssue(ctx context.Context, title, body string, labels []string) (*github.Issue, error)
	CloseIssue(ctx context.Context, number int, comment string) (*github.Issue, error)
}

// DefaultWorkers bounds the SyncAll worker pool.
const DefaultWorkers = 4

// Close comments by reason. The tracker-side issue records why the
// mirrored task went away.
const (
	commentCompleted = "Tarea completada en Taskwarrior."
	commentDeleted   = "Tarea eliminada en Taskwarrior."
)

// Outcome reports what one Reconcile did.
type Outcome struct {
	State   State
	Issue   int // issue number, 0 when Unsynced
	Created bool
	Closed  bool
}

// BatchResult aggregates one SyncAll run. One task's failure never
// aborts the batch; it is counted here instead.
type BatchResult struct {
	Created int
	Closed  int
	Errors  int
	Failed  []string // uuids of tasks whose reconcile failed
}

// Reconciler drives tasks toward their mirrored issue state.
type Reconciler struct {
	mapping  *MappingStore
	tracker  Tracker
	provider ai.Provider // nil is allowed: issue bodies degrade to the task text
	workers  int
}

// NewReconciler builds a reconciler over a mapping store and tracker.
func NewReconciler(mapping *MappingStore, tracker Tracker, provider ai.Provider) *Reconciler {
	syncMetricsOnce.Do(initSyncMetrics)
	return &Reconciler{
		mapping:  mapping,
		tracker:  tracker,
		provider: provider,
		workers:  DefaultWorkers,
	}
}

// WithWorkers sets the SyncAll pool size.
func (r *Reconciler) WithWorkers(n int) *Reconciler {
	if n > 0 {
		r.workers = n
	}
	return r
}

// StateOf derives the sync state for a task.
func (r *Reconciler) StateOf(task *types.Task) State {
	entry, ok := r.mapping.Get(task.UUID)
	switch {
	case !ok:
		return Unsynced
	case entry.Closed:
		return SyncedClosed
	default:
		return SyncedOpen
	}
}

// Reconcile brings one task's mirrored issue in line with the task's
// current status. Unsynced tasks get an issue created and the mapping
// persisted before success is reported; SyncedOpen tasks with terminal
// status get their issue closed exactly once; everything else is a no-op.
func (r *Reconciler) Reconcile(ctx context.Context, task *types.Task) (Outcome, error) {
	switch state := r.StateOf(task); state {
	case Unsynced:
		// A task that is already completed or deleted and was never
		// mirrored stays unmirrored: creating an issue only to close it
		// would make the batch non-idempotent.
		if task.Status.Terminal() {
			return Outcome{State: Unsynced}, nil
		}
		return r.createIssue(ctx, task)

	case SyncedOpen:
		if !task.Status.Terminal() {
			entry, _ := r.mapping.Get(task.UUID)
			return Outcome{State: SyncedOpen, Issue: entry.Issue}, nil
		}
		return r.closeIssue(ctx, task)

	default: // SyncedClosed is terminal: no tracker call, ever.
		entry, _ := r.mapping.Get(task.UUID)
		return Outcome{State: SyncedClosed, Issue: entry.Issue}, nil
	}
}

func (r *Reconciler) createIssue(ctx context.Context, task *types.Task) (Outcome, error) {
	body := IssueContent(ctx, r.provider, task)
	title := ExtractTitle(body, task.Description)
	labels := DeriveLabels(task)

	issue, err := r.tracker.CreateIssue(ctx, title, body, labels)
	if err != nil {
		return Outcome{State: Unsynced}, err
	}

	// Persist before reporting success. If this write fails the created
	// issue is orphaned until the operator reconciles manually; it is
	// reported, never silently re-created.
	if err := r.mapping.Put(task.UUID, issue.Number); err != nil {
		return Outcome{State: Unsynced}, fmt.Errorf("issue #%d created but mapping not persisted: %w", issue.Number, err)
	}

	slog.Debug("issue created", "uuid", task.UUID, "issue", issue.Number, "title", title)
	recordSync(ctx, "created")
	return Outcome{State: SyncedOpen, Issue: issue.Number, Created: true}, nil
}

func (r *Reconciler) closeIssue(ctx context.Context, task *types.Task) (Outcome, error) {
	entry, _ := r.mapping.Get(task.UUID)

	comment := commentCompleted
	if task.Status == types.StatusDeleted {
		comment = commentDeleted
	}

	if _, err := r.tracker.CloseIssue(ctx, entry.Issue, comment); err != nil {
		return Outcome{State: SyncedOpen, Issue: entry.Issue}, err
	}

	if err := r.mapping.MarkClosed(task.UUID); err != nil {
		return Outcome{State: SyncedOpen, Issue: entry.Issue}, err
	}

	slog.Debug("issue closed", "uuid", task.UUID, "issue", entry.Issue, "status", task.Status)
	recordSync(ctx, "closed")
	return Outcome{State: SyncedClosed, Issue: entry.Issue, Closed: true}, nil
}

// SyncAll reconciles every task through a bounded worker pool. Re-running
// with no task changes produces zero creations and zero closes, so the
// batch may be retried freely after a crash or partial failure. The
// mapping store serializes writes; each task is an independent unit.
func (r *Reconciler) SyncAll(ctx context.Context, tasks []*types.Task) BatchResult {
	var (
		mu     stdsync.Mutex
		result BatchResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, task := range tasks {
		g.Go(func() error {
			outcome, err := r.Reconcile(ctx, task)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors++
				result.Failed = append(result.Failed, task.UUID)
				slog.Warn("reconcile failed", "uuid", task.UUID, "error", err)
				recordSync(ctx, "error")
				return nil // one task's failure never aborts the batch
			}
			if outcome.Created {
				result.Created++
			}
			if outcome.Closed {
				result.Closed++
			}
			return nil
		})
	}

	_ = g.Wait()
	return result
}

// StatusReport summarizes sync coverage for `taskflow sync --status`.
type StatusReport struct {
	Total       int
	Synced      int
	Percent     float64
	MappingPath string
}

// Status reports how many of the given tasks have a mapping entry.
func (r *Reconciler) Status(tasks []*types.Task) StatusReport {
	report := StatusReport{
		Total:       len(tasks),
		MappingPath: r.mapping.Path(),
	}
	for _, t := range tasks {
		if _, ok := r.mapping.Get(t.UUID); ok {
			report.Synced++
		}
	}
	if report.Total > 0 {
		report.Percent = float64(report.Synced) / float64(report.Total) * 100
	}
	return report
}

// syncMetrics holds lazily-initialized instruments for sync outcomes.
var syncMetrics struct {
	outcomes metric.Int64Counter
}

var syncMetricsOnce stdsync.Once

func initSyncMetrics() {
	m := telemetry.Meter("github.com/taskflow-ai/taskflow/sync")
	syncMetrics.outcomes, _ = m.Int64Counter("taskflow.sync.outcomes",
		metric.WithDescription("Sync reconcile outcomes by kind"),
		metric.WithUnit("{task}"),
	)
}

func recordSync(ctx context.Context, kind string) {
	if syncMetrics.outcomes == nil {
		return
	}
	syncMetrics.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("taskflow.sync.outcome", kind)))
}
