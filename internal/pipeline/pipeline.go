package pipeline

import (
	"context"
	"time"

	"salarycheck/internal/config"
	"salarycheck/internal/models"
	"salarycheck/internal/notify"
	"salarycheck/internal/reconcile"
	"salarycheck/internal/snapshot"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const MonthLayout = "2006-01"

// Reasons a run stops before dispatch.
const (
	HaltNoPayroll     = "payroll source empty"
	HaltNoRows        = "no payroll rows after filtering"
	HaltNoAssignments = "reviewer registry empty"
	HaltNoContacts    = "contact registry empty"
	HaltSnapshot      = "snapshot write failed"
)

type PayrollSource interface {
	FetchSheet(ctx context.Context, month string) ([][]string, error)
}

type RegistrySource interface {
	FetchSheet(ctx context.Context, path, sheet string) ([][]string, error)
}

type SnapshotStore interface {
	Replace(ctx context.Context, runID string, records []models.MergedRecord, generatedAt time.Time) error
}

// RunOptions override configuration for one run. Zero values use the config.
type RunOptions struct {
	Month       string
	WindowHours float64
	OutputPath  string
}

// Validate rejects a malformed month or a negative window.
func (o RunOptions) Validate() error {
	if o.Month != "" {
		if _, err := time.Parse(MonthLayout, o.Month); err != nil {
			return eris.Errorf("invalid month %q, want YYYY-MM", o.Month)
		}
	}
	if o.WindowHours < 0 {
		return eris.Errorf("invalid window %v hours", o.WindowHours)
	}
	return nil
}

// Result describes one run.
type Result struct {
	RunID       string
	Month       string
	StartedAt   time.Time
	PayrollRows int
	Records     int
	NewPending  int
	Stale       int
	Completed   int
	Halted      string
	Summary     notify.Summary
	Snapshot    string
}

// Runner drives fetch, normalize, merge, classify and then either dispatch
// or snapshot output.
type Runner struct {
	cfg        *config.Config
	payroll    PayrollSource
	registry   RegistrySource
	dispatcher *notify.Dispatcher
	store      SnapshotStore
	log        *zap.SugaredLogger
	now        func() time.Time
}

func NewRunner(cfg *config.Config, payroll PayrollSource, registry RegistrySource, dispatcher *notify.Dispatcher, log *zap.SugaredLogger) *Runner {
	return &Runner{
		cfg:        cfg,
		payroll:    payroll,
		registry:   registry,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// WithStore makes Refresh also replace the database snapshot.
func (r *Runner) WithStore(s SnapshotStore) *Runner {
	r.store = s
	return r
}

func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// LastMonth is the calendar month before t, formatted 2006-01.
func LastMonth(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, -1, 0).Format(MonthLayout)
}

// Run classifies the month's uploads and emails each reviewer their digest.
func (r *Runner) Run(ctx context.Context, opts RunOptions) *Result {
	res, records, log := r.prepare(ctx, opts, true)
	if res.Halted != "" {
		return res
	}

	if !reconcile.Partition(records).HasPending() {
		res.Summary = notify.Summary{NothingPending: true}
		log.Infow("nothing to notify, no pending rows", "rows", len(records))
		return res
	}

	contacts := r.contacts(ctx, log)
	if len(contacts) == 0 {
		return r.halt(res, log, HaltNoContacts)
	}

	res.Summary = r.dispatcher.Dispatch(ctx, records, contacts, res.StartedAt)
	log.Infow("run finished", "sent", res.Summary.Sent(), "nothing_pending", res.Summary.NothingPending)
	return res
}

// Refresh classifies the month's uploads and writes the snapshot instead of
// sending mail.
func (r *Runner) Refresh(ctx context.Context, opts RunOptions) *Result {
	res, records, log := r.prepare(ctx, opts, false)
	if res.Halted != "" {
		return res
	}

	path := opts.OutputPath
	if path == "" {
		path = r.cfg.OutputPath
	}
	if err := snapshot.WriteJSON(path, records, res.StartedAt); err != nil {
		log.Errorw("failed to write snapshot file", "path", path, "error", err)
		return r.halt(res, log, HaltSnapshot)
	}
	res.Snapshot = path

	if r.store != nil {
		if err := r.store.Replace(ctx, res.RunID, records, res.StartedAt); err != nil {
			log.Errorw("failed to store snapshot", "error", err)
			return r.halt(res, log, HaltSnapshot)
		}
	}

	log.Infow("snapshot refreshed", "path", path, "rows", len(records), "stored", r.store != nil)
	return res
}

func (r *Runner) prepare(ctx context.Context, opts RunOptions, requireAssignments bool) (*Result, []models.MergedRecord, *zap.SugaredLogger) {
	now := r.now().In(r.cfg.Location)
	res := &Result{
		RunID:     uuid.NewString(),
		Month:     opts.Month,
		StartedAt: now,
	}
	if res.Month == "" {
		res.Month = LastMonth(now)
	}
	window := r.cfg.Window()
	if opts.WindowHours > 0 {
		window = config.HoursToDuration(opts.WindowHours)
	}

	log := r.log.With("run_id", res.RunID, "month", res.Month)
	log.Infow("run started", "window", window.String())

	raw, err := r.payroll.FetchSheet(ctx, res.Month)
	if err != nil {
		log.Errorw("failed to fetch payroll sheet", "error", err)
	}
	if len(raw) == 0 {
		return r.halt(res, log, HaltNoPayroll), nil, log
	}
	res.PayrollRows = len(raw)

	excl := reconcile.Exclusions{
		ProjectGroups: r.cfg.ExcludedProjectGroups,
		BaseLocations: r.cfg.ExcludedBases,
	}
	payroll, err := reconcile.NormalizePayroll(raw, r.cfg.Location, excl, log)
	if err != nil {
		log.Errorw("failed to normalize payroll sheet", "error", err)
	}
	if len(payroll) == 0 {
		return r.halt(res, log, HaltNoRows), nil, log
	}

	assignments := r.assignments(ctx, log)
	if requireAssignments && len(assignments) == 0 {
		return r.halt(res, log, HaltNoAssignments), nil, log
	}

	records := reconcile.Classify(reconcile.Merge(payroll, assignments), now, window)
	b := reconcile.Partition(records)
	res.Records = len(records)
	res.NewPending, res.Stale, res.Completed = len(b.NewPending), len(b.StalePending), len(b.Completed)

	log.Infow("rows classified",
		"rows", res.Records, "new_pending", res.NewPending, "stale_pending", res.Stale, "completed", res.Completed)
	return res, records, log
}

func (r *Runner) assignments(ctx context.Context, log *zap.SugaredLogger) []models.ReviewerAssignment {
	rows, err := r.registry.FetchSheet(ctx, r.cfg.ReviewerFile, r.cfg.RegistrySheet)
	if err != nil {
		log.Errorw("failed to fetch reviewer registry", "file", r.cfg.ReviewerFile, "error", err)
		return nil
	}
	out, err := reconcile.DecodeAssignments(rows)
	if err != nil {
		log.Errorw("failed to decode reviewer registry", "file", r.cfg.ReviewerFile, "error", err)
		return nil
	}
	return out
}

func (r *Runner) contacts(ctx context.Context, log *zap.SugaredLogger) []models.ReviewerContact {
	rows, err := r.registry.FetchSheet(ctx, r.cfg.ContactFile, r.cfg.RegistrySheet)
	if err != nil {
		log.Errorw("failed to fetch contact registry", "file", r.cfg.ContactFile, "error", err)
		return nil
	}
	out, err := reconcile.DecodeContacts(rows)
	if err != nil {
		log.Errorw("failed to decode contact registry", "file", r.cfg.ContactFile, "error", err)
		return nil
	}
	return out
}

func (r *Runner) halt(res *Result, log *zap.SugaredLogger, reason string) *Result {
	res.Halted = reason
	log.Warnw("run halted", "reason", reason)
	return res
}
