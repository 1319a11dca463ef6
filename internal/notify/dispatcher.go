package notify

import (
	"context"
	"fmt"
	"time"

	"salarycheck/internal/mailer"
	"salarycheck/internal/models"
	"salarycheck/internal/reconcile"
	"salarycheck/internal/report"

	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeSent      Outcome = "sent"
	OutcomeNoTrigger Outcome = "skipped_no_trigger"
	OutcomeNoEmail   Outcome = "skipped_no_email"
	OutcomeFailed    Outcome = "failed"
)

// Delivery is what happened for one reviewer.
type Delivery struct {
	Reviewer   string
	Recipients []string
	Rows       int
	HasNew     bool
	Outcome    Outcome
	Err        error
}

// Summary describes one dispatch pass.
type Summary struct {
	NothingPending  bool
	ScheduledWindow bool
	Unassigned      int
	Deliveries      []Delivery
}

// Sent counts successful deliveries.
func (s Summary) Sent() int {
	n := 0
	for _, d := range s.Deliveries {
		if d.Outcome == OutcomeSent {
			n++
		}
	}
	return n
}

// Renderer produces the digest body for one reviewer.
type Renderer func(rows []models.MergedRecord, generatedAt time.Time) (string, error)

type Dispatcher struct {
	sender      mailer.Sender
	log         *zap.SugaredLogger
	checkpoints []Checkpoint
	tolerance   time.Duration
	render      Renderer
}

func NewDispatcher(sender mailer.Sender, checkpoints []Checkpoint, tolerance time.Duration, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		log:         log,
		checkpoints: checkpoints,
		tolerance:   tolerance,
		render:      report.Render,
	}
}

// WithRenderer replaces the digest renderer.
func (d *Dispatcher) WithRenderer(r Renderer) *Dispatcher {
	d.render = r
	return d
}

// Subject is the mail subject for a digest sent at now.
func Subject(now time.Time) string {
	return fmt.Sprintf("【您的待核对】%s", now.Format("01-02"))
}

// Dispatch sends each reviewer the digest of all of their rows when they have
// new items or now is a scheduled checkpoint. Nothing is sent when no row is
// pending. Per-reviewer failures are logged and do not stop the loop.
func (d *Dispatcher) Dispatch(ctx context.Context, records []models.MergedRecord, contacts []models.ReviewerContact, now time.Time) Summary {
	var sum Summary

	if !reconcile.Partition(records).HasPending() {
		d.log.Infow("nothing to notify, no pending rows", "rows", len(records))
		sum.NothingPending = true
		return sum
	}

	sum.ScheduledWindow = InScheduledWindow(now, d.checkpoints, d.tolerance)

	groups, unassigned := reconcile.GroupByReviewer(records)
	if sum.Unassigned = len(unassigned); sum.Unassigned > 0 {
		projects := make([]string, 0, len(unassigned))
		for _, r := range unassigned {
			projects = append(projects, r.ProjectGroup)
		}
		d.log.Warnw("rows without reviewer skipped", "rows", sum.Unassigned, "project_groups", projects)
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			d.log.Warnw("dispatch interrupted", "error", err)
			break
		}
		sum.Deliveries = append(sum.Deliveries, d.deliver(ctx, g, contacts, now, sum.ScheduledWindow))
	}

	d.log.Infow("dispatch finished",
		"reviewers", len(groups), "sent", sum.Sent(), "scheduled_window", sum.ScheduledWindow)
	return sum
}

func (d *Dispatcher) deliver(ctx context.Context, g reconcile.ReviewerGroup, contacts []models.ReviewerContact, now time.Time, scheduled bool) Delivery {
	del := Delivery{Reviewer: g.Reviewer, Rows: len(g.Records), HasNew: g.HasNew()}
	log := d.log.With("reviewer", g.Reviewer)

	if !del.HasNew && !scheduled {
		log.Infow("no email needed, no new items outside scheduled window")
		del.Outcome = OutcomeNoTrigger
		return del
	}

	to, ok := LookupRecipients(contacts, g.Reviewer)
	if !ok {
		log.Warnw("no email address for reviewer, skipping")
		del.Outcome = OutcomeNoEmail
		return del
	}
	del.Recipients = to

	body, err := d.render(reconcile.Partition(g.Records).Ordered(), now)
	if err != nil {
		log.Errorw("failed to render digest", "error", err)
		del.Outcome, del.Err = OutcomeFailed, err
		return del
	}

	msg := &mailer.Message{To: to, Subject: Subject(now), HTML: body}
	if err := d.sender.Send(ctx, msg); err != nil {
		log.Errorw("failed to send digest", "to", to, "error", err)
		del.Outcome, del.Err = OutcomeFailed, err
		return del
	}

	log.Infow("digest sent", "to", to, "rows", del.Rows, "has_new", del.HasNew)
	del.Outcome = OutcomeSent
	return del
}

// LookupRecipients finds the first contact whose reviewer name matches exactly.
func LookupRecipients(contacts []models.ReviewerContact, reviewer string) ([]string, bool) {
	for _, c := range contacts {
		if c.Reviewer == reviewer {
			return c.Emails, len(c.Emails) > 0
		}
	}
	return nil, false
}
