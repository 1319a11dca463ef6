package tasks

import (
	"github.com/hibiken/asynq"
	"github.com/rotisserie/eris"
)

// Registrar is the part of *asynq.Scheduler used to add cron entries.
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

// Entry is one registered periodic task.
type Entry struct {
	ID   string
	Cron string
	Type string
}

// Schedule registers the salary check on every checkCron entry and the
// snapshot refresh on every refreshCron entry.
func Schedule(r Registrar, checkCron, refreshCron []string) ([]Entry, error) {
	checkTask, err := NewSalaryCheckTask(RunPayload{})
	if err != nil {
		return nil, err
	}
	refreshTask, err := NewSnapshotRefreshTask(RunPayload{})
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, plan := range []struct {
		task  *asynq.Task
		crons []string
	}{
		{checkTask, checkCron},
		{refreshTask, refreshCron},
	} {
		for _, cron := range plan.crons {
			id, err := r.Register(cron, plan.task, asynq.Queue("default"))
			if err != nil {
				return entries, eris.Wrapf(err, "register %s on %q", plan.task.Type(), cron)
			}
			entries = append(entries, Entry{ID: id, Cron: cron, Type: plan.task.Type()})
		}
	}
	return entries, nil
}
