package tasks

import (
	"context"
	"fmt"

	"salarycheck/internal/pipeline"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type Runner interface {
	Run(ctx context.Context, opts pipeline.RunOptions) *pipeline.Result
	Refresh(ctx context.Context, opts pipeline.RunOptions) *pipeline.Result
}

// TaskProcessor holds dependencies for our task handlers
type TaskProcessor struct {
	runner Runner
	log    *zap.SugaredLogger
}

func NewTaskProcessor(runner Runner, log *zap.SugaredLogger) *TaskProcessor {
	return &TaskProcessor{runner: runner, log: log}
}

func (p *TaskProcessor) HandleSalaryCheckTask(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		p.log.Errorw("rejected salary check task", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res := p.runner.Run(ctx, payload.Options())
	p.log.Infow("salary check task done",
		"run_id", res.RunID, "month", res.Month, "halted", res.Halted, "sent", res.Summary.Sent())
	return nil
}

func (p *TaskProcessor) HandleSnapshotRefreshTask(ctx context.Context, t *asynq.Task) error {
	payload, err := decodePayload(t)
	if err != nil {
		p.log.Errorw("rejected snapshot refresh task", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res := p.runner.Refresh(ctx, payload.Options())
	p.log.Infow("snapshot refresh task done",
		"run_id", res.RunID, "month", res.Month, "halted", res.Halted, "rows", res.Records)
	return nil
}

// Register attaches the handlers to mux.
func (p *TaskProcessor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeTaskSalaryCheck, p.HandleSalaryCheckTask)
	mux.HandleFunc(TypeTaskSnapshotRefresh, p.HandleSnapshotRefreshTask)
}
