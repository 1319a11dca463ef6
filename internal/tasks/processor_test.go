package tasks_test

import (
	"context"
	"errors"

	"salarycheck/internal/pipeline"
	"salarycheck/internal/tasks"
	"salarycheck/internal/testhelpers"

	"github.com/hibiken/asynq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rotisserie/eris"
)

type recordingRunner struct {
	runs      []pipeline.RunOptions
	refreshes []pipeline.RunOptions
}

func (r *recordingRunner) Run(_ context.Context, opts pipeline.RunOptions) *pipeline.Result {
	r.runs = append(r.runs, opts)
	return &pipeline.Result{RunID: "run-1", Month: opts.Month}
}

func (r *recordingRunner) Refresh(_ context.Context, opts pipeline.RunOptions) *pipeline.Result {
	r.refreshes = append(r.refreshes, opts)
	return &pipeline.Result{RunID: "run-2", Month: opts.Month, Halted: pipeline.HaltNoPayroll}
}

var _ = Describe("TaskProcessor", func() {
	var (
		runner *recordingRunner
		p      *tasks.TaskProcessor
		ctx    = context.Background()
	)

	BeforeEach(func() {
		runner = &recordingRunner{}
		log, _ := testhelpers.ObservedLogger()
		p = tasks.NewTaskProcessor(runner, log)
	})

	Describe("HandleSalaryCheckTask", func() {
		It("runs with the payload overrides", func() {
			task, err := tasks.NewSalaryCheckTask(tasks.RunPayload{Month: "2025-04", WindowHours: 2})
			Expect(err).NotTo(HaveOccurred())

			Expect(p.HandleSalaryCheckTask(ctx, task)).To(Succeed())
			Expect(runner.runs).To(Equal([]pipeline.RunOptions{{Month: "2025-04", WindowHours: 2}}))
		})

		It("accepts an empty payload", func() {
			Expect(p.HandleSalaryCheckTask(ctx, asynq.NewTask(tasks.TypeTaskSalaryCheck, nil))).To(Succeed())
			Expect(runner.runs).To(Equal([]pipeline.RunOptions{{}}))
		})

		It("skips retry for malformed JSON", func() {
			err := p.HandleSalaryCheckTask(ctx, asynq.NewTask(tasks.TypeTaskSalaryCheck, []byte("{")))
			Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
			Expect(runner.runs).To(BeEmpty())
		})

		It("skips retry for an invalid month", func() {
			err := p.HandleSalaryCheckTask(ctx, asynq.NewTask(tasks.TypeTaskSalaryCheck, []byte(`{"month":"May"}`)))
			Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
		})
	})

	Describe("HandleSnapshotRefreshTask", func() {
		It("refreshes and does not fail on a halted run", func() {
			task, err := tasks.NewSnapshotRefreshTask(tasks.RunPayload{})
			Expect(err).NotTo(HaveOccurred())

			Expect(p.HandleSnapshotRefreshTask(ctx, task)).To(Succeed())
			Expect(runner.refreshes).To(HaveLen(1))
			Expect(runner.runs).To(BeEmpty())
		})

		It("skips retry for a negative window", func() {
			err := p.HandleSnapshotRefreshTask(ctx, asynq.NewTask(tasks.TypeTaskSnapshotRefresh, []byte(`{"window_hours":-1}`)))
			Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
		})
	})

	It("routes both task types through the mux", func() {
		mux := asynq.NewServeMux()
		p.Register(mux)

		Expect(mux.ProcessTask(ctx, asynq.NewTask(tasks.TypeTaskSalaryCheck, []byte("{}")))).To(Succeed())
		Expect(mux.ProcessTask(ctx, asynq.NewTask(tasks.TypeTaskSnapshotRefresh, []byte("{}")))).To(Succeed())
		Expect(runner.runs).To(HaveLen(1))
		Expect(runner.refreshes).To(HaveLen(1))
	})
})

var _ = Describe("NewSalaryCheckTask", func() {
	It("encodes only set overrides", func() {
		task, err := tasks.NewSalaryCheckTask(tasks.RunPayload{Month: "2025-05"})
		Expect(err).NotTo(HaveOccurred())
		Expect(task.Type()).To(Equal(tasks.TypeTaskSalaryCheck))
		Expect(string(task.Payload())).To(Equal(`{"month":"2025-05"}`))
	})

	It("rejects an invalid month up front", func() {
		_, err := tasks.NewSalaryCheckTask(tasks.RunPayload{Month: "2025/05"})
		Expect(eris.Is(err, tasks.ErrInvalidPayload)).To(BeTrue())
	})
})
