package tasks_test

import (
	"errors"
	"fmt"

	"salarycheck/internal/tasks"

	"github.com/hibiken/asynq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type registration struct {
	cron string
	typ  string
}

type fakeScheduler struct {
	registered []registration
	failOn     string
}

func (f *fakeScheduler) Register(cronspec string, task *asynq.Task, _ ...asynq.Option) (string, error) {
	if cronspec == f.failOn {
		return "", errors.New("bad cron spec")
	}
	f.registered = append(f.registered, registration{cron: cronspec, typ: task.Type()})
	return fmt.Sprintf("entry-%d", len(f.registered)), nil
}

var _ = Describe("Schedule", func() {
	It("registers both the check and the refresh task", func() {
		s := &fakeScheduler{}

		entries, err := tasks.Schedule(s, []string{"0 * * * *", "30 13 * * *"}, []string{"*/30 * * * *"})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.registered).To(Equal([]registration{
			{"0 * * * *", tasks.TypeTaskSalaryCheck},
			{"30 13 * * *", tasks.TypeTaskSalaryCheck},
			{"*/30 * * * *", tasks.TypeTaskSnapshotRefresh},
		}))
		Expect(entries).To(HaveLen(3))
		Expect(entries[2]).To(Equal(tasks.Entry{ID: "entry-3", Cron: "*/30 * * * *", Type: tasks.TypeTaskSnapshotRefresh}))
	})

	It("skips refresh when no refresh cron is configured", func() {
		s := &fakeScheduler{}

		_, err := tasks.Schedule(s, []string{"0 * * * *"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.registered).To(HaveLen(1))
	})

	It("stops at the first rejected entry", func() {
		s := &fakeScheduler{failOn: "bogus"}

		_, err := tasks.Schedule(s, []string{"bogus", "0 * * * *"}, nil)
		Expect(err).To(MatchError(ContainSubstring("bogus")))
		Expect(s.registered).To(BeEmpty())
	})
})
