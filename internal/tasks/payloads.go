package tasks

import (
	"encoding/json"

	"salarycheck/internal/pipeline"

	"github.com/hibiken/asynq"
	"github.com/rotisserie/eris"
)

// Task type names
const (
	TypeTaskSalaryCheck     = "task:salary_check"
	TypeTaskSnapshotRefresh = "task:snapshot_refresh"
)

var ErrInvalidPayload = eris.New("invalid task payload")

// RunPayload carries optional overrides for one run. Empty fields fall back
// to configuration.
type RunPayload struct {
	Month       string  `json:"month,omitempty"`
	WindowHours float64 `json:"window_hours,omitempty"`
}

func (p RunPayload) Validate() error {
	if err := p.Options().Validate(); err != nil {
		return eris.Wrap(ErrInvalidPayload, err.Error())
	}
	return nil
}

func (p RunPayload) Options() pipeline.RunOptions {
	return pipeline.RunOptions{Month: p.Month, WindowHours: p.WindowHours}
}

// NewSalaryCheckTask creates the reminder task. Runs are never retried.
func NewSalaryCheckTask(payload RunPayload) (*asynq.Task, error) {
	return newTask(TypeTaskSalaryCheck, payload)
}

func NewSnapshotRefreshTask(payload RunPayload) (*asynq.Task, error) {
	return newTask(TypeTaskSnapshotRefresh, payload)
}

func newTask(typename string, payload RunPayload) (*asynq.Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "encode payload")
	}

	return asynq.NewTask(typename, payloadBytes, asynq.MaxRetry(0)), nil
}

func decodePayload(t *asynq.Task) (RunPayload, error) {
	var payload RunPayload
	if len(t.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, eris.Wrap(ErrInvalidPayload, err.Error())
	}
	return payload, payload.Validate()
}
