package models

type Status string

const (
	StatusUnclassified Status = ""
	StatusNewPending   Status = "new_pending"
	StatusStalePending Status = "stale_pending"
	StatusCompleted    Status = "completed"
)

// StatusOrder is the fixed display order of the digest sections.
var StatusOrder = []Status{StatusNewPending, StatusStalePending, StatusCompleted}

var statusLabels = map[Status]string{
	StatusNewPending:   "待核对（新提交）",
	StatusStalePending: "待核对（历史未完成）",
	StatusCompleted:    "已完成",
}

// Label is the localized heading shown to reviewers.
func (s Status) Label() string {
	return statusLabels[s]
}

func (s Status) Pending() bool {
	return s == StatusNewPending || s == StatusStalePending
}

// ParseStatus accepts either the machine value or the localized label.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range StatusOrder {
		if raw == string(s) || raw == s.Label() {
			return s, true
		}
	}
	return StatusUnclassified, false
}
