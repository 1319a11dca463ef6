package snapshot

import (
	"context"
	"time"

	"salarycheck/internal/models"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

const batchSize = 200

// Filter narrows List. Zero values match everything.
type Filter struct {
	Reviewer string
	Status   models.Status
	Limit    int
}

// Totals are the per-status counts of the current snapshot.
type Totals struct {
	RunID       string                  `json:"run_id"`
	GeneratedAt *time.Time              `json:"generated_at"`
	Total       int64                   `json:"total"`
	ByStatus    map[models.Status]int64 `json:"by_status"`
}

// Store keeps the latest refreshed snapshot in Postgres.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Replace swaps the stored snapshot for records in one transaction.
func (s *Store) Replace(ctx context.Context, runID string, records []models.MergedRecord, generatedAt time.Time) error {
	rows := make([]models.ReconciliationRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.NewReconciliationRecord(runID, r, generatedAt))
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := gorm.G[models.ReconciliationRecord](tx).Where("1 = 1").Delete(ctx); err != nil {
			return eris.Wrap(err, "clear snapshot")
		}
		if len(rows) == 0 {
			return nil
		}
		if err := gorm.G[models.ReconciliationRecord](tx).CreateInBatches(ctx, &rows, batchSize); err != nil {
			return eris.Wrap(err, "insert snapshot")
		}
		return nil
	})
	return err
}

func (s *Store) List(ctx context.Context, f Filter) ([]models.ReconciliationRecord, error) {
	q := s.DB.WithContext(ctx).Model(&models.ReconciliationRecord{})
	if f.Reviewer != "" {
		q = q.Where("reviewer = ?", f.Reviewer)
	}
	if f.Status != models.StatusUnclassified {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var records []models.ReconciliationRecord
	if err := q.Order("id ASC").Find(&records).Error; err != nil {
		return nil, eris.Wrap(err, "list snapshot")
	}
	return records, nil
}

func (s *Store) Summary(ctx context.Context) (*Totals, error) {
	var counts []struct {
		Status models.Status
		Count  int64
	}
	err := s.DB.WithContext(ctx).Model(&models.ReconciliationRecord{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, eris.Wrap(err, "count snapshot")
	}

	totals := &Totals{ByStatus: make(map[models.Status]int64, len(models.StatusOrder))}
	for _, status := range models.StatusOrder {
		totals.ByStatus[status] = 0
	}
	for _, c := range counts {
		totals.ByStatus[c.Status] = c.Count
		totals.Total += c.Count
	}

	if totals.Total > 0 {
		latest, err := gorm.G[models.ReconciliationRecord](s.DB).Order("id DESC").First(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "load snapshot run")
		}
		totals.RunID = latest.RunID
		totals.GeneratedAt = &latest.GeneratedAt
	}
	return totals, nil
}
