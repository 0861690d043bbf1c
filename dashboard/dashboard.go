// Package dashboard holds an admin's working copy of the report collection and the
// triage operations on it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canal-denuncies/models"
)

var (
	ErrNotFound        = errors.New("dashboard: report not found")
	ErrInvalidStatus   = errors.New("dashboard: unknown status")
	ErrNoPendingDelete = errors.New("dashboard: delete was not requested for this report")
)

// Persister is the subset of the store the dashboard writes through.
type Persister interface {
	SaveAll(ctx context.Context, reports []models.Report) error
	Delete(ctx context.Context, id string) error
}

type Stats struct {
	Total    int                   `json:"total"`
	ByStatus map[models.Status]int `json:"byStatus"`
}

// Dashboard is not safe for concurrent use.
type Dashboard struct {
	store         Persister
	reports       []models.Report
	selected      string
	pendingDelete string
}

func New(store Persister, reports []models.Report) *Dashboard {
	d := &Dashboard{store: store}
	d.Replace(reports)
	return d
}

// Replace swaps the working copy, e.g. after a resync. The selection survives when
// the selected report is still present.
func (d *Dashboard) Replace(reports []models.Report) {
	d.reports = append([]models.Report{}, reports...)
	if _, ok := d.find(d.selected); !ok {
		d.selected = ""
	}
	if _, ok := d.find(d.pendingDelete); !ok {
		d.pendingDelete = ""
	}
}

func (d *Dashboard) Reports() []models.Report {
	return append([]models.Report{}, d.reports...)
}

func (d *Dashboard) Stats() Stats {
	s := Stats{Total: len(d.reports), ByStatus: make(map[models.Status]int, len(models.Statuses))}
	for _, st := range models.Statuses {
		s.ByStatus[st] = 0
	}
	for _, r := range d.reports {
		s.ByStatus[r.Status]++
	}
	return s
}

// List returns the reports in stored order. A non-empty query keeps the reports whose
// code, victim name, category or location contain it, ignoring case.
func (d *Dashboard) List(query string) []models.Report {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Report, 0, len(d.reports))
	for _, r := range d.reports {
		if q == "" || matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Report, q string) bool {
	for _, field := range []string{r.ID, r.Victim.Name, r.Victim.Category, r.Facts.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (d *Dashboard) Select(id string) (models.Report, error) {
	r, ok := d.find(id)
	if !ok {
		return models.Report{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.selected = id
	return r, nil
}

func (d *Dashboard) Selected() (models.Report, bool) {
	if d.selected == "" {
		return models.Report{}, false
	}
	return d.find(d.selected)
}

func (d *Dashboard) CloseDetail() {
	d.selected = ""
	d.pendingDelete = ""
}

// ChangeStatus updates the status locally and rewrites the collection. The local
// change is kept even when the remote write fails.
func (d *Dashboard) ChangeStatus(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return d.update(ctx, id, func(r *models.Report) { r.Status = status })
}

// SaveObservations stores the admin notes shown to the informant by tracking.
func (d *Dashboard) SaveObservations(ctx context.Context, id, text string) error {
	return d.update(ctx, id, func(r *models.Report) { r.Observations = text })
}

func (d *Dashboard) update(ctx context.Context, id string, fn func(*models.Report)) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fn(&d.reports[i])
	if err := d.store.SaveAll(ctx, d.Reports()); err != nil {
		return fmt.Errorf("persist %s: %w", id, err)
	}
	return nil
}

// RequestDelete is the first half of the two-step delete.
func (d *Dashboard) RequestDelete(id string) error {
	if d.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.pendingDelete = id
	return nil
}

func (d *Dashboard) PendingDelete() string {
	return d.pendingDelete
}

// ConfirmDelete deletes the report requested with RequestDelete. The local copy is
// dropped only after the store accepted the delete.
func (d *Dashboard) ConfirmDelete(ctx context.Context, id string) error {
	if id == "" || d.pendingDelete != id {
		return ErrNoPendingDelete
	}
	if err := d.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	d.pendingDelete = ""
	if i := d.index(id); i >= 0 {
		d.reports = append(d.reports[:i:i], d.reports[i+1:]...)
	}
	if d.selected == id {
		d.selected = ""
	}
	return nil
}

func (d *Dashboard) index(id string) int {
	for i := range d.reports {
		if d.reports[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Dashboard) find(id string) (models.Report, bool) {
	if i := d.index(id); i >= 0 {
		return d.reports[i], true
	}
	return models.Report{}, false
}
