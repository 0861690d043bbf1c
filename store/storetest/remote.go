// Package storetest provides an in-memory store.Remote for tests.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"canal-denuncies/models"
	"canal-denuncies/store"
)

var ErrUnavailable = errors.New("storetest: remote unavailable")

type Remote struct {
	mu       sync.Mutex
	reports  map[string]models.Report
	settings *models.AppSettings

	// FailReads and FailWrites make the matching calls return ErrUnavailable.
	FailReads  bool
	FailWrites bool

	Calls map[string]int

	gate <-chan struct{}
}

func NewRemote(reports ...models.Report) *Remote {
	r := &Remote{reports: make(map[string]models.Report), Calls: make(map[string]int)}
	for _, rep := range reports {
		r.reports[rep.ID] = rep
	}
	return r
}

func (r *Remote) SetFailReads(v bool) {
	r.mu.Lock()
	r.FailReads = v
	r.mu.Unlock()
}

func (r *Remote) SetFailWrites(v bool) {
	r.mu.Lock()
	r.FailWrites = v
	r.mu.Unlock()
}

// SetFindAllGate makes FindAll wait until gate is closed. Nil removes the gate.
func (r *Remote) SetFindAllGate(gate <-chan struct{}) {
	r.mu.Lock()
	r.gate = gate
	r.mu.Unlock()
}

func (r *Remote) CallCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Calls[name]
}

// Stored returns the current remote copy of a report.
func (r *Remote) Stored(id string) (models.Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	return rep, ok
}

func (r *Remote) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func (r *Remote) StoredSettings() (models.AppSettings, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return models.AppSettings{}, false
	}
	return *r.settings, true
}

func (r *Remote) FindAll(ctx context.Context) ([]models.Report, error) {
	r.mu.Lock()
	r.Calls["FindAll"]++
	gate := r.gate
	r.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads {
		return nil, ErrUnavailable
	}
	out := make([]models.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Remote) FindByID(ctx context.Context, id string) (models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindByID"]++
	if r.FailReads {
		return models.Report{}, ErrUnavailable
	}
	rep, ok := r.reports[id]
	if !ok {
		return models.Report{}, store.ErrNotFound
	}
	return rep, nil
}

func (r *Remote) ReplaceAll(ctx context.Context, reports []models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["ReplaceAll"]++
	if r.FailWrites {
		return ErrUnavailable
	}
	r.reports = make(map[string]models.Report, len(reports))
	for _, rep := range reports {
		r.reports[rep.ID] = rep
	}
	return nil
}

func (r *Remote) Insert(ctx context.Context, report models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Insert"]++
	if r.FailWrites {
		return ErrUnavailable
	}
	r.reports[report.ID] = report
	return nil
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Delete"]++
	if r.FailWrites {
		return ErrUnavailable
	}
	delete(r.reports, id)
	return nil
}

func (r *Remote) FindSettings(ctx context.Context) (models.AppSettings, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["FindSettings"]++
	if r.FailReads {
		return models.AppSettings{}, false, ErrUnavailable
	}
	if r.settings == nil {
		return models.AppSettings{}, false, nil
	}
	return *r.settings, true, nil
}

func (r *Remote) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["SaveSettings"]++
	if r.FailWrites {
		return ErrUnavailable
	}
	r.settings = &settings
	return nil
}

var _ store.Remote = (*Remote)(nil)
