// Package tracking lets an informant look up the public summary of a report by
// its tracking code.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canal-denuncies/models"
	"canal-denuncies/store"
)

const descriptionLimit = 160

var ErrNotFound = errors.New("tracking: no report with this code")

type Finder interface {
	FetchByID(ctx context.Context, id string) (models.Report, error)
}

// Summary is the only part of a report shown to the public.
type Summary struct {
	ID            string                `json:"id"`
	CreatedAt     time.Time             `json:"createdAt"`
	Status        models.Status         `json:"status"`
	Category      string                `json:"category"`
	ViolenceTypes []models.ViolenceType `json:"violenceTypes"`
	Description   string                `json:"description"`
	Observations  string                `json:"observations,omitempty"`
	// Stale is set when the summary came from the local cache.
	Stale bool `json:"stale,omitempty"`
}

// Lookup normalizes the code and fetches the report. A remote failure with no
// cached copy is reported as ErrNotFound, like the empty result.
func Lookup(ctx context.Context, f Finder, code string) (Summary, error) {
	code = models.NormalizeCode(code)
	if code == "" {
		return Summary{}, ErrNotFound
	}

	r, err := f.FetchByID(ctx, code)
	stale := errors.Is(err, store.ErrStale)
	if err != nil && !stale {
		if errors.Is(err, store.ErrNotFound) {
			return Summary{}, ErrNotFound
		}
		return Summary{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	types := r.Facts.ViolenceType
	if types == nil {
		types = []models.ViolenceType{}
	}
	return Summary{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		Status:        r.Status,
		Category:      r.Victim.Category,
		ViolenceTypes: types,
		Description:   Truncate(r.Facts.Description, descriptionLimit),
		Observations:  r.Observations,
		Stale:         stale,
	}, nil
}

// Truncate cuts s to n runes and appends an ellipsis when anything was dropped.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
