package tracking_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"canal-denuncies/models"
	"canal-denuncies/store"
	"canal-denuncies/store/storetest"
	"canal-denuncies/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUnknownCode(t *testing.T) {
	s := store.New(storetest.NewRemote(), store.NewMemorySnapshot())
	_, err := tracking.Lookup(context.Background(), s, "NOPE000000")
	assert.ErrorIs(t, err, tracking.ErrNotFound)

	_, err = tracking.Lookup(context.Background(), s, "   ")
	assert.ErrorIs(t, err, tracking.ErrNotFound)
}

func TestLookupSummary(t *testing.T) {
	r := models.Report{
		ID:           "ABCDE12345",
		CreatedAt:    time.Now().UTC(),
		Status:       models.StatusInProgress,
		Victim:       models.Victim{Name: "Pau", Category: "Infantil"},
		Facts:        models.Facts{Description: strings.Repeat("à", 200), ViolenceType: []models.ViolenceType{models.ViolenceCyber}},
		Observations: "En revisió",
		Informant:    models.Informant{Name: "Marta", Email: "m@example.com"},
	}
	s := store.New(storetest.NewRemote(r), store.NewMemorySnapshot())

	sum, err := tracking.Lookup(context.Background(), s, " abcde12345 ")
	require.NoError(t, err)
	assert.Equal(t, "ABCDE12345", sum.ID)
	assert.Equal(t, models.StatusInProgress, sum.Status)
	assert.Equal(t, "Infantil", sum.Category)
	assert.Equal(t, []models.ViolenceType{models.ViolenceCyber}, sum.ViolenceTypes)
	assert.Equal(t, "En revisió", sum.Observations)
	assert.Equal(t, strings.Repeat("à", 160)+"…", sum.Description)
	assert.False(t, sum.Stale)
}

func TestLookupReflectsStatusChange(t *testing.T) {
	r := models.Report{ID: "ABCDE12345", CreatedAt: time.Now().UTC(), Status: models.StatusPending}
	s := store.New(storetest.NewRemote(r), store.NewMemorySnapshot())
	ctx := context.Background()

	r.Status = models.StatusResolved
	require.NoError(t, s.SaveAll(ctx, []models.Report{r}))

	sum, err := tracking.Lookup(ctx, s, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, sum.Status)
}

func TestLookupStaleAndOffline(t *testing.T) {
	r := models.Report{ID: "ABCDE12345", CreatedAt: time.Now().UTC(), Status: models.StatusPending}
	remote := storetest.NewRemote(r)
	s := store.New(remote, store.NewMemorySnapshot())
	ctx := context.Background()

	_, err := s.FetchAll(ctx)
	require.NoError(t, err)
	remote.SetFailReads(true)

	sum, err := tracking.Lookup(ctx, s, r.ID)
	require.NoError(t, err)
	assert.True(t, sum.Stale)

	_, err = tracking.Lookup(ctx, s, "OTHER00000")
	assert.ErrorIs(t, err, tracking.ErrNotFound)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", tracking.Truncate("abc", 3))
	assert.Equal(t, "ab…", tracking.Truncate("abc", 2))
}
