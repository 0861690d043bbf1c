package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"canal-denuncies/models"
	"canal-denuncies/store"
	"canal-denuncies/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(id string, created time.Time) models.Report {
	return models.Report{ID: id, CreatedAt: created, Status: models.StatusPending}
}

func ids(reports []models.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func newStore(remote *storetest.Remote) (*store.Store, *[]string) {
	var stale []string
	s := store.New(remote, store.NewMemorySnapshot(),
		store.WithTimeout(time.Second),
		store.WithStaleHook(func(op string) { stale = append(stale, op) }),
	)
	return s, &stale
}

func TestFetchAllNewestFirstAndCached(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	remote := storetest.NewRemote(
		report("OLD", base),
		report("NEW", base.Add(2*time.Hour)),
		report("MID", base.Add(time.Hour)),
	)
	s, stale := newStore(remote)
	ctx := context.Background()

	reports, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW", "MID", "OLD"}, ids(reports))

	remote.SetFailReads(true)
	reports, err = s.FetchAll(ctx)
	assert.ErrorIs(t, err, store.ErrStale)
	assert.Equal(t, []string{"NEW", "MID", "OLD"}, ids(reports))
	assert.Equal(t, []string{"fetch_all"}, *stale)
}

func TestFetchAllWithoutCacheReturnsEmpty(t *testing.T) {
	remote := storetest.NewRemote()
	remote.SetFailReads(true)
	s, _ := newStore(remote)

	reports, err := s.FetchAll(context.Background())
	assert.ErrorIs(t, err, store.ErrStale)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestFetchByID(t *testing.T) {
	now := time.Now().UTC()
	remote := storetest.NewRemote(report("AAA", now))
	s, _ := newStore(remote)
	ctx := context.Background()

	r, err := s.FetchByID(ctx, "AAA")
	require.NoError(t, err)
	assert.Equal(t, "AAA", r.ID)

	_, err = s.FetchByID(ctx, "ZZZ")
	assert.ErrorIs(t, err, store.ErrNotFound)

	remote.SetFailReads(true)
	r, err = s.FetchByID(ctx, "AAA")
	assert.ErrorIs(t, err, store.ErrStale)
	assert.Equal(t, "AAA", r.ID)

	_, err = s.FetchByID(ctx, "ZZZ")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWritesAdvanceCacheEvenWhenRemoteFails(t *testing.T) {
	remote := storetest.NewRemote()
	s, _ := newStore(remote)
	ctx := context.Background()

	remote.SetFailWrites(true)
	err := s.Append(ctx, report("AAA", time.Now()))
	assert.ErrorIs(t, err, storetest.ErrUnavailable)
	assert.Equal(t, 0, remote.Len())

	remote.SetFailReads(true)
	reports, err := s.FetchAll(ctx)
	assert.ErrorIs(t, err, store.ErrStale)
	assert.Equal(t, []string{"AAA"}, ids(reports))
}

func TestAppendPrependsWithoutDuplicates(t *testing.T) {
	base := time.Now().UTC()
	remote := storetest.NewRemote(report("A", base))
	s, _ := newStore(remote)
	ctx := context.Background()

	_, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, report("B", base.Add(time.Minute))))
	require.NoError(t, s.Append(ctx, report("B", base.Add(time.Minute))))

	remote.SetFailReads(true)
	reports, _ := s.FetchAll(ctx)
	assert.Equal(t, []string{"B", "A"}, ids(reports))
}

func TestConcurrentAppendsDuringOutageKeepEveryReport(t *testing.T) {
	remote := storetest.NewRemote()
	remote.SetFailWrites(true)
	remote.SetFailReads(true)
	snap, err := store.NewFileSnapshot(t.TempDir())
	require.NoError(t, err)
	s := store.New(remote, snap, store.WithTimeout(time.Second))

	const n = 200
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.Error(t, s.Append(context.Background(), report(fmt.Sprintf("R%04d", i), base.Add(time.Duration(i)*time.Second))))
		}(i)
	}
	wg.Wait()

	got, err := s.FetchAll(context.Background())
	assert.ErrorIs(t, err, store.ErrStale)
	assert.Len(t, got, n)
}

func TestDeleteRemovesEverywhere(t *testing.T) {
	now := time.Now().UTC()
	remote := storetest.NewRemote(report("A", now), report("B", now.Add(-time.Minute)))
	s, _ := newStore(remote)
	ctx := context.Background()

	_, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "A"))

	reports, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, ids(reports))
	_, err = s.FetchByID(ctx, "A")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting an id that is already gone is not an error.
	assert.NoError(t, s.Delete(ctx, "A"))
}

func TestSaveAllRewritesCollection(t *testing.T) {
	now := time.Now().UTC()
	remote := storetest.NewRemote(report("A", now), report("B", now))
	s, _ := newStore(remote)
	ctx := context.Background()

	updated := report("A", now)
	updated.Status = models.StatusResolved
	require.NoError(t, s.SaveAll(ctx, []models.Report{updated}))

	stored, ok := remote.Stored("A")
	require.True(t, ok)
	assert.Equal(t, models.StatusResolved, stored.Status)
	_, ok = remote.Stored("B")
	assert.False(t, ok)
	assert.Equal(t, 1, remote.CallCount("ReplaceAll"))
}

func TestFetchSettingsDefaults(t *testing.T) {
	remote := storetest.NewRemote()
	s, _ := newStore(remote)
	ctx := context.Background()

	settings, err := s.FetchSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, settings.ID)
	assert.False(t, settings.HasPIN())

	remote.SetFailReads(true)
	settings, err = s.FetchSettings(ctx)
	assert.ErrorIs(t, err, store.ErrStale)
	assert.False(t, settings.HasPIN())
}

func TestSaveSettingsFallsBackToCache(t *testing.T) {
	remote := storetest.NewRemote()
	s, _ := newStore(remote)
	ctx := context.Background()

	require.NoError(t, s.SaveSettings(ctx, models.AppSettings{PinHash: "hash"}))
	stored, ok := remote.StoredSettings()
	require.True(t, ok)
	assert.Equal(t, models.SettingsID, stored.ID)

	remote.SetFailReads(true)
	settings, err := s.FetchSettings(ctx)
	assert.ErrorIs(t, err, store.ErrStale)
	assert.Equal(t, "hash", settings.PinHash)
}

func TestFileSnapshotRoundTrip(t *testing.T) {
	snap, err := store.NewFileSnapshot(t.TempDir())
	require.NoError(t, err)

	var missing []models.Report
	ok, err := snap.Load("reports", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, snap.Save("reports", []models.Report{report("A", time.Now())}))
	var got []models.Report
	ok, err = snap.Load("reports", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"A"}, ids(got))
}

func TestDrafts(t *testing.T) {
	d := store.NewDrafts(10, time.Hour)
	_, ok := d.Load("c1")
	assert.False(t, ok)

	d.Save("c1", models.Draft{Step: 2})
	d.Save("c1", models.Draft{Step: 3})
	got, ok := d.Load("c1")
	require.True(t, ok)
	assert.Equal(t, 3, got.Step)

	d.Clear("c1")
	_, ok = d.Load("c1")
	assert.False(t, ok)
}
