package dashboard

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"canal-denuncies/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	saved   [][]models.Report
	deleted []string
	err     error
}

func (f *fakeStore) SaveAll(_ context.Context, reports []models.Report) error {
	f.saved = append(f.saved, reports)
	return f.err
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func fixtures() []models.Report {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return []models.Report{
		{ID: "AAA", CreatedAt: now, Status: models.StatusUrgent, Victim: models.Victim{Name: "Pau", Category: "Infantil"}, Facts: models.Facts{Location: "Pista 1", Description: "a"}},
		{ID: "BBB", CreatedAt: now.Add(-time.Hour), Status: models.StatusPending, Victim: models.Victim{Name: "Laia", Category: "Cadet"}, Facts: models.Facts{Location: "Vestidors", Description: "b"}},
		{ID: "CCC", CreatedAt: now.Add(-2 * time.Hour), Status: models.StatusPending, Victim: models.Victim{Name: "Nil", Category: "Juvenil"}, Facts: models.Facts{Location: "Autocar", Description: "c"}},
	}
}

func TestStats(t *testing.T) {
	d := New(&fakeStore{}, fixtures())
	s := d.Stats()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByStatus[models.StatusPending])
	assert.Equal(t, 1, s.ByStatus[models.StatusUrgent])
	assert.Equal(t, 0, s.ByStatus[models.StatusResolved])
	assert.Len(t, s.ByStatus, len(models.Statuses))
}

func TestList(t *testing.T) {
	d := New(&fakeStore{}, fixtures())

	all := d.List("")
	require.Len(t, all, 3)
	assert.Equal(t, "AAA", all[0].ID)

	assert.Len(t, d.List("vestidors"), 1)
	assert.Len(t, d.List("laia"), 1)
	assert.Len(t, d.List("ccc"), 1)
	assert.Len(t, d.List("infantil"), 1)
	assert.Empty(t, d.List("zzz"))
}

func TestChangeStatusTouchesOnlyStatus(t *testing.T) {
	st := &fakeStore{}
	d := New(st, fixtures())
	before, err := d.Select("BBB")
	require.NoError(t, err)

	require.NoError(t, d.ChangeStatus(context.Background(), "BBB", models.StatusInProgress))

	after, err := d.Select("BBB")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, after.Status)
	after.Status = before.Status
	assert.Equal(t, before, after)

	require.Len(t, st.saved, 1)
	assert.Len(t, st.saved[0], 3, "whole collection is rewritten")
}

func TestChangeStatusRemoteFailureKeepsLocal(t *testing.T) {
	st := &fakeStore{err: errors.New("offline")}
	d := New(st, fixtures())

	err := d.ChangeStatus(context.Background(), "AAA", models.StatusResolved)
	assert.Error(t, err)
	r, _ := d.Select("AAA")
	assert.Equal(t, models.StatusResolved, r.Status)
}

func TestChangeStatusValidation(t *testing.T) {
	st := &fakeStore{}
	d := New(st, fixtures())
	assert.ErrorIs(t, d.ChangeStatus(context.Background(), "AAA", "Arxivat"), ErrInvalidStatus)
	assert.ErrorIs(t, d.ChangeStatus(context.Background(), "ZZZ", models.StatusResolved), ErrNotFound)
	assert.Empty(t, st.saved)
}

func TestSaveObservations(t *testing.T) {
	st := &fakeStore{}
	d := New(st, fixtures())

	require.NoError(t, d.SaveObservations(context.Background(), "CCC", "Parlat amb la família"))
	r, _ := d.Select("CCC")
	assert.Equal(t, "Parlat amb la família", r.Observations)
	assert.Equal(t, models.StatusPending, r.Status)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	st := &fakeStore{}
	d := New(st, fixtures())
	ctx := context.Background()

	assert.ErrorIs(t, d.ConfirmDelete(ctx, "AAA"), ErrNoPendingDelete)
	assert.Empty(t, st.deleted)

	require.NoError(t, d.RequestDelete("AAA"))
	assert.ErrorIs(t, d.ConfirmDelete(ctx, "BBB"), ErrNoPendingDelete)
	require.NoError(t, d.ConfirmDelete(ctx, "AAA"))

	assert.Equal(t, []string{"AAA"}, st.deleted)
	assert.Len(t, d.Reports(), 2)
	_, err := d.Select("AAA")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, d.PendingDelete())
}

func TestDeleteFailureKeepsLocal(t *testing.T) {
	st := &fakeStore{err: errors.New("offline")}
	d := New(st, fixtures())

	require.NoError(t, d.RequestDelete("AAA"))
	assert.Error(t, d.ConfirmDelete(context.Background(), "AAA"))
	assert.Len(t, d.Reports(), 3)
}

func TestReplaceKeepsSelection(t *testing.T) {
	d := New(&fakeStore{}, fixtures())
	_, err := d.Select("BBB")
	require.NoError(t, err)

	d.Replace(fixtures()[:2])
	r, ok := d.Selected()
	require.True(t, ok)
	assert.Equal(t, "BBB", r.ID)

	d.Replace(fixtures()[:1])
	_, ok = d.Selected()
	assert.False(t, ok)
}

func TestPrint(t *testing.T) {
	reports := fixtures()
	reports[0].Informant = models.Informant{IsAnonymous: true}
	reports[0].Facts.Description = "<script>alert(1)</script>"
	d := New(&fakeStore{}, reports)

	var buf bytes.Buffer
	require.NoError(t, d.Print(&buf, "AAA", time.UTC))
	html := buf.String()
	assert.Contains(t, html, "Detall Expedient #AAA")
	assert.Contains(t, html, "USUARI ANÒNIM")
	assert.Contains(t, html, "No identificat")
	assert.Contains(t, html, "01/02/2026 09:00")
	assert.NotContains(t, html, "<script>alert(1)</script>")

	assert.ErrorIs(t, d.Print(&buf, "ZZZ", nil), ErrNotFound)
}
