package wizard

import (
	"testing"
	"time"

	"canal-denuncies/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func newTestForm(t *testing.T, drafts *[]models.Draft) *Form {
	t.Helper()
	opts := Options{Entity: "CH Molins", Now: func() time.Time { return fixedNow }}
	if drafts != nil {
		opts.OnSaveDraft = func(d models.Draft) { *drafts = append(*drafts, d) }
	}
	return New(opts, nil)
}

func validData() models.FormData {
	d := models.NewFormData(fixedNow)
	d.Informant = models.InformantInput{Name: "Marta Puig", Email: "marta@example.com", Phone: "600123456", DNI: "12345678Z", Type: models.ReporterParent}
	d.Involved.VictimName = "Pau"
	d.Involved.VictimAge = "12"
	d.Involved.VictimCategory = "Infantil"
	d.Facts.Description = "Insults repetits al vestidor"
	d.Facts.Location = "Vestidors"
	d.Facts.ViolenceTypes = []models.ViolenceType{models.ViolencePsychological}
	return d
}

func TestStepOnePredicate(t *testing.T) {
	tests := []struct {
		name      string
		informant models.InformantInput
		anonymous bool
		valid     bool
	}{
		{"complete contact", models.InformantInput{Name: "Ana", Email: "a@b.c", Phone: "123456789"}, false, true},
		{"name too short", models.InformantInput{Name: "Al", Email: "a@b.c", Phone: "123456789"}, false, false},
		{"email without at", models.InformantInput{Name: "Ana", Email: "ab.c", Phone: "123456789"}, false, false},
		{"phone too short", models.InformantInput{Name: "Ana", Email: "a@b.c", Phone: "12345678"}, false, false},
		{"anonymous with empty fields", models.InformantInput{}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm(t, nil)
			d := f.Data()
			d.Informant = tt.informant
			f.SetData(d)
			f.SetAnonymous(tt.anonymous)
			assert.Equal(t, tt.valid, f.StepValid())
		})
	}
}

func TestAnonymityToggleDoesNotClearFields(t *testing.T) {
	f := newTestForm(t, nil)
	d := f.Data()
	d.Informant.Name = "Al"
	f.SetData(d)

	f.SetAnonymous(true)
	assert.True(t, f.StepValid())

	f.SetAnonymous(false)
	assert.False(t, f.StepValid())
	assert.Equal(t, "Al", f.Data().Informant.Name)
}

func TestStepPredicates(t *testing.T) {
	f := newTestForm(t, nil)
	f.SetData(validData())

	for step := StepInformant; step < StepConsent; step++ {
		require.True(t, f.StepValid(), "step %d", step)
		outcome, _, err := f.Next()
		require.NoError(t, err)
		require.Equal(t, Advanced, outcome)
	}
	assert.Equal(t, StepConsent, f.Step())
	assert.False(t, f.StepValid())
	assert.Equal(t, []string{"gdprAccepted"}, f.MissingFields())
}

func TestStepPredicatesCountCharacters(t *testing.T) {
	tests := []struct {
		name    string
		step    int
		mutate  func(*models.FormData)
		missing []string
	}{
		{"two accented letters", StepInformant, func(d *models.FormData) { d.Informant.Name = "Àn" }, []string{"informant.name"}},
		{"three accented letters", StepInformant, func(d *models.FormData) { d.Informant.Name = "Àna" }, nil},
		{"short victim name", StepPeople, func(d *models.FormData) { d.Involved.VictimName = "Èl" }, []string{"involved.victimName"}},
		{"five accented vowels", StepFacts, func(d *models.FormData) { d.Facts.Description = "àèìòú" }, []string{"facts.description"}},
		{"six accented vowels", StepFacts, func(d *models.FormData) { d.Facts.Description = "àèìòúï" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validData()
			tt.mutate(&d)
			f := New(Options{Now: func() time.Time { return fixedNow }}, &models.Draft{FormData: d, Step: tt.step})
			assert.Equal(t, tt.missing, f.MissingFields())
			assert.Equal(t, tt.missing == nil, f.StepValid())
		})
	}
}

func TestFactsStepNeedsViolenceType(t *testing.T) {
	f := New(Options{Now: func() time.Time { return fixedNow }}, &models.Draft{FormData: validData(), Step: StepFacts})
	require.True(t, f.StepValid())

	f.ToggleViolenceType(models.ViolencePsychological)
	assert.False(t, f.StepValid())
	assert.Contains(t, f.MissingFields(), "facts.violenceTypes")

	f.ToggleViolenceType(models.ViolenceCyber)
	assert.True(t, f.StepValid())
}

func TestFactsDescriptionIsTrimmed(t *testing.T) {
	d := validData()
	d.Facts.Description = "   hola   "
	f := New(Options{}, &models.Draft{FormData: d, Step: StepFacts})
	assert.Equal(t, []string{"facts.description"}, f.MissingFields())
}

func TestNextOnInvalidStepShowsErrors(t *testing.T) {
	f := newTestForm(t, nil)

	outcome, report, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, Blocked, outcome)
	assert.Nil(t, report)
	assert.True(t, f.ShowErrors())
	assert.Equal(t, StepInformant, f.Step())

	f.SetData(validData())
	outcome, _, err = f.Next()
	require.NoError(t, err)
	assert.Equal(t, Advanced, outcome)
	assert.False(t, f.ShowErrors())
}

func TestNextRefusedWhileUploading(t *testing.T) {
	f := New(Options{}, &models.Draft{FormData: validData(), Step: StepEvidence})
	f.BeginUpload()

	_, _, err := f.Next()
	assert.ErrorIs(t, err, ErrUploading)
	assert.Equal(t, StepEvidence, f.Step())

	f.EndUpload([]string{"data:image/png;base64,AAAA"})
	outcome, _, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, Advanced, outcome)
	assert.Equal(t, []string{"data:image/png;base64,AAAA"}, f.Data().Attachments)
}

func TestBackOnFirstStepMeansCancel(t *testing.T) {
	f := New(Options{}, &models.Draft{FormData: validData(), Step: StepPeople})
	assert.True(t, f.Back())
	assert.Equal(t, StepInformant, f.Step())
	assert.False(t, f.Back())
}

func TestSubmitBuildsReport(t *testing.T) {
	var submitted []models.Report
	f := New(Options{
		Entity:   "CH Molins",
		Now:      func() time.Time { return fixedNow },
		OnSubmit: func(r models.Report) { submitted = append(submitted, r) },
	}, &models.Draft{FormData: validData(), Step: StepConsent})
	f.SetConsent(true)

	outcome, report, err := f.Next()
	require.NoError(t, err)
	require.Equal(t, Submitted, outcome)
	require.NotNil(t, report)
	require.Len(t, submitted, 1)

	assert.Len(t, report.ID, models.CodeLength)
	assert.Equal(t, fixedNow, report.CreatedAt)
	assert.Equal(t, models.StatusPending, report.Status)
	assert.True(t, report.GDPRAccepted)
	assert.Equal(t, "CH Molins", report.Victim.Entity)
	assert.Equal(t, []models.ViolenceType{models.ViolencePsychological}, report.Facts.ViolenceType)
	assert.Equal(t, "Marta Puig", report.Informant.Name)
	assert.True(t, f.Submitted())
}

func TestSubmitAnonymousBlanksContact(t *testing.T) {
	f := New(Options{}, &models.Draft{FormData: validData(), Step: StepConsent, IsAnonymous: true, GDPRAccepted: true})

	_, report, err := f.Next()
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.Informant.IsAnonymous)
	assert.Empty(t, report.Informant.Name)
	assert.Empty(t, report.Informant.DNI)
	assert.Empty(t, report.Informant.Email)
	assert.Empty(t, report.Informant.Phone)
	assert.Equal(t, models.ReporterParent, report.Informant.Type)
}

func TestAutosave(t *testing.T) {
	var drafts []models.Draft
	f := newTestForm(t, &drafts)

	f.SetData(f.Data())
	assert.Empty(t, drafts, "empty form is not saved")

	d := f.Data()
	d.Informant.Name = "M"
	f.SetData(d)
	require.Len(t, drafts, 1)
	assert.Equal(t, "M", drafts[0].FormData.Informant.Name)
	assert.Equal(t, StepInformant, drafts[0].Step)

	f.SetAnonymous(true)
	_, _, err := f.Next()
	require.NoError(t, err)
	last := drafts[len(drafts)-1]
	assert.Equal(t, StepPeople, last.Step)
	assert.True(t, last.IsAnonymous)
	assert.Equal(t, fixedNow, last.SavedAt)
}

func TestResumeFromDraftClampsStep(t *testing.T) {
	f := New(Options{}, &models.Draft{FormData: validData(), Step: 9})
	assert.Equal(t, LastStep, f.Step())

	f = New(Options{}, &models.Draft{FormData: validData(), Step: 0})
	assert.Equal(t, StepInformant, f.Step())
}

func TestRemoveAttachment(t *testing.T) {
	d := validData()
	d.Attachments = []string{"a", "b", "c"}
	f := New(Options{}, &models.Draft{FormData: d, Step: StepEvidence})

	require.NoError(t, f.RemoveAttachment(1))
	assert.Equal(t, []string{"a", "c"}, f.Data().Attachments)
	assert.ErrorIs(t, f.RemoveAttachment(5), ErrAttachmentIndex)
}

func TestSetDataKeepsAttachments(t *testing.T) {
	d := validData()
	d.Attachments = []string{"a"}
	f := New(Options{}, &models.Draft{FormData: d, Step: StepEvidence})

	update := validData()
	update.Attachments = nil
	update.Facts.Witnesses = "Joan"
	f.SetData(update)

	assert.Equal(t, []string{"a"}, f.Data().Attachments)
	assert.Equal(t, "Joan", f.Data().Facts.Witnesses)
}
