// Package wizard implements the five-step report form: per-step validation,
// attachment handling, draft autosave and construction of the final Report.
//
// A Form is not safe for concurrent use; the owning session serializes access.
package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"canal-denuncies/models"
)

const (
	StepInformant = 1
	StepPeople    = 2
	StepFacts     = 3
	StepEvidence  = 4
	StepConsent   = 5
	LastStep      = StepConsent
)

var (
	ErrUploading       = errors.New("wizard: attachments are still being processed")
	ErrAttachmentIndex = errors.New("wizard: attachment index out of range")
)

type Options struct {
	// Entity is written into every report's victim.entity.
	Entity string
	Now    func() time.Time
	// OnSaveDraft receives the form state after every change once there is input.
	OnSaveDraft func(models.Draft)
	// OnSubmit receives the finished report. It runs synchronously inside Next.
	OnSubmit func(models.Report)
}

type Form struct {
	opts       Options
	data       models.FormData
	step       int
	anonymous  bool
	consent    bool
	showErrors bool
	uploading  int
	submitted  bool
}

// New starts a form, resuming from draft when one is given.
func New(opts Options, draft *models.Draft) *Form {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	f := &Form{opts: opts, step: StepInformant, data: models.NewFormData(opts.Now())}
	if draft != nil {
		f.data = cloneData(draft.FormData)
		f.step = clampStep(draft.Step)
		f.anonymous = draft.IsAnonymous
		f.consent = draft.GDPRAccepted
	}
	return f
}

func clampStep(step int) int {
	switch {
	case step < StepInformant:
		return StepInformant
	case step > LastStep:
		return LastStep
	}
	return step
}

func (f *Form) Step() int { return f.step }
func (f *Form) Anonymous() bool { return f.anonymous }
func (f *Form) Consent() bool { return f.consent }
func (f *Form) ShowErrors() bool { return f.showErrors }
func (f *Form) Uploading() bool { return f.uploading > 0 }
func (f *Form) Submitted() bool { return f.submitted }
func (f *Form) Data() models.FormData { return cloneData(f.data) }

// SetData replaces the field values. Attachments are owned by the form and kept.
func (f *Form) SetData(d models.FormData) {
	attachments := f.data.Attachments
	f.data = cloneData(d)
	f.data.Attachments = attachments
	if f.data.Facts.ViolenceTypes == nil {
		f.data.Facts.ViolenceTypes = []models.ViolenceType{}
	}
	f.changed()
}

func (f *Form) SetAnonymous(v bool) {
	f.anonymous = v
	f.changed()
}

func (f *Form) SetConsent(v bool) {
	f.consent = v
	f.changed()
}

// ToggleViolenceType adds the type when absent and removes it when present.
func (f *Form) ToggleViolenceType(t models.ViolenceType) {
	types := f.data.Facts.ViolenceTypes
	for i, v := range types {
		if v == t {
			f.data.Facts.ViolenceTypes = append(types[:i:i], types[i+1:]...)
			f.changed()
			return
		}
	}
	f.data.Facts.ViolenceTypes = append(types, t)
	f.changed()
}

// StepValid reports whether the current step allows moving forward.
func (f *Form) StepValid() bool {
	return len(f.MissingFields()) == 0
}

// MissingFields lists the field keys of the current step that block progress.
// Lengths are counted in characters, not bytes.
func (f *Form) MissingFields() []string {
	var missing []string
	d := f.data
	switch f.step {
	case StepInformant:
		if f.anonymous {
			return nil
		}
		if utf8.RuneCountInString(d.Informant.Name) <= 2 {
			missing = append(missing, "informant.name")
		}
		if !strings.Contains(d.Informant.Email, "@") {
			missing = append(missing, "informant.email")
		}
		if utf8.RuneCountInString(d.Informant.Phone) < 9 {
			missing = append(missing, "informant.phone")
		}
	case StepPeople:
		if utf8.RuneCountInString(d.Involved.VictimName) <= 2 {
			missing = append(missing, "involved.victimName")
		}
		if d.Involved.VictimCategory == "" {
			missing = append(missing, "involved.victimCategory")
		}
		if d.Involved.VictimAge == "" {
			missing = append(missing, "involved.victimAge")
		}
	case StepFacts:
		if utf8.RuneCountInString(strings.TrimSpace(d.Facts.Description)) <= 5 {
			missing = append(missing, "facts.description")
		}
		if d.Facts.Location == "" {
			missing = append(missing, "facts.location")
		}
		if len(d.Facts.ViolenceTypes) == 0 {
			missing = append(missing, "facts.violenceTypes")
		}
	case StepConsent:
		if !f.consent {
			missing = append(missing, "gdprAccepted")
		}
	}
	return missing
}

type Outcome int

const (
	// Blocked means the step is invalid; ShowErrors is now set.
	Blocked Outcome = iota
	Advanced
	Submitted
)

// Next moves one step forward, or builds and submits the report on the last step.
// While attachments are being processed it refuses with ErrUploading.
func (f *Form) Next() (Outcome, *models.Report, error) {
	if f.Uploading() {
		return Blocked, nil, ErrUploading
	}
	if !f.StepValid() {
		f.showErrors = true
		return Blocked, nil, nil
	}
	f.showErrors = false

	if f.step < LastStep {
		f.step++
		f.changed()
		return Advanced, nil, nil
	}

	report := f.Build()
	f.submitted = true
	if f.opts.OnSubmit != nil {
		f.opts.OnSubmit(report)
	}
	return Submitted, &report, nil
}

// Back moves one step backward. It returns false on the first step, meaning the
// caller should treat it as a cancel.
func (f *Form) Back() bool {
	if f.step == StepInformant {
		return false
	}
	f.step--
	f.changed()
	return true
}

// Build assembles the report from the current form state.
func (f *Form) Build() models.Report {
	d := cloneData(f.data)

	informant := models.Informant{
		Name:        d.Informant.Name,
		DNI:         d.Informant.DNI,
		Email:       d.Informant.Email,
		Phone:       d.Informant.Phone,
		Type:        d.Informant.Type,
		IsAnonymous: f.anonymous,
	}
	if f.anonymous {
		informant.Name, informant.DNI, informant.Email, informant.Phone = "", "", "", ""
	}

	return models.Report{
		ID:        models.NewTrackingCode(),
		CreatedAt: f.opts.Now().UTC(),
		Informant: informant,
		Victim: models.Victim{
			Name:     d.Involved.VictimName,
			Age:      d.Involved.VictimAge,
			Gender:   d.Involved.VictimGender,
			Category: d.Involved.VictimCategory,
			Entity:   f.opts.Entity,
		},
		Involved: models.Involved{
			AccusedName:     d.Involved.AccusedName,
			AccusedRelation: d.Involved.AccusedRelation,
		},
		Facts: models.Facts{
			Date:            d.Facts.Date,
			Time:            d.Facts.Time,
			Location:        d.Facts.Location,
			ViolenceType:    d.Facts.ViolenceTypes,
			Description:     d.Facts.Description,
			Witnesses:       d.Facts.Witnesses,
			IsRecurring:     d.Facts.IsRecurring,
			IsKnownByOthers: d.Facts.IsKnownByOthers,
		},
		Attachments:    d.Attachments,
		Status:         models.StatusPending,
		GDPRAccepted:   true,
		RequestMeeting: d.RequestMeeting,
	}
}

// BeginUpload marks an attachment batch as in progress.
func (f *Form) BeginUpload() {
	f.uploading++
}

// EndUpload closes a batch started with BeginUpload and appends its encoded files.
func (f *Form) EndUpload(encoded []string) {
	if f.uploading > 0 {
		f.uploading--
	}
	if len(encoded) == 0 {
		return
	}
	f.data.Attachments = append(f.data.Attachments, encoded...)
	f.changed()
}

func (f *Form) RemoveAttachment(index int) error {
	if index < 0 || index >= len(f.data.Attachments) {
		return fmt.Errorf("%w: %d", ErrAttachmentIndex, index)
	}
	a := f.data.Attachments
	f.data.Attachments = append(a[:index:index], a[index+1:]...)
	f.changed()
	return nil
}

// HasInput reports whether the user has started filling the form.
func (f *Form) HasInput() bool {
	d := f.data
	return f.step > StepInformant ||
		f.anonymous ||
		d.Informant.Name != "" ||
		d.Involved.VictimName != "" ||
		d.Facts.Description != ""
}

// Draft snapshots the current state.
func (f *Form) Draft() models.Draft {
	return models.Draft{
		FormData:     cloneData(f.data),
		Step:         f.step,
		IsAnonymous:  f.anonymous,
		GDPRAccepted: f.consent,
		SavedAt:      f.opts.Now().UTC(),
	}
}

func (f *Form) changed() {
	if f.submitted || f.opts.OnSaveDraft == nil || !f.HasInput() {
		return
	}
	f.opts.OnSaveDraft(f.Draft())
}

func cloneData(d models.FormData) models.FormData {
	out := d
	out.Facts.ViolenceTypes = append([]models.ViolenceType{}, d.Facts.ViolenceTypes...)
	out.Attachments = append([]string{}, d.Attachments...)
	return out
}
